package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// SellerUpdate carries a full overwrite of the seller's profile fields.
// A nil PasswordHash leaves the stored hash untouched; the image is never changed.
type SellerUpdate struct {
	FirstName    string
	LastName     string
	Username     string
	Email        string
	PhoneNumber  string
	DateOfBirth  string
	Gender       string
	Country      string
	Timezone     string
	Description  string
	Profile      domain.SellerProfile
	PasswordHash *string
}

// SellerRepository defines persistence access for the seller identity space.
type SellerRepository interface {
	Create(ctx context.Context, seller *domain.Seller) error
	GetByID(ctx context.Context, id string) (*domain.Seller, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, id string, upd SellerUpdate) (*domain.Seller, error)
	Delete(ctx context.Context, id string) (*SellerDeletion, error)
}

// SellerDeletion reports what a delete removed.
type SellerDeletion struct {
	Deleted  bool
	ImageKey string
}

type sellerRepository struct {
	db DBTX
}

// NewSellerRepository returns a Postgres-backed implementation.
func NewSellerRepository(db DBTX) SellerRepository {
	return &sellerRepository{db: db}
}

const sellerColumns = `id, fname, lname, uname, email, phone_number, dob, gender, password_hash,
        country, timezone, description, profile, image_url, image_key, created_at, updated_at`

func (r *sellerRepository) Create(ctx context.Context, seller *domain.Seller) error {
	const query = `
        INSERT INTO sellers (id, fname, lname, uname, email, phone_number, dob, gender, password_hash,
            country, timezone, description, profile, image_url, image_key)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        RETURNING created_at, updated_at`

	profile, err := json.Marshal(seller.Profile)
	if err != nil {
		return fmt.Errorf("encode seller profile: %w", err)
	}

	if seller.ID == "" {
		seller.ID = uuid.NewString()
	}
	seller.Role = domain.RoleSeller

	var imageURL, imageKey *string
	if seller.Image != nil {
		imageURL, imageKey = &seller.Image.URL, &seller.Image.Key
	}

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query,
			seller.ID,
			seller.FirstName,
			seller.LastName,
			seller.Username,
			seller.Email,
			seller.PhoneNumber,
			seller.DateOfBirth,
			seller.Gender,
			seller.PasswordHash,
			seller.Country,
			seller.Timezone,
			seller.Description,
			profile,
			imageURL,
			imageKey,
		).Scan(&seller.CreatedAt, &seller.UpdatedAt); err != nil {
			return err
		}
		return claimEmail(ctx, tx, seller.Email, string(domain.RoleSeller), seller.ID)
	})
}

func (r *sellerRepository) GetByID(ctx context.Context, id string) (*domain.Seller, error) {
	query := `SELECT ` + sellerColumns + ` FROM sellers WHERE id=$1`
	return scanSeller(r.db.QueryRow(ctx, query, id))
}

func (r *sellerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM sellers WHERE email=$1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *sellerRepository) Update(ctx context.Context, id string, upd SellerUpdate) (*domain.Seller, error) {
	query := `
        UPDATE sellers SET fname=$1, lname=$2, uname=$3, email=$4, phone_number=$5, dob=$6, gender=$7,
            country=$8, timezone=$9, description=$10, profile=$11,
            password_hash=COALESCE($12, password_hash), updated_at=NOW()
        WHERE id=$13
        RETURNING ` + sellerColumns

	profile, err := json.Marshal(upd.Profile)
	if err != nil {
		return nil, fmt.Errorf("encode seller profile: %w", err)
	}

	var seller *domain.Seller
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var scanErr error
		seller, scanErr = scanSeller(tx.QueryRow(ctx, query,
			upd.FirstName,
			upd.LastName,
			upd.Username,
			upd.Email,
			upd.PhoneNumber,
			upd.DateOfBirth,
			upd.Gender,
			upd.Country,
			upd.Timezone,
			upd.Description,
			profile,
			upd.PasswordHash,
			id,
		))
		if scanErr != nil {
			return scanErr
		}
		return moveEmailClaim(ctx, tx, upd.Email, string(domain.RoleSeller), id)
	})
	if err != nil {
		return nil, err
	}
	return seller, nil
}

func (r *sellerRepository) Delete(ctx context.Context, id string) (*SellerDeletion, error) {
	const query = `DELETE FROM sellers WHERE id=$1 RETURNING image_key`

	result := &SellerDeletion{}
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var imageKey *string
		switch err := tx.QueryRow(ctx, query, id).Scan(&imageKey); err {
		case nil:
			result.Deleted = true
			if imageKey != nil {
				result.ImageKey = *imageKey
			}
		case pgx.ErrNoRows:
		default:
			return err
		}
		return releaseEmailClaim(ctx, tx, string(domain.RoleSeller), id)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func scanSeller(row pgx.Row) (*domain.Seller, error) {
	seller := domain.Seller{Identity: domain.Identity{Role: domain.RoleSeller}}
	var (
		profile            []byte
		imageURL, imageKey *string
	)
	if err := row.Scan(
		&seller.ID,
		&seller.FirstName,
		&seller.LastName,
		&seller.Username,
		&seller.Email,
		&seller.PhoneNumber,
		&seller.DateOfBirth,
		&seller.Gender,
		&seller.PasswordHash,
		&seller.Country,
		&seller.Timezone,
		&seller.Description,
		&profile,
		&imageURL,
		&imageKey,
		&seller.CreatedAt,
		&seller.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &seller.Profile); err != nil {
			return nil, fmt.Errorf("decode seller profile: %w", err)
		}
	}
	if imageURL != nil && imageKey != nil {
		seller.Image = &domain.StoredImage{URL: *imageURL, Key: *imageKey}
	}
	return &seller, nil
}
