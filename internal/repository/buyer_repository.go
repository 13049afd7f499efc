package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// BuyerUpdate carries a full overwrite of the buyer's fields.
// A nil PasswordHash leaves the stored hash untouched.
type BuyerUpdate struct {
	Name         string
	Email        string
	PasswordHash *string
}

// BuyerRepository defines persistence access for the buyer identity space.
type BuyerRepository interface {
	Create(ctx context.Context, buyer *domain.Buyer) error
	GetByID(ctx context.Context, id string) (*domain.Buyer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, id string, upd BuyerUpdate) (*domain.Buyer, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type buyerRepository struct {
	db DBTX
}

// NewBuyerRepository returns a Postgres-backed implementation.
func NewBuyerRepository(db DBTX) BuyerRepository {
	return &buyerRepository{db: db}
}

func (r *buyerRepository) Create(ctx context.Context, buyer *domain.Buyer) error {
	const query = `
        INSERT INTO buyers (id, name, email, password_hash, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at, updated_at`

	if buyer.ID == "" {
		buyer.ID = uuid.NewString()
	}
	buyer.Role = domain.RoleBuyer

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query,
			buyer.ID,
			buyer.Name,
			buyer.Email,
			buyer.PasswordHash,
			buyer.Role,
		).Scan(&buyer.CreatedAt, &buyer.UpdatedAt); err != nil {
			return err
		}
		return claimEmail(ctx, tx, buyer.Email, string(domain.RoleBuyer), buyer.ID)
	})
}

func (r *buyerRepository) GetByID(ctx context.Context, id string) (*domain.Buyer, error) {
	const query = `
        SELECT id, name, email, password_hash, created_at, updated_at
        FROM buyers WHERE id=$1`

	buyer := domain.Buyer{Identity: domain.Identity{Role: domain.RoleBuyer}}
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&buyer.ID,
		&buyer.Name,
		&buyer.Email,
		&buyer.PasswordHash,
		&buyer.CreatedAt,
		&buyer.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (r *buyerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM buyers WHERE email=$1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *buyerRepository) Update(ctx context.Context, id string, upd BuyerUpdate) (*domain.Buyer, error) {
	const query = `
        UPDATE buyers SET name=$1, email=$2, password_hash=COALESCE($3, password_hash), updated_at=NOW()
        WHERE id=$4
        RETURNING id, name, email, password_hash, created_at, updated_at`

	buyer := domain.Buyer{Identity: domain.Identity{Role: domain.RoleBuyer}}
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query, upd.Name, upd.Email, upd.PasswordHash, id).Scan(
			&buyer.ID,
			&buyer.Name,
			&buyer.Email,
			&buyer.PasswordHash,
			&buyer.CreatedAt,
			&buyer.UpdatedAt,
		); err != nil {
			return err
		}
		return moveEmailClaim(ctx, tx, upd.Email, string(domain.RoleBuyer), id)
	})
	if err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (r *buyerRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM buyers WHERE id=$1`

	var deleted bool
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, query, id)
		if err != nil {
			return err
		}
		deleted = cmd.RowsAffected() > 0
		return releaseEmailClaim(ctx, tx, string(domain.RoleBuyer), id)
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
