package repository

import (
	"context"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// CredentialRepository looks up login credentials across both identity spaces.
type CredentialRepository interface {
	FindByEmail(ctx context.Context, email string) ([]domain.Credential, error)
}

type credentialRepository struct {
	db DBTX
}

// NewCredentialRepository returns a Postgres-backed implementation.
func NewCredentialRepository(db DBTX) CredentialRepository {
	return &credentialRepository{db: db}
}

// FindByEmail returns every account holding email. Callers expect at most one.
func (r *credentialRepository) FindByEmail(ctx context.Context, email string) ([]domain.Credential, error) {
	const query = `
        SELECT id::text, name AS display_name, email, password_hash, 'buyer' AS role FROM buyers WHERE email=$1
        UNION ALL
        SELECT id::text, fname AS display_name, email, password_hash, 'seller' AS role FROM sellers WHERE email=$1`

	rows, err := r.db.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var creds []domain.Credential
	for rows.Next() {
		var (
			cred domain.Credential
			role string
		)
		if err := rows.Scan(&cred.AccountID, &cred.DisplayName, &cred.Email, &cred.PasswordHash, &role); err != nil {
			return nil, err
		}
		cred.Role = domain.Role(role)
		creds = append(creds, cred)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return creds, nil
}
