package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// ErrEmailTaken is returned when the combined-space email claim already exists.
var ErrEmailTaken = errors.New("email already registered")

// DBTX is the subset of pgx shared by *pgxpool.Pool, pgx.Tx and pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// claimEmail reserves email for the account in the cross-space registry.
func claimEmail(ctx context.Context, tx pgx.Tx, email, role, accountID string) error {
	const query = `
        INSERT INTO account_emails (email, role, account_id)
        VALUES ($1, $2, $3)`

	if _, err := tx.Exec(ctx, query, email, role, accountID); err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// moveEmailClaim points the account's registry row at a new email.
func moveEmailClaim(ctx context.Context, tx pgx.Tx, email, role, accountID string) error {
	const query = `
        UPDATE account_emails SET email=$1
        WHERE role=$2 AND account_id=$3`

	if _, err := tx.Exec(ctx, query, email, role, accountID); err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func releaseEmailClaim(ctx context.Context, tx pgx.Tx, role, accountID string) error {
	const query = `
        DELETE FROM account_emails
        WHERE role=$1 AND account_id=$2`

	_, err := tx.Exec(ctx, query, role, accountID)
	return err
}
