package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nyaruka/phonenumbers"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// normalizeEmail makes address comparison case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizePhone rewrites internationally formatted numbers to E.164.
// Anything that does not parse as a valid number is kept as entered.
func normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	num, err := phonenumbers.Parse(raw, "")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// validAccountID reports whether id can name a stored account at all.
func validAccountID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func errEmailTaken() error {
	return apperrors.NewConflict("email already registered", nil)
}

// ensureEmailFree returns a conflict when email already belongs to any account.
func ensureEmailFree(ctx context.Context, resolver *IdentityResolver, email string) error {
	res, err := resolver.Resolve(ctx, email)
	if err != nil {
		return err
	}
	if res.Exists {
		return errEmailTaken()
	}
	return nil
}

// mapWriteError translates repository write failures for the given resource.
func mapWriteError(resource string, err error) error {
	switch {
	case errors.Is(err, repository.ErrEmailTaken):
		return errEmailTaken()
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFound(resource, nil)
	default:
		return apperrors.NewInternalError(err)
	}
}

func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("publish event failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
