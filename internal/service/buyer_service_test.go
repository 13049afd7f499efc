package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

func TestBuyerService_Register(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	buyer, err := env.buyers.Register(ctx, RegisterBuyerInput{Name: "Alice", Email: " A@X.com ", Password: "pw123"})
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", buyer.Email)
	assert.NotEqual(t, "pw123", buyer.PasswordHash)
	assert.True(t, env.hasher.Verify("pw123", buyer.PasswordHash))
	assert.Equal(t, []events.EventType{events.EventAccountRegistered}, env.dispatcher.types())
}

func TestBuyerService_Register_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.sellers.Register(ctx, RegisterSellerInput{SellerFields: SellerFields{FirstName: "Sam", Email: "s@x.com"}, Password: "pw"}, nil)
	require.NoError(t, err)
	_, err = env.buyers.Register(ctx, RegisterBuyerInput{Name: "Alice", Email: "a@x.com", Password: "pw123"})
	require.NoError(t, err)

	for _, email := range []string{"a@x.com", "A@x.COM", "s@x.com"} {
		_, err := env.buyers.Register(ctx, RegisterBuyerInput{Name: "Again", Email: email, Password: "other"})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict), email)
		assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
	}
	assert.Len(t, env.db.buyers, 1)
	assert.Len(t, env.db.sellers, 1)
}

func TestBuyerService_Register_ClaimRaceIsConflict(t *testing.T) {
	env := newTestEnv(t)
	// Claim exists without a row visible to the resolver, as when a concurrent
	// registration commits between the check and the insert.
	env.db.claims["a@x.com"] = uuid.NewString()

	_, err := env.buyers.Register(context.Background(), RegisterBuyerInput{Name: "Alice", Email: "a@x.com", Password: "pw"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	assert.Empty(t, env.db.buyers)
}

func TestBuyerService_Register_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.buyers.Register(context.Background(), RegisterBuyerInput{Name: "Alice", Email: "a@x.com"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = env.buyers.Register(context.Background(), RegisterBuyerInput{Name: "Alice", Password: "pw"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.Empty(t, env.db.buyers)
}

func TestBuyerService_Register_StorageFailure(t *testing.T) {
	env := newTestEnv(t)
	env.db.failErr = errDBDown

	_, err := env.buyers.Register(context.Background(), RegisterBuyerInput{Name: "Alice", Email: "a@x.com", Password: "pw"})
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeInternal, de.Code)
	assert.Equal(t, "internal server error", de.Message)
}

func TestBuyerService_Get(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created, err := env.buyers.Register(ctx, RegisterBuyerInput{Name: "Alice", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	got, err := env.buyers.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	_, err = env.buyers.Get(ctx, uuid.NewString())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = env.buyers.Get(ctx, "not-a-uuid")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestBuyerService_Update_WithoutPasswordKeepsHash(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created, err := env.buyers.Register(ctx, RegisterBuyerInput{Name: "Alice", Email: "a@x.com", Password: "pw123"})
	require.NoError(t, err)

	updated, err := env.buyers.Update(ctx, created.ID, UpdateBuyerInput{Name: "", Email: "a@x.com"})
	require.NoError(t, err)

	assert.Equal(t, created.PasswordHash, updated.PasswordHash)
	assert.Equal(t, "", updated.Name, "non-password fields are overwritten even when empty")

	updated, err = env.buyers.Update(ctx, created.ID, UpdateBuyerInput{Name: "Alice", Email: "a@x.com", Password: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, created.PasswordHash, updated.PasswordHash)
}

func TestBuyerService_Update_WithPasswordReplacesHash(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created, err := env.buyers.Register(ctx, RegisterBuyerInput{Name: "Alice", Email: "a@x.com", Password: "old-pw"})
	require.NoError(t, err)

	updated, err := env.buyers.Update(ctx, created.ID, UpdateBuyerInput{Name: "Alice", Email: "a@x.com", Password: strPtr("new-pw")})
	require.NoError(t, err)

	assert.True(t, env.hasher.Verify("new-pw", updated.PasswordHash))
	assert.False(t, env.hasher.Verify("old-pw", updated.PasswordHash))

	last := env.dispatcher.events[len(env.dispatcher.events)-1]
	require.Equal(t, events.EventAccountUpdated, last.Type)
	assert.True(t, last.Payload.(events.AccountUpdatedPayload).PasswordChanged)
}

func TestBuyerService_Update_EmailChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, err := env.buyers.Register(ctx, RegisterBuyerInput{Name: "Alice", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	_, err = env.sellers.Register(ctx, RegisterSellerInput{SellerFields: SellerFields{Email: "s@x.com"}, Password: "pw"}, nil)
	require.NoError(t, err)

	_, err = env.buyers.Update(ctx, alice.ID, UpdateBuyerInput{Name: "Alice", Email: "s@x.com"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	updated, err := env.buyers.Update(ctx, alice.ID, UpdateBuyerInput{Name: "Alice", Email: "alice@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", updated.Email)
	assert.Equal(t, alice.ID, env.db.claims["alice@x.com"])
	_, stillClaimed := env.db.claims["a@x.com"]
	assert.False(t, stillClaimed)
}

func TestBuyerService_Update_UnknownID(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.buyers.Update(context.Background(), uuid.NewString(), UpdateBuyerInput{Name: "x", Email: "x@x.com"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}

func TestBuyerService_Delete_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created, err := env.buyers.Register(ctx, RegisterBuyerInput{Name: "Alice", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, env.buyers.Delete(ctx, uuid.NewString()))
	require.NoError(t, env.buyers.Delete(ctx, "not-a-uuid"))
	assert.Len(t, env.db.buyers, 1, "deleting an unknown id leaves the store unchanged")

	require.NoError(t, env.buyers.Delete(ctx, created.ID))
	require.NoError(t, env.buyers.Delete(ctx, created.ID))
	assert.Empty(t, env.db.buyers)
	assert.Empty(t, env.db.claims)

	assert.Equal(t, []events.EventType{events.EventAccountRegistered, events.EventAccountDeleted}, env.dispatcher.types())
}

func TestMapWriteError(t *testing.T) {
	assert.True(t, apperrors.HasCode(mapWriteError("buyer", repository.ErrEmailTaken), apperrors.CodeConflict))
	assert.True(t, apperrors.HasCode(mapWriteError("buyer", errDBDown), apperrors.CodeInternal))
}
