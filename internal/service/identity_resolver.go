package service

import (
	"context"

	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

type emailLookup interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// IdentityResolver finds which identity space, if any, holds an email.
type IdentityResolver struct {
	buyers  emailLookup
	sellers emailLookup
}

// NewIdentityResolver builds a resolver over the buyer and seller repositories.
func NewIdentityResolver(buyers, sellers emailLookup) *IdentityResolver {
	return &IdentityResolver{buyers: buyers, sellers: sellers}
}

// Resolve checks the buyer space first and stops there on a hit.
func (r *IdentityResolver) Resolve(ctx context.Context, email string) (domain.Resolution, error) {
	exists, err := r.buyers.ExistsByEmail(ctx, email)
	if err != nil {
		return domain.Resolution{}, apperrors.NewInternalError(err)
	}
	if exists {
		return domain.Resolution{Exists: true, Role: domain.RoleBuyer}, nil
	}

	exists, err = r.sellers.ExistsByEmail(ctx, email)
	if err != nil {
		return domain.Resolution{}, apperrors.NewInternalError(err)
	}
	if exists {
		return domain.Resolution{Exists: true, Role: domain.RoleSeller}, nil
	}
	return domain.Resolution{}, nil
}
