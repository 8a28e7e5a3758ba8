package account

import (
	"context"
	"time"
)

// Repository stores the accounts of a single Kind.
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	// GetByVerificationToken only matches tokens whose expiry is after now.
	GetByVerificationToken(ctx context.Context, token string, now time.Time) (*Account, error)
	GetByResetToken(ctx context.Context, token string, now time.Time) (*Account, error)
	Update(ctx context.Context, account *Account) error
	// GetSummaries resolves owner projections for a set of ids. Unknown ids are omitted.
	GetSummaries(ctx context.Context, ids []string) (map[string]*Summary, error)
}
