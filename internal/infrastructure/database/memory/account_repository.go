package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"dog-grooming-booking/internal/domain/account"

	"github.com/google/uuid"
)

// AccountRepository keeps one account collection in memory
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*account.Account
	kind     account.Kind
}

func NewAccountRepository(kind account.Kind) *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]*account.Account),
		kind:     kind,
	}
}

func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if strings.EqualFold(existing.Email, a.Email) {
			return account.ErrEmailTaken
		}
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	a.Kind = r.kind

	r.accounts[a.ID] = clone(a)
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return clone(a), nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	return r.find(func(a *account.Account) bool {
		return strings.EqualFold(a.Email, email)
	})
}

func (r *AccountRepository) GetByVerificationToken(ctx context.Context, token string, now time.Time) (*account.Account, error) {
	return r.find(func(a *account.Account) bool {
		return a.VerificationToken != "" && a.VerificationToken == token &&
			a.VerificationTokenExpiresAt != nil && a.VerificationTokenExpiresAt.After(now)
	})
}

func (r *AccountRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (*account.Account, error) {
	return r.find(func(a *account.Account) bool {
		return a.ResetPasswordToken != "" && a.ResetPasswordToken == token &&
			a.ResetPasswordExpiresAt != nil && a.ResetPasswordExpiresAt.After(now)
	})
}

func (r *AccountRepository) Update(ctx context.Context, a *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[a.ID]; !ok {
		return account.ErrAccountNotFound
	}
	for id, existing := range r.accounts {
		if id != a.ID && strings.EqualFold(existing.Email, a.Email) {
			return account.ErrEmailTaken
		}
	}

	a.UpdatedAt = time.Now()
	r.accounts[a.ID] = clone(a)
	return nil
}

func (r *AccountRepository) GetSummaries(ctx context.Context, ids []string) (map[string]*account.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*account.Summary, len(ids))
	for _, id := range ids {
		if a, ok := r.accounts[id]; ok {
			out[id] = a.Summary()
		}
	}
	return out, nil
}

func (r *AccountRepository) find(match func(*account.Account) bool) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if match(a) {
			return clone(a), nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func clone(a *account.Account) *account.Account {
	c := *a
	if a.VerificationTokenExpiresAt != nil {
		t := *a.VerificationTokenExpiresAt
		c.VerificationTokenExpiresAt = &t
	}
	if a.ResetPasswordExpiresAt != nil {
		t := *a.ResetPasswordExpiresAt
		c.ResetPasswordExpiresAt = &t
	}
	return &c
}
