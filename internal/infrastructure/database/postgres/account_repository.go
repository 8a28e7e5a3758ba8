package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dog-grooming-booking/internal/domain/account"
	"dog-grooming-booking/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueViolation is the postgres SQLSTATE for duplicate keys
const uniqueViolation = "23505"

type AccountRepository struct {
	db    *DB
	table string
	kind  account.Kind
}

func NewAccountRepository(db *DB, kind account.Kind) *AccountRepository {
	table := models.CustomersTable
	if kind == account.KindStaff {
		table = models.StaffTable
	}
	return &AccountRepository{db: db, table: table, kind: kind}
}

func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	a.ID = uuid.NewString()
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	dbModel := toAccountModel(a)
	if err := r.query(ctx).Create(dbModel).Error; err != nil {
		if isUniqueViolation(err) {
			return account.ErrEmailTaken
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	a.Kind = r.kind
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return nil, account.ErrAccountNotFound
	}
	return r.first(r.query(ctx).Where("id = ?", accountID))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	return r.first(r.query(ctx).Where("LOWER(email) = ?", strings.ToLower(email)))
}

func (r *AccountRepository) GetByVerificationToken(ctx context.Context, token string, now time.Time) (*account.Account, error) {
	if token == "" {
		return nil, account.ErrAccountNotFound
	}
	return r.first(r.query(ctx).Where("verification_token = ? AND verification_token_expires_at > ?", token, now))
}

func (r *AccountRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (*account.Account, error) {
	if token == "" {
		return nil, account.ErrAccountNotFound
	}
	return r.first(r.query(ctx).Where("reset_password_token = ? AND reset_password_expires_at > ?", token, now))
}

func (r *AccountRepository) Update(ctx context.Context, a *account.Account) error {
	accountID, err := uuid.Parse(a.ID)
	if err != nil {
		return account.ErrAccountNotFound
	}
	a.UpdatedAt = time.Now()

	m := toAccountModel(a)
	result := r.query(ctx).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"first_name":                    m.FirstName,
			"middle_name":                   m.MiddleName,
			"last_name":                     m.LastName,
			"phone_number":                  m.PhoneNumber,
			"username":                      m.Username,
			"email":                         m.Email,
			"password_hashed":               m.PasswordHashed,
			"is_verified":                   m.IsVerified,
			"verification_token":            m.VerificationToken,
			"verification_token_expires_at": m.VerificationTokenExpiresAt,
			"reset_password_token":          m.ResetPasswordToken,
			"reset_password_expires_at":     m.ResetPasswordExpiresAt,
			"updated_at":                    m.UpdatedAt,
		})

	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return account.ErrEmailTaken
		}
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return account.ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) GetSummaries(ctx context.Context, ids []string) (map[string]*account.Summary, error) {
	out := make(map[string]*account.Summary, len(ids))

	accountIDs := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if parsed, err := uuid.Parse(id); err == nil {
			accountIDs = append(accountIDs, parsed)
		}
	}
	if len(accountIDs) == 0 {
		return out, nil
	}

	var dbModels []models.AccountModel
	err := r.query(ctx).
		Select("id", "first_name", "last_name", "phone_number", "email").
		Where("id IN ?", accountIDs).
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load account summaries: %w", err)
	}

	for i := range dbModels {
		out[dbModels[i].ID.String()] = toAccountEntity(&dbModels[i], r.kind).Summary()
	}
	return out, nil
}

func (r *AccountRepository) query(ctx context.Context) *gorm.DB {
	return r.db.DB.WithContext(ctx).Table(r.table)
}

func (r *AccountRepository) first(q *gorm.DB) (*account.Account, error) {
	var dbModel models.AccountModel
	err := q.First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return toAccountEntity(&dbModel, r.kind), nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
