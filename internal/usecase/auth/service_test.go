package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"dog-grooming-booking/internal/config"
	"dog-grooming-booking/internal/domain/account"
	"dog-grooming-booking/internal/infrastructure/database/memory"
	appErrors "dog-grooming-booking/pkg/errors"
	"dog-grooming-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu           sync.Mutex
	codes        []string
	welcomed     []string
	resetLinks   []string
	resetSuccess []string
}

func (f *fakeNotifier) VerificationCode(to *account.Account, code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes = append(f.codes, code)
}

func (f *fakeNotifier) Welcome(to *account.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcomed = append(f.welcomed, to.Email)
}

func (f *fakeNotifier) PasswordResetLink(to *account.Account, link string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLinks = append(f.resetLinks, link)
}

func (f *fakeNotifier) PasswordResetSuccess(to *account.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetSuccess = append(f.resetSuccess, to.Email)
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{ClientURL: "https://grooming.example.com"},
		JWT: config.JWTConfig{Secret: "test-secret", ExpiryDays: 7},
	}
}

func newCustomerService(t *testing.T) (*Service, *memory.AccountRepository, *fakeNotifier) {
	t.Helper()
	repo := memory.NewAccountRepository(account.KindCustomer)
	notifier := &fakeNotifier{}
	return NewService(repo, account.KindCustomer, notifier, testConfig()), repo, notifier
}

func customerRegistration() *RegisterRequest {
	return &RegisterRequest{
		FirstName:   "Maria",
		LastName:    "Santos",
		PhoneNumber: "09171234567",
		Email:       "Maria@Example.com",
		Password:    "s3cretpass",
	}
}

func registerVerified(t *testing.T, svc *Service) *RegisterResult {
	t.Helper()
	result, err := svc.Register(context.Background(), customerRegistration())
	require.NoError(t, err)
	_, err = svc.VerifyEmail(context.Background(), &VerifyEmailRequest{Code: result.VerificationToken})
	require.NoError(t, err)
	return result
}

func TestRegister(t *testing.T) {
	svc, repo, notifier := newCustomerService(t)

	result, err := svc.Register(context.Background(), customerRegistration())
	require.NoError(t, err)

	assert.Equal(t, "maria@example.com", result.Account.Email)
	assert.False(t, result.Account.IsVerified)
	assert.Len(t, result.VerificationToken, 6)
	assert.Equal(t, []string{result.VerificationToken}, notifier.codes)

	stored, err := repo.GetByEmail(context.Background(), "maria@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretpass", stored.PasswordHashed)
	assert.True(t, utils.CheckPassword(stored.PasswordHashed, "s3cretpass"))
	require.NotNil(t, stored.VerificationTokenExpiresAt)
	assert.WithinDuration(t, time.Now().Add(VerificationTokenTTL), *stored.VerificationTokenExpiresAt, 5*time.Second)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newCustomerService(t)

	_, err := svc.Register(context.Background(), customerRegistration())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), customerRegistration())
	assert.ErrorIs(t, err, appErrors.ErrDuplicateEmail)
}

func TestRegisterEmailSpacesAreIndependent(t *testing.T) {
	customers, _, _ := newCustomerService(t)
	staff := NewService(memory.NewAccountRepository(account.KindStaff), account.KindStaff, &fakeNotifier{}, testConfig())

	_, err := customers.Register(context.Background(), customerRegistration())
	require.NoError(t, err)

	_, err = staff.Register(context.Background(), &RegisterRequest{
		Username: "groomer",
		Email:    "maria@example.com",
		Password: "s3cretpass",
	})
	assert.NoError(t, err)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newCustomerService(t)

	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"missing first name", func(r *RegisterRequest) { r.FirstName = "" }},
		{"short last name", func(r *RegisterRequest) { r.LastName = "S" }},
		{"bad phone", func(r *RegisterRequest) { r.PhoneNumber = "+639171234567" }},
		{"bad email", func(r *RegisterRequest) { r.Email = "maria@example" }},
		{"short password", func(r *RegisterRequest) { r.Password = "short" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := customerRegistration()
			tt.mutate(req)
			_, err := svc.Register(context.Background(), req)
			assert.True(t, appErrors.HasCode(err, appErrors.CodeValidation), "got %v", err)
		})
	}
}

func TestVerifyEmailConsumesToken(t *testing.T) {
	svc, _, notifier := newCustomerService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, customerRegistration())
	require.NoError(t, err)

	verified, err := svc.VerifyEmail(ctx, &VerifyEmailRequest{Code: result.VerificationToken})
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Equal(t, []string{"maria@example.com"}, notifier.welcomed)

	_, err = svc.VerifyEmail(ctx, &VerifyEmailRequest{Code: result.VerificationToken})
	assert.ErrorIs(t, err, appErrors.ErrInvalidOrExpiredToken)
}

func TestVerifyEmailExpired(t *testing.T) {
	svc, _, _ := newCustomerService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, customerRegistration())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(VerificationTokenTTL + time.Minute) }

	_, err = svc.VerifyEmail(ctx, &VerifyEmailRequest{Code: result.VerificationToken})
	assert.ErrorIs(t, err, appErrors.ErrInvalidOrExpiredToken)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newCustomerService(t)
	ctx := context.Background()
	registered := registerVerified(t, svc)

	result, err := svc.Login(ctx, &LoginRequest{Email: "maria@example.com", Password: "s3cretpass"})
	require.NoError(t, err)
	assert.Equal(t, registered.Account.ID, result.Account.ID)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), result.ExpiresAt, 5*time.Second)

	claims, err := utils.ValidateToken(result.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, registered.Account.ID, claims.AccountID)
	assert.Equal(t, string(account.KindCustomer), claims.Kind)

	_, err = svc.Login(ctx, &LoginRequest{Email: "maria@example.com", Password: "wrongpass"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "s3cretpass"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestLoginUnverifiedReissuesCode(t *testing.T) {
	svc, repo, notifier := newCustomerService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, customerRegistration())
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginRequest{Email: "maria@example.com", Password: "wrongpass"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
	stored, err := repo.GetByEmail(ctx, "maria@example.com")
	require.NoError(t, err)
	assert.Equal(t, registered.VerificationToken, stored.VerificationToken, "failed password leaves the code alone")

	_, err = svc.Login(ctx, &LoginRequest{Email: "maria@example.com", Password: "s3cretpass"})
	assert.ErrorIs(t, err, ErrLoginNotVerified)
	assert.True(t, appErrors.HasCode(err, appErrors.CodeNotVerified))

	require.Len(t, notifier.codes, 2)
	stored, err = repo.GetByEmail(ctx, "maria@example.com")
	require.NoError(t, err)
	assert.Equal(t, notifier.codes[1], stored.VerificationToken)
}

func TestPasswordReset(t *testing.T) {
	svc, _, notifier := newCustomerService(t)
	ctx := context.Background()
	registerVerified(t, svc)

	_, err := svc.ForgotPassword(ctx, &ForgotPasswordRequest{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, appErrors.ErrAccountNotFound)

	token, err := svc.ForgotPassword(ctx, &ForgotPasswordRequest{Email: "maria@example.com"})
	require.NoError(t, err)
	assert.Len(t, token, 40)
	assert.Equal(t, []string{"https://grooming.example.com/reset-password/" + token}, notifier.resetLinks)

	require.NoError(t, svc.ResetPassword(ctx, token, &ResetPasswordRequest{Password: "newpass123"}))
	assert.Equal(t, []string{"maria@example.com"}, notifier.resetSuccess)

	err = svc.ResetPassword(ctx, token, &ResetPasswordRequest{Password: "another123"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidOrExpiredToken)

	_, err = svc.Login(ctx, &LoginRequest{Email: "maria@example.com", Password: "newpass123"})
	assert.NoError(t, err)
}

func TestPasswordResetExpired(t *testing.T) {
	svc, _, _ := newCustomerService(t)
	ctx := context.Background()
	registerVerified(t, svc)

	token, err := svc.ForgotPassword(ctx, &ForgotPasswordRequest{Email: "maria@example.com"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(ResetTokenTTL + time.Second) }
	err = svc.ResetPassword(ctx, token, &ResetPasswordRequest{Password: "newpass123"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidOrExpiredToken)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newCustomerService(t)
	ctx := context.Background()
	registered := registerVerified(t, svc)
	id := registered.Account.ID

	err := svc.ChangePassword(ctx, id, &ChangePasswordRequest{CurrentPassword: "wrongpass", NewPassword: "newpass123"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, id, &ChangePasswordRequest{CurrentPassword: "s3cretpass", NewPassword: "newpass123"}))

	_, err = svc.Login(ctx, &LoginRequest{Email: "maria@example.com", Password: "newpass123"})
	assert.NoError(t, err)
}

func TestProfileRequiresVerification(t *testing.T) {
	svc, _, _ := newCustomerService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, customerRegistration())
	require.NoError(t, err)
	id := result.Account.ID

	_, err = svc.Profile(ctx, id)
	assert.ErrorIs(t, err, appErrors.ErrNotVerified)

	name := "Mariana"
	_, err = svc.UpdateProfile(ctx, id, &UpdateProfileRequest{FirstName: &name})
	assert.ErrorIs(t, err, appErrors.ErrNotVerified)

	err = svc.ChangePassword(ctx, id, &ChangePasswordRequest{CurrentPassword: "s3cretpass", NewPassword: "newpass123"})
	assert.ErrorIs(t, err, appErrors.ErrNotVerified)

	_, err = svc.Profile(ctx, "missing")
	assert.ErrorIs(t, err, appErrors.ErrAccountNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newCustomerService(t)
	ctx := context.Background()
	registered := registerVerified(t, svc)

	name := "Mariana"
	phone := "09998887777"
	updated, err := svc.UpdateProfile(ctx, registered.Account.ID, &UpdateProfileRequest{FirstName: &name, PhoneNumber: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Mariana", updated.FirstName)
	assert.Equal(t, "Santos", updated.LastName)
	assert.Equal(t, "09998887777", updated.PhoneNumber)

	bad := "12345"
	_, err = svc.UpdateProfile(ctx, registered.Account.ID, &UpdateProfileRequest{PhoneNumber: &bad})
	assert.True(t, appErrors.HasCode(err, appErrors.CodeValidation))
}

func TestStaffRegistrationRequiresUsername(t *testing.T) {
	staff := NewService(memory.NewAccountRepository(account.KindStaff), account.KindStaff, &fakeNotifier{}, testConfig())

	_, err := staff.Register(context.Background(), &RegisterRequest{Email: "staff@example.com", Password: "s3cretpass"})
	assert.True(t, appErrors.HasCode(err, appErrors.CodeValidation))

	result, err := staff.Register(context.Background(), &RegisterRequest{
		Username: "groomer",
		Email:    "staff@example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)
	assert.Equal(t, account.KindStaff, result.Account.Kind)
	assert.Equal(t, "groomer", result.Account.Username)
}
