package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dog-grooming-booking/internal/config"
	"dog-grooming-booking/internal/domain/account"
	"dog-grooming-booking/internal/logger"
	appErrors "dog-grooming-booking/pkg/errors"
	"dog-grooming-booking/pkg/utils"

	"go.uber.org/zap"
)

const (
	VerificationTokenTTL = 15 * time.Minute
	ResetTokenTTL        = 15 * time.Minute
)

var ErrLoginNotVerified = appErrors.NewAppError(appErrors.CodeNotVerified,
	"Account is not verified. A verification email has been sent to your email address.", nil)

// Notifier delivers account emails. Implementations must not block.
type Notifier interface {
	VerificationCode(to *account.Account, code string)
	Welcome(to *account.Account)
	PasswordResetLink(to *account.Account, link string)
	PasswordResetSuccess(to *account.Account)
}

// Service implements account use cases for one account kind
type Service struct {
	repo     account.Repository
	kind     account.Kind
	notifier Notifier
	config   *config.Config
	now      func() time.Time
}

// NewService creates an auth service for accounts of the given kind
func NewService(repo account.Repository, kind account.Kind, notifier Notifier, cfg *config.Config) *Service {
	return &Service{
		repo:     repo,
		kind:     kind,
		notifier: notifier,
		config:   cfg,
		now:      time.Now,
	}
}

func (s *Service) Kind() account.Kind {
	return s.kind
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*RegisterResult, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	if err := s.validateProfile(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	// Check if account already exists
	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, account.ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		logger.Warn("Registration attempt with existing email",
			zap.String("email", req.Email),
			zap.String("kind", string(s.kind)),
			zap.String("event", "registration_failed_duplicate_email"),
		)
		return nil, appErrors.ErrDuplicateEmail
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := s.newVerificationCode(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	a := &account.Account{
		Kind:           s.kind,
		Email:          req.Email,
		PasswordHashed: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if s.kind == account.KindCustomer {
		a.FirstName = utils.SanitizeString(req.FirstName)
		a.MiddleName = utils.SanitizeString(req.MiddleName)
		a.LastName = utils.SanitizeString(req.LastName)
		a.PhoneNumber = utils.SanitizePhone(req.PhoneNumber)
	} else {
		a.Username = utils.SanitizeString(req.Username)
	}
	a.SetVerificationToken(code, now.Add(VerificationTokenTTL))

	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, account.ErrEmailTaken) {
			return nil, appErrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.notifier.VerificationCode(a, code)

	logger.Info("Account registered successfully",
		zap.String("account_id", a.ID),
		zap.String("email", a.Email),
		zap.String("kind", string(s.kind)),
		zap.String("event", "account_registered"),
	)

	return &RegisterResult{
		Account:           ToAccountResponse(a),
		VerificationToken: code,
	}, nil
}

// Login checks credentials and issues a session token. Unverified accounts
// with a correct password receive a fresh verification code instead.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	a, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			logger.Warn("Login attempt with non-existent email",
				zap.String("email", req.Email),
				zap.String("kind", string(s.kind)),
				zap.String("event", "account_not_found"),
			)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if !utils.CheckPassword(a.PasswordHashed, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.String("account_id", a.ID),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	if !a.IsVerified {
		code, err := s.newVerificationCode(ctx)
		if err != nil {
			return nil, err
		}
		a.SetVerificationToken(code, s.now().Add(VerificationTokenTTL))
		if err := s.repo.Update(ctx, a); err != nil {
			return nil, fmt.Errorf("failed to refresh verification code: %w", err)
		}

		s.notifier.VerificationCode(a, code)

		logger.Info("Verification code reissued on login",
			zap.String("account_id", a.ID),
			zap.String("event", "verification_code_reissued"),
		)
		return nil, ErrLoginNotVerified
	}

	token, expiresAt, err := utils.GenerateToken(a.ID, string(s.kind), s.config.JWT.Secret, s.config.JWT.Expiry())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info("Account logged in successfully",
		zap.String("account_id", a.ID),
		zap.String("kind", string(s.kind)),
		zap.String("event", "login_success"),
	)

	return &LoginResult{
		Account:   ToAccountResponse(a),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) VerifyEmail(ctx context.Context, req *VerifyEmailRequest) (*AccountResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	a, err := s.repo.GetByVerificationToken(ctx, req.Code, s.now())
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return nil, appErrors.ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("failed to look up verification code: %w", err)
	}

	a.IsVerified = true
	a.ClearVerificationToken()
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to verify account: %w", err)
	}

	s.notifier.Welcome(a)

	logger.Info("Account verified",
		zap.String("account_id", a.ID),
		zap.String("event", "account_verified"),
	)

	return ToAccountResponse(a), nil
}

// ForgotPassword issues a reset token and mails the reset link. The token is
// returned for callers that deliver it themselves.
func (s *Service) ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) (string, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return "", appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	a, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return "", appErrors.ErrAccountNotFound
		}
		return "", fmt.Errorf("failed to load account: %w", err)
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		return "", err
	}
	a.SetResetToken(token, s.now().Add(ResetTokenTTL))
	if err := s.repo.Update(ctx, a); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	s.notifier.PasswordResetLink(a, fmt.Sprintf("%s/reset-password/%s", s.config.App.ClientURL, token))

	logger.Info("Password reset token generated",
		zap.String("account_id", a.ID),
		zap.String("event", "password_reset_token_generated"),
	)

	return token, nil
}

func (s *Service) ResetPassword(ctx context.Context, token string, req *ResetPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	if token == "" {
		return appErrors.ErrInvalidOrExpiredToken
	}

	a, err := s.repo.GetByResetToken(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			logger.Warn("Password reset attempt with invalid token",
				zap.String("event", "password_reset_failed_invalid_token"),
			)
			return appErrors.ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	a.PasswordHashed = hashedPassword
	a.ClearResetToken()

	if err := s.repo.Update(ctx, a); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	s.notifier.PasswordResetSuccess(a)

	logger.Info("Password reset successfully",
		zap.String("account_id", a.ID),
		zap.String("event", "password_reset_success"),
	)

	return nil
}

func (s *Service) ChangePassword(ctx context.Context, accountID string, req *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	a, err := s.verifiedAccount(ctx, accountID)
	if err != nil {
		return err
	}

	if !utils.CheckPassword(a.PasswordHashed, req.CurrentPassword) {
		logger.Warn("Password change attempt with invalid current password",
			zap.String("account_id", a.ID),
			zap.String("event", "password_change_failed_invalid_current_password"),
		)
		return appErrors.ErrInvalidCredentials
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	a.PasswordHashed = hashedPassword

	if err := s.repo.Update(ctx, a); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	logger.Info("Password changed successfully",
		zap.String("account_id", a.ID),
		zap.String("event", "password_changed"),
	)

	return nil
}

func (s *Service) Profile(ctx context.Context, accountID string) (*AccountResponse, error) {
	a, err := s.verifiedAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return ToAccountResponse(a), nil
}

func (s *Service) UpdateProfile(ctx context.Context, accountID string, req *UpdateProfileRequest) (*AccountResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	a, err := s.verifiedAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if s.kind == account.KindCustomer {
		if req.FirstName != nil {
			a.FirstName = utils.SanitizeString(*req.FirstName)
		}
		if req.MiddleName != nil {
			a.MiddleName = utils.SanitizeString(*req.MiddleName)
		}
		if req.LastName != nil {
			a.LastName = utils.SanitizeString(*req.LastName)
		}
		if req.PhoneNumber != nil {
			a.PhoneNumber = utils.SanitizePhone(*req.PhoneNumber)
		}
	} else if req.Username != nil {
		a.Username = utils.SanitizeString(*req.Username)
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	logger.Info("Profile updated",
		zap.String("account_id", a.ID),
		zap.String("event", "profile_updated"),
	)

	return ToAccountResponse(a), nil
}

func (s *Service) verifiedAccount(ctx context.Context, accountID string) (*account.Account, error) {
	a, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return nil, appErrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if !a.IsVerified {
		return nil, appErrors.ErrNotVerified
	}
	return a, nil
}

// newVerificationCode avoids handing out a code that is live on another account.
func (s *Service) newVerificationCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := utils.GenerateVerificationCode()
		if err != nil {
			return "", err
		}
		_, err = s.repo.GetByVerificationToken(ctx, code, s.now())
		if errors.Is(err, account.ErrAccountNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check verification code: %w", err)
		}
	}
	return "", errors.New("failed to generate a unique verification code")
}

func (s *Service) validateProfile(req *RegisterRequest) error {
	if s.kind == account.KindStaff {
		return utils.ValidateStruct(&staffProfile{Username: req.Username})
	}
	return utils.ValidateStruct(&customerProfile{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
}
