package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"project-api/internal/notification"
	"project-api/internal/user"
	"project-api/pkg/cerror"
	"project-api/pkg/config"
	"project-api/pkg/encryption"
	"project-api/pkg/jwt_generator"
	"project-api/pkg/logger"
	"project-api/pkg/metrics"
)

//go:generate mockgen -source=service.go -destination=mock_service.go -package=auth

type Service interface {
	Register(ctx context.Context, payload *RegisterPayload) (*AuthResponse, error)
	Login(ctx context.Context, payload *LoginPayload) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*jwt_generator.Tokens, error)
	Logout(ctx context.Context, userId string) (*MessageResponse, error)
	GetProfile(ctx context.Context, userId string) (*user.ProfileView, error)
	ForgotPassword(ctx context.Context, email string) (*MessageResponse, error)
	ResetPassword(ctx context.Context, payload *ResetPasswordPayload) (*MessageResponse, error)
	ChangePassword(ctx context.Context, userId string, payload *ChangePasswordPayload) (*MessageResponse, error)
}

type Settings struct {
	PasswordResetTokenTtl time.Duration
	ExposeResetToken      bool
	// Now is the clock used for reset expiry; nil means time.Now.
	Now func() time.Time
}

type service struct {
	userRepository user.Repository
	jwtGenerator   jwt_generator.JwtGenerator
	passwordHasher encryption.PasswordHasher
	notifier       notification.Notifier
	metrics        *metrics.Metrics
	settings       Settings

	dummyHashOnce sync.Once
	dummyHash     string
}

func NewService(
	userRepository user.Repository,
	jwtGenerator jwt_generator.JwtGenerator,
	passwordHasher encryption.PasswordHasher,
	notifier notification.Notifier,
	m *metrics.Metrics,
	settings Settings,
) Service {
	if settings.PasswordResetTokenTtl <= 0 {
		settings.PasswordResetTokenTtl = config.DefaultPasswordResetTokenTtl
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}
	if notifier == nil {
		notifier = notification.NewLogNotifier()
	}

	return &service{
		userRepository: userRepository,
		jwtGenerator:   jwtGenerator,
		passwordHasher: passwordHasher,
		notifier:       notifier,
		metrics:        m,
		settings:       settings,
	}
}

func (s *service) Register(ctx context.Context, payload *RegisterPayload) (response *AuthResponse, err error) {
	defer func() { s.metrics.RecordAuthEvent("register", err) }()

	email := normalizeEmail(payload.Email)
	_, err = s.userRepository.FindUserWithEmail(ctx, email)
	if err == nil {
		return nil, cerror.ErrorUserAlreadyExists.WithFields(zap.String("email", email))
	}
	if !errors.Is(err, cerror.ErrorUserNotFound) {
		return nil, err
	}

	role := payload.Role
	if role == "" {
		role = user.RoleDeveloper
	}
	if !user.IsValidRole(role) {
		return nil, cerror.ErrorBadRequest.WithFields(zap.String("role", role))
	}

	passwordHash, err := s.passwordHasher.Hash(payload.Password)
	if err != nil {
		return nil, cerror.ErrorHashPassword.WithFields(zap.Error(err))
	}

	createdAt := time.Now().UTC()
	document := &user.Document{
		Id:        uuid.New().String(),
		Email:     email,
		Password:  passwordHash,
		Name:      strings.TrimSpace(payload.Name),
		Role:      role,
		IsActive:  true,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	_, err = s.userRepository.InsertUser(ctx, document)
	if err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(ctx, document)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         document.PublicView(),
	}, nil
}

// Login runs a bcrypt comparison on every path so unknown, inactive and
// mismatched accounts share one timing class.
func (s *service) Login(ctx context.Context, payload *LoginPayload) (response *AuthResponse, err error) {
	defer func() { s.metrics.RecordAuthEvent("login", err) }()

	email := normalizeEmail(payload.Email)
	document, err := s.userRepository.FindUserWithEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, cerror.ErrorUserNotFound) {
			return nil, err
		}

		_, _ = s.passwordHasher.Verify(payload.Password, s.dummyPasswordHash())
		return nil, cerror.ErrorInvalidCredentials.WithFields(
			zap.String("reason", "unknown email"),
		)
	}

	isPasswordValid, compareErr := s.passwordHasher.Verify(payload.Password, document.Password)
	if !document.IsActive {
		return nil, cerror.ErrorAccountDeactivated.WithFields(zap.String("userId", document.Id))
	}

	if compareErr != nil {
		return nil, cerror.ErrorComparePassword.WithFields(
			zap.String("userId", document.Id),
			zap.Error(compareErr),
		)
	}

	if !isPasswordValid {
		return nil, cerror.ErrorInvalidCredentials.WithFields(
			zap.String("userId", document.Id),
			zap.String("reason", "password mismatch"),
		)
	}

	err = s.userRepository.UpdateLastLogin(ctx, document.Id)
	if err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(ctx, document)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         document.PublicView(),
	}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (tokens *jwt_generator.Tokens, err error) {
	defer func() { s.metrics.RecordAuthEvent("refresh", err) }()

	claims, err := s.jwtGenerator.VerifyToken(refreshToken, jwt_generator.TokenTypeRefresh)
	if err != nil {
		return nil, cerror.ErrorInvalidRefreshToken.WithFields(zap.Error(err))
	}

	document, err := s.userRepository.FindUserWithId(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, cerror.ErrorUserNotFound) {
			return nil, cerror.ErrorInvalidRefreshToken.WithFields(
				zap.String("userId", claims.Subject),
				zap.String("reason", "user not found"),
			)
		}
		return nil, err
	}

	if document.RefreshToken == nil || !encryption.SecureCompare(*document.RefreshToken, refreshToken) {
		return nil, cerror.ErrorInvalidRefreshToken.WithFields(
			zap.String("userId", document.Id),
			zap.String("reason", "refresh token does not match stored value"),
		)
	}

	if !document.IsActive {
		return nil, cerror.ErrorInvalidRefreshToken.WithFields(
			zap.String("userId", document.Id),
			zap.String("reason", "account is deactivated"),
		)
	}

	tokens, err = s.jwtGenerator.GenerateTokens(identityOf(document))
	if err != nil {
		return nil, cerror.ErrorGenerateTokens.WithFields(zap.Error(err))
	}

	err = s.userRepository.RotateRefreshToken(ctx, document.Id, refreshToken, tokens.RefreshToken)
	if err != nil {
		return nil, err
	}

	return tokens, nil
}

func (s *service) Logout(ctx context.Context, userId string) (response *MessageResponse, err error) {
	defer func() { s.metrics.RecordAuthEvent("logout", err) }()

	err = s.userRepository.UpdateRefreshToken(ctx, userId, nil)
	if err != nil && !errors.Is(err, cerror.ErrorUserNotFound) {
		return nil, err
	}

	return &MessageResponse{Message: MessageLoggedOut}, nil
}

func (s *service) GetProfile(ctx context.Context, userId string) (*user.ProfileView, error) {
	document, err := s.userRepository.FindUserWithId(ctx, userId)
	if err != nil {
		return nil, err
	}

	return document.ProfileView(), nil
}

// ForgotPassword answers with the same message whether or not the email is
// registered. The raw token only leaves the process through the notifier,
// unless ExposeResetToken is set.
func (s *service) ForgotPassword(ctx context.Context, email string) (response *MessageResponse, err error) {
	defer func() { s.metrics.RecordAuthEvent("forgot_password", err) }()

	response = &MessageResponse{Message: MessageResetRequested}

	document, err := s.userRepository.FindUserWithEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, cerror.ErrorUserNotFound) {
			logger.FromContext(ctx).Info("password reset requested for unknown email")
			return response, nil
		}
		return nil, err
	}

	resetToken, err := encryption.GenerateSecureToken(encryption.DefaultTokenLength)
	if err != nil {
		return nil, cerror.ErrorGenerateResetToken.WithFields(zap.Error(err))
	}

	expiresAt := s.settings.Now().UTC().Add(s.settings.PasswordResetTokenTtl)
	err = s.userRepository.UpdatePasswordResetToken(ctx, document.Id, encryption.HashToken(resetToken), expiresAt)
	if err != nil {
		return nil, err
	}

	err = s.notifier.SendPasswordReset(ctx, &notification.PasswordResetMessage{
		UserId:    document.Id,
		Email:     document.Email,
		Name:      document.Name,
		Token:     resetToken,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		logger.FromContext(ctx).
			With(zap.String("userId", document.Id), zap.Error(err)).
			Error("error occurred while deliver password reset token")
	}

	if s.settings.ExposeResetToken {
		response.ResetToken = resetToken
	}

	return response, nil
}

func (s *service) ResetPassword(ctx context.Context, payload *ResetPasswordPayload) (response *MessageResponse, err error) {
	defer func() { s.metrics.RecordAuthEvent("reset_password", err) }()

	document, err := s.userRepository.FindUserWithEmail(ctx, normalizeEmail(payload.Email))
	if err != nil {
		if errors.Is(err, cerror.ErrorUserNotFound) {
			return nil, cerror.ErrorInvalidOrExpiredResetToken.WithFields(zap.String("reason", "unknown email"))
		}
		return nil, err
	}

	if !document.HasPendingReset() {
		return nil, cerror.ErrorInvalidOrExpiredResetToken.WithFields(zap.String("userId", document.Id))
	}

	if s.settings.Now().After(*document.PasswordResetExpires) {
		return nil, cerror.ErrorResetTokenExpired.WithFields(
			zap.String("userId", document.Id),
			zap.Time("expiredAt", *document.PasswordResetExpires),
		)
	}

	storedHash := *document.PasswordResetToken
	if !encryption.SecureCompare(encryption.HashToken(payload.Token), storedHash) {
		return nil, cerror.ErrorInvalidResetToken.WithFields(zap.String("userId", document.Id))
	}

	passwordHash, err := s.passwordHasher.Hash(payload.NewPassword)
	if err != nil {
		return nil, cerror.ErrorHashPassword.WithFields(zap.Error(err))
	}

	err = s.userRepository.UpdatePasswordAndClearResetToken(ctx, document.Id, storedHash, passwordHash)
	if err != nil {
		return nil, err
	}

	return &MessageResponse{Message: MessagePasswordReset}, nil
}

func (s *service) ChangePassword(
	ctx context.Context,
	userId string,
	payload *ChangePasswordPayload,
) (response *MessageResponse, err error) {
	defer func() { s.metrics.RecordAuthEvent("change_password", err) }()

	document, err := s.userRepository.FindUserWithId(ctx, userId)
	if err != nil {
		if errors.Is(err, cerror.ErrorUserNotFound) {
			return nil, cerror.ErrorInvalidAccessToken.WithFields(
				zap.String("userId", userId),
				zap.String("reason", "user not found"),
			)
		}
		return nil, err
	}

	isPasswordValid, err := s.passwordHasher.Verify(payload.CurrentPassword, document.Password)
	if err != nil {
		return nil, cerror.ErrorComparePassword.WithFields(zap.Error(err))
	}
	if !isPasswordValid {
		return nil, cerror.ErrorCurrentPasswordIncorrect.WithFields(zap.String("userId", userId))
	}

	passwordHash, err := s.passwordHasher.Hash(payload.NewPassword)
	if err != nil {
		return nil, cerror.ErrorHashPassword.WithFields(zap.Error(err))
	}

	err = s.userRepository.UpdatePassword(ctx, userId, passwordHash)
	if err != nil {
		return nil, err
	}

	return &MessageResponse{Message: MessagePasswordChanged}, nil
}

// issueTokens signs a new pair and stores the refresh token, replacing
// whatever was stored before.
func (s *service) issueTokens(ctx context.Context, document *user.Document) (*jwt_generator.Tokens, error) {
	tokens, err := s.jwtGenerator.GenerateTokens(identityOf(document))
	if err != nil {
		return nil, cerror.ErrorGenerateTokens.WithFields(zap.Error(err))
	}

	err = s.userRepository.UpdateRefreshToken(ctx, document.Id, &tokens.RefreshToken)
	if err != nil {
		return nil, err
	}

	return tokens, nil
}

func (s *service) dummyPasswordHash() string {
	s.dummyHashOnce.Do(func() {
		s.dummyHash, _ = s.passwordHasher.Hash(uuid.New().String())
	})

	return s.dummyHash
}

func identityOf(document *user.Document) *jwt_generator.Identity {
	return &jwt_generator.Identity{
		UserId: document.Id,
		Email:  document.Email,
		Name:   document.Name,
		Role:   document.Role,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
