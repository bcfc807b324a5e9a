package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/auth"
	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/Freeeeeet/booking_portal/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SignUpInput форма регистрации студента
type SignUpInput struct {
	Email    string `json:"email" validate:"notblank,email"`
	Password string `json:"password" validate:"notblank,min=6"`
	Name     string `json:"name" validate:"notblank"`
}

// SignInInput форма входа. Роль выбирается пользователем, но сверяется с учётной записью
type SignInInput struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
	Role     string `json:"role" validate:"notblank,oneof=student teacher admin"`
}

// NewAccountInput учётная запись, создаваемая администратором из CLI
type NewAccountInput struct {
	Email    string `json:"email" validate:"notblank,email"`
	Password string `json:"password" validate:"notblank,min=6"`
	Role     string `json:"role" validate:"notblank,oneof=student teacher admin"`
}

// Session результат успешного входа
type Session struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Identity  *model.Identity `json:"identity"`
	Redirect  string          `json:"redirect"`
}

// TelegramLinkCodeTTL время жизни кода привязки, выданного ботом
const TelegramLinkCodeTTL = 10 * time.Minute

// TelegramLinkInput код привязки, который бот показал по /start
type TelegramLinkInput struct {
	Code string `json:"code" validate:"notblank"`
}

type AuthService struct {
	accounts AccountStore
	tokens   TokenStore
	issuer   *auth.Issuer
	logger   *zap.Logger
	now      func() time.Time
}

func NewAuthService(accounts AccountStore, tokens TokenStore, issuer *auth.Issuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		accounts: accounts,
		tokens:   tokens,
		issuer:   issuer,
		logger:   logger,
		now:      time.Now,
	}
}

// SignUp создаёт учётную запись студента и его профиль (approved=false) в одной транзакции
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*model.Student, error) {
	if err := validateStruct(in); err != nil {
		s.logger.Warn("Registration form validation failed", zap.Error(err))
		return nil, err
	}

	account := &model.Account{
		Email: normalizeEmail(in.Email),
		Role:  model.RoleStudent,
	}
	if err := account.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	student := &model.Student{
		Email:    account.Email,
		Name:     in.Name,
		Approved: false,
	}

	if err := s.accounts.CreateStudentAccount(ctx, account, student); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.logger.Warn("Registration rejected: email taken", zap.String("email", account.Email))
			return nil, ErrEmailTaken
		}
		s.logger.Error("Registration failed", zap.String("email", account.Email), zap.Error(err))
		return nil, fmt.Errorf("create student account: %w", err)
	}

	s.logger.Info("Student registered, pending approval",
		zap.String("uid", account.UID.String()),
		zap.String("student_id", student.ID.String()),
		zap.String("email", account.Email),
	)

	return student, nil
}

// CreateAccount создаёт учётную запись любой роли (учителя и администраторы заводятся так)
func (s *AuthService) CreateAccount(ctx context.Context, in NewAccountInput) (*model.Account, error) {
	if err := validateStruct(in); err != nil {
		s.logger.Warn("Account form validation failed", zap.Error(err))
		return nil, err
	}

	account := &model.Account{
		Email: normalizeEmail(in.Email),
		Role:  model.Role(in.Role),
	}
	if err := account.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if account.Role == model.RoleStudent {
		student := &model.Student{Email: account.Email, Name: account.Email}
		err := s.accounts.CreateStudentAccount(ctx, account, student)
		return s.accountCreated(account, err)
	}

	return s.accountCreated(account, s.accounts.Create(ctx, account))
}

func (s *AuthService) accountCreated(account *model.Account, err error) (*model.Account, error) {
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("Failed to create account", zap.String("email", account.Email), zap.Error(err))
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info("Account created",
		zap.String("uid", account.UID.String()),
		zap.String("email", account.Email),
		zap.String("role", string(account.Role)),
	)
	return account, nil
}

// SignIn проверяет пароль и роль, выпускает сессионный токен
func (s *AuthService) SignIn(ctx context.Context, in SignInInput) (*Session, error) {
	if err := validateStruct(in); err != nil {
		s.logger.Warn("Login form validation failed", zap.Error(err))
		return nil, err
	}

	email := normalizeEmail(in.Email)
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Login failed", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("get account: %w", err)
	}

	if account == nil || account.CheckPassword(in.Password) != nil {
		s.logger.Warn("Login failed: invalid credentials", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	if account.Role != model.Role(in.Role) {
		s.logger.Warn("Login failed: role mismatch",
			zap.String("email", email),
			zap.String("requested_role", in.Role),
		)
		return nil, ErrForbidden
	}

	token, claims, err := s.issuer.Issue(account)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in",
		zap.String("email", account.Email),
		zap.String("role", string(account.Role)),
	)

	return &Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Identity:  account.Identity(),
		Redirect:  account.Role.LandingPage(),
	}, nil
}

// SignOut отзывает токен до окончания его срока
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return ErrUnauthenticated
	}

	if err := s.tokens.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.logger.Error("Logout error", zap.Error(err))
		return fmt.Errorf("revoke token: %w", err)
	}

	s.logger.Info("User logged out", zap.String("email", claims.Email))
	return nil
}

// Session разбирает токен и перечитывает учётную запись, роль берётся из хранилища
func (s *AuthService) Session(ctx context.Context, token string) (*model.Identity, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check token: %w", err)
	}
	if revoked {
		return nil, ErrUnauthenticated
	}

	uid, err := claims.UID()
	if err != nil {
		return nil, ErrUnauthenticated
	}

	account, err := s.accounts.GetByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if account == nil {
		return nil, ErrUnauthenticated
	}

	return account.Identity(), nil
}

// IssueTelegramLinkCode выдаёт чату одноразовый код привязки. Прежний код чата перестаёт действовать
func (s *AuthService) IssueTelegramLinkCode(ctx context.Context, chatID int64) (string, error) {
	expiresAt := s.now().Add(TelegramLinkCodeTTL)

	var err error
	for attempt := 0; attempt < 3; attempt++ {
		code := newLinkCode()
		err = s.tokens.SaveLinkCode(ctx, code, chatID, expiresAt)
		if err == nil {
			s.logger.Info("Telegram link code issued", zap.Int64("chat_id", chatID))
			return code, nil
		}
		if !errors.Is(err, repository.ErrConflict) {
			break
		}
	}

	s.logger.Error("Could not issue telegram link code", zap.Int64("chat_id", chatID), zap.Error(err))
	return "", fmt.Errorf("issue link code: %w", err)
}

// newLinkCode 8 hex-символов из случайного UUID
func newLinkCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// LinkTelegram привязывает к учётной записи чат, которому бот выдал код
func (s *AuthService) LinkTelegram(ctx context.Context, identity *model.Identity, in TelegramLinkInput) error {
	if err := validateStruct(in); err != nil {
		s.logger.Warn("Telegram link form validation failed", zap.String("email", identity.Email), zap.Error(err))
		return err
	}

	chatID, err := s.tokens.ConsumeLinkCode(ctx, strings.ToUpper(strings.TrimSpace(in.Code)), s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Telegram link code rejected", zap.String("email", identity.Email))
			return fieldError("code", "code is invalid or expired")
		}
		return fmt.Errorf("consume link code: %w", err)
	}

	if err := s.accounts.SetTelegramChatID(ctx, identity.UID, chatID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fieldError("code", "chat is linked to another account")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("link telegram: %w", err)
	}

	s.logger.Info("Telegram chat linked",
		zap.String("email", identity.Email),
		zap.Int64("chat_id", chatID),
	)
	return nil
}

// AccountByTelegramChat находит учётную запись, привязанную к чату
func (s *AuthService) AccountByTelegramChat(ctx context.Context, chatID int64) (*model.Account, error) {
	account, err := s.accounts.GetByTelegramChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("get account by chat: %w", err)
	}
	if account == nil {
		return nil, ErrNotFound
	}
	return account, nil
}

// PurgeRevokedTokens удаляет отозванные токены с истёкшим сроком
func (s *AuthService) PurgeRevokedTokens(ctx context.Context, now time.Time) (int64, error) {
	return s.tokens.PurgeExpired(ctx, now)
}
