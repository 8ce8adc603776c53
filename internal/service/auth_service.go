package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"crowdfund/internal/domain"
	"crowdfund/internal/email"
	"crowdfund/internal/repository"
)

const minPasswordLength = 6

// AuthConfig agrupa las ventanas y URLs del ciclo de credenciales.
type AuthConfig struct {
	BaseURL             string
	VerificationTTL     time.Duration
	ResetTTL            time.Duration
	MailTimeout         time.Duration
	ConcealUnknownEmail bool
}

// AuthService coordina registro, verificacion, login y reseteo de contraseña.
type AuthService struct {
	logger   *zap.Logger
	users    repository.UserRepository
	hasher   PasswordHasher
	sessions *JWTService
	mailer   email.Sender
	limiter  RateLimiter
	cfg      AuthConfig

	now      func() time.Time
	newToken func() (string, error)
}

type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expires_in"`
	User      domain.User `json:"user"`
}

func NewAuthService(
	logger *zap.Logger,
	users repository.UserRepository,
	hasher PasswordHasher,
	sessions *JWTService,
	mailer email.Sender,
	limiter RateLimiter,
	cfg AuthConfig,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limiter == nil {
		limiter = allowAll{}
	}
	if mailer == nil {
		mailer = email.NewDisabledSender("")
	}
	if cfg.VerificationTTL <= 0 {
		cfg.VerificationTTL = time.Hour
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = 15 * time.Minute
	}
	if cfg.MailTimeout <= 0 {
		cfg.MailTimeout = 10 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &AuthService{
		logger:   logger,
		users:    users,
		hasher:   hasher,
		sessions: sessions,
		mailer:   mailer,
		limiter:  limiter,
		cfg:      cfg,
		now:      time.Now,
		newToken: NewOpaqueToken,
	}
}

func (s *AuthService) Register(ctx context.Context, emailAddr, password string) (domain.User, error) {
	emailAddr, err := validateEmail(emailAddr)
	if err != nil {
		return domain.User{}, err
	}
	if len(password) < minPasswordLength {
		return domain.User{}, invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	if _, err := s.users.GetByEmail(ctx, emailAddr); err == nil {
		return domain.User{}, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return domain.User{}, err
	}
	token, err := s.newToken()
	if err != nil {
		return domain.User{}, err
	}
	now := s.now().UTC()
	expires := now.Add(s.cfg.VerificationTTL)
	user := domain.User{
		ID:                  uuid.NewString(),
		Email:               emailAddr,
		PasswordHash:        hash,
		VerificationToken:   token,
		VerificationExpires: &expires,
		CreatedAt:           now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrDuplicateEmail
		}
		return domain.User{}, err
	}

	if err := s.sendVerification(ctx, user.Email, token); err != nil {
		return domain.User{}, err
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("email", MaskEmail(user.Email)))
	return user, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}
	user, err := s.users.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if user.VerificationExpires == nil {
		return ErrInvalidToken
	}
	// el token vencido se deja en su lugar; solo un reenvio lo reemplaza
	if s.now().After(*user.VerificationExpires) {
		return ErrTokenExpired
	}

	verified := true
	err = s.users.Update(ctx, user.ID, domain.UserUpdate{
		IsVerified:              &verified,
		Verification:            domain.ClearToken(),
		ExpectVerificationToken: token,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	s.logger.Info("email verified", zap.String("user_id", user.ID))
	return nil
}

// ResendVerification devuelve alreadyVerified=true sin tocar nada si la
// cuenta ya esta verificada.
func (s *AuthService) ResendVerification(ctx context.Context, emailAddr string) (alreadyVerified bool, err error) {
	emailAddr, err = validateEmail(emailAddr)
	if err != nil {
		return false, err
	}
	if ok, wait := s.limiter.Allow(ctx, emailAddr); !ok {
		return false, &RateLimitError{RetryAfter: wait}
	}
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	if user.IsVerified {
		return true, nil
	}

	token, err := s.newToken()
	if err != nil {
		return false, err
	}
	expires := s.now().UTC().Add(s.cfg.VerificationTTL)
	err = s.users.Update(ctx, user.ID, domain.UserUpdate{
		Verification:     domain.IssueToken(token, expires),
		ExpectUnverified: true,
	})
	if err != nil {
		// la cuenta se verifico entre la lectura y la escritura
		if errors.Is(err, repository.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	return false, s.sendVerification(ctx, user.Email, token)
}

func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (LoginResult, error) {
	emailAddr = strings.TrimSpace(emailAddr)
	if emailAddr == "" || password == "" {
		return LoginResult{}, invalid("", "email and password are required")
	}
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.BurnCompare(ctx, password)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	// antes de comparar la contraseña: el resultado no depende de ella
	if !user.IsVerified {
		return LoginResult{}, ErrEmailNotVerified
	}
	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return LoginResult{}, err
	}
	if !ok {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.sessions.Sign(user)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{
		Token:     token,
		ExpiresIn: int64(s.sessions.TTL().Seconds()),
		User:      user,
	}, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	emailAddr, err := validateEmail(emailAddr)
	if err != nil {
		return err
	}
	if ok, wait := s.limiter.Allow(ctx, emailAddr); !ok {
		return &RateLimitError{RetryAfter: wait}
	}
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if s.cfg.ConcealUnknownEmail {
				return nil
			}
			return ErrUserNotFound
		}
		return err
	}

	token, err := s.newToken()
	if err != nil {
		return err
	}
	expires := s.now().UTC().Add(s.cfg.ResetTTL)
	if err := s.users.Update(ctx, user.ID, domain.UserUpdate{
		Reset: domain.IssueToken(token, expires),
	}); err != nil {
		return err
	}

	link := s.cfg.BaseURL + "/api/reset-password/" + token
	body := fmt.Sprintf(
		"We received a request to reset your password.\n\nOpen this link to choose a new one:\n%s\n\nThe link expires in %s. If you did not ask for it, ignore this email.\n",
		link, s.cfg.ResetTTL,
	)
	return s.send(ctx, user.Email, "Reset your password", body)
}

// ValidateResetToken solo consulta; no modifica el usuario.
func (s *AuthService) ValidateResetToken(ctx context.Context, token string) error {
	_, err := s.lookupReset(ctx, token)
	return err
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.lookupReset(ctx, token)
	if err != nil {
		return err
	}
	if len(newPassword) < minPasswordLength {
		return invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	hash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return err
	}
	err = s.users.Update(ctx, user.ID, domain.UserUpdate{
		PasswordHash:     &hash,
		Reset:            domain.ClearToken(),
		ExpectResetToken: strings.TrimSpace(token),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	s.logger.Info("password reset", zap.String("user_id", user.ID))
	return nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (domain.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return domain.User{}, ErrUserNotFound
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *AuthService) lookupReset(ctx context.Context, token string) (domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.User{}, ErrInvalidToken
	}
	user, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrInvalidToken
		}
		return domain.User{}, err
	}
	if user.ResetExpires == nil {
		return domain.User{}, ErrInvalidToken
	}
	if s.now().After(*user.ResetExpires) {
		return domain.User{}, ErrTokenExpired
	}
	return user, nil
}

func (s *AuthService) sendVerification(ctx context.Context, to, token string) error {
	link := s.cfg.BaseURL + "/api/verify/" + token
	body := fmt.Sprintf(
		"Welcome!\n\nConfirm your email address by opening this link:\n%s\n\nThe link expires in %s.\n",
		link, s.cfg.VerificationTTL,
	)
	return s.send(ctx, to, "Verify your email", body)
}

// send acota el envio con MailTimeout. Un fallo se reporta como
// ErrEmailSendFailure aunque el token ya este persistido.
func (s *AuthService) send(ctx context.Context, to, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.MailTimeout)
	defer cancel()
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		s.logger.Error("send email failed",
			zap.Error(err),
			zap.String("email", MaskEmail(to)),
			zap.String("subject", subject),
		)
		return ErrEmailSendFailure
	}
	return nil
}

func validateEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", invalid("email", "is required")
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", invalid("email", "invalid email")
	}
	return raw, nil
}

// MaskEmail oculta la parte local para los logs: jo***@example.com.
func MaskEmail(addr string) string {
	at := strings.LastIndex(addr, "@")
	if at <= 0 {
		return "***"
	}
	local := addr[:at]
	if len(local) > 2 {
		local = local[:2]
	}
	return local + "***" + addr[at:]
}
