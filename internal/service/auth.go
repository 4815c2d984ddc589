package service

import (
	"context"
	"errors"
	"time"

	"bibliotec-gateway/internal/cms"
	"bibliotec-gateway/internal/domain"
	"bibliotec-gateway/internal/logger"
	"bibliotec-gateway/internal/security"
	"bibliotec-gateway/internal/session"
)

// authService brokers login and registration against the CMS auth endpoints
// and keeps the resulting session in the durable store. Expiry is detected
// two ways: locally from the token's exp claim, and remotely when the CMS
// rejects the token; both clear the stored session.
type authService struct {
	cmsAuth      CMSAuth
	users        UserStore
	sessions     *session.Store
	inspector    *security.Inspector
	fallbackRole domain.Role
	now          func() time.Time
}

func NewAuthService(cmsAuth CMSAuth, users UserStore, sessions *session.Store, inspector *security.Inspector, fallbackRole domain.Role) AuthService {
	return &authService{
		cmsAuth:      cmsAuth,
		users:        users,
		sessions:     sessions,
		inspector:    inspector,
		fallbackRole: fallbackRole,
		now:          time.Now,
	}
}

func (s *authService) Login(ctx context.Context, identifier, password string) (*session.Session, error) {
	token, user, err := s.cmsAuth.Login(ctx, identifier, password)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(token, user); err != nil {
		logger.Warn("failed to persist session", "error", err)
	}
	logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return &session.Session{
		Token:     token,
		Role:      user.Role,
		UserID:    user.ID,
		UserName:  user.Name,
		UserEmail: user.Email,
	}, nil
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*session.Session, error) {
	token, user, err := s.cmsAuth.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(token, user); err != nil {
		logger.Warn("failed to persist session", "error", err)
	}
	logger.Info("user registered", "user_id", user.ID)
	return &session.Session{
		Token:     token,
		Role:      user.Role,
		UserID:    user.ID,
		UserName:  user.Name,
		UserEmail: user.Email,
	}, nil
}

func (s *authService) Logout(ctx context.Context) error {
	return s.sessions.Clear()
}

// CurrentUser resolves the caller's profile from the CMS. Tokens whose exp
// claim already passed are rejected without a round trip; a CMS-side
// rejection additionally clears the stored session so background jobs stop
// reusing a dead token.
func (s *authService) CurrentUser(ctx context.Context, cred cms.Credential) (*domain.User, error) {
	if cred.Token != "" {
		if err := s.inspector.CheckExpiry(cred.Token, s.now()); errors.Is(err, security.ErrExpiredToken) {
			s.dropMatchingSession(cred.Token)
			return nil, cms.ErrSessionExpired
		}
	}

	user, err := s.users.Me(ctx, cred)
	if errors.Is(err, cms.ErrSessionExpired) {
		s.dropMatchingSession(cred.Token)
		return nil, err
	}
	return user, err
}

// ServiceCredential is what scheduled jobs act under: the persisted session
// when one is alive, else the configured fallback role whose static token the
// CMS client resolves.
func (s *authService) ServiceCredential() cms.Credential {
	sess, err := s.sessions.Current()
	if err == nil {
		if expErr := s.inspector.CheckExpiry(sess.Token, s.now()); expErr == nil {
			return cms.Credential{Token: sess.Token, Role: sess.Role}
		}
		s.dropMatchingSession(sess.Token)
	}
	return cms.Credential{Role: s.fallbackRole}
}

func (s *authService) dropMatchingSession(token string) {
	sess, err := s.sessions.Current()
	if err != nil || sess.Token != token {
		return
	}
	if err := s.sessions.Clear(); err != nil {
		logger.Warn("failed to clear expired session", "error", err)
	} else {
		logger.Info("stored session expired, cleared")
	}
}
