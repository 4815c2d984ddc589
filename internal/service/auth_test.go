package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bibliotec-gateway/internal/cms"
	"bibliotec-gateway/internal/domain"
	"bibliotec-gateway/internal/security"
	"bibliotec-gateway/internal/session"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

type authFixture struct {
	cmsAuth  *MockCMSAuth
	users    *MockUserStore
	sessions *session.Store
	svc      *authService
}

func newAuthFixture(t *testing.T, now time.Time) *authFixture {
	t.Helper()
	sessions, err := session.NewStore(t.TempDir())
	require.NoError(t, err)

	f := &authFixture{
		cmsAuth:  new(MockCMSAuth),
		users:    new(MockUserStore),
		sessions: sessions,
	}
	svc := NewAuthService(f.cmsAuth, f.users, sessions, security.NewInspector(), domain.RoleStaff)
	f.svc = svc.(*authService)
	f.svc.now = func() time.Time { return now }
	return f
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	user := &domain.User{ID: "u-1", Name: "Ana", Email: "ana@test.com", Role: domain.RoleStudent}

	f := newAuthFixture(t, now)
	f.cmsAuth.On("Login", ctx, "ana@test.com", "secret").Return("jwt-token", user, nil)

	sess, err := f.svc.Login(ctx, "ana@test.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", sess.Token)
	assert.Equal(t, domain.RoleStudent, sess.Role)

	// The session survives in the durable store for background jobs.
	stored, err := f.sessions.Current()
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", stored.Token)
	assert.Equal(t, "u-1", stored.UserID)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	f := newAuthFixture(t, now)
	f.cmsAuth.On("Login", ctx, "ana@test.com", "secret").Return("jwt-token", &domain.User{ID: "u-1"}, nil)
	_, err := f.svc.Login(ctx, "ana@test.com", "secret")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx))
	_, err = f.sessions.Current()
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestAuthService_CurrentUser(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	user := &domain.User{ID: "u-1", Role: domain.RoleStudent}

	t.Run("Valid Token", func(t *testing.T) {
		f := newAuthFixture(t, now)
		token := signedToken(t, now.Add(time.Hour))
		f.users.On("Me", ctx, cms.Credential{Token: token}).Return(user, nil)

		got, err := f.svc.CurrentUser(ctx, cms.Credential{Token: token})
		require.NoError(t, err)
		assert.Equal(t, "u-1", got.ID)
	})

	t.Run("Expired Token Short-Circuits", func(t *testing.T) {
		f := newAuthFixture(t, now)
		token := signedToken(t, now.Add(-time.Hour))

		_, err := f.svc.CurrentUser(ctx, cms.Credential{Token: token})
		assert.ErrorIs(t, err, cms.ErrSessionExpired)
		// Expired locally means no round trip to the CMS at all.
		f.users.AssertNotCalled(t, "Me", mock.Anything, mock.Anything)
	})

	t.Run("CMS Rejection Clears Stored Session", func(t *testing.T) {
		f := newAuthFixture(t, now)
		token := signedToken(t, now.Add(time.Hour))
		require.NoError(t, f.sessions.Save(token, user))
		f.users.On("Me", ctx, cms.Credential{Token: token}).Return(nil, cms.ErrSessionExpired)

		_, err := f.svc.CurrentUser(ctx, cms.Credential{Token: token})
		assert.ErrorIs(t, err, cms.ErrSessionExpired)
		_, err = f.sessions.Current()
		assert.ErrorIs(t, err, session.ErrNoSession)
	})
}

func TestAuthService_ServiceCredential(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Uses Live Session", func(t *testing.T) {
		f := newAuthFixture(t, now)
		token := signedToken(t, now.Add(time.Hour))
		f.cmsAuth.On("Login", ctx, "ana@test.com", "secret").Return(token, &domain.User{ID: "u-1", Role: domain.RoleAdmin}, nil)
		_, err := f.svc.Login(ctx, "ana@test.com", "secret")
		require.NoError(t, err)

		cred := f.svc.ServiceCredential()
		assert.Equal(t, token, cred.Token)
		assert.Equal(t, domain.RoleAdmin, cred.Role)
	})

	t.Run("Falls Back To Staff Role", func(t *testing.T) {
		f := newAuthFixture(t, now)
		cred := f.svc.ServiceCredential()
		assert.Empty(t, cred.Token)
		assert.Equal(t, domain.RoleStaff, cred.Role)
	})

	t.Run("Expired Session Falls Back And Clears", func(t *testing.T) {
		f := newAuthFixture(t, now)
		token := signedToken(t, now.Add(-time.Hour))
		require.NoError(t, f.sessions.Save(token, &domain.User{ID: "u-1", Role: domain.RoleAdmin}))

		cred := f.svc.ServiceCredential()
		assert.Empty(t, cred.Token)
		assert.Equal(t, domain.RoleStaff, cred.Role)
		_, err := f.sessions.Current()
		assert.ErrorIs(t, err, session.ErrNoSession)
	})
}
