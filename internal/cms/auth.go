package cms

import (
	"context"
	"fmt"

	"bibliotec-gateway/internal/domain"
)

// Auth wraps the CMS credential endpoints. Password storage and checking
// are entirely the CMS's business; the gateway only forwards them.
type Auth struct {
	client *Client
	users  *Users
}

func NewAuth(client *Client, users *Users) *Auth {
	return &Auth{client: client, users: users}
}

// Login exchanges credentials for a session token and the resolved user.
// The CMS returns {jwt, user} with the user in any of its envelope shapes.
func (s *Auth) Login(ctx context.Context, identifier, password string) (string, *domain.User, error) {
	raw, err := s.client.PostRaw(ctx, "/api/auth/local", map[string]any{
		"identifier": identifier,
		"password":   password,
	}, Anonymous)
	if err != nil {
		return "", nil, err
	}
	return s.sessionFromResponse(ctx, raw)
}

// Register creates an account and logs it straight in, mirroring the CMS
// register endpoint's response shape.
func (s *Auth) Register(ctx context.Context, name, email, password string) (string, *domain.User, error) {
	raw, err := s.client.PostRaw(ctx, "/api/auth/local/register", map[string]any{
		"username": name,
		"email":    email,
		"password": password,
	}, Anonymous)
	if err != nil {
		return "", nil, err
	}
	return s.sessionFromResponse(ctx, raw)
}

func (s *Auth) sessionFromResponse(ctx context.Context, raw []byte) (string, *domain.User, error) {
	m, err := flattenRecord(raw)
	if err != nil {
		return "", nil, err
	}
	token := strField(m, "jwt", "token")
	if token == "" {
		return "", nil, fmt.Errorf("cms auth response carried no token")
	}

	var user *domain.User
	hasRole := false
	if u, ok := m["user"].(map[string]any); ok {
		flat := flattenMap(u)
		_, hasRole = flat["role"]
		user = userFromRecord(flat)
	}
	// The login payload often omits the role relation; resolve it with the
	// fresh token so role gating works from the first request.
	if user == nil || !hasRole {
		resolved, err := s.users.Me(ctx, Credential{Token: token})
		if err == nil {
			user = resolved
		}
	}
	if user == nil {
		return "", nil, fmt.Errorf("cms auth response carried no user")
	}
	return token, user, nil
}
