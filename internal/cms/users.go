package cms

import (
	"context"

	"bibliotec-gateway/internal/domain"
)

const usersPath = "/api/users"

// Users is the resource service for patron and staff accounts.
type Users struct {
	client *Client
}

func NewUsers(client *Client) *Users {
	return &Users{client: client}
}

func (s *Users) List(ctx context.Context, cred Credential, filters map[string]string, page, pageSize int) ([]domain.User, int, error) {
	q := NewQuery().Filters(filters).Populate("role").Page(page, pageSize).Sort("name:asc")
	raw, err := s.client.Get(ctx, usersPath, q.Values(), cred)
	if err != nil {
		return nil, 0, err
	}
	entries, total, err := decodeList(raw)
	if err != nil {
		return nil, 0, err
	}
	users := make([]domain.User, len(entries))
	for i, e := range entries {
		users[i] = *userFromRecord(e)
	}
	return users, total, nil
}

func (s *Users) Get(ctx context.Context, cred Credential, id string) (*domain.User, error) {
	raw, err := s.client.Get(ctx, usersPath+"/"+id, NewQuery().Populate("role").Values(), cred)
	if err != nil {
		return nil, err
	}
	m, err := flattenRecord(raw)
	if err != nil {
		return nil, err
	}
	return userFromRecord(m), nil
}

// Me resolves the authenticated identity behind a session token. A 403 here
// is where the client distinguishes a dead session from a permission
// failure.
func (s *Users) Me(ctx context.Context, cred Credential) (*domain.User, error) {
	raw, err := s.client.Get(ctx, currentUserPath, NewQuery().Populate("role").Values(), cred)
	if err != nil {
		return nil, err
	}
	m, err := flattenRecord(raw)
	if err != nil {
		return nil, err
	}
	return userFromRecord(m), nil
}

func (s *Users) Create(ctx context.Context, cred Credential, user *domain.User) (*domain.User, error) {
	raw, err := s.client.Post(ctx, usersPath, userPayload(user), cred)
	if err != nil {
		return nil, err
	}
	m, err := flattenRecord(raw)
	if err != nil {
		return nil, err
	}
	return userFromRecord(m), nil
}

func (s *Users) Update(ctx context.Context, cred Credential, user *domain.User) (*domain.User, error) {
	raw, err := s.client.Put(ctx, usersPath+"/"+user.ID, userPayload(user), cred)
	if err != nil {
		return nil, err
	}
	m, err := flattenRecord(raw)
	if err != nil {
		return nil, err
	}
	return userFromRecord(m), nil
}

func (s *Users) Delete(ctx context.Context, cred Credential, id string) error {
	return s.client.Delete(ctx, usersPath+"/"+id, cred)
}

// userFromRecord also absorbs the role-shape mess: the CMS returns the role
// as a bare string, as {"type": ...}, or as a populated relation object.
func userFromRecord(m map[string]any) *domain.User {
	return &domain.User{
		ID:            recordID(m),
		Name:          strField(m, "name", "username", "displayName"),
		Email:         strField(m, "email"),
		Role:          roleFromRecord(m),
		ControlNumber: strField(m, "control_number", "controlNumber"),
		Program:       strField(m, "program", "major"),
		CreatedOn:     strField(m, "createdAt", "created_on"),
		UpdatedOn:     strField(m, "updatedAt", "updated_on"),
	}
}

func roleFromRecord(m map[string]any) domain.Role {
	switch v := m["role"].(type) {
	case string:
		return domain.NormalizeRole(v)
	case map[string]any:
		flat := flattenMap(v)
		if t := strField(flat, "type"); t != "" {
			return domain.NormalizeRole(t)
		}
		return domain.NormalizeRole(strField(flat, "name"))
	}
	return domain.NormalizeRole(strField(m, "type"))
}

func userPayload(u *domain.User) map[string]any {
	payload := map[string]any{
		"name":           u.Name,
		"email":          u.Email,
		"control_number": u.ControlNumber,
		"program":        u.Program,
	}
	// The role relation accepts the normalized name. Left out when unset so
	// the CMS default role applies to the new account.
	if u.Role != "" {
		payload["role"] = string(u.Role)
	}
	return payload
}
