package domain

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleStaff   Role = "STAFF"
	RoleStudent Role = "STUDENT"
)

type User struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	ControlNumber string `json:"control_number"`
	Program       string `json:"program"`
	CreatedOn     string `json:"created_on"`
	UpdatedOn     string `json:"updated_on"`
}

// NormalizeRole maps the role strings the CMS hands back to our fixed set.
// The CMS default role "authenticated" stands for a regular member.
func NormalizeRole(raw string) Role {
	switch raw {
	case "admin", "administrator", "ADMIN":
		return RoleAdmin
	case "staff", "internal", "STAFF":
		return RoleStaff
	default:
		// "authenticated", "student", "member" and anything unknown.
		return RoleStudent
	}
}

func (r Role) CanManageCatalog() bool {
	return r == RoleAdmin || r == RoleStaff
}

func (r Role) CanManageLoans() bool {
	return r == RoleAdmin || r == RoleStaff
}

func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}
