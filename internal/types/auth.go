package types

// Role distinguishes regular identities from the administrative identity.
type Role string

// Identity roles.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an authenticated identity as seen by the core. The authentication
// directory owns the full record; this is the safe projection it hands out.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
	Role     Role   `json:"role"`
	Verified bool   `json:"isVerified"`
}

// SameIdentity reports whether two possibly-nil users denote the same identity,
// comparing by id and role rather than by reference. Used to suppress duplicate
// subscription callbacks.
func SameIdentity(a, b *User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID && a.Role == b.Role
}
