package domain

type UserRole string

const (
	RoleArtist  UserRole = "artist"
	RoleManager UserRole = "manager"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	return r == RoleArtist || r == RoleManager || r == RoleAdmin
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID int64
	Role   UserRole
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// SystemActor is used by on-demand maintenance jobs.
var SystemActor = Actor{Role: RoleAdmin}
