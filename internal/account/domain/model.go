package domain

import "time"

type Role string

const (
	RoleUser   Role = "user"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
)

// Identity is the verified assertion handed over by the external identity
// provider. It is never trusted from the request body; the HTTP layer
// verifies the provider's token before building one of these.
type Identity struct {
	GoogleID string
	Name     string
	Email    string
	Picture  string
}

// Trainer is an ordinary user account ("dresseur"). Trainers never own
// listings; they book services and comment.
type Trainer struct {
	ID        string
	GoogleID  string
	Name      string
	Email     string
	Image     string
	CreatedAt time.Time
}

// Seller is an account authorized to post listings, created lazily from an
// external identity on first login.
type Seller struct {
	ID        string
	GoogleID  string
	Slug      string
	Name      string
	Email     string
	Image     string
	Role      Role
	CreatedAt time.Time
}

// Session is a server-side session record keyed by the cookie value.
type Session struct {
	ID        string
	AccountID string
	Role      Role
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
