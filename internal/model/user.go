package model

import "time"

// Role names permitted on a user account.  Every mutating route is gated on
// one or more of these values, carried in the JWT "role" claim.
const (
	RoleBuyer          = "buyer"
	RoleSeller         = "seller"
	RoleAuctionManager = "auction_manager"
	RoleSystemAdmin    = "system_admin"
	RoleSuperUser      = "super_user"
)

// ValidRole reports whether name belongs to the role enumeration.
func ValidRole(name string) bool {
	switch name {
	case RoleBuyer, RoleSeller, RoleAuctionManager, RoleSystemAdmin, RoleSuperUser:
		return true
	}
	return false
}

// User represents an application user record as stored in the `users`
// table.  The password hash is never serialized.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – one of the role constants above.
//  Street, City, Country – contact address parts (nullable).
//  Phone        – contact phone number (nullable).
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`         // users.id
	Name         string    `json:"name"`       // users.name
	Email        string    `json:"email"`      // users.email
	PasswordHash string    `json:"-"`          // users.password_hash, never serialized
	Role         string    `json:"role"`       // users.role
	Street       *string   `json:"street"`     // users.street (nullable)
	City         *string   `json:"city"`       // users.city (nullable)
	Country      *string   `json:"country"`    // users.country (nullable)
	Phone        *string   `json:"phone"`      // users.phone (nullable)
	IsActive     bool      `json:"is_active"`  // users.is_active
	CreatedAt    time.Time `json:"created_at"` // users.created_at
	UpdatedAt    time.Time `json:"updated_at"` // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is never stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (nil while still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
