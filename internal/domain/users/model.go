package users

import "time"

// Roles an account can hold. Premium is only ever granted through the
// upgrade flow, never at registration.
const (
	RoleBasic   = "basic"
	RolePremium = "premium"
	RoleAdmin   = "admin"
)

type User struct {
	ID        uint    `gorm:"primaryKey"`
	FirstName string
	LastName  string
	Email     string  `gorm:"not null;uniqueIndex:idx_users_email"`
	Password  *string `gorm:""`
	Role      string  `gorm:"not null;default:'basic'"`

	EmailVerified         bool `gorm:"not null;default:false"`
	RegistrationCompleted bool `gorm:"not null;default:false"`
	ProfileCompleted      bool `gorm:"not null;default:false"`
	IsPremium             bool `gorm:"not null;default:false"`

	Points int    `gorm:"not null;default:0"`
	Level  int    `gorm:"not null;default:1"`
	Status string `gorm:"not null;default:'active'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
