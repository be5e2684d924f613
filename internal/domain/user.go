package domain

import "time"

// Roles
const (
	RoleUser  = "user"  // Regular account holder
	RoleAdmin = "admin" // Can list every user and income record
)

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                                // Primary key
	Name      string    `gorm:"size:120;not null" json:"name"`                                       // Display name
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`                          // Unique login email
	Password  string    `gorm:"not null" json:"-"`                                                   // Hashed password
	Role      string    `gorm:"size:16;default:user" json:"role"`                                    // Role: user or admin
	Account   Account   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"account"`        // One-to-one balances
	CreatedAt time.Time `json:"createdAt"`                                                           // Signup time
	UpdatedAt time.Time `json:"updatedAt"`                                                           // Last profile change
}
