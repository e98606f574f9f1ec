package domain

import "time"

type UserRole string

const (
	UserRoleDriver UserRole = "DRIVER"
	UserRoleOwner  UserRole = "OWNER"
)

// User carries the minimum identity this system needs: enough to address
// lifecycle notifications. Authentication lives in an external component;
// ids arrive here already verified.
type User struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      UserRole  `json:"role"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}
