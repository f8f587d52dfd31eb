package domain

import (
	"strings"

	"github.com/asaskevich/govalidator"
)

// User roles. The relational schema has no discriminant column; the role is
// derived from which detail table has a matching row, admin taking
// precedence. The document schema stores the role explicitly.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleUnknown  = "unknown"
)

// Admin departments.
const (
	DepartmentIT      = "IT"
	DepartmentHR      = "HR"
	DepartmentFinance = "Finance"
)

// User is a row in the relational users table.
type User struct {
	ID       int64
	Name     string
	Email    string
	Password string
}

// Credentials are the login inputs.
type Credentials struct {
	Email    string
	Password string
}

// Validate rejects obviously malformed credentials before a store is asked.
func (c *Credentials) Validate() error {
	if !govalidator.IsEmail(strings.TrimSpace(c.Email)) {
		return NewValidationError("email is malformed")
	}
	if c.Password == "" {
		return NewValidationError("password is required")
	}
	return nil
}

// Identity is the opaque record returned on a successful credential check.
type Identity struct {
	UserID     int64  `json:"user_id"`
	Name       string `json:"user_name"`
	Role       string `json:"role"`
	RoleDetail string `json:"role_detail"`
}

// UserAccount is the admin-facing user listing shape: base identity plus the
// role and the role-specific detail (department or address).
type UserAccount struct {
	UserID     int64  `json:"user_id"`
	Name       string `json:"user_name"`
	Email      string `json:"user_email"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	Address    string `json:"address,omitempty"`
}

// AdminDetails is the role sub-document for admins.
type AdminDetails struct {
	Department string `bson:"department"`
}

// CustomerDetails is the role sub-document for customers.
type CustomerDetails struct {
	Address string `bson:"address"`
}

// UserDocument is the user shape in the document store. Exactly one of the
// role detail sub-documents is set, matching Role.
type UserDocument struct {
	ID              int64            `bson:"_id"`
	Name            string           `bson:"name"`
	Email           string           `bson:"email"`
	Password        string           `bson:"password"`
	Role            string           `bson:"role"`
	AdminDetails    *AdminDetails    `bson:"admin_details,omitempty"`
	CustomerDetails *CustomerDetails `bson:"customer_details,omitempty"`
}

// RoleDetail returns the department or address matching the stored role.
func (d *UserDocument) RoleDetail() string {
	switch d.Role {
	case RoleAdmin:
		if d.AdminDetails != nil {
			return d.AdminDetails.Department
		}
	case RoleCustomer:
		if d.CustomerDetails != nil {
			return d.CustomerDetails.Address
		}
	}
	return ""
}
