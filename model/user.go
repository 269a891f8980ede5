package model

import "strings"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	WebUserID   int64  `json:"webUserId,omitempty"`
	FirstName   string `json:"firstName,omitempty" validate:"required"`
	LastName    string `json:"lastName,omitempty" validate:"required"`
	EmailID     string `json:"emailId,omitempty" validate:"required,email"`
	Age         int    `json:"age,omitempty" validate:"min=0"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"required"`
	Username    string `json:"username,omitempty" validate:"required"`
	Role        string `json:"role,omitempty" validate:"required,oneof=USER ADMIN"`
	Password    string `json:"password,omitempty"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Credentials is the body of the authenticate call
type Credentials struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Password    string `json:"password" validate:"required"`
}
