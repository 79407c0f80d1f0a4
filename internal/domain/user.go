package domain

import "time"

// User is the admin's profile as held by the session. The platform fills
// different subsets depending on the endpoint, so every field is optional.
type User struct {
	ID                    string     `json:"id,omitempty"`
	UserID                string     `json:"userId,omitempty"`
	FullName              string     `json:"fullName,omitempty"`
	PhoneNumber           string     `json:"phoneNumber,omitempty"`
	Email                 string     `json:"email,omitempty"`
	CallingCode           string     `json:"callingCode,omitempty"`
	CountryCode           string     `json:"countryCode,omitempty"`
	Avatar                string     `json:"avatar,omitempty"`
	Status                string     `json:"status,omitempty"`
	Roles                 []string   `json:"roles,omitempty"`
	AuthProvider          []string   `json:"authProvider,omitempty"`
	IsPhoneNumberVerified bool       `json:"isPhoneNumberVerified,omitempty"`
	CreatedAt             *time.Time `json:"createdAt,omitempty"`
	UpdatedAt             *time.Time `json:"updatedAt,omitempty"`
}

// Identifier returns whichever ID the platform supplied.
func (u User) Identifier() string {
	if u.ID != "" {
		return u.ID
	}
	return u.UserID
}

// IsZero reports whether no profile field is set.
func (u User) IsZero() bool {
	return u.Identifier() == "" && u.FullName == "" && u.PhoneNumber == "" && u.Email == "" &&
		len(u.Roles) == 0 && u.Status == ""
}

// UserList is one page of the platform's user directory.
type UserList struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// UpdateUserInput is the editable subset of a user.
type UpdateUserInput struct {
	FullName string `json:"fullName" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
}
