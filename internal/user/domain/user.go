package domain

import "time"

// User is the stored record. Username is the identity and never changes;
// PasswordHash never leaves the service layer.
type User struct {
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	JoinAt       time.Time
	LastLoginAt  time.Time
}

// Profile is the public projection of a user.
type Profile struct {
	Username  string
	FirstName string
	LastName  string
	Phone     string
}

func (u User) Profile() Profile {
	return Profile{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}
