package users

import (
	"time"
)

// User represents an account in the social graph
// Posts is a reference list: ids of the posts this user owns, in creation order.
// It is maintained by the post service, never by clients.
type User struct {
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Avatar       string    `json:"avatar" db:"avatar"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Posts        []string  `json:"posts" db:"posts"`
}

// OwnerView is the limited projection of a user embedded in responses
// Only these three fields are ever exposed alongside content
type OwnerView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// View projects the user to its public owner view
func (u *User) View() OwnerView {
	return OwnerView{
		ID:     u.ID,
		Name:   u.Name,
		Avatar: u.Avatar,
	}
}

// RegisterRequest represents the input for creating a new account
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar,omitempty"`
}

// ProfileView is the profile response
type ProfileView struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Posts     []string  `json:"posts"`
	PostCount int       `json:"postCount"`
}
