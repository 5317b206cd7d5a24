package users

import (
	"strings"
	"time"
)

type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	PasswordHash   string    `json:"-"`
	LastTemplateID *string   `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Preferences struct {
	FavoriteExercises []string `json:"favoriteExercises"`
	LastTemplate      *string  `json:"lastTemplate"`
}

// Profile is the user as shown to themselves.
type Profile struct {
	User
	Preferences Preferences `json:"preferences"`
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token string   `json:"token"`
	User  *Profile `json:"user"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
