package domain

import "time"

// User is an authenticated owner of properties, bookings, and keys.
type User struct {
	UserID       string `json:"userID"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`

	// Refresh token state; only the hash is stored.
	RefreshTokenHash       *string    `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`

	// Set for users created through Google sign-in.
	AuthProvider   *string `json:"authProvider,omitempty"`
	ProviderUserID *string `json:"-"`
}

// GoogleUserInfo is the subset of Google's userinfo response the sign-in
// flow consumes.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
