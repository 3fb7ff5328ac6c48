package dto

import "time"

// LoginSuccessResponse is returned after a successful login or refresh.
// The refresh token itself travels in an HTTP-only cookie.
type LoginSuccessResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}
