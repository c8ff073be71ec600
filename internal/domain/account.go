package domain

import "time"

// Account is the owner record. Between registration and OTP verification it is
// a pending account: OTP and ExpiresAt are set and Verified is false. The
// Verification Gate removes both when it flips Verified; the Expiry Sweeper
// (and the table's TTL on expires_at) deletes the record if that never happens.
type Account struct {
	AccountID    string     `json:"id" dynamodbav:"account_id"`
	Name         string     `json:"name" dynamodbav:"name"`
	Email        string     `json:"email" dynamodbav:"email"`
	Phone        *string    `json:"phone,omitempty" dynamodbav:"phone"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	OTP          string     `json:"-" dynamodbav:"otp,omitempty"`
	Verified     bool       `json:"verified" dynamodbav:"verified"`
	BusinessID   string     `json:"business_id,omitempty" dynamodbav:"business_id"`
	AuthProvider string     `json:"auth_provider,omitempty" dynamodbav:"auth_provider"` // "local" | "google"
	GoogleSub    string     `json:"-" dynamodbav:"google_sub"`
	ExpiresAt    int64      `json:"-" dynamodbav:"expires_at,omitempty"` // TTL (Unix seconds), pending accounts only
	CreatedAt    time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type RegisterRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Phone    *string `json:"phone" validate:"omitempty,e164"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}
