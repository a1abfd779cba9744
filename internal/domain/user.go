package domain

import "time"

// User is an account record. Email is unique across the users table
// (enforced by an existence check against the email-index GSI, not by a
// conditional write — see DESIGN.md on the duplicate-email race).
//
// Password is stored as the plaintext the client supplied. This mirrors the
// legacy backend byte for byte and is a known defect; it is never serialized
// into responses.
type User struct {
	UserID      string    `json:"id" dynamodbav:"user_id"`
	Name        string    `json:"name" dynamodbav:"name"`
	FamilyName  string    `json:"family_name" dynamodbav:"family_name"`
	Email       string    `json:"email" dynamodbav:"email"`
	Password    string    `json:"-" dynamodbav:"password"`
	AccessToken string    `json:"-" dynamodbav:"access_token,omitempty"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
}

type RegisterRequest struct {
	Name       string `json:"name" validate:"required"`
	FamilyName string `json:"familyName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FacebookClaim is the identity claim posted by the frontend after a
// Facebook client-side login. It is trusted as supplied — the access token
// is stored, not verified (legacy parity, see DESIGN.md).
type FacebookClaim struct {
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name"`
	AccessToken string `json:"accessToken"`
}
