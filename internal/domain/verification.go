package domain

// VerificationCode is a pre-registration email ownership proof.
// PK: email — at most one live code per address; requesting a new code
// overwrites the previous one. The record is deleted on successful
// redemption and has no expiry or attempt counter.
type VerificationCode struct {
	Email string `json:"email" dynamodbav:"email"`
	Code  string `json:"code" dynamodbav:"code"` // 6 digits, zero-padded
}
