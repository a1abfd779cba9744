package google

import (
	"context"
	"fmt"

	"github.com/elysian/account-api/internal/domain"
	"google.golang.org/api/idtoken"
)

// Claim holds the verified identity extracted from a Google ID token.
type Claim struct {
	Sub        string
	Email      string
	Name       string
	FamilyName string
}

// Verifier verifies Google ID tokens against a specific client ID.
type Verifier struct {
	clientID string
}

func NewVerifier(clientID string) *Verifier {
	return &Verifier{clientID: clientID}
}

// Verify validates the Google ID token and returns the extracted claim.
// Returns a domain.ErrUnauthorized-wrapped error if the token is invalid
// or was issued for a different audience.
func (v *Verifier) Verify(ctx context.Context, token string) (*Claim, error) {
	p, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid google token: %w", domain.ErrUnauthorized)
	}
	email, _ := p.Claims["email"].(string)
	name, _ := p.Claims["given_name"].(string)
	familyName, _ := p.Claims["family_name"].(string)
	return &Claim{
		Sub:        p.Subject,
		Email:      email,
		Name:       name,
		FamilyName: familyName,
	}, nil
}
