package auth

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"

	"github.com/angelmondragon/storefront-backend/internal/users"
)

// GoogleIdentity is the verified subset of a Google ID token.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// GoogleVerifier validates Google ID tokens.
type GoogleVerifier interface {
	Verify(ctx context.Context, rawToken string) (*GoogleIdentity, error)
}

type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// IDTokenVerifier checks tokens against Google's published keys for one
// OAuth client ID.
type IDTokenVerifier struct {
	clientID string
	validate validateFunc
}

func NewIDTokenVerifier(clientID string) (*IDTokenVerifier, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, fmt.Errorf("google client id is required")
	}
	return &IDTokenVerifier{clientID: clientID, validate: idtoken.Validate}, nil
}

func (v *IDTokenVerifier) Verify(ctx context.Context, rawToken string) (*GoogleIdentity, error) {
	payload, err := v.validate(ctx, rawToken, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("validate google id token: %w", err)
	}
	return identityFromPayload(payload)
}

func identityFromPayload(payload *idtoken.Payload) (*GoogleIdentity, error) {
	if payload == nil || strings.TrimSpace(payload.Subject) == "" {
		return nil, fmt.Errorf("google id token has no subject")
	}
	identity := &GoogleIdentity{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		identity.Email = users.NormalizeEmail(email)
	}
	switch verified := payload.Claims["email_verified"].(type) {
	case bool:
		identity.EmailVerified = verified
	case string:
		identity.EmailVerified = verified == "true"
	}
	if name, ok := payload.Claims["name"].(string); ok {
		identity.Name = strings.TrimSpace(name)
	}
	if identity.Email == "" {
		return nil, fmt.Errorf("google id token has no email")
	}
	return identity, nil
}
