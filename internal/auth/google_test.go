package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func TestIDTokenVerifierMapsClaims(t *testing.T) {
	v, err := NewIDTokenVerifier("client-id.apps.googleusercontent.com")
	require.NoError(t, err)
	v.validate = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		assert.Equal(t, "raw", token)
		assert.Equal(t, "client-id.apps.googleusercontent.com", audience)
		return &idtoken.Payload{Subject: "sub-1", Claims: map[string]any{
			"email":          " Ana@Example.com ",
			"email_verified": true,
			"name":           "Ana Paz",
		}}, nil
	}

	identity, err := v.Verify(context.Background(), "raw")
	require.NoError(t, err)
	assert.Equal(t, &GoogleIdentity{Subject: "sub-1", Email: "ana@example.com", EmailVerified: true, Name: "Ana Paz"}, identity)
}

func TestIDTokenVerifierRejects(t *testing.T) {
	_, err := NewIDTokenVerifier(" ")
	assert.Error(t, err)

	v, err := NewIDTokenVerifier("client")
	require.NoError(t, err)
	v.validate = func(context.Context, string, string) (*idtoken.Payload, error) {
		return nil, errors.New("expired")
	}
	_, err = v.Verify(context.Background(), "raw")
	assert.Error(t, err)

	v.validate = func(context.Context, string, string) (*idtoken.Payload, error) {
		return &idtoken.Payload{Subject: "sub"}, nil
	}
	_, err = v.Verify(context.Background(), "raw")
	assert.Error(t, err)
}
