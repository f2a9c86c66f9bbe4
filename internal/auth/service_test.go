package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/angelmondragon/storefront-backend/internal/users"
	pkgAuth "github.com/angelmondragon/storefront-backend/pkg/auth"
	"github.com/angelmondragon/storefront-backend/pkg/auth/session"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	redisclient "github.com/angelmondragon/storefront-backend/pkg/redis"
	"github.com/angelmondragon/storefront-backend/pkg/security"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWT = config.JWTConfig{
	Secret:                 "test-secret",
	Issuer:                 "storefront-test",
	ExpirationMinutes:      15,
	RefreshTokenTTLMinutes: 60,
}

type fakeGoogle struct {
	identity *GoogleIdentity
	err      error
}

func (f fakeGoogle) Verify(context.Context, string) (*GoogleIdentity, error) {
	return f.identity, f.err
}

type fixture struct {
	svc      Service
	sessions *session.Manager
	now      time.Time
}

func newFixture(t *testing.T, google GoogleVerifier) fixture {
	t.Helper()
	client, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	mr := miniredis.RunT(t)
	rc := redisclient.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = rc.Close() })
	sessions, err := session.NewManager(rc, testJWT)
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	svc, err := NewService(ServiceParams{
		UserRepo:       users.NewRepository(client.DB()),
		SessionManager: sessions,
		Hasher:         security.NewHasher(config.PasswordConfig{ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}),
		Google:         google,
		JWTConfig:      testJWT,
		Storefront:     config.StorefrontConfig{AdminEmails: []string{"Dueña@Tienda.com"}},
		Now:            func() time.Time { return now },
	})
	require.NoError(t, err)
	return fixture{svc: svc, sessions: sessions, now: now}
}

func TestRegisterAssignsRoleFromAdminList(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	admin, err := f.svc.Register(ctx, RegisterRequest{Email: "dueña@tienda.com", Password: "supersecreto"})
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, admin.User.Role)

	claims, err := pkgAuth.ParseAccessToken(testJWT, admin.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
	ok, err := f.sessions.HasSession(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	shopper, err := f.svc.Register(ctx, RegisterRequest{Email: "ana@example.com", Password: "supersecreto"})
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleCustomer, shopper.User.Role)

	_, err = f.svc.Register(ctx, RegisterRequest{Email: "ANA@example.com", Password: "otrosecreto"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	_, err = f.svc.Register(ctx, RegisterRequest{Email: "b@example.com", Password: "corta"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestLoginChecksPassword(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, RegisterRequest{Email: "ana@example.com", Password: "supersecreto"})
	require.NoError(t, err)

	res, err := f.svc.Login(ctx, LoginRequest{Email: " Ana@Example.com ", Password: "supersecreto"})
	require.NoError(t, err)
	require.NotNil(t, res.User.LastLoginAt)
	assert.True(t, res.User.LastLoginAt.Equal(f.now))

	_, err = f.svc.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "incorrecta"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	_, err = f.svc.Login(ctx, LoginRequest{Email: "nadie@example.com", Password: "supersecreto"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestGoogleCreatesThenReusesAccount(t *testing.T) {
	google := fakeGoogle{identity: &GoogleIdentity{Subject: "g-1", Email: "luis@example.com", EmailVerified: true, Name: "Luis"}}
	f := newFixture(t, google)
	ctx := context.Background()

	first, err := f.svc.Google(ctx, GoogleRequest{IDToken: "token"})
	require.NoError(t, err)
	assert.True(t, first.User.GoogleLinked)
	assert.False(t, first.User.HasPassword)
	assert.Equal(t, "Luis", first.User.DisplayName)

	second, err := f.svc.Google(ctx, GoogleRequest{IDToken: "token"})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	// Google-only accounts cannot use password login.
	_, err = f.svc.Login(ctx, LoginRequest{Email: "luis@example.com", Password: "cualquiera"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestGoogleLinksExistingEmailAccount(t *testing.T) {
	google := fakeGoogle{identity: &GoogleIdentity{Subject: "g-2", Email: "ana@example.com", EmailVerified: true}}
	f := newFixture(t, google)
	ctx := context.Background()

	registered, err := f.svc.Register(ctx, RegisterRequest{Email: "ana@example.com", Password: "supersecreto"})
	require.NoError(t, err)

	linked, err := f.svc.Google(ctx, GoogleRequest{IDToken: "token"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, linked.User.ID)
	assert.True(t, linked.User.GoogleLinked)
	assert.True(t, linked.User.HasPassword)
}

func TestGoogleErrors(t *testing.T) {
	_, err := newFixture(t, nil).svc.Google(context.Background(), GoogleRequest{IDToken: "token"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	_, err = newFixture(t, fakeGoogle{err: errors.New("bad audience")}).svc.Google(context.Background(), GoogleRequest{IDToken: "token"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestRefreshRotatesAndLogoutRevokes(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	issued, err := f.svc.Register(ctx, RegisterRequest{Email: "ana@example.com", Password: "supersecreto"})
	require.NoError(t, err)

	refreshed, err := f.svc.Refresh(ctx, RefreshRequest{AccessToken: issued.AccessToken, RefreshToken: issued.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, issued.RefreshToken, refreshed.RefreshToken)

	_, err = f.svc.Refresh(ctx, RefreshRequest{AccessToken: issued.AccessToken, RefreshToken: issued.RefreshToken})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	claims, err := pkgAuth.ParseAccessToken(testJWT, refreshed.AccessToken)
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(ctx, claims.ID))
	ok, err := f.sessions.HasSession(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	me, err := f.svc.Me(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", me.Email)
}
