package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ecocart/repository"
)

type stubCaptcha struct{ err error }

func (s stubCaptcha) Verify(context.Context, CaptchaEvent) error { return s.err }

type authFixture struct {
	repo     *repository.Memory
	sessions *SessionService
	auth     *AuthService
}

func newAuthFixture(t *testing.T, captcha CaptchaVerifier) *authFixture {
	t.Helper()
	repo := repository.NewMemory()
	provider := NewLocalProvider(repo)
	provider.cost = bcrypt.MinCost
	sessions := NewSessionService(repo, "access-secret", "refresh-secret", zap.NewNop())
	return &authFixture{
		repo:     repo,
		sessions: sessions,
		auth:     NewAuthService(provider, repo, sessions, captcha, zap.NewNop()),
	}
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, nil)

	res, err := f.auth.SignUp(ctx, Credentials{Email: "ada@example.com", Password: "secret1"}, CaptchaEvent{})
	require.NoError(t, err)
	require.NotEmpty(t, res.User.UID)

	user, err := f.repo.GetUser(ctx, res.User.UID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Zero(t, user.EcoPoints)

	claims, err := f.sessions.ParseAccessToken(res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.UID, claims.UserID)

	_, err = f.auth.SignUp(ctx, Credentials{Email: "ada@example.com", Password: "another1"}, CaptchaEvent{})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, "This email is already registered.", PublicMessage(err))
}

func TestSignUpValidation(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, nil)

	_, err := f.auth.SignUp(ctx, Credentials{Email: "not-an-email", Password: "secret1"}, CaptchaEvent{})
	requireKind(t, err, KindValidation)
	assert.Equal(t, "email", FieldOf(err))

	_, err = f.auth.SignUp(ctx, Credentials{Email: "ada@example.com", Password: "12345"}, CaptchaEvent{})
	requireKind(t, err, KindValidation)
	assert.Equal(t, "Password must be at least 6 characters long.", PublicMessage(err))
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, nil)
	up, err := f.auth.SignUp(ctx, Credentials{Email: "ada@example.com", Password: "secret1"}, CaptchaEvent{})
	require.NoError(t, err)

	in, err := f.auth.SignIn(ctx, Credentials{Email: "ada@example.com", Password: "secret1"}, CaptchaEvent{})
	require.NoError(t, err)
	assert.Equal(t, up.User.UID, in.User.UID)

	_, err = f.auth.SignIn(ctx, Credentials{Email: "ada@example.com", Password: "wrong-pw"}, CaptchaEvent{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.SignIn(ctx, Credentials{Email: "bob@example.com", Password: "secret1"}, CaptchaEvent{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCaptchaRejection(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, stubCaptcha{err: ErrCaptchaRejected})

	_, err := f.auth.SignUp(ctx, Credentials{Email: "ada@example.com", Password: "secret1"}, CaptchaEvent{Token: "t"})
	assert.ErrorIs(t, err, ErrCaptchaRejected)
	_, err = f.repo.GetCredential(ctx, "ada@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRefreshAndSignOut(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, nil)
	res, err := f.auth.SignUp(ctx, Credentials{Email: "ada@example.com", Password: "secret1"}, CaptchaEvent{})
	require.NoError(t, err)

	pair, err := f.auth.Refresh(ctx, res.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, res.Tokens.RefreshToken, pair.RefreshToken)
	claims, err := f.sessions.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email)

	_, err = f.auth.Refresh(ctx, res.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrSessionExpired, "access tokens are not refresh tokens")

	f.auth.SignOut(ctx, res.User.UID)
	_, err = f.auth.Refresh(ctx, res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrSessionExpired)

	// signing out twice, or without a session, still succeeds
	f.auth.SignOut(ctx, res.User.UID)
	f.auth.SignOut(ctx, "nobody")
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	sessions := NewSessionService(repo, "same-secret", "same-secret", zap.NewNop())

	pair, err := sessions.Issue(ctx, "u1", "u1@example.com")
	require.NoError(t, err)

	_, err = sessions.ParseAccessToken(pair.RefreshToken)
	assert.Error(t, err)
	_, err = sessions.Authenticate(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrSessionExpired)
	_, err = sessions.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrSessionExpired)

	claims, err := sessions.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestAuthenticateChecksSession(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, nil)
	res, err := f.auth.SignUp(ctx, Credentials{Email: "ada@example.com", Password: "secret1"}, CaptchaEvent{})
	require.NoError(t, err)

	_, err = f.sessions.Authenticate(ctx, res.Tokens.AccessToken)
	require.NoError(t, err)

	f.auth.SignOut(ctx, res.User.UID)
	_, err = f.sessions.Authenticate(ctx, res.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrSessionExpired)

	other := NewSessionService(repository.NewMemory(), "access-secret", "refresh-secret", zap.NewNop())
	_, err = other.Authenticate(ctx, res.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrSessionExpired, "no stored session")
}

func TestParseAccessTokenRejectsForeignTokens(t *testing.T) {
	repo := repository.NewMemory()
	ours := NewSessionService(repo, "access-secret", "refresh-secret", zap.NewNop())
	theirs := NewSessionService(repo, "other-secret", "refresh-secret", zap.NewNop())

	pair, err := theirs.Issue(context.Background(), "u1", "u1@example.com")
	require.NoError(t, err)
	_, err = ours.ParseAccessToken(pair.AccessToken)
	assert.Error(t, err)
	_, err = ours.ParseAccessToken("garbage")
	assert.Error(t, err)
}

func TestFirebaseProviderVerifyPassword(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signInWithPassword", r.URL.Path)
		assert.Equal(t, "web-key", r.Header.Get("X-Goog-Api-Key"))
		assert.Empty(t, r.URL.RawQuery)
		var req signInWithPasswordRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		switch req.Password {
		case "secret1":
			_ = json.NewEncoder(w).Encode(map[string]string{"localId": "uid-1", "email": req.Email})
		case "boom":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"code":500,"message":"INTERNAL"}}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"INVALID_LOGIN_CREDENTIALS"}}`))
		}
	}))
	defer srv.Close()

	p := NewFirebaseProvider(nil, "web-key")
	p.baseURL = srv.URL
	p.http = srv.Client()

	id, err := p.VerifyPassword(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", id.UID)

	_, err = p.VerifyPassword(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.VerifyPassword(ctx, "ada@example.com", "boom")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
