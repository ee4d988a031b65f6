package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"firebase.google.com/go/auth"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"ecocart/model"
	"ecocart/repository"
)

// Identity is an account known to the auth provider.
type Identity struct {
	UID   string
	Email string
}

// AuthProvider owns user credentials. CreateAccount returns ErrEmailTaken for
// duplicate emails and VerifyPassword returns ErrInvalidCredentials for any
// bad email or password.
type AuthProvider interface {
	CreateAccount(ctx context.Context, email, password string) (*Identity, error)
	VerifyPassword(ctx context.Context, email, password string) (*Identity, error)
	RevokeSessions(ctx context.Context, uid string) error
}

const identityToolkitURL = "https://identitytoolkit.googleapis.com/v1"

// FirebaseProvider creates accounts with the Admin SDK and checks passwords
// against the Identity Toolkit REST API, which the Admin SDK does not expose.
type FirebaseProvider struct {
	client  *auth.Client
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewFirebaseProvider(client *auth.Client, webAPIKey string) *FirebaseProvider {
	return &FirebaseProvider{
		client:  client,
		apiKey:  webAPIKey,
		baseURL: identityToolkitURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *FirebaseProvider) CreateAccount(ctx context.Context, email, password string) (*Identity, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	u, err := p.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create firebase user: %w", err)
	}
	return &Identity{UID: u.UID, Email: u.Email}, nil
}

type signInWithPasswordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInWithPasswordResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
}

type identityToolkitError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *FirebaseProvider) VerifyPassword(ctx context.Context, email, password string) (*Identity, error) {
	body, err := json.Marshal(signInWithPasswordRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/accounts:signInWithPassword", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", p.apiKey)

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity toolkit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr identityToolkitError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if resp.StatusCode == http.StatusBadRequest && isCredentialError(apiErr.Error.Message) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("identity toolkit returned %d: %s", resp.StatusCode, apiErr.Error.Message)
	}

	var out signInWithPasswordResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode identity toolkit response: %w", err)
	}
	if out.LocalID == "" {
		return nil, errors.New("identity toolkit response has no localId")
	}
	return &Identity{UID: out.LocalID, Email: out.Email}, nil
}

func isCredentialError(message string) bool {
	for _, code := range []string{"EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL", "USER_DISABLED"} {
		if strings.HasPrefix(message, code) {
			return true
		}
	}
	return false
}

func (p *FirebaseProvider) RevokeSessions(ctx context.Context, uid string) error {
	return p.client.RevokeRefreshTokens(ctx, uid)
}

// LocalProvider keeps bcrypt password hashes in credentials/{email}. It is
// used with the in-memory store and in environments without Firebase Auth.
type LocalProvider struct {
	creds repository.CredentialStore
	newID func() string
	cost  int
}

func NewLocalProvider(creds repository.CredentialStore) *LocalProvider {
	return &LocalProvider{creds: creds, newID: uuid.NewString, cost: bcrypt.DefaultCost}
}

func (p *LocalProvider) CreateAccount(ctx context.Context, email, password string) (*Identity, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	cred := &model.Credential{
		UID:          p.newID(),
		Email:        email,
		PasswordHash: string(hashed),
		CreatedAt:    time.Now(),
	}
	if err := p.creds.CreateCredential(ctx, cred); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &Identity{UID: cred.UID, Email: email}, nil
}

func (p *LocalProvider) VerifyPassword(ctx context.Context, email, password string) (*Identity, error) {
	cred, err := p.creds.GetCredential(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Identity{UID: cred.UID, Email: cred.Email}, nil
}

// RevokeSessions is a no-op; local sessions live only in the session store.
func (p *LocalProvider) RevokeSessions(context.Context, string) error { return nil }
