package auth

import (
	"errors"
	"log"
	"sync"

	"PokerClubBooks/internal/serviceiface"

	"github.com/golang-jwt/jwt/v5"
)

// User is the authenticated caller extracted from a verified bearer token.
// Accounts live in the external identity provider; this service only
// verifies signatures and lifts claims.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type AuthService struct {
	secret   []byte
	audience string
	mu       sync.Mutex
	verified int64
	rejected int64
}

var (
	globalAuthService *AuthService
	globalAuthOnce    sync.Once
)

// SetGlobalAuthService wires the auth service for middleware use.
func SetGlobalAuthService(svc *AuthService) {
	globalAuthOnce.Do(func() {
		globalAuthService = svc
	})
}

// GetGlobalAuthService returns the wired auth service, or nil before boot.
func GetGlobalAuthService() *AuthService {
	return globalAuthService
}

func NewAuthService(secret string, audience string) serviceiface.Service {
	if audience == "" {
		audience = "authenticated"
	}
	return &AuthService{secret: []byte(secret), audience: audience}
}

func (a *AuthService) Name() string { return "auth" }

func (a *AuthService) Start() error {
	if len(a.secret) == 0 {
		log.Println("[ERROR] auth service started without JWT_SECRET; all requests will be rejected")
	}
	return nil
}

func (a *AuthService) Stop() error { return nil }

// VerifyToken checks an HS256 bearer token and returns the caller it names.
func (a *AuthService) VerifyToken(tokenString string) (*User, error) {
	if len(a.secret) == 0 {
		return nil, errors.New("auth secret not configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithAudience(a.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		a.count(false)
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		a.count(false)
		return nil, errors.New("unexpected claims type")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		a.count(false)
		return nil, errors.New("token missing subject")
	}
	email, _ := claims["email"].(string)

	a.count(true)
	return &User{ID: sub, Email: email}, nil
}

func (a *AuthService) count(ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if ok {
		a.verified++
	} else {
		a.rejected++
	}
}

// Stats reports how many tokens were verified and rejected since boot.
func (a *AuthService) Stats() (verified, rejected int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.verified, a.rejected
}
