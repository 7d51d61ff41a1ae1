package auth

import (
	"crypto/rand"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	CookieName    = "courtmatch_session"
	SessionExpiry = 24 * time.Hour
	issuer        = "courtmatch"
	subject       = "organizer"
)

// Tennis words for password generation
var tennisWords = []string{
	"ace", "volley", "rally", "deuce", "baseline",
	"lob", "smash", "slice", "topspin", "serve",
	"net", "court", "racket", "advantage", "drop",
	"clay", "grass", "tiebreak", "forehand",
}

// Config configures organizer authentication. PasswordHash, when set, takes
// precedence over Password.
type Config struct {
	Password     string
	PasswordHash string
	Secret       string
	TTL          time.Duration
	// Cost is the bcrypt cost used when hashing Password
	Cost int
}

// Auth handles organizer authentication with signed session tokens
type Auth struct {
	hash    []byte
	secret  []byte
	ttl     time.Duration
	revoked map[string]time.Time // token id -> expiry
	mu      sync.RWMutex
	now     func() time.Time
}

// New creates an Auth from cfg. An empty Secret gets a random one, so
// sessions do not survive a restart.
func New(cfg Config) (*Auth, error) {
	var hash []byte
	switch {
	case cfg.PasswordHash != "":
		hash = []byte(cfg.PasswordHash)
		if _, err := bcrypt.Cost(hash); err != nil {
			return nil, err
		}
	case cfg.Password != "":
		cost := cfg.Cost
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.Password), cost)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("an organizer password or password hash is required")
	}

	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = SessionExpiry
	}

	return &Auth{
		hash:    hash,
		secret:  secret,
		ttl:     ttl,
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}, nil
}

// TTL returns how long issued sessions stay valid
func (a *Auth) TTL() time.Duration {
	return a.ttl
}

// GeneratePassword creates a random 3-word password
func GeneratePassword() string {
	words := make([]string, 3)
	for i := range words {
		idx := randomInt(len(tennisWords))
		words[i] = tennisWords[idx]
	}
	return strings.Join(words, "-")
}

// HashPassword returns the bcrypt hash of password, for use as a configured hash
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// Login validates the password and returns a session token if valid
func (a *Auth) Login(password string) (string, bool) {
	if bcrypt.CompareHashAndPassword(a.hash, []byte(password)) != nil {
		return "", false
	}

	now := a.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	})
	s, err := tok.SignedString(a.secret)
	if err != nil {
		return "", false
	}
	return s, true
}

// Logout revokes a session token until it would have expired anyway
func (a *Auth) Logout(token string) {
	claims, err := a.parse(token)
	if err != nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.revoked[claims.ID] = claims.ExpiresAt.Time
	a.pruneLocked()
}

// ValidateSession checks if a session token is valid
func (a *Auth) ValidateSession(token string) bool {
	if token == "" {
		return false
	}
	claims, err := a.parse(token)
	if err != nil {
		return false
	}
	a.mu.RLock()
	_, revoked := a.revoked[claims.ID]
	a.mu.RUnlock()
	return !revoked
}

func (a *Auth) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithSubject(subject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// pruneLocked forgets revocations whose tokens have expired. a.mu must be held.
func (a *Auth) pruneLocked() {
	now := a.now()
	for id, exp := range a.revoked {
		if now.After(exp) {
			delete(a.revoked, id)
		}
	}
}

// TokenFromRequest returns the session token from the cookie or, failing
// that, an Authorization: Bearer header
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// GetSessionFromRequest extracts and validates the session from a request
func (a *Auth) GetSessionFromRequest(r *http.Request) bool {
	return a.ValidateSession(TokenFromRequest(r))
}

// RequireAuthAPI middleware for API endpoints (returns 401)
func (a *Auth) RequireAuthAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.GetSessionFromRequest(r) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"code":"UNAUTHORIZED","error":"Unauthorized - please log in"}`))
	})
}

// SetSessionCookie sets the session cookie on the response
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// randomInt returns a random int in [0, max)
func randomInt(max int) int {
	bytes := make([]byte, 1)
	rand.Read(bytes)
	return int(bytes[0]) % max
}
