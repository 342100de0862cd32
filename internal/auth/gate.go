// Package auth guards the admin back-office.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MikeMC777/leathershop/internal/domain"
	"github.com/MikeMC777/leathershop/internal/store"
)

const issuer = "leathershop"

// Gate logs the admin in and out and answers whether a session exists.
// Sessions have no expiry.
type Gate struct {
	store    *store.Store
	verifier Verifier
	secret   []byte
	now      func() time.Time
}

// NewGate signs session tokens with secret. An empty secret is replaced by a
// random one, which invalidates tokens across restarts.
func NewGate(s *store.Store, v Verifier, secret []byte) (*Gate, error) {
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("auth: session secret: %w", err)
		}
		log.Warn().Msg("SESSION_SECRET not set, using a random secret")
	}
	return &Gate{store: s, verifier: v, secret: secret, now: time.Now}, nil
}

// Login stores a session when the credentials verify. A failed login leaves
// any existing session untouched.
func (g *Gate) Login(ctx context.Context, email, password string) (bool, error) {
	user, ok, err := g.verifier.Verify(ctx, email, password)
	if err != nil {
		return false, fmt.Errorf("verify credentials: %w", err)
	}
	if !ok {
		log.Info().Str("email", email).Msg("admin login rejected")
		return false, nil
	}
	token, err := g.issue(user)
	if err != nil {
		return false, err
	}
	if err := g.store.SaveSession(ctx, domain.Session{User: user, Token: token}); err != nil {
		return false, err
	}
	log.Info().Str("user", user).Msg("admin logged in")
	return true, nil
}

func (g *Gate) Logout(ctx context.Context) error {
	return g.store.ClearSession(ctx)
}

// IsAuthenticated reports whether a session record is present.
func (g *Gate) IsAuthenticated(ctx context.Context) (bool, error) {
	_, ok, err := g.store.Session(ctx)
	return ok, err
}

// Session returns the stored session, or ErrUnauthorized when there is none.
func (g *Gate) Session(ctx context.Context) (domain.Session, error) {
	sess, ok, err := g.store.Session(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	if !ok {
		return domain.Session{}, domain.ErrUnauthorized
	}
	return sess, nil
}

func (g *Gate) AdminUser(ctx context.Context) (string, error) {
	sess, err := g.Session(ctx)
	if err != nil {
		return "", err
	}
	return sess.User, nil
}

// Authorize accepts token only if it is the token of the stored session and
// carries a valid signature.
func (g *Gate) Authorize(ctx context.Context, token string) error {
	sess, err := g.Session(ctx)
	if err != nil {
		return err
	}
	if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(sess.Token)) != 1 {
		return domain.ErrUnauthorized
	}
	if _, err := g.parse(token); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return nil
}

func (g *Gate) issue(user string) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:       uuid.NewString(),
		Subject:  user,
		Issuer:   issuer,
		IssuedAt: jwt.NewNumericDate(g.now().UTC()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign session token: %w", err)
	}
	return token, nil
}

func (g *Gate) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return g.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}
	return claims, nil
}
