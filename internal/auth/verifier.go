package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
)

const (
	DefaultEmail    = "admin@leathershop.com"
	DefaultPassword = "admin123"
	DefaultName     = "Admin User"
)

// Verifier checks admin credentials and names the user they belong to.
type Verifier interface {
	Verify(ctx context.Context, email, password string) (user string, ok bool, err error)
}

// StaticVerifier accepts a single admin identity. Only a bcrypt hash of the
// password is kept.
type StaticVerifier struct {
	email string
	name  string
	hash  string
}

func NewStaticVerifier(email, password, name string) (*StaticVerifier, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("auth: admin email and password required")
	}
	if name == "" {
		name = DefaultName
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash admin password: %w", err)
	}
	return &StaticVerifier{email: email, name: name, hash: hash}, nil
}

func (v *StaticVerifier) Verify(_ context.Context, email, password string) (string, bool, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(email)), []byte(v.email)) == 1
	// bcrypt runs on every attempt, matching email or not.
	pwOK := CheckPassword(v.hash, password)
	if !emailOK || !pwOK {
		return "", false, nil
	}
	return v.name, true, nil
}
