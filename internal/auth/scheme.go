package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordScheme decides how passwords are stored in the user directory.
type PasswordScheme interface {
	Name() string
	Hash(password string) (string, error)
	Matches(stored, password string) bool
}

// PlainScheme stores passwords as entered and compares them verbatim. It is
// the default so existing libraries keep working; see BcryptScheme.
type PlainScheme struct{}

func (PlainScheme) Name() string { return "plain" }

func (PlainScheme) Hash(password string) (string, error) { return password, nil }

func (PlainScheme) Matches(stored, password string) bool { return stored == password }

// BcryptScheme stores bcrypt hashes.
type BcryptScheme struct {
	Cost int
}

func (BcryptScheme) Name() string { return "bcrypt" }

func (b BcryptScheme) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (BcryptScheme) Matches(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// SchemeByName maps a config value to a scheme.
func SchemeByName(name string) (PasswordScheme, error) {
	switch name {
	case "", "plain":
		return PlainScheme{}, nil
	case "bcrypt":
		return BcryptScheme{}, nil
	default:
		return nil, errors.New("auth: unknown password scheme " + name)
	}
}
