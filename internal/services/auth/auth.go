// Package auth stores the fallback provider API token in the OS keychain.
//
// Sheet-driven runs always use the per-zone token from the sheet. The stored
// token is used by commands that address a zone directly.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"nathanbeddoewebdev/mailprov/internal/util"
)

const ServiceName = "mailprov"

var ErrTokenNotFound = errors.New("auth token not found")

type Store interface {
	SetToken(provider string, token string) error
	GetToken(provider string) (string, error)
	DeleteToken(provider string) error
}

// DefaultStore returns the standard auth store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NormalizeProvider normalizes a provider name for consistent key lookup.
func NormalizeProvider(provider string) string {
	return util.NormalizeKey(provider)
}

// Token sources reported by ResolveToken.
const (
	SourceFlag     = "flag"
	SourceEnv      = "environment"
	SourceKeychain = "keychain"
)

// ResolveToken picks an API token from, in order, the flag value, the
// environment value and the store. It returns the token and where it came
// from. A store miss is reported as ErrTokenNotFound.
func ResolveToken(flagValue, envValue string, store Store, provider string) (string, string, error) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, SourceFlag, nil
	}
	if v := strings.TrimSpace(envValue); v != "" {
		return v, SourceEnv, nil
	}
	if store == nil {
		return "", "", ErrTokenNotFound
	}

	token, err := store.GetToken(provider)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return "", "", fmt.Errorf("%w for %s (run 'mailprov auth login %s' or pass --token)", ErrTokenNotFound, provider, NormalizeProvider(provider))
		}
		return "", "", fmt.Errorf("reading keychain: %w", err)
	}
	return token, SourceKeychain, nil
}
