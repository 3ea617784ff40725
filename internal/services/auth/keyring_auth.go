package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringStore keeps one API token per DNS provider in the OS keychain under
// the account "dns:<provider>".
type KeyringStore struct {
	service string
}

func NewKeyringStore(service string) *KeyringStore {
	if service == "" {
		service = ServiceName
	}
	return &KeyringStore{service: service}
}

func account(provider string) string {
	return "dns:" + NormalizeProvider(provider)
}

func (k *KeyringStore) SetToken(provider string, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("refusing to store an empty token")
	}
	if err := keyring.Set(k.service, account(provider), token); err != nil {
		return fmt.Errorf("keychain: %w", err)
	}
	return nil
}

func (k *KeyringStore) GetToken(provider string) (string, error) {
	token, err := keyring.Get(k.service, account(provider))
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return "", ErrTokenNotFound
	case err != nil:
		return "", fmt.Errorf("keychain: %w", err)
	}
	return token, nil
}

func (k *KeyringStore) DeleteToken(provider string) error {
	err := keyring.Delete(k.service, account(provider))
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return ErrTokenNotFound
	case err != nil:
		return fmt.Errorf("keychain: %w", err)
	}
	return nil
}
