// Package secrets keeps coach API keys in the OS keychain.
package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// DefaultService is the keychain service name entries are stored under.
const DefaultService = "circlez"

// ErrNotFound is returned when no key is stored for a provider.
var ErrNotFound = errors.New("secrets: not found")

// ErrUnavailable is returned when the platform has no usable keychain.
var ErrUnavailable = errors.New("secrets: keyring unavailable")

// KeyringStore reads and writes one API key per provider.
type KeyringStore struct {
	service string
}

// NewKeyringStore returns a store for the given service. An empty name
// falls back to DefaultService.
func NewKeyringStore(service string) *KeyringStore {
	if strings.TrimSpace(service) == "" {
		service = DefaultService
	}
	return &KeyringStore{service: service}
}

func (k *KeyringStore) key(provider string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return "", fmt.Errorf("secrets: provider is required")
	}
	return provider + "/apikey", nil
}

// Set stores key for provider, replacing any previous value.
func (k *KeyringStore) Set(provider, key string) error {
	name, err := k.key(provider)
	if err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("secrets: empty key for %s", provider)
	}
	if err := keyring.Set(k.service, name, key); err != nil {
		return wrap("set", provider, err)
	}
	return nil
}

// Get returns the key stored for provider.
func (k *KeyringStore) Get(provider string) (string, error) {
	name, err := k.key(provider)
	if err != nil {
		return "", err
	}
	val, err := keyring.Get(k.service, name)
	if err != nil {
		return "", wrap("get", provider, err)
	}
	return val, nil
}

// Delete removes the key stored for provider. Deleting a missing key is not
// an error.
func (k *KeyringStore) Delete(provider string) error {
	name, err := k.key(provider)
	if err != nil {
		return err
	}
	if err := keyring.Delete(k.service, name); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return wrap("delete", provider, err)
	}
	return nil
}

func wrap(op, provider string, err error) error {
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return fmt.Errorf("%s %s: %w", op, provider, ErrNotFound)
	case isKeyringUnavailable(err):
		return fmt.Errorf("%s %s: %w: %v", op, provider, ErrUnavailable, err)
	default:
		return fmt.Errorf("secrets: keyring %s %s: %w", op, provider, err)
	}
}

func isKeyringUnavailable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "secret service") ||
		strings.Contains(msg, "dbus") ||
		strings.Contains(msg, "no keychain") ||
		strings.Contains(msg, "keyring backend not available")
}
