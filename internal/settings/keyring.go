package settings

import (
	"context"
	"errors"

	"github.com/99designs/keyring"
)

const keyringServiceName = "flickrauth"

// KeyringStore keeps settings in the OS keyring (Keychain, Secret Service, Windows
// Credential Manager, ...) via 99designs/keyring
type KeyringStore struct {
	ring keyring.Keyring
}

// OpenKeyringStore tries to open the OS keyring. If no backend is available it returns
// an error, so callers can fall back to another store.
func OpenKeyringStore() (*KeyringStore, error) {
	r, err := keyring.Open(keyring.Config{ServiceName: keyringServiceName})
	if err != nil {
		return nil, err
	}
	return NewKeyringStore(r), nil
}

func NewKeyringStore(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

func (s *KeyringStore) GetString(ctx context.Context, key string) (string, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", nil
		}
		return "", err
	}
	return string(item.Data), nil
}

func (s *KeyringStore) SetString(ctx context.Context, key, value string) error {
	return s.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: keyringServiceName,
	})
}
