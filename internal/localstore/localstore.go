// Package localstore holds small named values for a single local user.
//
// It stands in for browser local storage: each key maps to one opaque value
// that is replaced wholesale on every write. Three backends are available:
// a directory of files (the default), a SQLite database and an in-memory map
// used by tests and the "memory" storage setting.
package localstore

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when no value is stored under a key.
var ErrNotFound = errors.New("localstore: key not found")

// Storage is a durable string-keyed value store.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Kind names a storage backend.
type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// ParseKind validates a backend name. Empty selects KindFile.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindFile:
		return KindFile, nil
	case KindSQLite:
		return KindSQLite, nil
	case KindMemory:
		return KindMemory, nil
	default:
		return "", fmt.Errorf("unknown storage kind %q", s)
	}
}

// Open returns the backend named by kind rooted at dir.
func Open(kind Kind, dir string) (Storage, error) {
	switch kind {
	case KindFile, "":
		return OpenDir(dir)
	case KindSQLite:
		return OpenSQLite(dir)
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage kind %q", kind)
	}
}

func validKey(key string) error {
	if key == "" {
		return errors.New("localstore: empty key")
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '-', r == '.':
		default:
			return fmt.Errorf("localstore: invalid key %q", key)
		}
	}
	if strings.HasPrefix(key, ".") {
		return fmt.Errorf("localstore: invalid key %q", key)
	}
	return nil
}
