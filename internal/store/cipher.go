package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"

	_ "github.com/mutecomm/go-sqlcipher/v4"
	"golang.org/x/crypto/scrypt"
)

// Encryption-at-rest is a pluggable transform at the storage boundary: when
// a passphrase is configured the database file is opened through SQLCipher
// instead of the plain driver. Schema and API are identical either way.

const saltLen = 16

// OpenEncrypted opens (or creates) an SQLCipher-encrypted database at path.
// The page key is derived from passphrase with scrypt and a random salt kept
// next to the database file.
func OpenEncrypted(ctx context.Context, path, passphrase string) (*DB, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("%w: empty passphrase", ErrValidation)
	}
	salt, err := loadOrCreateSalt(path + ".salt")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("%s?_pragma_key=x'%s'&_pragma_cipher_page_size=4096", path, hex.EncodeToString(key))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return initDB(ctx, db)
}

// deriveKey stretches the passphrase into a 32-byte SQLCipher key.
func deriveKey(passphrase string, salt []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, 1<<15, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("deriving key: %w", err)
	}
	return key, nil
}

func loadOrCreateSalt(path string) ([]byte, error) {
	if data, err := os.ReadFile(path); err == nil {
		if len(data) != saltLen {
			return nil, fmt.Errorf("salt file %s: unexpected length %d", path, len(data))
		}
		return data, nil
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, salt, 0o600); err != nil {
		return nil, err
	}
	return salt, nil
}
