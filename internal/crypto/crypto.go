// Package crypto seals provider API keys kept in the Postgres registry.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

var (
	ErrShortKey   = errors.New("MASTER_KEY must be at least 32 bytes")
	ErrCiphertext = errors.New("invalid ciphertext")
)

// newGCM uses the first 32 bytes of masterKey as an AES-256 key.
func newGCM(masterKey string) (cipher.AEAD, error) {
	if len(masterKey) < 32 {
		return nil, ErrShortKey
	}
	block, err := aes.NewCipher([]byte(masterKey)[:32])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt returns base64url(nonce || ciphertext).
func Encrypt(masterKey, plaintext string) (string, error) {
	gcm, err := newGCM(masterKey)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func Decrypt(masterKey, encoded string) (string, error) {
	gcm, err := newGCM(masterKey)
	if err != nil {
		return "", err
	}
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCiphertext, err)
	}
	if len(data) < gcm.NonceSize() {
		return "", ErrCiphertext
	}
	nonce, sealed := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCiphertext, err)
	}
	return string(plaintext), nil
}
