// Package cryptoutil seals sensitive session values (the bearer token) before they reach storage.
package cryptoutil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Sealer protects a value at rest and recovers it on read.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// sealedPrefixV1 marks values written by AESGCMSealer. The version allows key rotation later.
const sealedPrefixV1 = "enc:v1:"

// IsSealed reports whether v was produced by AESGCMSealer.
func IsSealed(v string) bool { return strings.HasPrefix(v, sealedPrefixV1) }

// AESGCMSealer seals values with AES-256-GCM.
type AESGCMSealer struct {
	aead cipher.AEAD
}

// NewAESGCMSealer constructs a sealer. Key must be 32 bytes (AES-256).
func NewAESGCMSealer(key []byte) (*AESGCMSealer, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("aes-gcm key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESGCMSealer{aead: gcm}, nil
}

// ParseKey accepts a 32-byte key given raw or base64-encoded.
func ParseKey(s string) ([]byte, error) {
	if len(s) == 32 {
		return []byte(s), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	if len(decoded) != 32 {
		return nil, fmt.Errorf("aes-gcm key must be 32 bytes, got %d", len(decoded))
	}
	return decoded, nil
}

// Seal encrypts plaintext with a random nonce. Empty input stays empty.
func (s *AESGCMSealer) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	// nonce||ciphertext
	buf := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return sealedPrefixV1 + base64.StdEncoding.EncodeToString(buf), nil
}

// Open decrypts a sealed value. Unprefixed values are returned unchanged,
// so records written before a key was configured still load.
func (s *AESGCMSealer) Open(sealed string) (string, error) {
	if !IsSealed(sealed) {
		return sealed, nil
	}
	data, err := base64.StdEncoding.DecodeString(sealed[len(sealedPrefixV1):])
	if err != nil {
		return "", fmt.Errorf("decode sealed value: %w", err)
	}
	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("sealed value too short")
	}
	pt, err := s.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

// PlainSealer stores values as-is. It refuses to open sealed values since it has no key.
type PlainSealer struct{}

func (PlainSealer) Seal(plaintext string) (string, error) { return plaintext, nil }

func (PlainSealer) Open(sealed string) (string, error) {
	if IsSealed(sealed) {
		return "", errors.New("value is sealed but no key is configured")
	}
	return sealed, nil
}
