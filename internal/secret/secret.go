// Package secret encrypts small sensitive values at rest with fernet tokens.
package secret

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fernet/fernet-go"
)

var (
	// ErrNoKey is returned when no key is configured.
	ErrNoKey = errors.New("secret key is not configured")
	// ErrInvalidToken is returned for tokens that fail verification.
	ErrInvalidToken = errors.New("invalid or tampered secret")
)

// Box encrypts and decrypts values with a single fernet key.
type Box struct {
	key *fernet.Key
}

// NewBox decodes a base64 fernet key.
func NewBox(encodedKey string) (*Box, error) {
	if strings.TrimSpace(encodedKey) == "" {
		return nil, ErrNoKey
	}
	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode secret key: %w", err)
	}
	return &Box{key: key}, nil
}

// GenerateKey returns a fresh base64 fernet key.
func GenerateKey() (string, error) {
	var k fernet.Key
	if err := k.Generate(); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return k.Encode(), nil
}

// Encrypt returns a fernet token for plain.
func (b *Box) Encrypt(plain string) (string, error) {
	tok, err := fernet.EncryptAndSign([]byte(plain), b.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt secret: %w", err)
	}
	return string(tok), nil
}

// Decrypt verifies and opens a token produced by Encrypt. Tokens never expire.
func (b *Box) Decrypt(token string) (string, error) {
	msg := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{b.key})
	if msg == nil {
		return "", ErrInvalidToken
	}
	return string(msg), nil
}

// Mask hides all but the last four characters.
func Mask(s string) string {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return ""
	}
	if n <= 4 {
		return strings.Repeat("*", n)
	}
	r := []rune(s)
	return strings.Repeat("*", n-4) + string(r[n-4:])
}
