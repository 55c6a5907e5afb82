// Package crypto implements the extra-info cipher of push payloads and the
// offline verification code generator.
package crypto

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/dtroode/approver/internal/model"
)

const extrasKeyInfo = "approver-extras:"

var _ model.ExtrasDecryptor = (*ExtrasCipher)(nil)

// ExtrasCipher seals and opens push extras. Every user gets a key derived
// from the master key, so a blob only opens for the user it was sealed for.
type ExtrasCipher struct {
	master []byte
}

// NewExtrasCipher creates an ExtrasCipher from a master key.
func NewExtrasCipher(master []byte) (*ExtrasCipher, error) {
	if len(master) == 0 {
		return nil, errors.New("extras master key is empty")
	}
	m := make([]byte, len(master))
	copy(m, master)
	return &ExtrasCipher{master: m}, nil
}

func (c *ExtrasCipher) userKey(userID string) ([]byte, error) {
	h := hkdf.New(sha256.New, c.master, nil, []byte(extrasKeyInfo+userID))
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, fmt.Errorf("failed to derive user key: %w", err)
	}
	return key, nil
}

// Seal encrypts items for userID and returns base64(nonce || ciphertext).
func (c *ExtrasCipher) Seal(userID string, items []model.DetailItem) (string, error) {
	key, err := c.userKey(userID)
	if err != nil {
		return "", err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to marshal extra info: %w", err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, plaintext, []byte(userID))
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptExtras opens a blob produced by Seal. Every failure wraps
// model.ErrDecryptFailed.
func (c *ExtrasCipher) DecryptExtras(ctx context.Context, userID, blob string) ([]model.DetailItem, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(blob))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDecryptFailed, err)
	}

	key, err := c.userKey(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDecryptFailed, err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDecryptFailed, err)
	}
	if len(data) < aead.NonceSize()+aead.Overhead() {
		return nil, fmt.Errorf("%w: blob too short", model.ErrDecryptFailed)
	}

	nonce, ciphertext := data[:aead.NonceSize()], data[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, []byte(userID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDecryptFailed, err)
	}

	var items []model.DetailItem
	if err := json.Unmarshal(plaintext, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDecryptFailed, err)
	}

	return items, nil
}
