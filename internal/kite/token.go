package kite

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// SealAuthToken encrypts message with AES-256-GCM under the service's
// shared secret and returns hex(nonce || ciphertext). The signin endpoint
// recovers the caller's address from it.
func SealAuthToken(message, secretHex string) (string, error) {
	key, err := hex.DecodeString(secretHex)
	if err != nil {
		return "", fmt.Errorf("auth secret is not valid hex: %w", err)
	}
	if len(key) != 32 {
		return "", fmt.Errorf("auth secret must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("init gcm: %w", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := gcm.Seal(nonce, nonce, []byte(message), nil)
	return hex.EncodeToString(sealed), nil
}
