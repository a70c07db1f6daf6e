package sbi

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// envelope seals JSON payloads with AES-256-GCM using the fixed key and
// nonce agreed with the insurer. The wire form is base64(ciphertext||tag).
type envelope struct {
	aead  cipher.AEAD
	nonce []byte
}

func newEnvelope(key, iv string) (*envelope, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("aes key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("aes cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, len(iv))
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}
	return &envelope{aead: aead, nonce: []byte(iv)}, nil
}

func (e *envelope) seal(payload any) (string, error) {
	plain, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(e.aead.Seal(nil, e.nonce, plain, nil)), nil
}

func (e *envelope) open(ciphertext string) (json.RawMessage, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}
	plain, err := e.aead.Open(nil, e.nonce, raw, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	if !json.Valid(plain) {
		return nil, fmt.Errorf("decrypted payload is not json")
	}
	return json.RawMessage(plain), nil
}
