// Package compliance implements optional selective disclosure of a note's
// opening (value, blinding) to the holder of a token's viewing key — a
// side channel for auditors that never participates in commitment
// verification or conservation checking.
package compliance

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/sip-protocol/private-token-transfer/pkg/note"
)

// ViewingKey is a symmetric key granting access to a note's disclosure
// payload. KeyHash indexes the key without exposing it.
type ViewingKey struct {
	Key     []byte
	KeyHash []byte
}

// GenerateViewingKey creates a fresh random viewing key.
func GenerateViewingKey() (*ViewingKey, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("compliance: failed to generate viewing key: %w", err)
	}
	hash := sha256.Sum256(key)
	return &ViewingKey{Key: key, KeyHash: hash[:]}, nil
}

// Disclose encrypts a known note's (value, blinding) opening for the
// holder of vk. The note must be a known note (ValueKnown()); disclosing
// an external note's opening is meaningless since this holder does not
// have it either.
func Disclose(n *note.Note, vk *ViewingKey) (*note.DisclosurePayload, error) {
	if !n.ValueKnown() {
		return nil, errors.New("compliance: cannot disclose a note with an unknown value")
	}
	if len(n.Blinding) != 32 {
		return nil, errors.New("compliance: note has no 32-byte blinding to disclose")
	}

	aead, err := chacha20poly1305.NewX(vk.Key)
	if err != nil {
		return nil, fmt.Errorf("compliance: failed to build cipher: %w", err)
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("compliance: failed to generate nonce: %w", err)
	}

	plaintext := encodeOpening(n.Value, n.Blinding)
	ciphertext := aead.Seal(nil, nonce, plaintext, nil)

	return &note.DisclosurePayload{Ciphertext: ciphertext, Nonce: nonce}, nil
}

// Reveal decrypts a disclosure payload produced by Disclose, recovering
// the original (value, blinding) opening. It fails if vk is wrong: AEAD
// authentication means a wrong key never silently returns bad data.
func Reveal(payload *note.DisclosurePayload, vk *ViewingKey) (value int64, blinding []byte, err error) {
	aead, err := chacha20poly1305.NewX(vk.Key)
	if err != nil {
		return 0, nil, fmt.Errorf("compliance: failed to build cipher: %w", err)
	}

	plaintext, err := aead.Open(nil, payload.Nonce, payload.Ciphertext, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("compliance: decryption failed: %w", err)
	}
	return decodeOpening(plaintext)
}

// encodeOpening packs a value and 32-byte blinding into a fixed-width
// plaintext: 8-byte big-endian value followed by the blinding.
func encodeOpening(value int64, blinding []byte) []byte {
	buf := make([]byte, 8+len(blinding))
	binary.BigEndian.PutUint64(buf[:8], uint64(value))
	copy(buf[8:], blinding)
	return buf
}

func decodeOpening(data []byte) (int64, []byte, error) {
	if len(data) != 8+32 {
		return 0, nil, errors.New("compliance: malformed disclosure plaintext")
	}
	value := int64(binary.BigEndian.Uint64(data[:8]))
	blinding := append([]byte(nil), data[8:]...)
	return value, blinding, nil
}
