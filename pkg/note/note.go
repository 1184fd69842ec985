// Package note defines the immutable note descriptor (PrivateCommitmentInfo
// in spec terms): the value object a commitment registry stores and a
// private-transfer handler consumes and emits.
package note

import (
	"errors"

	"github.com/sip-protocol/private-token-transfer/pkg/ids"
	"github.com/sip-protocol/private-token-transfer/pkg/pedersen"
)

// ValueUnknown is the sentinel value for a note whose opening (amount) is
// not known to the holder of this record — the case for any note adopted
// from an incoming transaction, where only the sender knows the secrets.
const ValueUnknown int64 = -1

// Errors returned by the constructors below when a note's data-model
// invariants — non-empty fields, a valid blinding length, a non-negative
// or sentinel value, a decodable commitment — are violated.
var (
	ErrEmptyCommitment  = errors.New("note: commitment bytes must not be empty")
	ErrInvalidBlinding  = errors.New("note: blinding must be empty or exactly 32 bytes")
	ErrInvalidValue     = errors.New("note: value must be non-negative or ValueUnknown")
	ErrInvalidCommitment = errors.New("note: commitment does not decode to a valid curve point")
)

// Note is the immutable record associating a commitment with an owner.
//
// Two variants exist, distinguished by whether the opening is known:
//   - known: Blinding and Value are populated — produced locally when
//     minting treasury notes.
//   - external: Blinding is empty and Value is ValueUnknown — adopted from
//     an incoming transaction whose sender alone knows the secrets.
type Note struct {
	TokenID    ids.TokenID
	Owner      ids.AccountID
	Commitment []byte
	Blinding   []byte
	Value      int64

	// Disclosure is an optional compliance payload letting a viewing-key
	// holder recover (Value, Blinding) without learning it from the
	// commitment. It never affects registry identity or sumsMatch.
	Disclosure *DisclosurePayload
}

// DisclosurePayload is the encrypted opening of a known note, produced by
// pkg/compliance. It is stored verbatim; pkg/note does not interpret it.
type DisclosurePayload struct {
	Ciphertext []byte
	Nonce      []byte
}

func validateCore(tokenID ids.TokenID, owner ids.AccountID, commitment []byte) error {
	if len(commitment) == 0 {
		return ErrEmptyCommitment
	}
	if _, err := pedersen.Decode(commitment); err != nil {
		return ErrInvalidCommitment
	}
	return nil
}

// Known constructs a note whose opening (value, blinding) is known to the
// caller — used when minting treasury notes.
func Known(tokenID ids.TokenID, owner ids.AccountID, commitment, blinding []byte, value int64) (*Note, error) {
	if err := validateCore(tokenID, owner, commitment); err != nil {
		return nil, err
	}
	if len(blinding) != 0 && len(blinding) != pedersen.ScalarSize {
		return nil, ErrInvalidBlinding
	}
	if value < 0 && value != ValueUnknown {
		return nil, ErrInvalidValue
	}

	return &Note{
		TokenID:    tokenID,
		Owner:      owner,
		Commitment: append([]byte(nil), commitment...),
		Blinding:   append([]byte(nil), blinding...),
		Value:      value,
	}, nil
}

// External constructs a note adopted from an incoming transaction: the
// blinding is empty and the value is ValueUnknown because only the
// sender who built the commitment knows its opening.
func External(tokenID ids.TokenID, owner ids.AccountID, commitment []byte) (*Note, error) {
	if err := validateCore(tokenID, owner, commitment); err != nil {
		return nil, err
	}
	return &Note{
		TokenID:    tokenID,
		Owner:      owner,
		Commitment: append([]byte(nil), commitment...),
		Blinding:   nil,
		Value:      ValueUnknown,
	}, nil
}

// WithDisclosure returns a copy of note carrying the given compliance
// disclosure payload. It does not change tokenId/owner/commitment and so
// does not change the note's registry identity.
func WithDisclosure(n *Note, payload *DisclosurePayload) *Note {
	clone := *n
	clone.Disclosure = payload
	return &clone
}

// ValueKnown reports whether this note's opening value is known.
func (n *Note) ValueKnown() bool {
	return n.Value >= 0
}
