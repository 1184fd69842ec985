package compliance

import (
	"github.com/sip-protocol/private-token-transfer/pkg/ids"
	"github.com/sip-protocol/private-token-transfer/pkg/note"
	"github.com/sip-protocol/private-token-transfer/pkg/pedersen"
)

// NewTreasuryNote samples a fresh blinding factor, computes C = v*G + r*H,
// and returns the resulting known note: value and blinding are both
// populated, since the caller minting this note is the one who knows its
// opening. This is the only way a known note should enter circulation;
// every other note in the registry is adopted as external.
//
// vk is optional. When non-nil, the minted note additionally carries a
// disclosure payload so a later holder of vk can recover (value, blinding)
// without learning it from the commitment. It lives here, rather than in
// pkg/note alongside Known and External, because composing Disclose and
// WithDisclosure on the freshly minted note would otherwise require
// pkg/note to import pkg/compliance, which already imports pkg/note.
func NewTreasuryNote(tokenID ids.TokenID, owner ids.AccountID, value int64, vk *ViewingKey) (*note.Note, error) {
	commitment, blinding, err := pedersen.Commit(value)
	if err != nil {
		return nil, err
	}

	n, err := note.Known(tokenID, owner, commitment, blinding, value)
	if err != nil {
		return nil, err
	}

	if vk == nil {
		return n, nil
	}

	payload, err := Disclose(n, vk)
	if err != nil {
		return nil, err
	}
	return note.WithDisclosure(n, payload), nil
}
