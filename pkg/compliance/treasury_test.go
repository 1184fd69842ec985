package compliance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sip-protocol/private-token-transfer/pkg/ids"
	"github.com/sip-protocol/private-token-transfer/pkg/pedersen"
)

func TestNewTreasuryNoteWithoutViewingKey(t *testing.T) {
	tokenID := ids.TokenID{Num: 1}
	owner := ids.AccountID{Num: 1}

	n, err := NewTreasuryNote(tokenID, owner, 500, nil)
	require.NoError(t, err)
	require.True(t, n.ValueKnown())
	require.Equal(t, int64(500), n.Value)
	require.Len(t, n.Blinding, pedersen.ScalarSize)
	require.Nil(t, n.Disclosure)

	ok, err := pedersen.VerifyOpening(n.Commitment, n.Value, n.Blinding)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestNewTreasuryNoteWithViewingKeyAttachesDisclosure(t *testing.T) {
	tokenID := ids.TokenID{Num: 1}
	owner := ids.AccountID{Num: 1}

	vk, err := GenerateViewingKey()
	require.NoError(t, err)

	n, err := NewTreasuryNote(tokenID, owner, 750, vk)
	require.NoError(t, err)
	require.NotNil(t, n.Disclosure)

	value, blinding, err := Reveal(n.Disclosure, vk)
	require.NoError(t, err)
	require.Equal(t, n.Value, value)
	require.Equal(t, n.Blinding, blinding)
}

func TestNewTreasuryNoteRejectsNegativeValue(t *testing.T) {
	_, err := NewTreasuryNote(ids.TokenID{Num: 1}, ids.AccountID{Num: 1}, -1, nil)
	require.Error(t, err)
}
