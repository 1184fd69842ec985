package transfer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sip-protocol/private-token-transfer/internal/registry"
	"github.com/sip-protocol/private-token-transfer/pkg/ids"
	"github.com/sip-protocol/private-token-transfer/pkg/note"
)

var privateTokenID = ids.TokenID{Shard: 0, Realm: 0, Num: 9090}

type stubTokenStore struct {
	tokens map[ids.TokenID]*Token
}

func (s *stubTokenStore) GetIfUsable(id ids.TokenID) (*Token, error) {
	t, ok := s.tokens[id]
	if !ok {
		return nil, nil
	}
	return t, nil
}

type stubRelationStore struct {
	relations map[ids.AccountID]map[ids.TokenID]*Relation
}

func newStubRelationStore() *stubRelationStore {
	return &stubRelationStore{relations: make(map[ids.AccountID]map[ids.TokenID]*Relation)}
}

func (s *stubRelationStore) grant(account ids.AccountID, token ids.TokenID, kycGranted bool) {
	inner, ok := s.relations[account]
	if !ok {
		inner = make(map[ids.TokenID]*Relation)
		s.relations[account] = inner
	}
	inner[token] = &Relation{KYCGranted: kycGranted}
}

func (s *stubRelationStore) GetIfUsable(account ids.AccountID, token ids.TokenID) (*Relation, error) {
	inner, ok := s.relations[account]
	if !ok {
		return nil, nil
	}
	rel, ok := inner[token]
	if !ok {
		return nil, nil
	}
	return rel, nil
}

type fakeRecordBuilder struct {
	tokenType TokenType
}

func (f *fakeRecordBuilder) SetTokenType(t TokenType) { f.tokenType = t }

func setupHandler(t *testing.T, kycKey []byte) (*Handler, *stubTokenStore, *stubRelationStore, ids.AccountID, ids.AccountID) {
	t.Helper()
	payer := ids.AccountID{Num: 1001}
	receiver := ids.AccountID{Num: 1002}

	tokens := &stubTokenStore{tokens: map[ids.TokenID]*Token{
		privateTokenID: {ID: privateTokenID, Type: TokenTypeFungiblePrivate, KYCKey: kycKey},
	}}
	relations := newStubRelationStore()
	relations.grant(payer, privateTokenID, true)
	relations.grant(receiver, privateTokenID, true)

	h := New(registry.New(), tokens, relations, nil)
	return h, tokens, relations, payer, receiver
}

func bodyWith(inputs [][]byte, outputs []OutputSpec) *TransactionBody {
	return &TransactionBody{PrivateTokenTransfer: &PrivateTokenTransferTransactionBody{
		Token:   privateTokenID,
		Inputs:  inputs,
		Outputs: outputs,
	}}
}

// TestHappyPath covers scenario 1.
func TestHappyPath(t *testing.T) {
	h, _, _, payer, receiver := setupHandler(t, nil)

	input, blinding, err := noteCommitment(100)
	require.NoError(t, err)
	// Split the input's opening across two distinct outputs so the
	// commitments genuinely differ while Σv and Σr still balance.
	outputA, outputB, err := splitCommitment(100, blinding, 60)
	require.NoError(t, err)

	existing, err := note.External(privateTokenID, payer, input)
	require.NoError(t, err)
	h.Registry.Put(existing)

	body := bodyWith([][]byte{input}, []OutputSpec{
		{Owner: receiver, Commitment: outputA},
		{Owner: receiver, Commitment: outputB},
	})
	ctx := &TransactionContext{Payer: payer, Body: body}
	rec := &fakeRecordBuilder{}

	herr := h.Handle(ctx, rec)
	require.Nil(t, herr)

	_, ok := h.Registry.Get(privateTokenID, input)
	require.False(t, ok, "consumed input should be gone")

	outA, ok := h.Registry.Get(privateTokenID, outputA)
	require.True(t, ok)
	require.Equal(t, receiver, outA.Owner)

	outB, ok := h.Registry.Get(privateTokenID, outputB)
	require.True(t, ok)
	require.Equal(t, receiver, outB.Owner)

	require.Equal(t, TokenTypeFungiblePrivate, rec.tokenType)
}

// TestSumsMismatch covers scenario 2: registry and acceptance are
// untouched when conservation fails.
func TestSumsMismatch(t *testing.T) {
	h, _, _, payer, receiver := setupHandler(t, nil)

	input, _, err := noteCommitment(100)
	require.NoError(t, err)
	output, _, err := noteCommitment(50) // mismatched value -> sums won't match
	require.NoError(t, err)

	existing, err := note.External(privateTokenID, payer, input)
	require.NoError(t, err)
	h.Registry.Put(existing)

	body := bodyWith([][]byte{input}, []OutputSpec{{Owner: receiver, Commitment: output}})
	herr := h.Handle(&TransactionContext{Payer: payer, Body: body}, nil)

	require.NotNil(t, herr)
	require.Equal(t, InvalidTransactionBody, herr.Code)

	_, ok := h.Registry.Get(privateTokenID, input)
	require.True(t, ok, "input must remain after rejection")
	_, ok = h.Registry.Get(privateTokenID, output)
	require.False(t, ok)
}

// TestMissingReceiverAssociation covers scenario 3.
func TestMissingReceiverAssociation(t *testing.T) {
	payer := ids.AccountID{Num: 1001}
	receiver := ids.AccountID{Num: 1002}

	tokens := &stubTokenStore{tokens: map[ids.TokenID]*Token{
		privateTokenID: {ID: privateTokenID, Type: TokenTypeFungiblePrivate},
	}}
	relations := newStubRelationStore()
	relations.grant(payer, privateTokenID, true)
	// receiver intentionally not associated

	h := New(registry.New(), tokens, relations, nil)

	input, blinding, err := noteCommitment(100)
	require.NoError(t, err)
	output, err := reuseBlindingCommitment(100, blinding)
	require.NoError(t, err)

	existing, err := note.External(privateTokenID, payer, input)
	require.NoError(t, err)
	h.Registry.Put(existing)

	body := bodyWith([][]byte{input}, []OutputSpec{{Owner: receiver, Commitment: output}})
	herr := h.Handle(&TransactionContext{Payer: payer, Body: body}, nil)

	require.NotNil(t, herr)
	require.Equal(t, TokenNotAssociatedToAccount, herr.Code)

	_, ok := h.Registry.Get(privateTokenID, input)
	require.True(t, ok)
}

// TestPureChecksReject covers scenario 4.
func TestPureChecksReject(t *testing.T) {
	h, _, _, _, _ := setupHandler(t, nil)
	body := &TransactionBody{PrivateTokenTransfer: &PrivateTokenTransferTransactionBody{
		Token:  privateTokenID,
		Inputs: nil,
	}}
	err := h.PureChecks(body)
	require.NotNil(t, err)
	require.Equal(t, InvalidTransactionBody, err.Code)
}

// TestUnknownInput covers scenario 5.
func TestUnknownInput(t *testing.T) {
	h, _, _, payer, receiver := setupHandler(t, nil)

	output, _, err := noteCommitment(1)
	require.NoError(t, err)

	body := bodyWith([][]byte{{0x01}}, []OutputSpec{{Owner: receiver, Commitment: output}})
	herr := h.Handle(&TransactionContext{Payer: payer, Body: body}, nil)

	require.NotNil(t, herr)
	require.Equal(t, InvalidTransactionBody, herr.Code)
}

// TestOwnershipViolation covers scenario 6.
func TestOwnershipViolation(t *testing.T) {
	h, _, _, _, _ := setupHandler(t, nil)
	alice := ids.AccountID{Num: 2001}
	bob := ids.AccountID{Num: 2002}

	rs := h.Relations.(*stubRelationStore)
	rs.grant(alice, privateTokenID, true)
	rs.grant(bob, privateTokenID, true)

	input, _, err := noteCommitment(10)
	require.NoError(t, err)
	output, _, err := noteCommitment(10)
	require.NoError(t, err)

	existing, err := note.External(privateTokenID, alice, input)
	require.NoError(t, err)
	h.Registry.Put(existing)

	body := bodyWith([][]byte{input}, []OutputSpec{{Owner: bob, Commitment: output}})
	herr := h.Handle(&TransactionContext{Payer: bob, Body: body}, nil)

	require.NotNil(t, herr)
	require.Equal(t, Unauthorized, herr.Code)
}

// TestSingleUse checks that a consumed input cannot be spent twice.
func TestSingleUse(t *testing.T) {
	h, _, _, payer, receiver := setupHandler(t, nil)

	input, blinding, err := noteCommitment(5)
	require.NoError(t, err)
	outputA, outputB, err := splitCommitment(5, blinding, 2)
	require.NoError(t, err)

	existing, err := note.External(privateTokenID, payer, input)
	require.NoError(t, err)
	h.Registry.Put(existing)

	body := bodyWith([][]byte{input}, []OutputSpec{
		{Owner: receiver, Commitment: outputA},
		{Owner: receiver, Commitment: outputB},
	})
	ctx := &TransactionContext{Payer: payer, Body: body}

	require.Nil(t, h.Handle(ctx, nil))
	// Second attempt with the same input must fail: it was consumed.
	herr := h.Handle(ctx, nil)
	require.NotNil(t, herr)
	require.Equal(t, InvalidTransactionBody, herr.Code)
}

// TestNotSupportedTokenType checks rejection of a non-fungible-private token.
func TestNotSupportedTokenType(t *testing.T) {
	payer := ids.AccountID{Num: 1}
	receiver := ids.AccountID{Num: 2}
	tokens := &stubTokenStore{tokens: map[ids.TokenID]*Token{
		privateTokenID: {ID: privateTokenID, Type: TokenTypeFungiblePublic},
	}}
	relations := newStubRelationStore()
	relations.grant(payer, privateTokenID, true)
	relations.grant(receiver, privateTokenID, true)
	h := New(registry.New(), tokens, relations, nil)

	input, _, err := noteCommitment(1)
	require.NoError(t, err)
	output, _, err := noteCommitment(1)
	require.NoError(t, err)

	existing, err := note.External(privateTokenID, payer, input)
	require.NoError(t, err)
	h.Registry.Put(existing)

	body := bodyWith([][]byte{input}, []OutputSpec{{Owner: receiver, Commitment: output}})
	herr := h.Handle(&TransactionContext{Payer: payer, Body: body}, nil)
	require.NotNil(t, herr)
	require.Equal(t, NotSupported, herr.Code)
}
