// Private token transfer demo - exercises the handler's six scenarios
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sip-protocol/private-token-transfer/internal/logx"
	"github.com/sip-protocol/private-token-transfer/internal/registry"
	"github.com/sip-protocol/private-token-transfer/internal/transfer"
	"github.com/sip-protocol/private-token-transfer/pkg/compliance"
	"github.com/sip-protocol/private-token-transfer/pkg/ids"
	"github.com/sip-protocol/private-token-transfer/pkg/pedersen"
)

const banner = `
  ____       _            _          _____                     __
 |  _ \ _ __(_)_   ____ _| |_ ___   |_   _| __ __ _ _ __  ___  / _| ___ _ __
 | |_) | '__| \ \ / / _' | __/ _ \    | || '__/ _' | '_ \/ __|| |_ / _ \ '__|
 |  __/| |  | |\ V / (_| | ||  __/    | || | | (_| | | | \__ \|  _|  __/ |
 |_|   |_|  |_| \_/ \__,_|\__\___|    |_||_|  \__,_|_| |_|___/|_|  \___|_|

  Private Token Transfer Demo
`

// tokenStore and relationStore are minimal in-memory stand-ins for a
// host ledger's persistent stores, sufficient to drive the handler
// through every scenario below.
type tokenStore struct {
	tokens map[ids.TokenID]*transfer.Token
}

func (s *tokenStore) GetIfUsable(id ids.TokenID) (*transfer.Token, error) {
	t, ok := s.tokens[id]
	if !ok {
		return nil, nil
	}
	return t, nil
}

type relationStore struct {
	relations map[ids.AccountID]map[ids.TokenID]*transfer.Relation
}

func newRelationStore() *relationStore {
	return &relationStore{relations: make(map[ids.AccountID]map[ids.TokenID]*transfer.Relation)}
}

func (s *relationStore) associate(account ids.AccountID, token ids.TokenID, kycGranted bool) {
	inner, ok := s.relations[account]
	if !ok {
		inner = make(map[ids.TokenID]*transfer.Relation)
		s.relations[account] = inner
	}
	inner[token] = &transfer.Relation{KYCGranted: kycGranted}
}

func (s *relationStore) GetIfUsable(account ids.AccountID, token ids.TokenID) (*transfer.Relation, error) {
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

type streamRecord struct {
	tokenType transfer.TokenType
}

func (r *streamRecord) SetTokenType(t transfer.TokenType) { r.tokenType = t }

func main() {
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	fmt.Print(banner)

	level := logx.Info
	if *verbose {
		level = logx.Debug
	}
	log := logx.New(level, os.Stdout, os.Stdout)

	if err := run(log); err != nil {
		fmt.Fprintf(os.Stderr, "demo failed: %v\n", err)
		os.Exit(1)
	}
}

// splitOutputs derives two output commitments from a minted note's
// opening, splitting its value and blinding so the pair conserves
// against that one input while differing from it and from each other.
func splitOutputs(totalValue int64, totalBlinding []byte, firstValue int64) (first, second []byte, err error) {
	r1, err := pedersen.RandomScalar()
	if err != nil {
		return nil, nil, err
	}
	r1Bytes := r1.Bytes()

	r2, err := pedersen.SubtractBlindings(totalBlinding, r1Bytes[:])
	if err != nil {
		return nil, nil, err
	}

	first, err = pedersen.CommitWithBlinding(firstValue, r1Bytes[:])
	if err != nil {
		return nil, nil, err
	}
	second, err = pedersen.CommitWithBlinding(totalValue-firstValue, r2)
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func run(log *logx.Logger) error {
	tokenID := ids.TokenID{Shard: 0, Realm: 0, Num: 9090}
	payer := ids.AccountID{Shard: 0, Realm: 0, Num: 1001}
	receiver := ids.AccountID{Shard: 0, Realm: 0, Num: 1002}

	tokens := &tokenStore{tokens: map[ids.TokenID]*transfer.Token{
		tokenID: {ID: tokenID, Type: transfer.TokenTypeFungiblePrivate},
	}}
	relations := newRelationStore()
	relations.associate(payer, tokenID, true)
	relations.associate(receiver, tokenID, true)

	reg := registry.New()
	handler := transfer.New(reg, tokens, relations, log)

	log.Infof("scenario 1: happy path transfer")
	input, err := compliance.NewTreasuryNote(tokenID, payer, 100, nil)
	if err != nil {
		return fmt.Errorf("mint treasury note: %w", err)
	}
	reg.Put(input)

	outputA, outputB, err := splitOutputs(input.Value, input.Blinding, 60)
	if err != nil {
		return fmt.Errorf("split treasury note: %w", err)
	}
	body := &transfer.TransactionBody{PrivateTokenTransfer: &transfer.PrivateTokenTransferTransactionBody{
		Token:  tokenID,
		Inputs: [][]byte{input.Commitment},
		Outputs: []transfer.OutputSpec{
			{Owner: receiver, Commitment: outputA},
			{Owner: receiver, Commitment: outputB},
		},
	}}
	rec := &streamRecord{}
	if herr := handler.Handle(&transfer.TransactionContext{Payer: payer, Body: body}, rec); herr != nil {
		return fmt.Errorf("scenario 1 unexpectedly rejected: %v", herr)
	}
	log.Infof("scenario 1: accepted, tagged record as %v", rec.tokenType)

	log.Infof("scenario 2: mismatched conservation")
	badInput, err := compliance.NewTreasuryNote(tokenID, payer, 100, nil)
	if err != nil {
		return fmt.Errorf("mint treasury note: %w", err)
	}
	reg.Put(badInput)
	badOutput, _, err := pedersen.Commit(50) // mismatched value -> sums won't match
	if err != nil {
		return fmt.Errorf("commit mismatched output: %w", err)
	}
	badBody := &transfer.TransactionBody{PrivateTokenTransfer: &transfer.PrivateTokenTransferTransactionBody{
		Token:   tokenID,
		Inputs:  [][]byte{badInput.Commitment},
		Outputs: []transfer.OutputSpec{{Owner: receiver, Commitment: badOutput}},
	}}
	if herr := handler.Handle(&transfer.TransactionContext{Payer: payer, Body: badBody}, nil); herr == nil {
		return fmt.Errorf("scenario 2 should have been rejected")
	} else {
		log.Infof("scenario 2: rejected as expected (%s)", herr.Code)
	}

	log.Infof("scenario 3: receiver missing token association")
	strangerTokenID := ids.TokenID{Shard: 0, Realm: 0, Num: 9091}
	unassocTokens := &tokenStore{tokens: map[ids.TokenID]*transfer.Token{
		strangerTokenID: {ID: strangerTokenID, Type: transfer.TokenTypeFungiblePrivate},
	}}
	unassocRelations := newRelationStore()
	unassocRelations.associate(payer, strangerTokenID, true)
	// receiver intentionally left unassociated
	unassocHandler := transfer.New(registry.New(), unassocTokens, unassocRelations, log)

	unassocInput, err := compliance.NewTreasuryNote(strangerTokenID, payer, 10, nil)
	if err != nil {
		return fmt.Errorf("mint treasury note: %w", err)
	}
	unassocHandler.Registry.Put(unassocInput)
	unassocOutput, _, err := pedersen.Commit(10)
	if err != nil {
		return fmt.Errorf("commit output: %w", err)
	}
	unassocBody := &transfer.TransactionBody{PrivateTokenTransfer: &transfer.PrivateTokenTransferTransactionBody{
		Token:   strangerTokenID,
		Inputs:  [][]byte{unassocInput.Commitment},
		Outputs: []transfer.OutputSpec{{Owner: receiver, Commitment: unassocOutput}},
	}}
	if herr := unassocHandler.Handle(&transfer.TransactionContext{Payer: payer, Body: unassocBody}, nil); herr == nil {
		return fmt.Errorf("scenario 3 should have been rejected")
	} else {
		log.Infof("scenario 3: rejected as expected (%s)", herr.Code)
	}

	log.Infof("scenario 4: pure-checks reject an empty-inputs body")
	emptyBody := &transfer.TransactionBody{PrivateTokenTransfer: &transfer.PrivateTokenTransferTransactionBody{
		Token:  tokenID,
		Inputs: nil,
	}}
	if herr := handler.PureChecks(emptyBody); herr == nil {
		return fmt.Errorf("scenario 4 should have been rejected")
	} else {
		log.Infof("scenario 4: rejected as expected (%s)", herr.Code)
	}

	log.Infof("scenario 5: unknown input commitment")
	unknownOutput, _, err := pedersen.Commit(1)
	if err != nil {
		return fmt.Errorf("commit output: %w", err)
	}
	unknownBody := &transfer.TransactionBody{PrivateTokenTransfer: &transfer.PrivateTokenTransferTransactionBody{
		Token:   tokenID,
		Inputs:  [][]byte{{0x01}},
		Outputs: []transfer.OutputSpec{{Owner: receiver, Commitment: unknownOutput}},
	}}
	if herr := handler.Handle(&transfer.TransactionContext{Payer: payer, Body: unknownBody}, nil); herr == nil {
		return fmt.Errorf("scenario 5 should have been rejected")
	} else {
		log.Infof("scenario 5: rejected as expected (%s)", herr.Code)
	}

	log.Infof("scenario 6: ownership violation")
	alice := ids.AccountID{Shard: 0, Realm: 0, Num: 2001}
	bob := ids.AccountID{Shard: 0, Realm: 0, Num: 2002}
	relations.associate(alice, tokenID, true)
	relations.associate(bob, tokenID, true)

	aliceNote, err := compliance.NewTreasuryNote(tokenID, alice, 10, nil)
	if err != nil {
		return fmt.Errorf("mint treasury note: %w", err)
	}
	reg.Put(aliceNote)
	bobOutput, _, err := pedersen.Commit(10)
	if err != nil {
		return fmt.Errorf("commit output: %w", err)
	}
	theftBody := &transfer.TransactionBody{PrivateTokenTransfer: &transfer.PrivateTokenTransferTransactionBody{
		Token:   tokenID,
		Inputs:  [][]byte{aliceNote.Commitment},
		Outputs: []transfer.OutputSpec{{Owner: bob, Commitment: bobOutput}},
	}}
	if herr := handler.Handle(&transfer.TransactionContext{Payer: bob, Body: theftBody}, nil); herr == nil {
		return fmt.Errorf("scenario 6 should have been rejected")
	} else {
		log.Infof("scenario 6: rejected as expected (%s)", herr.Code)
	}

	log.Infof("demo complete")
	return nil
}
