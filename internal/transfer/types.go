package transfer

import "github.com/sip-protocol/private-token-transfer/pkg/ids"

// TokenType enumerates the token kinds the host's Token store can report.
// Only FungiblePrivate is accepted by this handler; every other value
// (including ones a richer host framework might define) is rejected with
// NotSupported.
type TokenType int

const (
	TokenTypeUnspecified TokenType = iota
	TokenTypeFungiblePrivate
	TokenTypeFungiblePublic
	TokenTypeNonFungible
)

// Token is the subset of the host's persistent token record this handler
// reads. A nil KYCKey means the token carries no KYC requirement.
type Token struct {
	ID     ids.TokenID
	Type   TokenType
	KYCKey []byte
}

// Relation is the subset of the host's token-relation record this
// handler reads.
type Relation struct {
	KYCGranted bool
}

// TokenStore is the external collaborator providing token lookups. A
// production implementation backs it with the ledger's persistent token
// store; it is out of scope for this core.
type TokenStore interface {
	GetIfUsable(id ids.TokenID) (*Token, error)
}

// RelationStore is the external collaborator providing token-relation
// lookups.
type RelationStore interface {
	GetIfUsable(account ids.AccountID, token ids.TokenID) (*Relation, error)
}

// RecordBuilder is the minimal external record-stream collaborator: the
// handler tags the emitted record with the token type it handled.
type RecordBuilder interface {
	SetTokenType(t TokenType)
}

// Logger is the narrow logging surface the handler needs — enough to
// log the zkProof size (never interpreting it) and to audit outcomes,
// without requiring callers to depend on internal/logx directly.
type Logger interface {
	Infof(format string, args ...interface{})
	Auditf(format string, args ...interface{})
}

// OutputSpec is one entry of a transfer's outputs: a destination owner
// and the compressed commitment bytes to install there.
type OutputSpec struct {
	Owner      ids.AccountID
	Commitment []byte
}

// PrivateTokenTransferTransactionBody is the payload this handler
// validates and executes. Inputs are ordered commitment byte-strings
// naming notes to consume; Outputs name notes to emit. ZKProof is opaque:
// this core never produces or verifies range proofs, so it only ever
// logs ZKProof's size and never interprets its contents.
type PrivateTokenTransferTransactionBody struct {
	Token   ids.TokenID
	Inputs  [][]byte
	Outputs []OutputSpec
	ZKProof []byte
}

// TransactionBody wraps the payload the way a host transaction envelope
// would; a nil PrivateTokenTransfer marks a missing payload, which
// PureChecks rejects.
type TransactionBody struct {
	PrivateTokenTransfer *PrivateTokenTransferTransactionBody
}

// TransactionContext carries the payer and body a handler invocation
// acts on.
type TransactionContext struct {
	Payer ids.AccountID
	Body  *TransactionBody
}
