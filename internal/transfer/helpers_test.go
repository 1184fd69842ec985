package transfer

import "github.com/sip-protocol/private-token-transfer/pkg/pedersen"

// noteCommitment mints a fresh commitment to value with a random blinding,
// for use as either an input or an unrelated-value output in tests.
func noteCommitment(value int64) (commitment []byte, blinding []byte, err error) {
	return pedersen.Commit(value)
}

// reuseBlindingCommitment builds a commitment to value reusing an
// existing blinding factor — used when a test needs an output whose
// commitment sums to match a specific input (same value, same blinding
// means same commitment is fine for a 1-in/1-out conservation check).
func reuseBlindingCommitment(value int64, blinding []byte) ([]byte, error) {
	return pedersen.CommitWithBlinding(value, blinding)
}

// splitCommitment builds two output commitments from a single input's
// opening, splitting both its value and its blinding so that the pair
// conserves against the one input (Σv matches, Σr matches) while each
// output commitment differs from the input and from each other.
func splitCommitment(totalValue int64, totalBlinding []byte, firstValue int64) (first, second []byte, err error) {
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
