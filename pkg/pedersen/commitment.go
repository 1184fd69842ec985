package pedersen

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Sentinel errors surfaced by the primitives below. Callers that need a
// typed validation-failure response code (e.g. the transfer handler)
// translate these at their boundary rather than inspecting error text.
var (
	// ErrInvalidValue is returned when a commitment value is negative.
	ErrInvalidValue = errors.New("pedersen: value must be non-negative")
	// ErrInvalidBlinding is returned for a malformed blinding scalar.
	ErrInvalidBlinding = errors.New("pedersen: blinding must decode to a non-zero scalar")
	// ErrInvalidCommitment is returned when commitment bytes do not decode
	// to a valid point on the curve.
	ErrInvalidCommitment = errors.New("pedersen: invalid commitment encoding")
)

// CommitmentSize is the length in bytes of a SEC-1 compressed secp256k1
// point: a 1-byte parity prefix (0x02 or 0x03) followed by a 32-byte X
// coordinate.
const CommitmentSize = 33

// ScalarSize is the length in bytes of a scalar encoding (32-byte
// big-endian, matching secp256k1's group order width).
const ScalarSize = 32

// RandomScalar draws a uniform non-zero scalar in [1, n-1] by rejection
// sampling: fill 32 random bytes (matching n's bit length), reduce mod n,
// and retry on the negligible-probability zero outcome.
func RandomScalar() (*secp256k1.ModNScalar, error) {
	var buf [ScalarSize]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			return nil, fmt.Errorf("pedersen: failed to read random bytes: %w", err)
		}
		scalar := new(secp256k1.ModNScalar)
		scalar.SetByteSlice(buf[:])
		if !scalar.IsZero() {
			return scalar, nil
		}
	}
}

// valueScalar encodes a non-negative value into a ModNScalar. Unlike the
// uint32-bounded encoding in the SIP SDK this origin package was adapted
// from, it preserves the full non-negative int64 range a token amount may
// take, by placing the 8-byte big-endian value in the low bytes of a
// 32-byte buffer before reducing mod n.
func valueScalar(value int64) (*secp256k1.ModNScalar, error) {
	if value < 0 {
		return nil, ErrInvalidValue
	}
	var buf [ScalarSize]byte
	binary.BigEndian.PutUint64(buf[ScalarSize-8:], uint64(value))

	scalar := new(secp256k1.ModNScalar)
	scalar.SetByteSlice(buf[:])
	return scalar, nil
}

// blindingScalar decodes raw blinding bytes into a non-zero ModNScalar.
func blindingScalar(blinding []byte) (*secp256k1.ModNScalar, error) {
	scalar := new(secp256k1.ModNScalar)
	scalar.SetByteSlice(blinding)
	if scalar.IsZero() {
		return nil, ErrInvalidBlinding
	}
	return scalar, nil
}

// commitmentPoint computes C = v*G + r*H in Jacobian coordinates.
func commitmentPoint(v, r *secp256k1.ModNScalar) secp256k1.JacobianPoint {
	var vG, rH, sum secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(v, &vG)
	secp256k1.ScalarMultNonConst(r, &generatorH, &rH)
	secp256k1.AddNonConst(&vG, &rH, &sum)
	sum.ToAffine()
	return sum
}

// Encode returns the 33-byte SEC-1 compressed encoding of a curve point.
func Encode(point *secp256k1.JacobianPoint) []byte {
	affine := *point
	affine.ToAffine()
	pub := secp256k1.NewPublicKey(&affine.X, &affine.Y)
	return pub.SerializeCompressed()
}

// Decode parses a 33-byte SEC-1 compressed point. It fails with
// ErrInvalidCommitment when the bytes are the wrong length or do not lie
// on the curve. A point at infinity can never decode successfully:
// compressed encoding has no representation for it.
func Decode(data []byte) (*secp256k1.PublicKey, error) {
	if len(data) != CommitmentSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidCommitment, CommitmentSize, len(data))
	}
	pub, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommitment, err)
	}
	return pub, nil
}

// CommitWithBlinding computes C = v*G + r*H for an explicit blinding
// factor and returns its compressed encoding.
func CommitWithBlinding(value int64, blinding []byte) ([]byte, error) {
	v, err := valueScalar(value)
	if err != nil {
		return nil, err
	}
	r, err := blindingScalar(blinding)
	if err != nil {
		return nil, err
	}

	c := commitmentPoint(v, r)
	return Encode(&c), nil
}

// Commit samples a fresh uniform blinding factor and computes C = v*G +
// r*H, returning both the compressed commitment and the 32-byte blinding.
func Commit(value int64) (commitment []byte, blinding []byte, err error) {
	r, err := RandomScalar()
	if err != nil {
		return nil, nil, err
	}
	blindingBytes := r.Bytes()

	commitment, err = CommitWithBlinding(value, blindingBytes[:])
	if err != nil {
		return nil, nil, err
	}
	return commitment, blindingBytes[:], nil
}

// VerifyOpening recomputes C' = v*G + r*H from the supplied opening and
// checks it equals the given commitment.
func VerifyOpening(commitment []byte, value int64, blinding []byte) (bool, error) {
	expected, err := CommitWithBlinding(value, blinding)
	if err != nil {
		return false, err
	}
	given, err := Decode(commitment)
	if err != nil {
		return false, err
	}
	want, err := Decode(expected)
	if err != nil {
		return false, err
	}
	return given.IsEqual(want), nil
}

// sumPoints sums a slice of compressed commitment encodings in Jacobian
// coordinates, returning the total. The zero-value JacobianPoint is the
// additive identity, so an empty slice sums to the point at infinity.
func sumPoints(commitments [][]byte) (secp256k1.JacobianPoint, error) {
	var sum secp256k1.JacobianPoint
	for _, raw := range commitments {
		pub, err := Decode(raw)
		if err != nil {
			return secp256k1.JacobianPoint{}, err
		}
		var pt secp256k1.JacobianPoint
		pub.AsJacobian(&pt)

		var next secp256k1.JacobianPoint
		secp256k1.AddNonConst(&sum, &pt, &next)
		sum = next
	}
	sum.ToAffine()
	return sum, nil
}

// SumsMatch reports whether the homomorphic sum of the input commitments
// equals the homomorphic sum of the output commitments. An empty side
// sums to the point at infinity; SumsMatch(nil, nil) is true.
func SumsMatch(inputs, outputs [][]byte) (bool, error) {
	left, err := sumPoints(inputs)
	if err != nil {
		return false, err
	}
	right, err := sumPoints(outputs)
	if err != nil {
		return false, err
	}
	return left.X.Equals(&right.X) && left.Y.Equals(&right.Y) && left.Z.Equals(&right.Z), nil
}

// AddBlindings sums two blinding scalars mod n. A sender splitting a note
// into several outputs uses this (and SubtractBlindings) to derive output
// blindings that still sum to the consumed input's blinding, so the
// overall transfer continues to satisfy SumsMatch.
func AddBlindings(a, b []byte) ([]byte, error) {
	sa, err := blindingScalar(a)
	if err != nil {
		return nil, err
	}
	sb, err := blindingScalar(b)
	if err != nil {
		return nil, err
	}
	sum := sa.Add(sb)
	out := sum.Bytes()
	return out[:], nil
}

// SubtractBlindings computes a - b mod n.
func SubtractBlindings(a, b []byte) ([]byte, error) {
	sa, err := blindingScalar(a)
	if err != nil {
		return nil, err
	}
	sb, err := blindingScalar(b)
	if err != nil {
		return nil, err
	}
	sb.Negate()
	diff := sa.Add(sb)
	out := diff.Bytes()
	return out[:], nil
}
