// Package pedersen implements Pedersen commitment arithmetic over
// secp256k1: deterministic derivation of the auxiliary generator H,
// commitment construction C = v*G + r*H, and homomorphic sum
// verification by curve-point equality.
package pedersen

import (
	"crypto/sha256"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

var (
	// curveOrder is the secp256k1 group order n.
	curveOrder = secp256k1.S256().N

	// generatorG is the standard secp256k1 base point.
	generatorG = secp256k1.Generator()

	// generatorH is the auxiliary generator, derived once at init time.
	generatorH secp256k1.JacobianPoint

	// generatorHScalar is s such that H = s*G. Unlike a nothing-up-my-sleeve
	// hash-to-curve search, s is trivially recoverable by anyone who repeats
	// this computation, so this derivation is not Pedersen-binding-safe in a
	// production setting (see DESIGN.md).
	generatorHScalar secp256k1.ModNScalar
)

func init() {
	generatorH = deriveH()
}

// deriveH computes H = s*G where s = SHA-256(G_compressed) mod n, with
// s forced to 1 if the reduction yields zero. Unlike a nothing-up-my-sleeve
// hash-to-curve search, the discrete log of H relative to G (namely s) is
// trivially recoverable by anyone who repeats this computation.
func deriveH() secp256k1.JacobianPoint {
	gCompressed := generatorG.SerializeCompressed()
	digest := sha256.Sum256(gCompressed)

	generatorHScalar.SetByteSlice(digest[:])
	if generatorHScalar.IsZero() {
		generatorHScalar.SetInt(1)
	}

	var h secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&generatorHScalar, &h)
	h.ToAffine()
	return h
}
