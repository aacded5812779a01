// Package zkid is the identity gate of the move pipeline. A player is known
// only by a public key, the commitment to a secret credential, and every move
// carries a zero-knowledge proof that the sender holds that credential and
// that it was issued for the required domain.
package zkid

import (
	"encoding/hex"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/Tejaaswini/zeroking/internal/errors"
)

// Statement is the public side of a proof: the claimed key, the domain the
// credential must belong to, the game it is used in, and the binding of the
// move or action inside that game.
type Statement struct {
	PublicKey string
	Domain    string
	GameID    string
	Binding   uint64
}

// Verifier decides whether proof attests st. Implementations must fail
// closed: any malformed input yields false.
type Verifier interface {
	Verify(proof []byte, st Statement) bool
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(proof []byte, st Statement) bool

func (f VerifierFunc) Verify(proof []byte, st Statement) bool { return f(proof, st) }

// Authorize returns nil when v accepts proof for st and a wrapped
// ErrAuthorizationFailed otherwise.
func Authorize(v Verifier, st Statement, proof []byte) error {
	if v == nil || len(proof) == 0 || st.PublicKey == "" || st.GameID == "" {
		return errors.Wrapf(errors.ErrAuthorizationFailed, "no proof for key %q", shortKey(st.PublicKey))
	}
	if !v.Verify(proof, st) {
		return errors.Wrapf(errors.ErrAuthorizationFailed, "proof for key %s rejected in domain %q", shortKey(st.PublicKey), st.Domain)
	}
	return nil
}

// decodeKey parses a hex public key into a canonical field element.
func decodeKey(key string) (*big.Int, bool) {
	raw, err := hex.DecodeString(key)
	if err != nil || len(raw) != fr.Bytes {
		return nil, false
	}
	n := new(big.Int).SetBytes(raw)
	if n.Cmp(fr.Modulus()) >= 0 {
		return nil, false
	}
	return n, true
}

func encodeKey(b []byte) string {
	return hex.EncodeToString(b)
}

// ValidKey reports whether key is a well-formed public key.
func ValidKey(key string) bool {
	_, ok := decodeKey(key)
	return ok
}

func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
