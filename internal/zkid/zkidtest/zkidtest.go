// Package zkidtest provides a stand-in for the Groth16 verifier. Its proofs
// are plain tokens naming the statement they attest, so tests can produce and
// tamper with them without running a setup.
package zkidtest

import (
	"bytes"
	"fmt"

	"github.com/Tejaaswini/zeroking/internal/zkid"
)

// Token is the only proof Verifier accepts for st.
func Token(st zkid.Statement) []byte {
	return []byte(fmt.Sprintf("%s|%s|%s|%d", st.PublicKey, st.Domain, st.GameID, st.Binding))
}

// Verifier accepts exactly Token(st).
type Verifier struct{}

func (Verifier) Verify(proof []byte, st zkid.Statement) bool {
	return st.Binding != 0 && bytes.Equal(proof, Token(st))
}

// Reject is a verifier that accepts nothing.
var Reject = zkid.VerifierFunc(func([]byte, zkid.Statement) bool { return false })
