package zkid

import (
	"crypto/sha256"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	nativemimc "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/std/hash/mimc"
)

func Curve() ecc.ID { return ecc.BN254 }

// CredentialCircuit proves knowledge of a credential whose MiMC commitment,
// taken together with the claimed domain, equals PublicKey. Game and Binding
// tie the proof to one action in one game; both only have to be non-zero.
type CredentialCircuit struct {
	PublicKey frontend.Variable `gnark:",public"`
	Domain    frontend.Variable `gnark:",public"`
	Game      frontend.Variable `gnark:",public"`
	Binding   frontend.Variable `gnark:",public"`

	Credential frontend.Variable `gnark:",secret"`
}

func (c *CredentialCircuit) Define(api frontend.API) error {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	h.Write(c.Credential, c.Domain)
	api.AssertIsEqual(h.Sum(), c.PublicKey)

	api.AssertIsDifferent(c.Game, 0)
	api.AssertIsDifferent(c.Binding, 0)
	return nil
}

// Compile builds the constraint system shared by setup, proving and
// verification.
func Compile() (constraint.ConstraintSystem, error) {
	var circuit CredentialCircuit
	return frontend.Compile(Curve().ScalarField(), r1cs.NewBuilder, &circuit)
}

// fieldElement maps an arbitrary string onto the scalar field.
func fieldElement(s string) fr.Element {
	sum := sha256.Sum256([]byte(s))
	var e fr.Element
	e.SetBytes(sum[:])
	return e
}

func fieldFromString(s string) *big.Int {
	e := fieldElement(s)
	return e.BigInt(new(big.Int))
}

// Commit derives the public key a credential holder publishes for domain:
// the hex encoding of MiMC(credential, domain) over BN254.
func Commit(credential, domain string) string {
	c := fieldElement(credential)
	d := fieldElement(domain)
	cb := c.Bytes()
	db := d.Bytes()

	h := nativemimc.NewMiMC()
	h.Write(cb[:])
	h.Write(db[:])
	return encodeKey(h.Sum(nil))
}
