package zkid

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"math/big"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
)

// Keys is the output of a Groth16 setup for CredentialCircuit.
type Keys struct {
	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
	vk  groth16.VerifyingKey
}

// Setup compiles the circuit and runs a single-party Groth16 setup. The
// toxic waste is not destroyed in any verifiable way, so keys from Setup are
// for development and tests.
func Setup() (*Keys, error) {
	ccs, err := Compile()
	if err != nil {
		return nil, fmt.Errorf("compile credential circuit: %w", err)
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("groth16 setup: %w", err)
	}
	return &Keys{ccs: ccs, pk: pk, vk: vk}, nil
}

func (k *Keys) WriteVerifyingKey(w io.Writer) error {
	_, err := k.vk.WriteTo(w)
	return err
}

func (k *Keys) WriteProvingKey(w io.Writer) error {
	_, err := k.pk.WriteTo(w)
	return err
}

func (k *Keys) Verifier() *Groth16Verifier {
	return &Groth16Verifier{vk: k.vk}
}

func (k *Keys) Prover() *Prover {
	return &Prover{ccs: k.ccs, pk: k.pk}
}

// Groth16Verifier checks proofs against a fixed verifying key.
type Groth16Verifier struct {
	vk groth16.VerifyingKey
}

// NewGroth16Verifier reads a verifying key written by WriteVerifyingKey.
func NewGroth16Verifier(r io.Reader) (*Groth16Verifier, error) {
	vk := groth16.NewVerifyingKey(Curve())
	if _, err := vk.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("read verifying key: %w", err)
	}
	return &Groth16Verifier{vk: vk}, nil
}

func (v *Groth16Verifier) Verify(proofBytes []byte, st Statement) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("zkid: verifier panic on key %s: %v", shortKey(st.PublicKey), r)
			ok = false
		}
	}()

	key, valid := decodeKey(st.PublicKey)
	if !valid || st.Binding == 0 {
		return false
	}

	proof := groth16.NewProof(Curve())
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return false
	}

	assignment := CredentialCircuit{
		PublicKey: key,
		Domain:    fieldFromString(st.Domain),
		Game:      fieldFromString(st.GameID),
		Binding:   new(big.Int).SetUint64(st.Binding),
	}
	public, err := frontend.NewWitness(&assignment, Curve().ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false
	}
	return groth16.Verify(proof, v.vk, public) == nil
}

// Prover produces proofs for credential holders.
type Prover struct {
	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
}

// NewProver reads a proving key written by WriteProvingKey. The constraint
// system is recompiled; it is deterministic for a given circuit.
func NewProver(r io.Reader) (*Prover, error) {
	ccs, err := Compile()
	if err != nil {
		return nil, fmt.Errorf("compile credential circuit: %w", err)
	}
	pk := groth16.NewProvingKey(Curve())
	if _, err := pk.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("read proving key: %w", err)
	}
	return &Prover{ccs: ccs, pk: pk}, nil
}

// Prove returns a serialized proof that the holder of credential owns
// st.PublicKey in st.Domain, bound to st.GameID and st.Binding.
func (p *Prover) Prove(credential string, st Statement) ([]byte, error) {
	key, ok := decodeKey(st.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key %q is not a field element", shortKey(st.PublicKey))
	}
	assignment := CredentialCircuit{
		PublicKey:  key,
		Domain:     fieldFromString(st.Domain),
		Game:       fieldFromString(st.GameID),
		Binding:    new(big.Int).SetUint64(st.Binding),
		Credential: fieldFromString(credential),
	}
	witness, err := frontend.NewWitness(&assignment, Curve().ScalarField())
	if err != nil {
		return nil, fmt.Errorf("build witness: %w", err)
	}
	proof, err := groth16.Prove(p.ccs, p.pk, witness)
	if err != nil {
		return nil, fmt.Errorf("prove: %w", err)
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode proof: %w", err)
	}
	return buf.Bytes(), nil
}
