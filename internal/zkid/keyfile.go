package zkid

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File names used by SaveKeys and the loaders below.
const (
	VerifyingKeyFile = "verifying.key"
	ProvingKeyFile   = "proving.key"
)

// SaveKeys writes both keys into dir and returns the verifying key's path.
func SaveKeys(k *Keys, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create keys dir: %w", err)
	}
	vkPath := filepath.Join(dir, VerifyingKeyFile)
	if err := writeFile(vkPath, k.WriteVerifyingKey); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(dir, ProvingKeyFile), k.WriteProvingKey); err != nil {
		return "", err
	}
	return vkPath, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// LoadVerifier reads a verifying key file.
func LoadVerifier(path string) (*Groth16Verifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewGroth16Verifier(f)
}

// LoadProver reads a proving key file.
func LoadProver(path string) (*Prover, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewProver(f)
}
