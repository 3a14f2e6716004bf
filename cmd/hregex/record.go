package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-fhe/hregex/fhe"
)

// keyFile marks a generated key pair as belonging to the mock backend;
// it carries no secret material because the mock backend has none.
type keyFile struct {
	Backend string `json:"backend"`
}

// ciphertextRecord is the on-disk form of an encrypted content buffer: one
// hex-encoded byte per CT, readable only because the mock backend's
// "ciphertext" is its plaintext byte. A real backend would replace
// MarshalMockCT/UnmarshalMockCT with its own serialization and this file
// format would carry opaque ciphertext blobs instead of hex bytes.
type ciphertextRecord struct {
	Backend string `json:"backend"`
	Bytes   string `json:"bytes"` // hex-encoded
}

func writeKeyFile(path string) error {
	data, err := json.MarshalIndent(keyFile{Backend: "mock"}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readKeyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading key file %s: %w", path, err)
	}
	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return fmt.Errorf("parsing key file %s: %w", path, err)
	}
	if kf.Backend != "mock" {
		return fmt.Errorf("key file %s: unsupported backend %q", path, kf.Backend)
	}
	return nil
}

func writeCiphertextFile(path string, ct []fhe.CT) error {
	raw := make([]byte, len(ct))
	for i, c := range ct {
		raw[i] = fhe.MarshalMockCT(c)
	}
	data, err := json.MarshalIndent(ciphertextRecord{Backend: "mock", Bytes: hex.EncodeToString(raw)}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readCiphertextFile(path string) ([]fhe.CT, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ciphertext file %s: %w", path, err)
	}
	var rec ciphertextRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing ciphertext file %s: %w", path, err)
	}
	if rec.Backend != "mock" {
		return nil, fmt.Errorf("ciphertext file %s: unsupported backend %q", path, rec.Backend)
	}
	raw, err := hex.DecodeString(rec.Bytes)
	if err != nil {
		return nil, fmt.Errorf("ciphertext file %s: malformed hex: %w", path, err)
	}
	ct := make([]fhe.CT, len(raw))
	for i, b := range raw {
		ct[i] = fhe.UnmarshalMockCT(b)
	}
	return ct, nil
}
