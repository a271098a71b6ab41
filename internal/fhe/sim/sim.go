// Package sim is a deterministic in-process stand-in for the external FHE
// SDK. Ciphertexts are self-describing (no real encryption), which lets the
// full submit and decrypt-verify protocol run end-to-end against the memory
// ledger in tests and local development.
package sim

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"genescreen/internal/fhe"
)

// SDK implements fhe.SDK.
type SDK struct {
	initialized atomic.Bool
	status      atomic.Value // string

	// InitErr makes Initialize fail; test hook.
	InitErr error
	// InitCalls counts Initialize invocations so tests can assert that
	// concurrent triggers collapsed into one attempt.
	InitCalls atomic.Int64
}

func New() *SDK {
	s := &SDK{}
	s.status.Store("idle")
	return s
}

func (s *SDK) Initialize(_ context.Context) error {
	s.InitCalls.Add(1)
	s.status.Store("loading keys")
	if s.InitErr != nil {
		s.status.Store("failed")
		return s.InitErr
	}
	s.initialized.Store(true)
	s.status.Store("ready")
	return nil
}

func (s *SDK) Status() string {
	return s.status.Load().(string)
}

func (s *SDK) Encrypt(_ context.Context, contract, account string, value uint64) (*fhe.Payload, error) {
	if !s.initialized.Load() {
		return nil, fmt.Errorf("sdk not initialized")
	}
	nonce := make([]byte, 8)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	ciphertext := fmt.Appendf(nil, "enc:%d:%s", value, hex.EncodeToString(nonce))
	proof := fmt.Appendf(nil, "proof:%s:%s:%s", contract, account, hex.EncodeToString(nonce))
	return &fhe.Payload{Ciphertext: ciphertext, Proof: proof}, nil
}

func (s *SDK) RequestDecryptionProof(ctx context.Context, handles []string, contract string, submit fhe.SubmitProofFunc) (*fhe.ProofResult, error) {
	if !s.initialized.Load() {
		return nil, fmt.Errorf("sdk not initialized")
	}

	clear := make(map[string]uint64, len(handles))
	for _, handle := range handles {
		value, err := decodeHandle(handle)
		if err != nil {
			return nil, err
		}
		clear[handle] = value
	}

	encoded, err := json.Marshal(clear)
	if err != nil {
		return nil, fmt.Errorf("encode clear values: %w", err)
	}
	decryptionProof := fmt.Appendf(nil, "dproof:%s", contract)

	tx, err := submit(encoded, decryptionProof)
	if err != nil {
		return nil, err
	}
	if err := tx.Wait(ctx); err != nil {
		return nil, err
	}

	return &fhe.ProofResult{ClearValues: clear}, nil
}

// decodeHandle recovers the plaintext from a self-describing ciphertext
// handle ("0x" + hex of "enc:<value>:<nonce>").
func decodeHandle(handle string) (uint64, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(handle, "0x"))
	if err != nil {
		return 0, fmt.Errorf("decode handle: %w", err)
	}
	parts := strings.SplitN(string(raw), ":", 3)
	if len(parts) != 3 || parts[0] != "enc" {
		return 0, fmt.Errorf("handle %q does not reference a simulator ciphertext", handle)
	}
	var value uint64
	if _, err := fmt.Sscanf(parts[1], "%d", &value); err != nil {
		return 0, fmt.Errorf("decode handle value: %w", err)
	}
	return value, nil
}
