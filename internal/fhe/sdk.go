// Package fhe wraps the external FHE SDK behind the subsystem lifecycle and
// the encryption gateway. The homomorphic math, proof generation, and key
// material all live in the SDK; this package owns readiness gating and
// payload validation only.
package fhe

//go:generate mockgen -source=sdk.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"genescreen/internal/ledger"
)

// Payload is the all-or-nothing output of an encryption call: ciphertext plus
// the proof attesting its correctness relative to the target contract and
// submitter. Produced fresh per submission, never reused.
type Payload struct {
	Ciphertext []byte
	Proof      []byte
}

// SubmitProofFunc submits a decryption proof as a transaction. The SDK invokes
// it once the off-chain proof computation finishes; the returned Tx carries
// the finality signal the coordinator waits on.
type SubmitProofFunc func(clearValuesEncoded, decryptionProof []byte) (ledger.Tx, error)

// ProofResult is the outcome of a decryption-proof request. Clear values are
// keyed by the ciphertext handles that were passed in.
type ProofResult struct {
	ClearValues map[string]uint64
}

// SDK is the external FHE subsystem contract.
//
// Initialize is idempotent once ready but may be slow on first call (key
// fetches, WASM warmup, etc.); Lifecycle collapses concurrent triggers into a
// single in-flight attempt. RequestDecryptionProof may suspend for an
// arbitrary duration awaiting off-chain proof computation, so callers bound it
// with a context deadline.
type SDK interface {
	Initialize(ctx context.Context) error
	Status() string
	Encrypt(ctx context.Context, contract, account string, value uint64) (*Payload, error)
	RequestDecryptionProof(ctx context.Context, handles []string, contract string, submit SubmitProofFunc) (*ProofResult, error)
}
