// Package ledger defines the contracts this service consumes from the
// screening registry contract on the FHE-enabled ledger. Wire encoding and
// transport are the concern of the concrete client; the core only depends on
// these interfaces.
package ledger

//go:generate mockgen -source=client.go -destination=mocks/mocks.go -package=mocks

import "context"

// BusinessData mirrors the public on-chain fields of a screening record.
type BusinessData struct {
	Name           string
	Timestamp      int64 // unix seconds
	Creator        string
	PublicValue1   int64 // disease code
	PublicValue2   int64 // denormalized public risk hint, 0 when absent
	IsVerified     bool
	DecryptedValue int64 // meaningful only when IsVerified
}

// Tx is a submitted transaction. Wait blocks until ledger finality or ctx
// cancellation; it is safe to call at most once.
type Tx interface {
	Hash() string
	Wait(ctx context.Context) error
}

// Reader provides read-only access to the screening registry contract.
type Reader interface {
	GetAllBusinessIDs(ctx context.Context) ([]string, error)
	GetBusinessData(ctx context.Context, businessID string) (*BusinessData, error)
	// GetEncryptedValue returns the opaque on-ledger handle of the record's
	// ciphertext. Fetched lazily; only the decryption protocol needs it.
	GetEncryptedValue(ctx context.Context, businessID string) (string, error)
}

// Writer submits state-changing transactions.
//
// CreateBusinessData registers a new record carrying the public fields plus
// ciphertext and its correctness proof. VerifyDecryption submits the decryption
// proof for the one-time on-chain reveal; it returns
// sentinel.ErrAlreadyVerified when the record was verified concurrently, and
// sentinel.ErrUserRejected when the account declined to sign.
type Writer interface {
	CreateBusinessData(ctx context.Context, businessID, name string, ciphertext, proof []byte, diseaseCode, reserved int64, category string) (Tx, error)
	VerifyDecryption(ctx context.Context, businessID string, clearValuesEncoded, decryptionProof []byte) (Tx, error)
}
