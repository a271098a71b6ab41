// Package memory provides an in-process ledger implementing the registry
// contract semantics: immutable records, lazily fetched ciphertext handles,
// and a one-time verification transition. It backs unit and protocol tests
// and the local development mode of the server.
package memory

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"genescreen/internal/ledger"
	"genescreen/pkg/platform/sentinel"
	"genescreen/pkg/requestcontext"
)

type entry struct {
	data       ledger.BusinessData
	ciphertext []byte
	proof      []byte
	category   string
}

// Ledger implements ledger.Reader and ledger.Writer over a mutex-guarded map.
type Ledger struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string

	// RejectSigning simulates the account declining every write. Test hook.
	RejectSigning bool
}

func New() *Ledger {
	return &Ledger{entries: make(map[string]*entry)}
}

func (l *Ledger) GetAllBusinessIDs(_ context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string{}, l.order...), nil
}

func (l *Ledger) GetBusinessData(_ context.Context, businessID string) (*ledger.BusinessData, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[businessID]
	if !ok {
		return nil, fmt.Errorf("business %q: %w", businessID, sentinel.ErrNotFound)
	}
	data := e.data
	return &data, nil
}

func (l *Ledger) GetEncryptedValue(_ context.Context, businessID string) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[businessID]
	if !ok {
		return "", fmt.Errorf("business %q: %w", businessID, sentinel.ErrNotFound)
	}
	return HandleFor(e.ciphertext), nil
}

func (l *Ledger) CreateBusinessData(ctx context.Context, businessID, name string, ciphertext, proof []byte, diseaseCode, reserved int64, category string) (ledger.Tx, error) {
	if l.RejectSigning {
		return nil, fmt.Errorf("create %q: %w", businessID, sentinel.ErrUserRejected)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.entries[businessID]; exists {
		return nil, fmt.Errorf("business %q: %w", businessID, sentinel.ErrConflict)
	}

	account := accountFrom(ctx)
	l.entries[businessID] = &entry{
		data: ledger.BusinessData{
			Name:         name,
			Timestamp:    timestampFrom(ctx),
			Creator:      account,
			PublicValue1: diseaseCode,
			PublicValue2: reserved,
		},
		ciphertext: append([]byte{}, ciphertext...),
		proof:      append([]byte{}, proof...),
		category:   category,
	}
	l.order = append(l.order, businessID)

	return &tx{hash: "0xcreate-" + businessID}, nil
}

func (l *Ledger) VerifyDecryption(_ context.Context, businessID string, clearValuesEncoded, decryptionProof []byte) (ledger.Tx, error) {
	if l.RejectSigning {
		return nil, fmt.Errorf("verify %q: %w", businessID, sentinel.ErrUserRejected)
	}
	if len(decryptionProof) == 0 {
		return nil, fmt.Errorf("verify %q: empty decryption proof", businessID)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[businessID]
	if !ok {
		return nil, fmt.Errorf("business %q: %w", businessID, sentinel.ErrNotFound)
	}
	if e.data.IsVerified {
		return nil, fmt.Errorf("business %q: %w", businessID, sentinel.ErrAlreadyVerified)
	}

	var clear map[string]uint64
	if err := json.Unmarshal(clearValuesEncoded, &clear); err != nil {
		return nil, fmt.Errorf("decode clear values: %w", err)
	}
	value, ok := clear[HandleFor(e.ciphertext)]
	if !ok {
		return nil, fmt.Errorf("verify %q: clear value missing for handle", businessID)
	}

	e.data.IsVerified = true
	e.data.DecryptedValue = int64(value)

	return &tx{hash: "0xverify-" + businessID}, nil
}

func accountFrom(ctx context.Context) string {
	return requestcontext.Account(ctx)
}

func timestampFrom(ctx context.Context) int64 {
	return requestcontext.Now(ctx).Unix()
}

// HandleFor derives the on-ledger handle of a ciphertext. The handle is
// opaque to the core; both this ledger and the SDK simulator use hex so a
// proof result can be keyed back to the original handle.
func HandleFor(ciphertext []byte) string {
	return "0x" + hex.EncodeToString(ciphertext)
}

type tx struct {
	hash string
}

func (t *tx) Hash() string { return t.hash }

// Wait reaches finality immediately; in-process writes are already applied.
func (t *tx) Wait(ctx context.Context) error {
	return ctx.Err()
}
