package fhe

import (
	"context"
	"log/slog"

	dErrors "genescreen/pkg/domain-errors"
)

// Risk values accepted by the screening contract. The ciphertext domain is
// enforced again on decryption: a revealed value outside this range indicates
// a protocol or SDK bug, not a recoverable state.
const (
	MinRiskLevel = 1
	MaxRiskLevel = 10
)

// Gateway wraps the SDK's encrypt capability. It gates on subsystem readiness
// and guarantees no partial payload ever reaches a caller: either both
// ciphertext and proof are present or the call fails.
type Gateway struct {
	sdk       SDK
	lifecycle *Lifecycle
	logger    *slog.Logger
}

func NewGateway(sdk SDK, lifecycle *Lifecycle, logger *slog.Logger) *Gateway {
	return &Gateway{sdk: sdk, lifecycle: lifecycle, logger: logger}
}

// Encrypt produces ciphertext plus correctness proof for plaintext, bound to
// (targetContract, submitter).
func (g *Gateway) Encrypt(ctx context.Context, targetContract, submitter string, plaintext int) (*Payload, error) {
	if err := g.lifecycle.RequireReady(); err != nil {
		return nil, err
	}
	if plaintext < MinRiskLevel || plaintext > MaxRiskLevel {
		return nil, dErrors.New(dErrors.CodeBadRequest, "risk level must be between 1 and 10")
	}

	payload, err := g.sdk.Encrypt(ctx, targetContract, submitter, uint64(plaintext))
	if err != nil {
		// SDK message is surfaced verbatim for display; the call is retryable.
		return nil, dErrors.Wrap(err, dErrors.CodeEncryptionFailed, err.Error())
	}
	if payload == nil || len(payload.Ciphertext) == 0 || len(payload.Proof) == 0 {
		if g.logger != nil {
			g.logger.ErrorContext(ctx, "sdk returned partial encryption payload",
				"contract", targetContract,
			)
		}
		return nil, dErrors.New(dErrors.CodeEncryptionFailed, "encryption produced an incomplete payload")
	}
	return payload, nil
}
