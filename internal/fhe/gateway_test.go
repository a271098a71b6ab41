package fhe_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"genescreen/internal/fhe"
	"genescreen/internal/fhe/mocks"
	"genescreen/internal/fhe/sim"
	dErrors "genescreen/pkg/domain-errors"
)

const testContract = "0x1111111111111111111111111111111111111111"

func TestGatewayEncrypt(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	t.Run("rejects calls before ready", func(t *testing.T) {
		sdk := sim.New()
		g := fhe.NewGateway(sdk, fhe.NewLifecycle(sdk, logger), logger)

		_, err := g.Encrypt(ctx, testContract, "0xabc", 5)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotInitialized))
	})

	t.Run("rejects out-of-range plaintext without touching the sdk", func(t *testing.T) {
		sdk := sim.New()
		l := fhe.NewLifecycle(sdk, logger)
		require.NoError(t, l.Initialize(ctx))
		g := fhe.NewGateway(sdk, l, logger)

		for _, v := range []int{0, -3, 11} {
			_, err := g.Encrypt(ctx, testContract, "0xabc", v)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
		}
	})

	t.Run("returns complete payload", func(t *testing.T) {
		sdk := sim.New()
		l := fhe.NewLifecycle(sdk, logger)
		require.NoError(t, l.Initialize(ctx))
		g := fhe.NewGateway(sdk, l, logger)

		payload, err := g.Encrypt(ctx, testContract, "0xabc", 7)
		require.NoError(t, err)
		assert.NotEmpty(t, payload.Ciphertext)
		assert.NotEmpty(t, payload.Proof)
	})

	t.Run("sdk failure surfaces its message", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sdk := mocks.NewMockSDK(ctrl)
		sdk.EXPECT().Initialize(gomock.Any()).Return(nil)
		sdk.EXPECT().Encrypt(gomock.Any(), testContract, "0xabc", uint64(5)).
			Return(nil, errors.New("relayer unreachable"))

		l := fhe.NewLifecycle(sdk, logger)
		require.NoError(t, l.Initialize(ctx))
		g := fhe.NewGateway(sdk, l, logger)

		_, err := g.Encrypt(ctx, testContract, "0xabc", 5)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeEncryptionFailed))
		assert.Equal(t, "relayer unreachable", dErrors.MessageOf(err))
	})

	t.Run("partial payload is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sdk := mocks.NewMockSDK(ctrl)
		sdk.EXPECT().Initialize(gomock.Any()).Return(nil)
		sdk.EXPECT().Encrypt(gomock.Any(), testContract, "0xabc", uint64(5)).
			Return(&fhe.Payload{Ciphertext: []byte("c")}, nil)

		l := fhe.NewLifecycle(sdk, logger)
		require.NoError(t, l.Initialize(ctx))
		g := fhe.NewGateway(sdk, l, logger)

		_, err := g.Encrypt(ctx, testContract, "0xabc", 5)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeEncryptionFailed))
	})
}
