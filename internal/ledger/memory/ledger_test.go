package memory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genescreen/pkg/platform/sentinel"
	"genescreen/pkg/requestcontext"
)

func testContext() context.Context {
	ctx := requestcontext.WithAccount(context.Background(), "0xabc")
	return requestcontext.WithTime(ctx, time.Unix(1_700_000_000, 0))
}

func clearValuesFor(t *testing.T, ciphertext []byte, value uint64) []byte {
	t.Helper()
	encoded, err := json.Marshal(map[string]uint64{HandleFor(ciphertext): value})
	require.NoError(t, err)
	return encoded
}

func TestCreateBusinessData(t *testing.T) {
	ctx := testContext()

	t.Run("stores public fields from context", func(t *testing.T) {
		l := New()
		tx, err := l.CreateBusinessData(ctx, "screening-1", "BRCA1", []byte("ct"), []byte("pf"), 42, 0, "Genetic Disease Screening")
		require.NoError(t, err)
		require.NoError(t, tx.Wait(ctx))
		assert.NotEmpty(t, tx.Hash())

		data, err := l.GetBusinessData(ctx, "screening-1")
		require.NoError(t, err)
		assert.Equal(t, "BRCA1", data.Name)
		assert.Equal(t, "0xabc", data.Creator)
		assert.Equal(t, int64(1_700_000_000), data.Timestamp)
		assert.Equal(t, int64(42), data.PublicValue1)
		assert.False(t, data.IsVerified)

		ids, err := l.GetAllBusinessIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"screening-1"}, ids)
	})

	t.Run("duplicate id conflicts", func(t *testing.T) {
		l := New()
		_, err := l.CreateBusinessData(ctx, "screening-1", "a", []byte("ct"), []byte("pf"), 1, 0, "c")
		require.NoError(t, err)
		_, err = l.CreateBusinessData(ctx, "screening-1", "b", []byte("ct2"), []byte("pf2"), 2, 0, "c")
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("rejected signing", func(t *testing.T) {
		l := New()
		l.RejectSigning = true
		_, err := l.CreateBusinessData(ctx, "screening-1", "a", []byte("ct"), []byte("pf"), 1, 0, "c")
		assert.ErrorIs(t, err, sentinel.ErrUserRejected)
	})
}

func TestVerifyDecryption(t *testing.T) {
	ctx := testContext()
	ciphertext := []byte("enc:8:deadbeef")

	setup := func(t *testing.T) *Ledger {
		l := New()
		_, err := l.CreateBusinessData(ctx, "screening-1", "a", ciphertext, []byte("pf"), 42, 0, "c")
		require.NoError(t, err)
		return l
	}

	t.Run("one-time reveal", func(t *testing.T) {
		l := setup(t)

		handle, err := l.GetEncryptedValue(ctx, "screening-1")
		require.NoError(t, err)
		assert.Equal(t, HandleFor(ciphertext), handle)

		tx, err := l.VerifyDecryption(ctx, "screening-1", clearValuesFor(t, ciphertext, 8), []byte("dproof"))
		require.NoError(t, err)
		require.NoError(t, tx.Wait(ctx))

		data, err := l.GetBusinessData(ctx, "screening-1")
		require.NoError(t, err)
		assert.True(t, data.IsVerified)
		assert.Equal(t, int64(8), data.DecryptedValue)

		// Second reveal is refused; the first value is immutable.
		_, err = l.VerifyDecryption(ctx, "screening-1", clearValuesFor(t, ciphertext, 3), []byte("dproof"))
		assert.ErrorIs(t, err, sentinel.ErrAlreadyVerified)
		data, err = l.GetBusinessData(ctx, "screening-1")
		require.NoError(t, err)
		assert.Equal(t, int64(8), data.DecryptedValue)
	})

	t.Run("unknown record", func(t *testing.T) {
		l := setup(t)
		_, err := l.VerifyDecryption(ctx, "screening-404", clearValuesFor(t, ciphertext, 8), []byte("dproof"))
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("empty proof is refused", func(t *testing.T) {
		l := setup(t)
		_, err := l.VerifyDecryption(ctx, "screening-1", clearValuesFor(t, ciphertext, 8), nil)
		assert.Error(t, err)
	})

	t.Run("clear values missing the handle", func(t *testing.T) {
		l := setup(t)
		encoded, err := json.Marshal(map[string]uint64{"0xother": 8})
		require.NoError(t, err)
		_, err = l.VerifyDecryption(ctx, "screening-1", encoded, []byte("dproof"))
		assert.Error(t, err)
	})
}
