package txinfo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/utxoscan/internal/platform/txinfo"
	"github.com/kislikjeka/utxoscan/internal/platform/utxo"
	"github.com/kislikjeka/utxoscan/pkg/money"
)

const (
	addrA  = "1DrDyTr9RpRsQnDnXo2YRiPzPW4ooHX5LLoqXrqfMrpQH"
	addrB  = "1H7CmpbvGJwgyLzR91wBRJJBL2wDdYjb7Rj2wAbDxrzzR"
	tokenX = "1111111111111111111111111111111111111111111111111111111111111111"
	tokenY = "2222222222222222222222222222222222222222222222222222222222222222"
)

func confirmed() utxo.Transaction {
	return utxo.Transaction{Hash: "aa", BlockHash: "bb"}
}

func never(utxo.Transaction) bool  { return false }
func always(utxo.Transaction) bool { return true }

func TestClassifier_SignBased(t *testing.T) {
	c := txinfo.NewClassifier(txinfo.WithConsolidation(never))

	tests := []struct {
		name     string
		delta    utxo.Delta
		expected txinfo.Direction
	}{
		{"native in", utxo.Delta{Native: "700"}, txinfo.DirectionIn},
		{"native out", utxo.Delta{Native: "-710"}, txinfo.DirectionOut},
		{"native out with token out", utxo.Delta{Native: "-10", Tokens: map[string]string{tokenX: "-5"}}, txinfo.DirectionOut},
		{"native in with token in", utxo.Delta{Native: "10", Tokens: map[string]string{tokenX: "5"}}, txinfo.DirectionIn},
		{"zero native, token in", utxo.Delta{Native: "0", Tokens: map[string]string{tokenX: "5"}}, txinfo.DirectionIn},
		{"zero native, token out", utxo.Delta{Native: "0", Tokens: map[string]string{tokenX: "-5"}}, txinfo.DirectionOut},
		{"all zero counts as in", utxo.Delta{Native: "0"}, txinfo.DirectionIn},
		{"undefined native", utxo.Delta{}, txinfo.DirectionIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.Classify(confirmed(), tt.delta)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Direction)
			assert.Equal(t, txinfo.InfoType(tt.expected), result.InfoType)
		})
	}
}

func TestClassifier_Swap(t *testing.T) {
	c := txinfo.NewClassifier(txinfo.WithConsolidation(never))

	tests := []struct {
		name  string
		delta utxo.Delta
	}{
		{"token for token, zero native", utxo.Delta{Native: "0", Tokens: map[string]string{tokenX: "-50", tokenY: "80"}}},
		{"token for token, fee paid", utxo.Delta{Native: "-3", Tokens: map[string]string{tokenX: "-50", tokenY: "80"}}},
		{"native for token", utxo.Delta{Native: "-1000", Tokens: map[string]string{tokenY: "80"}}},
		{"token for native", utxo.Delta{Native: "1000", Tokens: map[string]string{tokenX: "-50"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.Classify(confirmed(), tt.delta)
			require.NoError(t, err)
			assert.Equal(t, txinfo.DirectionSwap, result.Direction)
			assert.Equal(t, txinfo.InfoTypeSwap, result.InfoType)
			assert.Equal(t, txinfo.LabelSwapped, result.Label())
		})
	}
}

func TestClassifier_Pending(t *testing.T) {
	c := txinfo.NewClassifier(txinfo.WithConsolidation(always))
	tx := utxo.Transaction{Hash: "aa"}

	result, err := c.Classify(tx, utxo.Delta{Native: "-5", Tokens: map[string]string{tokenX: "-1", tokenY: "1"}})
	require.NoError(t, err)
	assert.Equal(t, txinfo.InfoTypePending, result.InfoType)
	assert.Equal(t, txinfo.DirectionOut, result.Direction)
	assert.Equal(t, txinfo.LabelPending, result.Label())

	result, err = c.Classify(tx, utxo.Delta{Native: "5"})
	require.NoError(t, err)
	assert.Equal(t, txinfo.InfoTypePending, result.InfoType)
	assert.Equal(t, txinfo.DirectionIn, result.Direction)
}

func TestClassifier_ConsolidationBeforeSwap(t *testing.T) {
	c := txinfo.NewClassifier(txinfo.WithConsolidation(always))

	result, err := c.Classify(confirmed(), utxo.Delta{Native: "0", Tokens: map[string]string{tokenX: "-1", tokenY: "1"}})
	require.NoError(t, err)
	assert.Equal(t, txinfo.DirectionOut, result.Direction)
	assert.Equal(t, txinfo.InfoTypeMove, result.InfoType)
	assert.Equal(t, txinfo.LabelMoved, result.Label())
}

func TestClassifier_DefaultConsolidation(t *testing.T) {
	c := txinfo.NewClassifier()
	tx := confirmed()
	tx.Inputs = []utxo.UTXO{{Address: addrA, NativeAmount: "1000"}}
	tx.Outputs = []utxo.UTXO{{Address: addrA, NativeAmount: "990"}}

	result, err := c.Classify(tx, utxo.Delta{Native: "-10"})
	require.NoError(t, err)
	assert.Equal(t, txinfo.InfoTypeMove, result.InfoType)
}

func TestClassifier_FlagsDoNotChangeDirection(t *testing.T) {
	failed := false
	tx := confirmed()
	tx.ScriptExecutionOK = &failed
	delta := utxo.Delta{Native: "-710"}

	plain, err := txinfo.NewClassifier(txinfo.WithConsolidation(never)).Classify(confirmed(), delta)
	require.NoError(t, err)

	flagged, err := txinfo.NewClassifier(
		txinfo.WithConsolidation(never),
		txinfo.WithContract(always),
	).Classify(tx, delta)
	require.NoError(t, err)

	assert.Equal(t, plain.Direction, flagged.Direction)
	assert.Equal(t, plain.InfoType, flagged.InfoType)
	assert.True(t, flagged.IsFailedScript)
	assert.True(t, flagged.IsInContract)
	assert.Equal(t, txinfo.LabelFailed, flagged.Label())

	tx.ScriptExecutionOK = nil
	contractOnly, err := txinfo.NewClassifier(
		txinfo.WithConsolidation(never),
		txinfo.WithContract(always),
	).Classify(tx, delta)
	require.NoError(t, err)
	assert.Equal(t, txinfo.LabelContractCall, contractOnly.Label())
}

func TestClassifier_Deterministic(t *testing.T) {
	c := txinfo.NewClassifier(txinfo.WithConsolidation(never))
	delta := utxo.Delta{Native: "0", Tokens: map[string]string{tokenX: "-50", tokenY: "80"}}

	first, err := c.Classify(confirmed(), delta)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := c.Classify(confirmed(), delta)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestClassifier_InvalidDelta(t *testing.T) {
	c := txinfo.NewClassifier(txinfo.WithConsolidation(never))

	_, err := c.Classify(confirmed(), utxo.Delta{Native: "1.5"})
	assert.ErrorIs(t, err, money.ErrInvalidAmountFormat)

	_, err = c.Classify(confirmed(), utxo.Delta{Native: "0", Tokens: map[string]string{tokenX: "abc"}})
	assert.ErrorIs(t, err, money.ErrInvalidAmountFormat)
}

func TestIsSwap(t *testing.T) {
	tests := []struct {
		name     string
		delta    utxo.Delta
		expected bool
	}{
		{"native only", utxo.Delta{Native: "-5"}, false},
		{"send token paying fee", utxo.Delta{Native: "-5", Tokens: map[string]string{tokenX: "-1"}}, false},
		{"receive token with dust", utxo.Delta{Native: "5", Tokens: map[string]string{tokenX: "1"}}, false},
		{"mixed tokens", utxo.Delta{Tokens: map[string]string{tokenX: "-1", tokenY: "1"}}, true},
		{"buy token", utxo.Delta{Native: "-5", Tokens: map[string]string{tokenX: "1"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := txinfo.IsSwap(tt.delta)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
