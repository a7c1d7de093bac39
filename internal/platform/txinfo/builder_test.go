package txinfo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/utxoscan/internal/platform/asset"
	"github.com/kislikjeka/utxoscan/internal/platform/txinfo"
	"github.com/kislikjeka/utxoscan/internal/platform/utxo"
)

// A pays 700 to B and 10 in fees; 290 returns to A as change
func feeTx() utxo.Transaction {
	return utxo.Transaction{
		Hash:      "fee",
		BlockHash: "block",
		Timestamp: 1700000000000,
		Inputs:    []utxo.UTXO{{Address: addrA, NativeAmount: "1000"}},
		Outputs: []utxo.UTXO{
			{Address: addrB, NativeAmount: "700", LockTime: 1700000500000},
			{Address: addrA, NativeAmount: "290"},
		},
	}
}

// A gives 50 X and receives 80 Y; native balance unchanged
func swapTx() utxo.Transaction {
	return utxo.Transaction{
		Hash:      "swap",
		BlockHash: "block",
		Inputs: []utxo.UTXO{
			{Address: addrA, NativeAmount: "100", Tokens: []utxo.Token{{ID: tokenX, Amount: "50"}}},
			{Address: addrB, NativeAmount: "100", Tokens: []utxo.Token{{ID: tokenY, Amount: "80"}}},
		},
		Outputs: []utxo.UTXO{
			{Address: addrA, NativeAmount: "100", Tokens: []utxo.Token{{ID: tokenY, Amount: "80"}}},
			{Address: addrB, NativeAmount: "100", Tokens: []utxo.Token{{ID: tokenX, Amount: "50"}}},
		},
	}
}

func TestBuilder_FeeScenario(t *testing.T) {
	b := txinfo.NewBuilder(nil)

	sender, err := b.Build(feeTx(), addrA, nil)
	require.NoError(t, err)
	assert.Equal(t, txinfo.DirectionOut, sender.Direction)
	assert.Equal(t, txinfo.InfoTypeOut, sender.InfoType)
	assert.Equal(t, txinfo.LabelSent, sender.Label)
	require.Len(t, sender.Assets, 1)
	assert.Equal(t, asset.NativeID, sender.Assets[0].ID)
	assert.Equal(t, "-710", sender.Assets[0].Amount)
	require.Len(t, sender.Outputs, 1)
	assert.Equal(t, addrB, sender.Outputs[0].Address)
	require.NotNil(t, sender.LockTime)
	assert.Equal(t, time.UnixMilli(1700000500000).UTC(), *sender.LockTime)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), sender.Timestamp)

	receiver, err := b.Build(feeTx(), addrB, nil)
	require.NoError(t, err)
	assert.Equal(t, txinfo.DirectionIn, receiver.Direction)
	assert.Equal(t, txinfo.InfoTypeIn, receiver.InfoType)
	assert.Equal(t, "700", receiver.Assets[0].Amount)
	require.Len(t, receiver.Outputs, 1)
	assert.Equal(t, addrB, receiver.Outputs[0].Address)
}

func TestBuilder_PendingScenario(t *testing.T) {
	tx := feeTx()
	tx.BlockHash = ""

	info, err := txinfo.NewBuilder(nil).Build(tx, addrA, nil)
	require.NoError(t, err)
	assert.Equal(t, txinfo.InfoTypePending, info.InfoType)
	assert.True(t, info.IsPending())
	assert.Equal(t, txinfo.LabelPending, info.Label)
}

func TestBuilder_SwapScenario(t *testing.T) {
	catalog := asset.Catalog{
		tokenY: {ID: tokenY, Symbol: "Y", Decimals: 2, Verified: true, Type: asset.TypeFungible},
	}

	info, err := txinfo.NewBuilder(nil).Build(swapTx(), addrA, catalog)
	require.NoError(t, err)

	assert.Equal(t, txinfo.DirectionSwap, info.Direction)
	assert.Equal(t, txinfo.InfoTypeSwap, info.InfoType)
	assert.Len(t, info.Outputs, 2)
	assert.Nil(t, info.LockTime)

	require.Len(t, info.Assets, 3)
	assert.Equal(t, asset.NativeID, info.Assets[0].ID)
	assert.Equal(t, "0", info.Assets[0].Amount)

	x := info.Assets[1]
	assert.Equal(t, tokenX, x.ID)
	assert.Equal(t, "-50", x.Amount)
	assert.False(t, x.Verified)
	assert.Nil(t, x.Decimals)

	y := info.Assets[2]
	assert.Equal(t, tokenY, y.ID)
	assert.Equal(t, "80", y.Amount)
	assert.True(t, y.Verified)
	assert.Equal(t, "Y", y.Symbol)
}

func TestBuilder_MoveKeepsAllOutputs(t *testing.T) {
	tx := utxo.Transaction{
		Hash:      "move",
		BlockHash: "block",
		Inputs:    []utxo.UTXO{{Address: addrA, NativeAmount: "1000"}},
		Outputs:   []utxo.UTXO{{Address: addrA, NativeAmount: "400"}, {Address: addrA, NativeAmount: "590"}},
	}

	info, err := txinfo.NewBuilder(nil).Build(tx, addrA, nil)
	require.NoError(t, err)
	assert.Equal(t, txinfo.InfoTypeMove, info.InfoType)
	assert.Equal(t, txinfo.DirectionOut, info.Direction)
	assert.Len(t, info.Outputs, 2)
}

func TestBuilder_InvalidTransaction(t *testing.T) {
	b := txinfo.NewBuilder(nil)

	_, err := b.Build(utxo.Transaction{BlockHash: "block"}, addrA, nil)
	assert.ErrorIs(t, err, utxo.ErrMissingHash)

	tx := feeTx()
	tx.Outputs[0].NativeAmount = "7e2"
	_, err = b.Build(tx, addrA, nil)
	assert.Error(t, err)
}

func TestTokenIDs(t *testing.T) {
	ids := txinfo.TokenIDs(swapTx(), feeTx(), swapTx())
	assert.ElementsMatch(t, []string{tokenX, tokenY}, ids)
	assert.Empty(t, txinfo.TokenIDs(feeTx()))
}
