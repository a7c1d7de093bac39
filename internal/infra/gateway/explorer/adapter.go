package explorer

import (
	"context"
	"fmt"

	"github.com/kislikjeka/utxoscan/internal/module/transactions"
	"github.com/kislikjeka/utxoscan/internal/platform/asset"
	"github.com/kislikjeka/utxoscan/internal/platform/utxo"
)

// Adapter converts explorer DTOs into core transactions and token types
type Adapter struct {
	client *Client
}

var (
	_ transactions.TransactionSource = (*Adapter)(nil)
	_ asset.TokenTypeProvider        = (*Adapter)(nil)
)

// NewAdapter creates a new explorer adapter
func NewAdapter(client *Client) *Adapter {
	return &Adapter{client: client}
}

// GetTransaction fetches and converts a single transaction
func (a *Adapter) GetTransaction(ctx context.Context, hash string) (utxo.Transaction, error) {
	tx, err := a.client.GetTransaction(ctx, hash)
	if err != nil {
		return utxo.Transaction{}, err
	}
	if tx == nil {
		return utxo.Transaction{}, fmt.Errorf("empty transaction response for %s", hash)
	}
	return ToTransaction(*tx), nil
}

// GetAddressTransactions fetches and converts one page of confirmed transactions
func (a *Adapter) GetAddressTransactions(ctx context.Context, address string, page, limit int) ([]utxo.Transaction, error) {
	txs, err := a.client.GetAddressTransactions(ctx, address, page, limit)
	if err != nil {
		return nil, err
	}
	return toTransactions(txs), nil
}

// GetMempoolTransactions fetches and converts pending transactions
func (a *Adapter) GetMempoolTransactions(ctx context.Context, address string) ([]utxo.Transaction, error) {
	txs, err := a.client.GetAddressMempoolTransactions(ctx, address)
	if err != nil {
		return nil, err
	}
	result := toTransactions(txs)
	// the mempool endpoint has no block hash; make sure nothing leaks through
	for i := range result {
		result[i].BlockHash = ""
	}
	return result, nil
}

// GetTokenTypes maps std interface ids to asset types. Ids without a known
// interface are left out.
func (a *Adapter) GetTokenTypes(ctx context.Context, ids []string) (map[string]asset.Type, error) {
	infos, err := a.client.GetTokenInfos(ctx, ids)
	if err != nil {
		return nil, err
	}

	types := make(map[string]asset.Type, len(infos))
	for _, info := range infos {
		switch info.StdInterfaceID {
		case StdInterfaceFungible:
			types[asset.NormalizeID(info.Token)] = asset.TypeFungible
		case StdInterfaceNonFungible:
			types[asset.NormalizeID(info.Token)] = asset.TypeNonFungible
		}
	}
	return types, nil
}

// Ping checks explorer reachability
func (a *Adapter) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func toTransactions(txs []Transaction) []utxo.Transaction {
	result := make([]utxo.Transaction, 0, len(txs))
	for _, tx := range txs {
		result = append(result, ToTransaction(tx))
	}
	return result
}

// ToTransaction maps an explorer transaction to the core shape
func ToTransaction(tx Transaction) utxo.Transaction {
	timestamp := tx.Timestamp
	if timestamp == 0 {
		timestamp = tx.LastSeen
	}

	inputs := make([]utxo.UTXO, 0, len(tx.Inputs))
	for _, in := range tx.Inputs {
		inputs = append(inputs, utxo.UTXO{
			Address:       in.Address,
			NativeAmount:  in.AttoAlphAmount,
			Tokens:        toTokens(in.Tokens),
			ContractInput: in.ContractInput,
		})
	}

	outputs := make([]utxo.UTXO, 0, len(tx.Outputs))
	for _, out := range tx.Outputs {
		outputs = append(outputs, utxo.UTXO{
			Address:      out.Address,
			NativeAmount: out.AttoAlphAmount,
			Tokens:       toTokens(out.Tokens),
			LockTime:     out.LockTime,
		})
	}

	return utxo.Transaction{
		Hash:              tx.Hash,
		BlockHash:         tx.BlockHash,
		Timestamp:         timestamp,
		Inputs:            inputs,
		Outputs:           outputs,
		ScriptExecutionOK: tx.ScriptExecutionOk,
		Coinbase:          tx.Coinbase,
	}
}

func toTokens(tokens []Token) []utxo.Token {
	if len(tokens) == 0 {
		return nil
	}
	result := make([]utxo.Token, 0, len(tokens))
	for _, t := range tokens {
		result = append(result, utxo.Token{ID: asset.NormalizeID(t.ID), Amount: t.Amount})
	}
	return result
}
