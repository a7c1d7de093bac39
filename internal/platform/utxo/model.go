package utxo

import "time"

// Token is a token balance attached to an input or output
type Token struct {
	ID     string `json:"id"`
	Amount string `json:"amount"` // base units, non-negative decimal string
}

// UTXO is a transaction input or output. Inputs and outputs share one shape;
// every field is optional and an empty string means "missing".
type UTXO struct {
	Address       string  `json:"address,omitempty"`
	NativeAmount  string  `json:"nativeAmount,omitempty"`
	Tokens        []Token `json:"tokens,omitempty"`
	LockTime      int64   `json:"lockTime,omitempty"`      // ms since epoch, outputs only
	ContractInput bool    `json:"contractInput,omitempty"` // inputs only
}

// HasAddress reports whether the record carries an address
func (u UTXO) HasAddress() bool {
	return u.Address != ""
}

// Transaction is an explorer transaction record
type Transaction struct {
	Hash              string `json:"hash"`
	BlockHash         string `json:"blockHash,omitempty"`
	Timestamp         int64  `json:"timestamp,omitempty"` // ms since epoch
	Inputs            []UTXO `json:"inputs"`
	Outputs           []UTXO `json:"outputs"`
	ScriptExecutionOK *bool  `json:"scriptExecutionOk,omitempty"`
	Coinbase          bool   `json:"coinbase,omitempty"`
}

// IsPending returns true for mempool transactions (no block hash yet)
func (t Transaction) IsPending() bool {
	return t.BlockHash == ""
}

// IsFailedScript returns true only when script execution is explicitly reported as failed
func (t Transaction) IsFailedScript() bool {
	return t.ScriptExecutionOK != nil && !*t.ScriptExecutionOK
}

// Time returns the transaction timestamp, zero time if unknown
func (t Transaction) Time() time.Time {
	if t.Timestamp == 0 {
		return time.Time{}
	}
	return time.UnixMilli(t.Timestamp).UTC()
}

// Validate checks the structural invariants of a confirmed transaction
func (t Transaction) Validate() error {
	if t.Hash == "" {
		return ErrMissingHash
	}
	if !t.IsPending() && len(t.Outputs) == 0 {
		return ErrNoOutputs
	}
	if !t.IsPending() && len(t.Inputs) == 0 && !t.Coinbase {
		return ErrNoInputs
	}
	return nil
}

// Delta is the signed change of every asset for one address across one transaction
type Delta struct {
	Native string            // outputs minus inputs, "0" when untouched
	Tokens map[string]string // token id → non-zero signed delta
}
