package txinfo

import (
	"time"

	"github.com/kislikjeka/utxoscan/internal/platform/asset"
	"github.com/kislikjeka/utxoscan/internal/platform/utxo"
)

// Direction is the movement of value relative to the viewed address
type Direction string

const (
	DirectionIn   Direction = "in"
	DirectionOut  Direction = "out"
	DirectionSwap Direction = "swap"
)

// InfoType is the display category of a transaction
type InfoType string

const (
	InfoTypeIn      InfoType = "in"
	InfoTypeOut     InfoType = "out"
	InfoTypeMove    InfoType = "move"
	InfoTypeSwap    InfoType = "swap"
	InfoTypePending InfoType = "pending"
)

// Label values shown next to a transaction
const (
	LabelReceived     = "Received"
	LabelSent         = "Sent"
	LabelMoved        = "Moved"
	LabelSwapped      = "Swapped"
	LabelPending      = "Pending"
	LabelFailed       = "Failed"
	LabelContractCall = "Contract call"
)

// Classification is the result of classifying one transaction for one address
type Classification struct {
	Direction      Direction `json:"direction"`
	InfoType       InfoType  `json:"infoType"`
	IsFailedScript bool      `json:"isFailedScript"`
	IsInContract   bool      `json:"isInContract"`
}

// Label returns the user-facing label. Failure and contract flags take
// precedence over the info type but never change it.
func (c Classification) Label() string {
	switch {
	case c.IsFailedScript:
		return LabelFailed
	case c.IsInContract:
		return LabelContractCall
	}

	switch c.InfoType {
	case InfoTypePending:
		return LabelPending
	case InfoTypeMove:
		return LabelMoved
	case InfoTypeSwap:
		return LabelSwapped
	case InfoTypeIn:
		return LabelReceived
	default:
		return LabelSent
	}
}

// TransactionInfo is a transaction classified and annotated for one address
type TransactionInfo struct {
	Hash           string              `json:"hash"`
	Address        string              `json:"address"`
	Assets         []asset.AssetAmount `json:"assets"`
	Direction      Direction           `json:"direction"`
	InfoType       InfoType            `json:"infoType"`
	Outputs        []utxo.UTXO         `json:"outputs"`
	LockTime       *time.Time          `json:"lockTime,omitempty"`
	Timestamp      time.Time           `json:"timestamp"`
	IsFailedScript bool                `json:"isFailedScript"`
	IsInContract   bool                `json:"isInContract"`
	Label          string              `json:"label"`
}

// IsPending returns true while the transaction is still in the mempool
func (t TransactionInfo) IsPending() bool {
	return t.InfoType == InfoTypePending
}
