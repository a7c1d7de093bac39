package transactions

import (
	"github.com/kislikjeka/utxoscan/internal/platform/asset"
	"github.com/kislikjeka/utxoscan/internal/platform/txinfo"
	"github.com/kislikjeka/utxoscan/pkg/money"
)

// AssetItem is an asset amount with a human-readable amount
type AssetItem struct {
	asset.AssetAmount
	DisplayAmount string `json:"displayAmount,omitempty"` // "-0.00000071" when decimals are known
}

// TransactionItem is a TransactionInfo as served by the API
type TransactionItem struct {
	txinfo.TransactionInfo
	Assets []AssetItem `json:"assets"`
}

// TransactionListResponse is one page of transactions
type TransactionListResponse struct {
	Address      string            `json:"address"`
	Page         int               `json:"page"`
	Limit        int               `json:"limit"`
	Transactions []TransactionItem `json:"transactions"`
}

// ToItem converts a TransactionInfo into its API form
func ToItem(info txinfo.TransactionInfo) TransactionItem {
	assets := make([]AssetItem, 0, len(info.Assets))
	for _, a := range info.Assets {
		assets = append(assets, AssetItem{AssetAmount: a, DisplayAmount: DisplayAmount(a)})
	}
	return TransactionItem{TransactionInfo: info, Assets: assets}
}

// ToItems converts a page of TransactionInfo
func ToItems(infos []txinfo.TransactionInfo) []TransactionItem {
	items := make([]TransactionItem, 0, len(infos))
	for _, info := range infos {
		items = append(items, ToItem(info))
	}
	return items
}

// DisplayAmount formats an amount using its decimals, or returns "" when
// decimals are unknown
func DisplayAmount(a asset.AssetAmount) string {
	if a.Decimals == nil {
		return ""
	}
	s, err := money.FromBaseUnits(a.Amount, *a.Decimals)
	if err != nil {
		return ""
	}
	return s
}
