package transactions

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/kislikjeka/utxoscan/internal/platform/txinfo"
)

// ExportHeader is the first CSV row
var ExportHeader = []string{
	"hash", "timestamp", "direction", "info_type", "label",
	"asset_id", "symbol", "amount", "display_amount", "verified",
}

// WriteCSV writes one row per asset of every transaction
func WriteCSV(w io.Writer, infos []txinfo.TransactionInfo) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, info := range infos {
		timestamp := ""
		if !info.Timestamp.IsZero() {
			timestamp = info.Timestamp.Format(time.RFC3339)
		}
		for _, a := range info.Assets {
			row := []string{
				info.Hash,
				timestamp,
				string(info.Direction),
				string(info.InfoType),
				info.Label,
				a.ID,
				a.Symbol,
				a.Amount,
				DisplayAmount(a),
				fmt.Sprintf("%t", a.Verified),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
