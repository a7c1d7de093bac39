package txinfo

import (
	"fmt"
	"time"

	"github.com/kislikjeka/utxoscan/internal/platform/asset"
	"github.com/kislikjeka/utxoscan/internal/platform/utxo"
)

// Builder turns a raw transaction into a TransactionInfo for one address.
// All metadata must already be resolved; Build performs no I/O.
type Builder struct {
	classifier *Classifier
}

// NewBuilder creates a Builder. A nil classifier uses the defaults.
func NewBuilder(classifier *Classifier) *Builder {
	if classifier == nil {
		classifier = NewClassifier()
	}
	return &Builder{classifier: classifier}
}

// Build runs delta → classification → metadata join for tx and address
func (b *Builder) Build(tx utxo.Transaction, address string, lookup asset.Lookup) (TransactionInfo, error) {
	if err := tx.Validate(); err != nil {
		return TransactionInfo{}, err
	}

	delta, err := utxo.CalcDelta(tx, address)
	if err != nil {
		return TransactionInfo{}, err
	}

	c, err := b.classifier.Classify(tx, delta)
	if err != nil {
		return TransactionInfo{}, fmt.Errorf("classify %s: %w", tx.Hash, err)
	}

	outputs := selectOutputs(tx.Outputs, address, c)

	return TransactionInfo{
		Hash:           tx.Hash,
		Address:        address,
		Assets:         asset.Join(delta.Native, delta.Tokens, lookup),
		Direction:      c.Direction,
		InfoType:       c.InfoType,
		Outputs:        outputs,
		LockTime:       latestLockTime(outputs),
		Timestamp:      tx.Time(),
		IsFailedScript: c.IsFailedScript,
		IsInContract:   c.IsInContract,
		Label:          c.Label(),
	}, nil
}

// TokenIDs returns every non-native token id referenced by txs, for batching
// metadata resolution before Build
func TokenIDs(txs ...utxo.Transaction) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, tx := range txs {
		for _, group := range [][]utxo.UTXO{tx.Inputs, tx.Outputs} {
			for _, u := range group {
				for _, t := range u.Tokens {
					if t.ID == "" {
						continue
					}
					if _, ok := seen[t.ID]; ok {
						continue
					}
					seen[t.ID] = struct{}{}
					ids = append(ids, t.ID)
				}
			}
		}
	}
	return ids
}

// selectOutputs keeps outputs to the address for incoming transfers and
// outputs to others for outgoing ones. Swaps and moves keep all outputs.
func selectOutputs(outputs []utxo.UTXO, address string, c Classification) []utxo.UTXO {
	if c.InfoType == InfoTypeSwap || c.InfoType == InfoTypeMove {
		return outputs
	}
	dir := c.Direction
	selected := make([]utxo.UTXO, 0, len(outputs))
	for _, o := range outputs {
		own := o.Address == address
		if (dir == DirectionIn && own) || (dir == DirectionOut && !own) {
			selected = append(selected, o)
		}
	}
	return selected
}

func latestLockTime(outputs []utxo.UTXO) *time.Time {
	var latest int64
	for _, o := range outputs {
		if o.LockTime > latest {
			latest = o.LockTime
		}
	}
	if latest == 0 {
		return nil
	}
	t := time.UnixMilli(latest).UTC()
	return &t
}
