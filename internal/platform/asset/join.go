package asset

import "sort"

// Catalog is a map-backed Lookup, typically the result of Resolver.Resolve
type Catalog map[string]Metadata

// Lookup implements Lookup
func (c Catalog) Lookup(id string) (Metadata, bool) {
	m, ok := c[NormalizeID(id)]
	return m, ok
}

// Join attaches metadata to a delta's amounts.
//
// The native entry comes first whenever native is set and always uses the
// built-in Native metadata. Token entries follow in ascending id order, one
// per id. A lookup miss still yields an entry, unverified and without
// name, symbol or decimals, so an amount is never dropped.
func Join(native string, tokens map[string]string, src Lookup) []AssetAmount {
	result := make([]AssetAmount, 0, len(tokens)+1)

	if native != "" {
		result = append(result, withMetadata(NativeID, native, Native))
	}

	ids := make([]string, 0, len(tokens))
	for id := range tokens {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		amount := tokens[id]
		if src != nil {
			if m, ok := src.Lookup(id); ok {
				result = append(result, withMetadata(id, amount, m))
				continue
			}
		}
		result = append(result, AssetAmount{ID: id, Amount: amount})
	}

	return result
}

func withMetadata(id, amount string, m Metadata) AssetAmount {
	decimals := m.Decimals
	return AssetAmount{
		ID:       id,
		Amount:   amount,
		Name:     m.Name,
		Symbol:   m.Symbol,
		Decimals: &decimals,
		Verified: m.Verified,
		Type:     m.Type,
	}
}
