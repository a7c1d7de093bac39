package asset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/utxoscan/internal/platform/asset"
)

const (
	tokenX = "1111111111111111111111111111111111111111111111111111111111111111"
	tokenY = "2222222222222222222222222222222222222222222222222222222222222222"
	tokenZ = "3333333333333333333333333333333333333333333333333333333333333333"
)

func TestJoin_NativeFirstWithBuiltinMetadata(t *testing.T) {
	result := asset.Join("-710", nil, nil)

	require.Len(t, result, 1)
	assert.Equal(t, asset.NativeID, result[0].ID)
	assert.Equal(t, "-710", result[0].Amount)
	assert.Equal(t, "ALPH", result[0].Symbol)
	require.NotNil(t, result[0].Decimals)
	assert.Equal(t, 18, *result[0].Decimals)
	assert.True(t, result[0].Verified)
}

func TestJoin_NativeNeverLookedUp(t *testing.T) {
	catalog := asset.Catalog{asset.NativeID: {ID: asset.NativeID, Symbol: "FAKE", Decimals: 2}}

	result := asset.Join("1", nil, catalog)
	require.Len(t, result, 1)
	assert.Equal(t, "ALPH", result[0].Symbol)
}

func TestJoin_OmitsUndefinedNative(t *testing.T) {
	result := asset.Join("", map[string]string{tokenX: "5"}, nil)

	require.Len(t, result, 1)
	assert.Equal(t, tokenX, result[0].ID)
}

func TestJoin_MissStillProducesEntry(t *testing.T) {
	catalog := asset.Catalog{
		tokenX: {ID: tokenX, Name: "Token X", Symbol: "TX", Decimals: 6, Verified: true, Type: asset.TypeFungible},
	}

	result := asset.Join("0", map[string]string{tokenY: "80", tokenX: "-50"}, catalog)

	require.Len(t, result, 3)
	assert.Equal(t, asset.NativeID, result[0].ID)

	x := result[1]
	assert.Equal(t, tokenX, x.ID)
	assert.Equal(t, "-50", x.Amount)
	assert.Equal(t, "TX", x.Symbol)
	assert.True(t, x.Verified)
	assert.True(t, x.HasMetadata())

	y := result[2]
	assert.Equal(t, tokenY, y.ID)
	assert.Equal(t, "80", y.Amount)
	assert.False(t, y.Verified)
	assert.Empty(t, y.Name)
	assert.Empty(t, y.Symbol)
	assert.Nil(t, y.Decimals)
	assert.False(t, y.HasMetadata())
}

func TestJoin_ExactlyOneEntryPerToken(t *testing.T) {
	tokens := map[string]string{tokenX: "1", tokenY: "-2", tokenZ: "3"}
	catalogs := []asset.Lookup{
		nil,
		asset.Catalog{},
		asset.Catalog{tokenY: {ID: tokenY, Symbol: "Y"}},
		asset.Catalog{tokenX: {ID: tokenX}, tokenY: {ID: tokenY}, tokenZ: {ID: tokenZ}},
	}

	for _, catalog := range catalogs {
		result := asset.Join("", tokens, catalog)
		counts := make(map[string]int)
		for _, a := range result {
			counts[a.ID]++
		}
		assert.Equal(t, map[string]int{tokenX: 1, tokenY: 1, tokenZ: 1}, counts)
	}
}

func TestJoin_DeterministicOrder(t *testing.T) {
	tokens := map[string]string{tokenZ: "3", tokenX: "1", tokenY: "2"}

	for i := 0; i < 10; i++ {
		result := asset.Join("", tokens, nil)
		require.Len(t, result, 3)
		assert.Equal(t, []string{tokenX, tokenY, tokenZ}, []string{result[0].ID, result[1].ID, result[2].ID})
	}
}

func TestCatalog_LookupNormalizesID(t *testing.T) {
	upper := "ABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABAB"
	lower := "abababababababababababababababababababababababababababababababab"
	catalog := asset.Catalog{lower: {ID: lower, Symbol: "AB"}}

	m, ok := catalog.Lookup(upper)
	require.True(t, ok)
	assert.Equal(t, "AB", m.Symbol)
}

func TestMetadata_Validate(t *testing.T) {
	valid := asset.Metadata{ID: tokenX, Decimals: 18, Type: asset.TypeFungible}
	assert.NoError(t, valid.Validate())

	badID := valid
	badID.ID = "xyz"
	assert.ErrorIs(t, badID.Validate(), asset.ErrInvalidTokenID)

	badDecimals := valid
	badDecimals.Decimals = -1
	assert.ErrorIs(t, badDecimals.Validate(), asset.ErrInvalidDecimals)

	badType := valid
	badType.Type = "semi-fungible"
	assert.ErrorIs(t, badType.Validate(), asset.ErrInvalidAssetType)
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, asset.ValidateID(tokenX))
	assert.NoError(t, asset.ValidateID(asset.NativeID))
	assert.ErrorIs(t, asset.ValidateID(""), asset.ErrInvalidTokenID)
	assert.ErrorIs(t, asset.ValidateID(tokenX[:63]+"g"), asset.ErrInvalidTokenID)
}
