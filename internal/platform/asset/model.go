package asset

import (
	"encoding/hex"
	"strings"
)

// Type represents the token standard of an asset
type Type string

const (
	TypeFungible    Type = "fungible"
	TypeNonFungible Type = "non-fungible"
	TypeUnknown     Type = ""
)

// NativeID is the reserved asset id of the native currency
const NativeID = "0000000000000000000000000000000000000000000000000000000000000000"

// tokenIDLength is the hex length of a 32-byte token id
const tokenIDLength = 64

// Metadata describes an asset for display
type Metadata struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Symbol      string `json:"symbol,omitempty"`
	Decimals    int    `json:"decimals"`
	Verified    bool   `json:"verified"`
	Type        Type   `json:"type,omitempty"`
	LogoURI     string `json:"logoURI,omitempty"`
	Description string `json:"description,omitempty"`
}

// Native is the built-in metadata of the native currency. It is never looked up.
var Native = Metadata{
	ID:       NativeID,
	Name:     "Alephium",
	Symbol:   "ALPH",
	Decimals: 18,
	Verified: true,
	Type:     TypeFungible,
}

// IsNative returns true if id is the native currency id
func IsNative(id string) bool {
	return id == NativeID
}

// Validate validates the metadata fields
func (m *Metadata) Validate() error {
	if err := ValidateID(m.ID); err != nil {
		return err
	}

	if m.Decimals < 0 || m.Decimals > 78 {
		return ErrInvalidDecimals
	}

	if m.Type != TypeFungible && m.Type != TypeNonFungible && m.Type != TypeUnknown {
		return ErrInvalidAssetType
	}

	return nil
}

// ValidateID checks that id is a 32-byte hex token id
func ValidateID(id string) error {
	if len(id) != tokenIDLength {
		return ErrInvalidTokenID
	}
	if _, err := hex.DecodeString(id); err != nil {
		return ErrInvalidTokenID
	}
	return nil
}

// NormalizeID lowercases a token id so cache keys and lookups agree
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// AssetAmount pairs an asset id with a signed amount and whatever metadata is known
type AssetAmount struct {
	ID       string `json:"id"`
	Amount   string `json:"amount"` // signed base units
	Name     string `json:"name,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
	Decimals *int   `json:"decimals,omitempty"`
	Verified bool   `json:"verified"`
	Type     Type   `json:"type,omitempty"`
}

// HasMetadata returns true if the amount was joined with resolved metadata
func (a AssetAmount) HasMetadata() bool {
	return a.Decimals != nil
}

// NFTInfo is the on-chain record of a non-fungible token
type NFTInfo struct {
	ID           string
	TokenURI     string
	CollectionID string
}

// NFTDocument is the off-chain JSON a token URI points to
type NFTDocument struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}
