package asset

import "errors"

// Asset errors
var (
	ErrAssetNotFound        = errors.New("asset not found")
	ErrInvalidTokenID       = errors.New("invalid token id")
	ErrInvalidDecimals      = errors.New("invalid decimals")
	ErrInvalidAssetType     = errors.New("invalid asset type")
	ErrTokenListUnavailable = errors.New("verified token list unavailable")
)
