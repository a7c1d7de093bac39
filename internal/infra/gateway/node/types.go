package node

// FungibleTokenMetadata is one entry of POST /tokens/fungible-metadata.
// Symbol and name are hex-encoded UTF-8.
type FungibleTokenMetadata struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
}

// NFTMetadata is one entry of POST /tokens/nft-metadata. Entries come back
// in request order; ID is not always populated.
type NFTMetadata struct {
	ID           string `json:"id,omitempty"`
	TokenURI     string `json:"tokenUri"`
	CollectionID string `json:"collectionId"`
	NFTIndex     string `json:"nftIndex,omitempty"`
}

// NFTDocument is the JSON document behind an NFT token URI
type NFTDocument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image"`
}
