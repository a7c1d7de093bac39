package explorer

// Std interface ids returned by POST /tokens
const (
	StdInterfaceFungible    = "0001"
	StdInterfaceNonFungible = "0003"
)

// Transaction is a confirmed or pending transaction as returned by the
// explorer backend. Mempool entries carry no blockHash and use lastSeen
// instead of timestamp.
type Transaction struct {
	Type              string   `json:"type,omitempty"`
	Hash              string   `json:"hash"`
	BlockHash         string   `json:"blockHash,omitempty"`
	Timestamp         int64    `json:"timestamp,omitempty"`
	LastSeen          int64    `json:"lastSeen,omitempty"`
	Inputs            []Input  `json:"inputs"`
	Outputs           []Output `json:"outputs"`
	GasAmount         int64    `json:"gasAmount,omitempty"`
	GasPrice          string   `json:"gasPrice,omitempty"`
	ScriptExecutionOk *bool    `json:"scriptExecutionOk,omitempty"`
	Coinbase          bool     `json:"coinbase,omitempty"`
}

// OutputRef points to the output spent by an input
type OutputRef struct {
	Hint int32  `json:"hint"`
	Key  string `json:"key"`
}

// Input is a spent output
type Input struct {
	OutputRef      OutputRef `json:"outputRef"`
	UnlockScript   string    `json:"unlockScript,omitempty"`
	TxHashRef      string    `json:"txHashRef,omitempty"`
	Address        string    `json:"address,omitempty"`
	AttoAlphAmount string    `json:"attoAlphAmount,omitempty"`
	Tokens         []Token   `json:"tokens,omitempty"`
	ContractInput  bool      `json:"contractInput,omitempty"`
}

// Output is a created output
type Output struct {
	Type           string  `json:"type,omitempty"`
	Hint           int32   `json:"hint"`
	Key            string  `json:"key"`
	AttoAlphAmount string  `json:"attoAlphAmount"`
	Address        string  `json:"address"`
	Tokens         []Token `json:"tokens,omitempty"`
	LockTime       int64   `json:"lockTime,omitempty"`
	Message        string  `json:"message,omitempty"`
	Spent          string  `json:"spent,omitempty"`
	FixedOutput    bool    `json:"fixedOutput,omitempty"`
}

// Token is a token amount inside an input or output
type Token struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
}

// TokenInfo is one entry of the POST /tokens response
type TokenInfo struct {
	Token          string `json:"token"`
	StdInterfaceID string `json:"stdInterfaceId,omitempty"`
}

// Infos is the GET /infos response
type Infos struct {
	ReleaseVersion string `json:"releaseVersion"`
	Commit         string `json:"commit"`
}
