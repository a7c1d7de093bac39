package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/kislikjeka/utxoscan/internal/infra/gateway/explorer"
	"github.com/kislikjeka/utxoscan/internal/infra/gateway/node"
	"github.com/kislikjeka/utxoscan/internal/infra/gateway/tokenlist"
	"github.com/kislikjeka/utxoscan/internal/metrics"
	"github.com/kislikjeka/utxoscan/internal/module/transactions"
	"github.com/kislikjeka/utxoscan/internal/platform/asset"
	"github.com/kislikjeka/utxoscan/internal/platform/txinfo"
	"github.com/kislikjeka/utxoscan/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/utxoscan/pkg/logger"
)

type options struct {
	Verbose bool `short:"v" long:"verbose" description:"Log upstream requests to stderr"`
}

type classifyCommand struct {
	Address      string `long:"address" required:"true" description:"Address the transaction is viewed from"`
	Tx           string `long:"tx" required:"true" description:"Transaction hash"`
	ExplorerURL  string `long:"explorer-url" env:"EXPLORER_API_URL" default:"https://backend.mainnet.alephium.org" description:"Explorer backend base URL"`
	NodeURL      string `long:"node-url" env:"NODE_API_URL" default:"https://node.mainnet.alephium.org" description:"Full node base URL"`
	NodeAPIKey   string `long:"node-api-key" env:"NODE_API_KEY" description:"Full node API key"`
	TokenListURL string `long:"token-list-url" env:"TOKEN_LIST_URL" description:"Verified token list URL (empty disables it)"`
	NetworkID    int    `long:"network-id" env:"NETWORK_ID" default:"0" description:"Network id expected in the token list"`

	ctx  context.Context
	opts *options
	out  io.Writer
}

type adminTokenCommand struct {
	Secret  string        `long:"secret" env:"ADMIN_JWT_SECRET" required:"true" description:"HMAC secret shared with the API server"`
	Subject string        `long:"subject" default:"operator" description:"Token subject"`
	TTL     time.Duration `long:"ttl" default:"1h" description:"Token lifetime"`

	out io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := &options{}
	parser := flags.NewParser(opts, flags.Default)
	parser.AddCommand("classify",
		"Classify a transaction",
		"Fetches a transaction and prints how it looks from one address, as JSON.",
		&classifyCommand{ctx: ctx, opts: opts, out: os.Stdout})
	parser.AddCommand("admin-token",
		"Mint an admin token",
		"Prints a signed JWT accepted by the admin API routes.",
		&adminTokenCommand{out: os.Stdout})

	if _, err := parser.Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

func (c *classifyCommand) Execute(_ []string) error {
	var output io.Writer = io.Discard
	if c.opts != nil && c.opts.Verbose {
		output = os.Stderr
	}
	log := logger.New("development", output)
	network := fmt.Sprintf("net%d", c.NetworkID)

	explorerAdapter := explorer.NewAdapter(explorer.NewClient(c.ExplorerURL, metrics.NewGateway("explorer", network), log))
	nodeAdapter := node.NewAdapter(node.NewClient(c.NodeURL, c.NodeAPIKey, 0, metrics.NewGateway("node", network), log))
	tokenList := tokenlist.NewClient(c.TokenListURL, c.NetworkID, metrics.NewGateway("tokenlist", network), log)

	verified := asset.NewVerifiedList(tokenList, time.Hour)
	resolver := asset.NewResolver(verified, nil, explorerAdapter, nodeAdapter, asset.DefaultConcurrency, log)
	svc := transactions.NewService(explorerAdapter, resolver, txinfo.NewBuilder(nil), log)

	info, err := svc.GetAddressTransaction(c.ctx, c.Address, c.Tx)
	if err != nil {
		return fmt.Errorf("classify %s: %w", c.Tx, err)
	}

	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(transactions.ToItem(*info))
}

func (c *adminTokenCommand) Execute(_ []string) error {
	if len(c.Secret) < 32 {
		return fmt.Errorf("secret must be at least 32 characters long")
	}
	token, err := middleware.NewJWTService(c.Secret).GenerateToken(c.Subject, c.TTL)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, token)
	return err
}
