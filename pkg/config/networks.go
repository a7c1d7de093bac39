package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Network describes one deployment of the chain and its public services
type Network struct {
	Name         string `yaml:"name"`
	NetworkID    int    `yaml:"network_id"`
	ExplorerURL  string `yaml:"explorer_url"`
	NodeURL      string `yaml:"node_url"`
	TokenListURL string `yaml:"token_list_url"`
}

// NetworksConfig holds all known networks
type NetworksConfig struct {
	Networks []Network `yaml:"networks"`

	byName map[string]*Network
}

// DefaultNetworks returns the public mainnet and testnet plus a local devnet
func DefaultNetworks() *NetworksConfig {
	c := &NetworksConfig{Networks: []Network{
		{
			Name:         "mainnet",
			NetworkID:    0,
			ExplorerURL:  "https://backend.mainnet.alephium.org",
			NodeURL:      "https://node.mainnet.alephium.org",
			TokenListURL: "https://raw.githubusercontent.com/alephium/token-list/master/tokens/mainnet.json",
		},
		{
			Name:         "testnet",
			NetworkID:    1,
			ExplorerURL:  "https://backend.testnet.alephium.org",
			NodeURL:      "https://node.testnet.alephium.org",
			TokenListURL: "https://raw.githubusercontent.com/alephium/token-list/master/tokens/testnet.json",
		},
		{
			Name:        "devnet",
			NetworkID:   4,
			ExplorerURL: "http://localhost:9090",
			NodeURL:     "http://localhost:22973",
		},
	}}
	c.index()
	return c
}

// LoadNetworksConfig loads network configuration from a YAML file
func LoadNetworksConfig(path string) (*NetworksConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read networks config file: %w", err)
	}
	return ParseNetworksConfig(data)
}

// ParseNetworksConfig parses and validates YAML network configuration
func ParseNetworksConfig(data []byte) (*NetworksConfig, error) {
	var config NetworksConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse networks config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.index()

	return &config, nil
}

func (c *NetworksConfig) index() {
	c.byName = make(map[string]*Network, len(c.Networks))
	for i := range c.Networks {
		c.byName[c.Networks[i].Name] = &c.Networks[i]
	}
}

// Validate validates the networks configuration
func (c *NetworksConfig) Validate() error {
	if len(c.Networks) == 0 {
		return fmt.Errorf("at least one network must be configured")
	}

	seen := make(map[string]bool)
	for _, n := range c.Networks {
		if n.Name == "" {
			return fmt.Errorf("network name is required for network_id %d", n.NetworkID)
		}
		if n.NetworkID < 0 {
			return fmt.Errorf("invalid network_id for network %s", n.Name)
		}
		if n.ExplorerURL == "" {
			return fmt.Errorf("explorer_url is required for network %s", n.Name)
		}
		if n.NodeURL == "" {
			return fmt.Errorf("node_url is required for network %s", n.Name)
		}
		if seen[n.Name] {
			return fmt.Errorf("duplicate network %s", n.Name)
		}
		seen[n.Name] = true
	}

	return nil
}

// GetNetwork returns the network with the given name
func (c *NetworksConfig) GetNetwork(name string) (*Network, bool) {
	n, ok := c.byName[name]
	return n, ok
}

// Names returns all configured network names in file order
func (c *NetworksConfig) Names() []string {
	names := make([]string, 0, len(c.Networks))
	for _, n := range c.Networks {
		names = append(names, n.Name)
	}
	return names
}
