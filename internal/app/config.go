package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// APIKeyEnv is the only environment variable the app reads. Its value
// replaces {apiKey} in network.rpc_url.
const APIKeyEnv = "INFURA_KEY"

const apiKeyPlaceholder = "{apiKey}"

// Config holds runtime options loaded from <home>/config.yaml.
type Config struct {
	Network   NetworkConfig   `yaml:"network"`
	Recipient RecipientConfig `yaml:"recipient"`
	Wallets   WalletsConfig   `yaml:"wallets"`
	Transfer  TransferConfig  `yaml:"transfer"`
	UI        UIConfig        `yaml:"ui"`

	// PollInterval drives provider event polling.
	PollInterval time.Duration `yaml:"poll_interval"`

	APIKey string `yaml:"-"`
}

type NetworkConfig struct {
	Name    string `yaml:"name"`
	ChainID int64  `yaml:"chain_id"`
	RPCURL  string `yaml:"rpc_url"`
}

type RecipientConfig struct {
	Address string `yaml:"address"`
	Label   string `yaml:"label"`
}

type WalletsConfig struct {
	CacheProvider bool `yaml:"cache_provider"`
	Injected      struct {
		URL string `yaml:"url"`
	} `yaml:"injected"`
	Keystore struct {
		Dir     string `yaml:"dir"`
		Account string `yaml:"account"`
	} `yaml:"keystore"`
	Mnemonic struct {
		Index uint32 `yaml:"index"`
	} `yaml:"mnemonic"`
}

type TransferConfig struct {
	Confirmations       uint64 `yaml:"confirmations"`
	AttachMemo          bool   `yaml:"attach_memo"`
	ResetDraftOnSuccess bool   `yaml:"reset_draft_on_success"`
}

type UIConfig struct {
	ToastTTL time.Duration `yaml:"toast_ttl"`
}

// DefaultConfig targets Sepolia through Infura.
func DefaultConfig() Config {
	cfg := Config{
		Network: NetworkConfig{
			Name:    "sepolia",
			ChainID: 11155111,
			RPCURL:  "https://sepolia.infura.io/v3/" + apiKeyPlaceholder,
		},
		Recipient: RecipientConfig{
			Address: "0x812d37428Db3d928C197d15d839d6Ba3DFb46E36",
			Label:   "Nadirah",
		},
		Transfer:     TransferConfig{Confirmations: 1, AttachMemo: true},
		UI:           UIConfig{ToastTTL: 4 * time.Second},
		PollInterval: 4 * time.Second,
	}
	cfg.Wallets.CacheProvider = true
	cfg.Wallets.Injected.URL = "http://127.0.0.1:1248"
	return cfg
}

// LoadConfig reads path over the defaults. A missing file is not an error.
// The API key always comes from the environment.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, errors.Wrapf(err, "read config %s", path)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "parse config %s", path)
		}
	}

	cfg.APIKey = strings.TrimSpace(os.Getenv(APIKeyEnv))
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if !common.IsHexAddress(c.Recipient.Address) {
		return errors.Errorf("recipient.address %q is not a hex address", c.Recipient.Address)
	}
	if c.Network.ChainID < 0 {
		return errors.Errorf("network.chain_id %d is negative", c.Network.ChainID)
	}
	if c.Network.RPCURL == "" {
		return errors.New("network.rpc_url is empty")
	}
	if c.PollInterval < 0 || c.UI.ToastTTL < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

// RPCURL is the network endpoint with the API key substituted.
func (c Config) RPCURL() string {
	return strings.ReplaceAll(c.Network.RPCURL, apiKeyPlaceholder, c.APIKey)
}

// NeedsAPIKey reports whether the endpoint expects a key that is missing.
func (c Config) NeedsAPIKey() bool {
	return strings.Contains(c.Network.RPCURL, apiKeyPlaceholder) && c.APIKey == ""
}

func (c Config) RecipientAddress() common.Address {
	return common.HexToAddress(c.Recipient.Address)
}

// KeystoreDir resolves the keystore directory against home.
func (c Config) KeystoreDir(home string) string {
	dir := c.Wallets.Keystore.Dir
	switch {
	case dir == "":
		return filepath.Join(home, "keystore")
	case strings.HasPrefix(dir, "~/"):
		if h, err := os.UserHomeDir(); err == nil {
			return filepath.Join(h, dir[2:])
		}
	}
	return dir
}
