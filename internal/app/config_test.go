package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(APIKeyEnv, "abc123")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, int64(11155111), cfg.Network.ChainID)
	assert.Equal(t, "https://sepolia.infura.io/v3/abc123", cfg.RPCURL())
	assert.False(t, cfg.NeedsAPIKey())
	assert.Equal(t, uint64(1), cfg.Transfer.Confirmations)
	assert.True(t, cfg.Wallets.CacheProvider)
	assert.Equal(t, 4*time.Second, cfg.PollInterval)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
network:
  name: holesky
  chain_id: 17000
  rpc_url: https://holesky.infura.io/v3/{apiKey}
recipient:
  label: Sam
wallets:
  keystore:
    account: "0x00000000000000000000000000000000000000aa"
transfer:
  confirmations: 2
  reset_draft_on_success: true
poll_interval: 10s
ui:
  toast_ttl: 1500ms
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "holesky", cfg.Network.Name)
	assert.Equal(t, int64(17000), cfg.Network.ChainID)
	assert.True(t, cfg.NeedsAPIKey())
	assert.Equal(t, "Sam", cfg.Recipient.Label)
	assert.Equal(t, "0x812d37428Db3d928C197d15d839d6Ba3DFb46E36", cfg.Recipient.Address, "unset keys keep defaults")
	assert.Equal(t, uint64(2), cfg.Transfer.Confirmations)
	assert.True(t, cfg.Transfer.AttachMemo)
	assert.True(t, cfg.Transfer.ResetDraftOnSuccess)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, 1500*time.Millisecond, cfg.UI.ToastTTL)
	assert.Equal(t, "http://127.0.0.1:1248", cfg.Wallets.Injected.URL)
}

func TestLoadConfig_BadRecipient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("recipient:\n  address: nadirah.eth\n"), 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("network: [oops"), 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestKeystoreDir(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("/h", "keystore"), cfg.KeystoreDir("/h"))

	cfg.Wallets.Keystore.Dir = "/var/keys"
	assert.Equal(t, "/var/keys", cfg.KeystoreDir("/h"))
}
