package store

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"tipjar/internal/domain"
)

const (
	cacheFile = "wallet_cache.json"
	vaultFile = "mnemonic.enc"
)

// ErrVaultEmpty is returned by LoadMnemonic when nothing was imported yet.
var ErrVaultEmpty = errors.New("no mnemonic stored")

type walletCache struct {
	Provider string `json:"provider"`
	SavedAt  int64  `json:"saved_at"`
}

// FileStore keeps the wallet cache and the mnemonic vault on disk.
type FileStore struct {
	dir string
	kdf kdfParams
	mu  sync.Mutex
}

func NewFileStore(dir string) *FileStore { return &FileStore{dir: dir, kdf: defaultKDF()} }

// ---------- Wallet choice cache ----------

func (s *FileStore) SaveChoice(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.path(cacheFile), walletCache{Provider: name, SavedAt: time.Now().Unix()}, 0o600)
}

func (s *FileStore) LoadChoice() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var c walletCache
	found, err := readJSON(s.path(cacheFile), &c)
	if err != nil || !found || c.Provider == "" {
		return "", false, err
	}
	return c.Provider, true, nil
}

func (s *FileStore) ClearChoice() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeFile(s.path(cacheFile))
}

// ---------- Mnemonic vault ----------

func (s *FileStore) SaveMnemonic(passphrase, mnemonic string) error {
	if passphrase == "" {
		return errors.New("passphrase required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := seal(passphrase, []byte(strings.TrimSpace(mnemonic)), s.kdf)
	if err != nil {
		return err
	}
	return writeFile(s.path(vaultFile), blob, 0o600)
}

func (s *FileStore) LoadMnemonic(passphrase string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := readFile(s.path(vaultFile))
	if err != nil {
		return "", err
	}
	if blob == nil {
		return "", ErrVaultEmpty
	}
	raw, err := open(passphrase, blob)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (s *FileStore) path(name string) string { return filepath.Join(s.dir, name) }

var (
	_ domain.ChoiceCache   = (*FileStore)(nil)
	_ domain.MnemonicVault = (*FileStore)(nil)
)
