package store

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"tipjar/internal/util/memzero"
)

const vaultFormatVersion = 1

// ErrWrongPassphrase is returned when the passphrase is incorrect or the
// sealed blob has been modified.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted vault")

// sealed is the on-disk JSON structure holding the ciphertext and KDF
// parameters.
type sealed struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Nonce  []byte `json:"nonce"`
	Cipher []byte `json:"cipher"`
}

type kdfParams struct{ N, R, P int }

func defaultKDF() kdfParams { return kdfParams{N: 1 << 15, R: 8, P: 1} }

// seal derives a key from passphrase and encrypts raw, binding the salt as
// associated data.
func seal(passphrase string, raw []byte, kdf kdfParams) ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	aead, err := newAEAD(passphrase, salt, kdf)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return json.Marshal(sealed{
		V:      vaultFormatVersion,
		Salt:   salt,
		N:      kdf.N,
		R:      kdf.R,
		P:      kdf.P,
		Nonce:  nonce,
		Cipher: aead.Seal(nil, nonce, raw, salt),
	})
}

func open(passphrase string, b []byte) ([]byte, error) {
	var s sealed
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	if s.V > vaultFormatVersion {
		return nil, fmt.Errorf("unsupported vault version %d", s.V)
	}
	aead, err := newAEAD(passphrase, s.Salt, kdfParams{N: s.N, R: s.R, P: s.P})
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, s.Nonce, s.Cipher, s.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}

func newAEAD(passphrase string, salt []byte, kdf kdfParams) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, kdf.N, kdf.R, kdf.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)
	return chacha20poly1305.New(key)
}
