// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ticketchain-foundation/ticketchain/lib/address"
)

// Keystore manages named Ed25519 wallet keys on disk. Each key is one
// file <name>.key under the keystore directory, holding the hex-encoded
// 32-byte seed, mode 0600. The wallet address is the raw public key, so
// it is recomputed from the seed on load rather than stored.
type Keystore struct {
	dir string
}

// KeyInfo identifies one stored key.
type KeyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// NewKeystore returns a keystore rooted at dir. The directory is
// created on first Generate, not here.
func NewKeystore(dir string) *Keystore {
	return &Keystore{dir: dir}
}

// Generate creates a new key under name and returns its wallet address.
// Fails if a key with that name already exists; keys are never silently
// overwritten.
func (k *Keystore) Generate(name string) (address.Address, error) {
	if err := validateKeyName(name); err != nil {
		return address.Zero, err
	}
	if err := os.MkdirAll(k.dir, 0700); err != nil {
		return address.Zero, fmt.Errorf("creating keystore directory: %w", err)
	}

	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return address.Zero, fmt.Errorf("generating key seed: %w", err)
	}
	key := ed25519.NewKeyFromSeed(seed)
	addr, err := address.FromPublicKey(key.Public().(ed25519.PublicKey))
	if err != nil {
		return address.Zero, err
	}

	path := k.keyPath(name)
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if os.IsExist(err) {
			return address.Zero, fmt.Errorf("key %q already exists", name)
		}
		return address.Zero, fmt.Errorf("creating key file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(hex.EncodeToString(seed) + "\n"); err != nil {
		os.Remove(path)
		return address.Zero, fmt.Errorf("writing key file: %w", err)
	}
	return addr, nil
}

// Load reads the key stored under name.
func (k *Keystore) Load(name string) (ed25519.PrivateKey, address.Address, error) {
	if err := validateKeyName(name); err != nil {
		return nil, address.Zero, err
	}
	data, err := os.ReadFile(k.keyPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, address.Zero, fmt.Errorf("no key named %q in keystore (run keygen first)", name)
		}
		return nil, address.Zero, fmt.Errorf("reading key file: %w", err)
	}

	seed, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, address.Zero, fmt.Errorf("key %q: malformed seed: %w", name, err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, address.Zero, fmt.Errorf("key %q: seed is %d bytes, want %d", name, len(seed), ed25519.SeedSize)
	}

	key := ed25519.NewKeyFromSeed(seed)
	addr, err := address.FromPublicKey(key.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, address.Zero, err
	}
	return key, addr, nil
}

// List returns the stored keys sorted by file name. An absent keystore
// directory is an empty keystore, not an error.
func (k *Keystore) List() ([]KeyInfo, error) {
	entries, err := os.ReadDir(k.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading keystore directory: %w", err)
	}

	var keys []KeyInfo
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), ".key")
		if !ok || entry.IsDir() {
			continue
		}
		_, addr, err := k.Load(name)
		if err != nil {
			return nil, err
		}
		keys = append(keys, KeyInfo{Name: name, Address: addr.String()})
	}
	return keys, nil
}

func (k *Keystore) keyPath(name string) string {
	return filepath.Join(k.dir, name+".key")
}

func validateKeyName(name string) error {
	if name == "" {
		return fmt.Errorf("key name is required")
	}
	if strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return fmt.Errorf("invalid key name %q", name)
	}
	return nil
}
