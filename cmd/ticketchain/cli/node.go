// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ticketchain-foundation/ticketchain/lib/clock"
	"github.com/ticketchain-foundation/ticketchain/lib/config"
	"github.com/ticketchain-foundation/ticketchain/lib/ledger"
	"github.com/ticketchain-foundation/ticketchain/lib/program"
)

// ConfigFlag is an embeddable struct that adds the --config flag to a
// command's parameter struct. When the flag is empty, configuration
// falls back to the TICKETCHAIN_CONFIG environment variable.
type ConfigFlag struct {
	ConfigPath string `json:"-" flag:"config" desc:"path to ticketchain.yaml (defaults to $TICKETCHAIN_CONFIG)"`
}

// LoadConfig loads and validates the configuration.
func (f *ConfigFlag) LoadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if f.ConfigPath != "" {
		cfg, err = config.LoadFile(f.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Keystore returns the keystore configured for this invocation.
func (f *ConfigFlag) Keystore() (*Keystore, error) {
	cfg, err := f.LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewKeystore(cfg.Paths.Keystore), nil
}

// Node bundles the pieces every ledger-touching command needs: the
// validated configuration, an open ledger with the marketplace program
// registered, and the keystore.
type Node struct {
	Config *config.Config
	Ledger *ledger.Ledger
	Keys   *Keystore
	Logger *slog.Logger
}

// OpenNode loads configuration and opens the ledger. The marketplace
// program requires a configured platform treasury; commands that only
// touch keys use [ConfigFlag.Keystore] instead.
func (f *ConfigFlag) OpenNode() (*Node, error) {
	cfg, err := f.LoadConfig()
	if err != nil {
		return nil, err
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	logger := NewCommandLogger(level)

	treasury, err := cfg.TreasuryAddress()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Paths.Ledger), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	led, err := ledger.Open(ledger.Config{
		Path:   cfg.Paths.Ledger,
		Clock:  clock.Real(),
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	prog, err := program.New(program.Params{PlatformTreasury: treasury}, logger)
	if err != nil {
		led.Close()
		return nil, err
	}
	if err := led.Register(program.Name, prog); err != nil {
		led.Close()
		return nil, err
	}

	return &Node{
		Config: cfg,
		Ledger: led,
		Keys:   NewKeystore(cfg.Paths.Keystore),
		Logger: logger,
	}, nil
}

// Close releases the ledger.
func (n *Node) Close() error {
	return n.Ledger.Close()
}

// SignAndExecute builds one marketplace instruction, signs it with the
// given keys, and executes it. Returns the transaction's log sequence.
func (n *Node) SignAndExecute(instruction string, args any, keys ...ed25519.PrivateKey) (int64, error) {
	tx, err := ledger.NewTransaction(program.Name, instruction, args)
	if err != nil {
		return 0, err
	}
	for _, key := range keys {
		if err := tx.Sign(key); err != nil {
			return 0, err
		}
	}
	return n.Ledger.Execute(context.Background(), tx)
}
