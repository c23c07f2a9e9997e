// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

// Package chain implements the ledger-level commands: init and log.
package chain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/ticketchain-foundation/ticketchain/cmd/ticketchain/cli"
	"github.com/ticketchain-foundation/ticketchain/lib/clock"
	"github.com/ticketchain-foundation/ticketchain/lib/ledger"
)

type initParams struct {
	cli.ConfigFlag
}

// InitCommand returns the init command.
func InitCommand() *cli.Command {
	var params initParams
	return &cli.Command{
		Name:    "init",
		Summary: "Initialize the data directory and ledger database",
		Description: `Create the configured data and keystore directories and the ledger
database. Safe to run repeatedly; existing state is left alone.

Init does not need a platform treasury configured, so the usual
bootstrap order is: init, keygen for the treasury, then add its
address to the config file.`,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("init", &params)
		},
		Run: func(args []string) error {
			cfg, err := params.LoadConfig()
			if err != nil {
				return err
			}

			for _, dir := range []string{cfg.Paths.Root, cfg.Paths.Keystore, filepath.Dir(cfg.Paths.Ledger)} {
				if err := os.MkdirAll(dir, 0700); err != nil {
					return fmt.Errorf("creating %s: %w", dir, err)
				}
			}

			led, err := ledger.Open(ledger.Config{Path: cfg.Paths.Ledger, Clock: clock.Real()})
			if err != nil {
				return err
			}
			if err := led.Close(); err != nil {
				return err
			}

			fmt.Printf("ledger initialized at %s\n", cfg.Paths.Ledger)
			return nil
		},
	}
}

// logView is the presentation form of a log entry.
type logView struct {
	Seq         int64  `json:"seq"`
	AppliedAt   string `json:"applied_at"`
	Program     string `json:"program"`
	Instruction string `json:"instruction"`
}

type logParams struct {
	cli.ConfigFlag
	cli.JSONOutput
	From  int64 `json:"from" flag:"from" desc:"first sequence number to show"`
	Limit int   `json:"limit" flag:"limit" default:"50" desc:"maximum entries to show"`
}

// LogCommand returns the log command.
func LogCommand() *cli.Command {
	var params logParams
	return &cli.Command{
		Name:    "log",
		Summary: "Show the applied-transaction log",
		Examples: []cli.Example{
			{Description: "Tail the log from sequence 100", Command: "ticketchain log --from 100"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("log", &params)
		},
		Run: func(args []string) error {
			node, err := params.OpenNode()
			if err != nil {
				return err
			}
			defer node.Close()

			entries, err := node.Ledger.Log(context.Background(), params.From, params.Limit)
			if err != nil {
				return err
			}

			views := make([]logView, 0, len(entries))
			for _, entry := range entries {
				views = append(views, logView{
					Seq:         entry.Seq,
					AppliedAt:   entry.AppliedAt.UTC().Format(time.RFC3339),
					Program:     entry.Program,
					Instruction: entry.Instruction,
				})
			}

			if done, err := params.EmitJSON(views); done {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(tw, "SEQ\tAPPLIED\tPROGRAM\tINSTRUCTION\n")
			for _, v := range views {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", v.Seq, v.AppliedAt, v.Program, v.Instruction)
			}
			return tw.Flush()
		},
	}
}
