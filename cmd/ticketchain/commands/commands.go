// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete ticketchain CLI command tree.
package commands

import (
	"fmt"

	chaincmd "github.com/ticketchain-foundation/ticketchain/cmd/ticketchain/chain"
	"github.com/ticketchain-foundation/ticketchain/cmd/ticketchain/cli"
	eventcmd "github.com/ticketchain-foundation/ticketchain/cmd/ticketchain/event"
	marketcmd "github.com/ticketchain-foundation/ticketchain/cmd/ticketchain/market"
	ticketcmd "github.com/ticketchain-foundation/ticketchain/cmd/ticketchain/ticket"
	walletcmd "github.com/ticketchain-foundation/ticketchain/cmd/ticketchain/wallet"
	"github.com/ticketchain-foundation/ticketchain/lib/version"
)

// Root builds and returns the complete ticketchain CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "ticketchain",
		Description: `TicketChain: event tickets with an escrowed resale marketplace.

Mint single-unit ticket tokens against events, resell them through
escrowed listings, and split every resale between the organizer, the
platform, and the seller.`,
		Subcommands: []*cli.Command{
			chaincmd.InitCommand(),
			walletcmd.KeygenCommand(),
			walletcmd.KeysCommand(),
			walletcmd.AirdropCommand(),
			walletcmd.BalanceCommand(),
			eventcmd.Command(),
			ticketcmd.Command(),
			marketcmd.Command(),
			chaincmd.LogCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Printf("ticketchain %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Initialize the local ledger",
				Command:     "ticketchain init",
			},
			{
				Description: "Create a wallet and fund it from the faucet",
				Command:     "ticketchain keygen --name alice && ticketchain airdrop --key alice",
			},
			{
				Description: "Create an event with a 30% organizer resale share",
				Command:     "ticketchain event create --key promoter --nonce 1 --title 'Gopher Night' --price 500000 --supply 500 --resale-pct 30 --date 2026-09-01T20:00:00Z",
			},
			{
				Description: "Buy a ticket at the primary price",
				Command:     "ticketchain ticket buy --key alice --event <address>",
			},
			{
				Description: "List the ticket for resale and watch the market",
				Command:     "ticketchain market list --key alice --event <address> --mint <mint> --price 1000000",
			},
		},
	}
}
