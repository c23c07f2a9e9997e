// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticket implements the primary-sale commands: buy and
// holdings.
package ticket

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/ticketchain-foundation/ticketchain/cmd/ticketchain/cli"
	"github.com/ticketchain-foundation/ticketchain/lib/address"
	"github.com/ticketchain-foundation/ticketchain/lib/ledger"
	"github.com/ticketchain-foundation/ticketchain/lib/program"
	"github.com/ticketchain-foundation/ticketchain/lib/schema"
)

// Command returns the ticket command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "ticket",
		Summary: "Buy tickets and inspect holdings",
		Subcommands: []*cli.Command{
			buyCommand(),
			holdingsCommand(),
		},
	}
}

type buyParams struct {
	cli.ConfigFlag
	cli.JSONOutput
	Key   string `json:"-" flag:"key,k" desc:"keystore name of the buyer wallet"`
	Event string `json:"-" flag:"event" desc:"event address"`
}

func buyCommand() *cli.Command {
	var params buyParams
	return &cli.Command{
		Name:    "buy",
		Summary: "Buy a ticket at the event's primary-sale price",
		Examples: []cli.Example{
			{Description: "Buy one ticket as alice", Command: "ticketchain ticket buy --key alice --event <address>"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("buy", &params)
		},
		Run: func(args []string) error {
			node, err := params.OpenNode()
			if err != nil {
				return err
			}
			defer node.Close()

			key, buyer, err := node.Keys.Load(params.Key)
			if err != nil {
				return err
			}
			eventAddr, err := address.Parse(params.Event)
			if err != nil {
				return err
			}

			_, err = node.SignAndExecute(program.InstrBuyTicket, &program.BuyTicketArgs{
				Event: eventAddr,
				Buyer: buyer,
			}, key)
			if err != nil {
				return err
			}

			// The mint index is the sold counter the purchase consumed.
			account, err := node.Ledger.Account(context.Background(), eventAddr)
			if err != nil {
				return err
			}
			record, err := schema.DecodeEvent(account.Data)
			if err != nil {
				return err
			}
			index := record.Sold - 1
			mintAddr := address.DeriveTicketMint(eventAddr, index)

			result := struct {
				Mint  string `json:"mint"`
				Index uint32 `json:"index"`
			}{mintAddr.String(), index}
			if done, err := params.EmitJSON(result); done {
				return err
			}
			fmt.Printf("%s (ticket %d)\n", mintAddr, index)
			return nil
		},
	}
}

// short truncates an address string for table output. Holdings whose
// mint could not be resolved render an empty event column.
func short(s string) string {
	if len(s) > 12 {
		return s[:12]
	}
	return s
}

// holdingView pairs a held mint with its event context.
type holdingView struct {
	Mint   string `json:"mint"`
	Event  string `json:"event"`
	Index  uint32 `json:"index"`
	Amount uint8  `json:"amount"`
}

type holdingsParams struct {
	cli.ConfigFlag
	cli.JSONOutput
	Key string `json:"-" flag:"key,k" desc:"keystore name of the holder wallet"`
}

func holdingsCommand() *cli.Command {
	var params holdingsParams
	return &cli.Command{
		Name:    "holdings",
		Summary: "List tickets held by a wallet",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("holdings", &params)
		},
		Run: func(args []string) error {
			node, err := params.OpenNode()
			if err != nil {
				return err
			}
			defer node.Close()

			_, holder, err := node.Keys.Load(params.Key)
			if err != nil {
				return err
			}

			var views []holdingView
			err = node.Ledger.Scan(context.Background(), func(account ledger.Account) error {
				kind, err := schema.DecodeKind(account.Data)
				if err != nil || kind != schema.KindHolding {
					return nil
				}
				holding, err := schema.DecodeHolding(account.Data)
				if err != nil {
					return err
				}
				if holding.Holder != holder || holding.Amount == 0 {
					return nil
				}

				view := holdingView{Mint: holding.Mint.String(), Amount: holding.Amount}
				mintAccount, err := node.Ledger.Account(context.Background(), holding.Mint)
				if err == nil {
					if mint, err := schema.DecodeTicketMint(mintAccount.Data); err == nil {
						view.Event = mint.Event.String()
						view.Index = mint.Index
					}
				}
				views = append(views, view)
				return nil
			})
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(views); done {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(tw, "MINT\tEVENT\tTICKET\n")
			for _, v := range views {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", short(v.Mint), short(v.Event), v.Index)
			}
			return tw.Flush()
		},
	}
}
