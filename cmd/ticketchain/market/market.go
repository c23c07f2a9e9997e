// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

// Package market implements the resale marketplace commands: list,
// buy, cancel, and listings.
package market

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

// Command returns the market command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "market",
		Summary: "Resell tickets through escrowed listings",
		Subcommands: []*cli.Command{
			listCommand(),
			buyCommand(),
			cancelCommand(),
			listingsCommand(),
		},
	}
}

type listParams struct {
	cli.ConfigFlag
	cli.JSONOutput
	Key   string `json:"-" flag:"key,k" desc:"keystore name of the seller wallet"`
	Event string `json:"-" flag:"event" desc:"event address"`
	Mint  string `json:"-" flag:"mint" desc:"ticket mint address"`
	Price uint64 `json:"asking_price" flag:"price" desc:"asking price, in base units"`
}

func listCommand() *cli.Command {
	var params listParams
	return &cli.Command{
		Name:    "list",
		Summary: "List a held ticket for resale",
		Description: `Open a resale listing. The ticket moves into escrow until the
listing is bought or cancelled; the asking price splits between the
organizer, the platform, and you at settlement.`,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("list", &params)
		},
		Run: func(args []string) error {
			node, err := params.OpenNode()
			if err != nil {
				return err
			}
			defer node.Close()

			key, seller, err := node.Keys.Load(params.Key)
			if err != nil {
				return err
			}
			eventAddr, err := address.Parse(params.Event)
			if err != nil {
				return err
			}
			mintAddr, err := address.Parse(params.Mint)
			if err != nil {
				return err
			}

			_, err = node.SignAndExecute(program.InstrListForResale, &program.ListForResaleArgs{
				Event:       eventAddr,
				Mint:        mintAddr,
				Seller:      seller,
				AskingPrice: params.Price,
			}, key)
			if err != nil {
				return err
			}

			listingAddr := address.DeriveListing(eventAddr, mintAddr, seller)
			result := struct {
				Listing string `json:"listing"`
			}{listingAddr.String()}
			if done, err := params.EmitJSON(result); done {
				return err
			}
			fmt.Printf("%s\n", listingAddr)
			return nil
		},
	}
}

type buyParams struct {
	cli.ConfigFlag
	Key     string `json:"-" flag:"key,k" desc:"keystore name of the buyer wallet"`
	Listing string `json:"-" flag:"listing" desc:"listing address"`
}

func buyCommand() *cli.Command {
	var params buyParams
	return &cli.Command{
		Name:    "buy",
		Summary: "Buy a listed ticket at its asking price",
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
			listingAddr, err := address.Parse(params.Listing)
			if err != nil {
				return err
			}

			_, err = node.SignAndExecute(program.InstrBuyResale, &program.BuyResaleArgs{
				Listing: listingAddr,
				Buyer:   buyer,
			}, key)
			return err
		},
	}
}

type cancelParams struct {
	cli.ConfigFlag
	Key     string `json:"-" flag:"key,k" desc:"keystore name of the seller wallet"`
	Listing string `json:"-" flag:"listing" desc:"listing address"`
}

func cancelCommand() *cli.Command {
	var params cancelParams
	return &cli.Command{
		Name:    "cancel",
		Summary: "Cancel an open listing and reclaim the ticket",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("cancel", &params)
		},
		Run: func(args []string) error {
			node, err := params.OpenNode()
			if err != nil {
				return err
			}
			defer node.Close()

			key, _, err := node.Keys.Load(params.Key)
			if err != nil {
				return err
			}
			listingAddr, err := address.Parse(params.Listing)
			if err != nil {
				return err
			}

			_, err = node.SignAndExecute(program.InstrCancelListing, &program.CancelListingArgs{
				Listing: listingAddr,
			}, key)
			return err
		},
	}
}

// listingView is the presentation form of a listing record.
type listingView struct {
	Listing     string `json:"listing"`
	Event       string `json:"event"`
	Mint        string `json:"mint"`
	Seller      string `json:"seller"`
	AskingPrice uint64 `json:"asking_price"`
}

type listingsParams struct {
	cli.ConfigFlag
	cli.JSONOutput
	Event string `json:"-" flag:"event" desc:"only listings for this event address"`
}

func listingsCommand() *cli.Command {
	var params listingsParams
	return &cli.Command{
		Name:    "listings",
		Summary: "Show open resale listings",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("listings", &params)
		},
		Run: func(args []string) error {
			node, err := params.OpenNode()
			if err != nil {
				return err
			}
			defer node.Close()

			var filter address.Address
			if params.Event != "" {
				filter, err = address.Parse(params.Event)
				if err != nil {
					return err
				}
			}

			var views []listingView
			err = node.Ledger.Scan(context.Background(), func(account ledger.Account) error {
				kind, err := schema.DecodeKind(account.Data)
				if err != nil || kind != schema.KindListing {
					return nil
				}
				listing, err := schema.DecodeListing(account.Data)
				if err != nil {
					return err
				}
				if !filter.IsZero() && listing.Event != filter {
					return nil
				}
				views = append(views, listingView{
					Listing:     account.Address.String(),
					Event:       listing.Event.String(),
					Mint:        listing.Mint.String(),
					Seller:      listing.Seller.String(),
					AskingPrice: listing.AskingPrice,
				})
				return nil
			})
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(views); done {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(tw, "LISTING\tMINT\tSELLER\tPRICE\n")
			for _, v := range views {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
					v.Listing[:12], v.Mint[:12], v.Seller[:12], v.AskingPrice)
			}
			return tw.Flush()
		},
	}
}
