// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

// Package event implements the event management commands: create,
// show, list, and close.
package event

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/ticketchain-foundation/ticketchain/cmd/ticketchain/cli"
	"github.com/ticketchain-foundation/ticketchain/lib/address"
	"github.com/ticketchain-foundation/ticketchain/lib/ledger"
	"github.com/ticketchain-foundation/ticketchain/lib/program"
	"github.com/ticketchain-foundation/ticketchain/lib/schema"
)

// Command returns the event command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "event",
		Summary: "Create and manage ticketed events",
		Subcommands: []*cli.Command{
			createCommand(),
			showCommand(),
			listCommand(),
			closeCommand(),
		},
	}
}

// view is the presentation form of an event record.
type view struct {
	Address       string `json:"address"`
	Organizer     string `json:"organizer"`
	Nonce         uint64 `json:"nonce"`
	Title         string `json:"title"`
	Venue         string `json:"venue"`
	Date          string `json:"date"`
	Tier          string `json:"tier"`
	UnitPrice     uint64 `json:"unit_price"`
	Supply        uint32 `json:"supply"`
	Sold          uint32 `json:"sold"`
	ResalePercent uint8  `json:"resale_percent"`
}

func viewOf(addr address.Address, record *schema.Event) view {
	return view{
		Address:       addr.String(),
		Organizer:     record.Organizer.String(),
		Nonce:         record.Nonce,
		Title:         record.Title,
		Venue:         record.Venue,
		Date:          time.Unix(record.Date, 0).UTC().Format(time.RFC3339),
		Tier:          record.Tier,
		UnitPrice:     record.UnitPrice,
		Supply:        record.Supply,
		Sold:          record.Sold,
		ResalePercent: record.ResalePercent,
	}
}

type createParams struct {
	cli.ConfigFlag
	cli.JSONOutput
	Key       string `json:"-" flag:"key,k" desc:"keystore name of the organizer wallet"`
	Nonce     uint64 `json:"nonce" flag:"nonce" desc:"organizer-chosen nonce; (organizer, nonce) determines the event address"`
	Title     string `json:"title" flag:"title" desc:"event title (max 64 bytes)"`
	Venue     string `json:"venue" flag:"venue" desc:"venue name (max 64 bytes)"`
	Date      string `json:"date" flag:"date" desc:"event date, RFC 3339 (e.g. 2026-09-01T20:00:00Z)"`
	Tier      string `json:"tier" flag:"tier" desc:"ticket tier label (max 32 bytes)"`
	Price     uint64 `json:"unit_price" flag:"price" desc:"primary sale price per ticket, in base units"`
	Supply    uint32 `json:"supply" flag:"supply" desc:"total ticket supply"`
	ResalePct uint8  `json:"resale_percent" flag:"resale-pct" desc:"organizer share of each resale, 0-80"`
}

func createCommand() *cli.Command {
	var params createParams
	return &cli.Command{
		Name:    "create",
		Summary: "Create a new event",
		Examples: []cli.Example{
			{
				Description: "A 500-seat show with a 30% organizer resale share",
				Command: "ticketchain event create --key promoter --nonce 1 --title 'Gopher Night' " +
					"--venue 'Pier 48' --date 2026-09-01T20:00:00Z --tier GA --price 500000 --supply 500 --resale-pct 30",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("create", &params)
		},
		Run: func(args []string) error {
			node, err := params.OpenNode()
			if err != nil {
				return err
			}
			defer node.Close()

			key, organizer, err := node.Keys.Load(params.Key)
			if err != nil {
				return err
			}
			date, err := time.Parse(time.RFC3339, params.Date)
			if err != nil {
				return fmt.Errorf("--date: %w", err)
			}

			_, err = node.SignAndExecute(program.InstrCreateEvent, &program.CreateEventArgs{
				Organizer:     organizer,
				Nonce:         params.Nonce,
				Title:         params.Title,
				Venue:         params.Venue,
				Date:          date.Unix(),
				Tier:          params.Tier,
				UnitPrice:     params.Price,
				Supply:        params.Supply,
				ResalePercent: params.ResalePct,
			}, key)
			if err != nil {
				return err
			}

			eventAddr := address.DeriveEvent(organizer, params.Nonce)
			result := struct {
				Address string `json:"address"`
			}{eventAddr.String()}
			if done, err := params.EmitJSON(result); done {
				return err
			}
			fmt.Printf("%s\n", eventAddr)
			return nil
		},
	}
}

type showParams struct {
	cli.ConfigFlag
	cli.JSONOutput
	Address string `json:"-" flag:"address" desc:"event address"`
}

func showCommand() *cli.Command {
	var params showParams
	return &cli.Command{
		Name:    "show",
		Summary: "Show an event's record",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("show", &params)
		},
		Run: func(args []string) error {
			node, err := params.OpenNode()
			if err != nil {
				return err
			}
			defer node.Close()

			addr, err := address.Parse(params.Address)
			if err != nil {
				return err
			}
			account, err := node.Ledger.Account(context.Background(), addr)
			if err != nil {
				return err
			}
			record, err := schema.DecodeEvent(account.Data)
			if err != nil {
				return err
			}

			v := viewOf(addr, record)
			if done, err := params.EmitJSON(v); done {
				return err
			}
			fmt.Printf("title:     %s\n", v.Title)
			fmt.Printf("venue:     %s\n", v.Venue)
			fmt.Printf("date:      %s\n", v.Date)
			fmt.Printf("tier:      %s\n", v.Tier)
			fmt.Printf("price:     %d\n", v.UnitPrice)
			fmt.Printf("sold:      %d / %d\n", v.Sold, v.Supply)
			fmt.Printf("resale:    %d%% to organizer\n", v.ResalePercent)
			fmt.Printf("organizer: %s\n", v.Organizer)
			return nil
		},
	}
}

type listParams struct {
	cli.ConfigFlag
	cli.JSONOutput
}

func listCommand() *cli.Command {
	var params listParams
	return &cli.Command{
		Name:    "list",
		Summary: "List all events on the ledger",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("list", &params)
		},
		Run: func(args []string) error {
			node, err := params.OpenNode()
			if err != nil {
				return err
			}
			defer node.Close()

			var views []view
			err = node.Ledger.Scan(context.Background(), func(account ledger.Account) error {
				kind, err := schema.DecodeKind(account.Data)
				if err != nil || kind != schema.KindEvent {
					return nil
				}
				record, err := schema.DecodeEvent(account.Data)
				if err != nil {
					return err
				}
				views = append(views, viewOf(account.Address, record))
				return nil
			})
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(views); done {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(tw, "ADDRESS\tTITLE\tDATE\tPRICE\tSOLD\n")
			for _, v := range views {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d/%d\n",
					v.Address[:12], v.Title, v.Date, v.UnitPrice, v.Sold, v.Supply)
			}
			return tw.Flush()
		},
	}
}

type closeParams struct {
	cli.ConfigFlag
	Key     string `json:"-" flag:"key,k" desc:"keystore name of the organizer wallet"`
	Address string `json:"-" flag:"address" desc:"event address"`
}

func closeCommand() *cli.Command {
	var params closeParams
	return &cli.Command{
		Name:    "close",
		Summary: "Close an event and reclaim its storage deposit",
		Description: `Close an event account. Tickets already sold keep circulating, but
further primary sales and resales of them stop.`,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("close", &params)
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
			addr, err := address.Parse(params.Address)
			if err != nil {
				return err
			}

			_, err = node.SignAndExecute(program.InstrCloseEvent, &program.CloseEventArgs{Event: addr}, key)
			return err
		},
	}
}
