// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "ticketchain",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(args []string) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "balance",
				Run: func(args []string) error {
					called = "balance"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"balance"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "balance" {
		t.Errorf("dispatched to %q, want %q", called, "balance")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "ticketchain",
		Subcommands: []*Command{
			{
				Name: "market",
				Subcommands: []*Command{
					{
						Name: "buy",
						Run: func(args []string) error {
							called = "market buy"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"market", "buy", "extra-arg"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "market buy" {
		t.Errorf("dispatched to %q, want %q", called, "market buy")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "extra-arg" {
		t.Errorf("args = %v, want [extra-arg]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var eventAddr string
	var target string

	command := &Command{
		Name: "buy",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("buy", pflag.ContinueOnError)
			flagSet.StringVar(&eventAddr, "event", "", "event address")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute([]string{"--event", "abc123", "positional"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if eventAddr != "abc123" {
		t.Errorf("eventAddr = %q, want %q", eventAddr, "abc123")
	}
	if target != "positional" {
		t.Errorf("target = %q, want %q", target, "positional")
	}
}

func TestCommand_Execute_UnknownCommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "ticketchain",
		Subcommands: []*Command{
			{Name: "market", Run: func(args []string) error { return nil }},
			{Name: "balance", Run: func(args []string) error { return nil }},
		},
	}

	err := root.Execute([]string{"markt"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "market"`) {
		t.Errorf("error missing suggestion: %v", err)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "list",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.String("price", "", "asking price")
			flagSet.String("mint", "", "ticket mint")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--pricee", "100"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "--price") {
		t.Errorf("error missing flag suggestion: %v", err)
	}
}

func TestCommand_Execute_NoSubcommandShowsHelp(t *testing.T) {
	root := &Command{
		Name: "ticketchain",
		Subcommands: []*Command{
			{Name: "market", Summary: "Resell tickets"},
		},
	}

	if err := root.Execute(nil); err == nil {
		t.Fatal("expected error when subcommand required")
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	root := &Command{
		Name:    "ticketchain",
		Summary: "Ticket ledger CLI",
		Subcommands: []*Command{
			{Name: "market", Summary: "Resell tickets"},
			{Name: "event", Summary: "Manage events"},
		},
		Examples: []Example{
			{Description: "Initialize", Command: "ticketchain init"},
		},
	}

	var buf bytes.Buffer
	root.PrintHelp(&buf)
	help := buf.String()

	for _, want := range []string{"market", "Resell tickets", "event", "ticketchain init", "Commands:"} {
		if !strings.Contains(help, want) {
			t.Errorf("help output missing %q:\n%s", want, help)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"market", "market", 0},
		{"markt", "market", 1},
		{"blance", "balance", 1},
		{"xyz", "balance", 7},
	}
	for _, tc := range cases {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
