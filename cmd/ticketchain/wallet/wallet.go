// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

// Package wallet implements the key and balance commands: keygen,
// keys, airdrop, and balance.
package wallet

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/ticketchain-foundation/ticketchain/cmd/ticketchain/cli"
	"github.com/ticketchain-foundation/ticketchain/lib/address"
)

type keygenParams struct {
	cli.ConfigFlag
	cli.JSONOutput
	Name string `json:"name" flag:"name,n" desc:"name for the new key"`
}

// KeygenCommand returns the keygen command.
func KeygenCommand() *cli.Command {
	var params keygenParams
	return &cli.Command{
		Name:    "keygen",
		Summary: "Generate a new wallet key",
		Description: `Generate an Ed25519 wallet key and store it in the keystore.

The wallet address is the raw public key. Keys are never overwritten;
pick a new name or remove the old key file first.`,
		Examples: []cli.Example{
			{Description: "Create a wallet for alice", Command: "ticketchain keygen --name alice"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("keygen", &params)
		},
		Run: func(args []string) error {
			keys, err := params.Keystore()
			if err != nil {
				return err
			}
			addr, err := keys.Generate(params.Name)
			if err != nil {
				return err
			}
			info := cli.KeyInfo{Name: params.Name, Address: addr.String()}
			if done, err := params.EmitJSON(info); done {
				return err
			}
			fmt.Printf("%s\t%s\n", info.Name, info.Address)
			return nil
		},
	}
}

type keysParams struct {
	cli.ConfigFlag
	cli.JSONOutput
}

// KeysCommand returns the keys listing command.
func KeysCommand() *cli.Command {
	var params keysParams
	return &cli.Command{
		Name:    "keys",
		Summary: "List wallet keys in the keystore",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("keys", &params)
		},
		Run: func(args []string) error {
			keystore, err := params.Keystore()
			if err != nil {
				return err
			}
			keys, err := keystore.List()
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(keys); done {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(tw, "NAME\tADDRESS\n")
			for _, key := range keys {
				fmt.Fprintf(tw, "%s\t%s\n", key.Name, key.Address)
			}
			return tw.Flush()
		},
	}
}

// walletRef selects a wallet by keystore name or literal address.
type walletRef struct {
	Key     string `json:"-" flag:"key,k" desc:"keystore name of the wallet"`
	Address string `json:"-" flag:"address" desc:"wallet address (alternative to --key)"`
}

// resolve returns the referenced wallet address.
func (r *walletRef) resolve(flags *cli.ConfigFlag) (address.Address, error) {
	switch {
	case r.Address != "" && r.Key != "":
		return address.Zero, fmt.Errorf("--key and --address are mutually exclusive")
	case r.Address != "":
		return address.Parse(r.Address)
	case r.Key != "":
		keys, err := flags.Keystore()
		if err != nil {
			return address.Zero, err
		}
		_, addr, err := keys.Load(r.Key)
		return addr, err
	}
	return address.Zero, fmt.Errorf("either --key or --address is required")
}

type airdropParams struct {
	cli.ConfigFlag
	cli.JSONOutput
	walletRef
	Amount uint64 `json:"amount" flag:"amount" desc:"amount to credit (defaults to the configured faucet amount)"`
}

// AirdropCommand returns the airdrop command.
func AirdropCommand() *cli.Command {
	var params airdropParams
	return &cli.Command{
		Name:    "airdrop",
		Summary: "Credit a wallet from the development faucet",
		Description: `Credit currency to a wallet out of thin air.

The faucet exists for development and staging; production
configurations set the faucet amount to zero, which disables it.`,
		Examples: []cli.Example{
			{Description: "Fund alice with the default faucet amount", Command: "ticketchain airdrop --key alice"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("airdrop", &params)
		},
		Run: func(args []string) error {
			node, err := params.OpenNode()
			if err != nil {
				return err
			}
			defer node.Close()

			amount := params.Amount
			if amount == 0 {
				amount = node.Config.Platform.FaucetAmount
			}
			if amount == 0 {
				return fmt.Errorf("faucet is disabled (platform.faucet_amount is 0)")
			}

			addr, err := params.resolve(&params.ConfigFlag)
			if err != nil {
				return err
			}
			seq, err := node.Ledger.Credit(context.Background(), addr, amount)
			if err != nil {
				return err
			}

			result := struct {
				Address string `json:"address"`
				Amount  uint64 `json:"amount"`
				Seq     int64  `json:"seq"`
			}{addr.String(), amount, seq}
			if done, err := params.EmitJSON(result); done {
				return err
			}
			fmt.Printf("credited %d to %s (seq %d)\n", amount, addr, seq)
			return nil
		},
	}
}

type balanceParams struct {
	cli.ConfigFlag
	cli.JSONOutput
	walletRef
}

// BalanceCommand returns the balance command.
func BalanceCommand() *cli.Command {
	var params balanceParams
	return &cli.Command{
		Name:    "balance",
		Summary: "Show a wallet's balance",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("balance", &params)
		},
		Run: func(args []string) error {
			node, err := params.OpenNode()
			if err != nil {
				return err
			}
			defer node.Close()

			addr, err := params.resolve(&params.ConfigFlag)
			if err != nil {
				return err
			}
			account, err := node.Ledger.Account(context.Background(), addr)
			if err != nil {
				return err
			}

			result := struct {
				Address string `json:"address"`
				Balance uint64 `json:"balance"`
			}{addr.String(), account.Balance}
			if done, err := params.EmitJSON(result); done {
				return err
			}
			fmt.Printf("%d\n", account.Balance)
			return nil
		},
	}
}
