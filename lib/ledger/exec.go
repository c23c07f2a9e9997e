// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/ticketchain-foundation/ticketchain/lib/address"
)

// ExecContext is the capability surface a program handler mutates
// account state through. It is only ever constructed by
// [Ledger.Execute] inside an open SAVEPOINT, so every mutation made
// through it is atomic with the rest of the transaction.
//
// The authorization rules live here, not in program code:
//
//   - funds leave a system-owned (wallet) account only if that
//     address signed the transaction;
//   - funds leave a program-owned account only when moved by the
//     owning program;
//   - an account's data and lifetime are mutable only by its owner
//     program.
type ExecContext struct {
	ledger  *Ledger
	program string
	signed  map[address.Address]bool
	now     time.Time
}

// Signed reports whether addr signed this transaction.
func (c *ExecContext) Signed(addr address.Address) bool {
	return c.signed[addr]
}

// Now returns the substrate timestamp for this transaction. All reads
// within one transaction see the same instant.
func (c *ExecContext) Now() time.Time {
	return c.now
}

// Account returns the current state of an account, or
// [ErrAccountNotFound].
func (c *ExecContext) Account(addr address.Address) (*Account, error) {
	return c.ledger.readAccount(addr)
}

// Exists reports whether an account is initialized at addr.
func (c *ExecContext) Exists(addr address.Address) (bool, error) {
	_, err := c.ledger.readAccount(addr)
	if errors.Is(err, ErrAccountNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateAccount initializes a new account at addr, owned by the
// executing program, holding the given data. The storage deposit
// ([DepositFor] of the data length) is debited from payer — which must
// have signed the transaction — and locked in the new account's
// balance. Fails with [ErrAccountExists] if addr is initialized and
// [ErrInsufficientBalance] if payer cannot cover the deposit.
func (c *ExecContext) CreateAccount(addr address.Address, data []byte, payer address.Address) error {
	if !c.signed[payer] {
		return fmt.Errorf("%w: deposit payer %s did not sign", ErrNotAuthorized, payer.Short())
	}

	exists, err := c.Exists(addr)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrAccountExists, addr.Short())
	}

	deposit := DepositFor(len(data))
	if err := c.debit(payer, deposit); err != nil {
		return err
	}
	return c.ledger.insertAccount(&Account{
		Address: addr,
		Owner:   c.program,
		Balance: deposit,
		Data:    data,
	})
}

// CloseAccount deallocates an account owned by the executing program,
// refunding its whole balance (the storage deposit plus anything since
// accumulated) to refundTo. refundTo must already exist; the refund
// must not strand currency in a nonexistent account.
func (c *ExecContext) CloseAccount(addr, refundTo address.Address) error {
	account, err := c.ledger.readAccount(addr)
	if err != nil {
		return err
	}
	if account.Owner != c.program {
		return fmt.Errorf("%w: %s is owned by %q", ErrNotAuthorized, addr.Short(), account.Owner)
	}

	if err := c.credit(refundTo, account.Balance); err != nil {
		return err
	}
	return c.ledger.deleteAccount(addr)
}

// SetData replaces the data of an account owned by the executing
// program. The storage deposit is not retroactively adjusted; record
// sizes in practice only shrink or stay level after creation.
func (c *ExecContext) SetData(addr address.Address, data []byte) error {
	account, err := c.ledger.readAccount(addr)
	if err != nil {
		return err
	}
	if account.Owner != c.program {
		return fmt.Errorf("%w: %s is owned by %q", ErrNotAuthorized, addr.Short(), account.Owner)
	}
	return c.ledger.updateData(addr, data)
}

// Transfer moves amount from one account to another. The source must
// be either a wallet that signed this transaction or an account owned
// by the executing program. The destination must exist — transfers
// never implicitly create accounts (account creation is an explicit,
// deposit-charging act). A zero-amount transfer is a no-op. A
// self-transfer passes the same authorization and balance checks and
// leaves the balance unchanged.
func (c *ExecContext) Transfer(from, to address.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}

	source, err := c.ledger.readAccount(from)
	if err != nil {
		return err
	}
	switch {
	case source.Owner == c.program:
		// Program custody: movable by program logic alone.
	case c.signed[from]:
		// Wallet with a verified signature.
	default:
		return fmt.Errorf("%w: transfer from %s requires its signature", ErrNotAuthorized, from.Short())
	}

	if source.Balance < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientBalance, from.Short(), source.Balance, amount)
	}

	// A self-transfer leaves the balance unchanged. Writing the debit
	// after the credit would clobber it with the pre-credit balance.
	if from == to {
		return nil
	}

	if err := c.credit(to, amount); err != nil {
		return err
	}
	return c.ledger.updateBalance(from, source.Balance-amount)
}

// debit removes amount from an account's balance, failing with
// [ErrInsufficientBalance] if it would go negative.
func (c *ExecContext) debit(addr address.Address, amount uint64) error {
	account, err := c.ledger.readAccount(addr)
	if err != nil {
		return err
	}
	if account.Balance < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientBalance, addr.Short(), account.Balance, amount)
	}
	return c.ledger.updateBalance(addr, account.Balance-amount)
}

// credit adds amount to an existing account's balance.
func (c *ExecContext) credit(addr address.Address, amount uint64) error {
	account, err := c.ledger.readAccount(addr)
	if err != nil {
		return err
	}
	balance, err := checkedBalanceAdd(account.Balance, amount)
	if err != nil {
		return err
	}
	return c.ledger.updateBalance(addr, balance)
}
