// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

// Package ledger implements the transaction substrate: per-account
// state with native-currency balances, an append-only log of applied
// transactions, and atomic single-pass execution of program
// instructions.
//
// The substrate is an embedded SQLite database behind a single guarded
// writer connection. A mutex in [Ledger.Execute] serializes all
// transactions into a total order; each one runs inside a SAVEPOINT
// and either commits every account mutation plus its log entry, or
// rolls back with no observable partial state. That single-writer
// model is the in-process stand-in for a distributed ledger's
// consensus ordering: two transactions touching the same accounts are
// strictly ordered, and the later one reads the first one's committed
// state.
//
// Authority model. A transaction carries Ed25519 signatures over the
// canonical CBOR message bytes. During execution, funds move out of a
// wallet account only if its address signed the transaction; accounts
// owned by the executing program (escrow holdings, record accounts)
// move only under program logic, since no private key exists for a
// derived address. The [ExecContext] handed to a program handler is
// the entire capability surface — there is no other path to account
// mutation.
//
// Storage deposits. Creating an account debits a size-dependent
// deposit from the paying wallet into the new account's balance;
// closing the account refunds the balance to a designated wallet. The
// deposit rides in the account itself, so currency is conserved across
// every instruction.
//
// Read surface. [Ledger.Account], [Ledger.Scan], and [Ledger.Log]
// expose committed state for external consumers (a read-side cache can
// rebuild itself from Scan at any time; the log's sequence numbers
// give it an incremental cursor).
package ledger
