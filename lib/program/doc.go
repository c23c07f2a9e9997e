// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

// Package program implements the TicketChain program: the six
// instructions that create and retire events, mint ticket tokens, and
// run the escrowed resale marketplace with its mandatory revenue
// split.
//
// The program registers with lib/ledger under the name
// [Name]. Each instruction is one complete atomic transition: every
// precondition — signatures, bounds, relationships between the
// supplied accounts, balances — is checked before the first mutation,
// and any failure rejects the whole transaction with a typed [Error]
// carrying one of the [Code] values.
//
// Custody and the split. A listed ticket sits in an escrow holding
// whose address is derived from the listing; no private key exists for
// it, so only this program can release the ticket — either to a buyer
// (after the buyer's payment is split between organizer, platform, and
// seller) or back to the seller on cancellation. The split is pure
// integer arithmetic ([Split]): the seller's share absorbs the
// rounding remainder, so the three cuts always sum to the asking price
// exactly.
package program
