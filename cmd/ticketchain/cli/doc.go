// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-tree framework and shared plumbing
// for the ticketchain CLI: command dispatch with typo suggestions,
// struct-tag flag binding, JSON output, the wallet keystore, and the
// Node helper that opens the ledger with the marketplace program
// registered.
package cli
