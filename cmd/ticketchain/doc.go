// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

// Command ticketchain is the CLI for the TicketChain ledger: wallet
// management, event creation, primary ticket sales, and the escrowed
// resale marketplace.
//
// Run 'ticketchain --help' for the command tree.
package main
