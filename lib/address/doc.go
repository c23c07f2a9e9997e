// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

// Package address provides the 32-byte account address type and the
// deterministic derivation of program-owned account addresses.
//
// There are two kinds of addresses:
//
//   - Wallet addresses are raw Ed25519 public keys ([FromPublicKey]).
//     A transaction signed by the corresponding private key proves
//     authority over the wallet address.
//   - Derived addresses are BLAKE3 keyed hashes of fixed-width seed
//     tuples ([DeriveEvent], [DeriveTicketMint], [DeriveMintAuthority],
//     [DeriveListing], [DeriveEscrow], [DeriveHolding]). No private key
//     exists for a derived address, so nothing outside program logic
//     can ever authorize movements from one. This is the access-control
//     primitive that keeps escrow and mint-authority accounts under
//     exclusive program control.
//
// Each derivation family uses its own BLAKE3 domain key, so the same
// seed bytes can never collide across families. Within a family the
// seed layout is fixed-width, so the encoding of distinct seed tuples
// is itself distinct; collisions would require a BLAKE3 collision.
//
// Any external reader that knows the public seeds (an organizer key
// and nonce, an event address and sale index, ...) can recompute these
// addresses and locate the accounts without a side index.
//
// This package has no dependencies on other TicketChain packages.
package address
