// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the account record types stored in ledger
// account data: [Event], [TicketMint], [Holding], and [Listing].
//
// Records are CBOR maps with integer keys (Core Deterministic Encoding
// via lib/codec), so an account's data bytes are a pure function of
// its logical state and any external reader can decode them without a
// side channel. Field key 1 is always the record [Kind], letting a
// reader enumerate substrate state and dispatch on record type.
//
// The Decode functions verify the kind tag, so passing the wrong
// account to an instruction surfaces as a typed mismatch instead of
// garbage field values.
package schema
