// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides TicketChain's standard CBOR encoding
// configuration.
//
// Two serialization formats with a clear boundary:
//
//   - CBOR for ledger state and wire payloads: account records stored
//     in account data, instruction argument payloads, and the
//     transaction message bytes that Ed25519 signatures cover.
//   - JSON for the CLI boundary only (--json output).
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// Same logical data always produces identical bytes. That property is
// load-bearing twice over: a signature verifies against exactly the
// bytes the signer produced, and an external reader re-encoding an
// account record gets the stored bytes back.
//
// Account and message types use `cbor:"N,keyasint"` struct tags:
// integer keys keep the encoding compact and divorce the wire format
// from Go field names. Types used in CLI --json output additionally
// carry `json` tags on their own (separate) presentation structs —
// never both tag families on one field.
package codec
