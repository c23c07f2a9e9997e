// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/ticketchain-foundation/ticketchain/lib/address"
	"github.com/ticketchain-foundation/ticketchain/lib/clock"
	"github.com/ticketchain-foundation/ticketchain/lib/codec"
)

// OwnerSystem is the owner of plain wallet accounts. System accounts
// hold only a balance; their funds move exclusively under the
// account's own signature.
const OwnerSystem = "system"

// Storage deposit parameters, in the smallest currency unit. Creating
// an account locks DepositBase + DepositPerByte per data byte inside
// the account; closing it refunds the whole account balance.
const (
	DepositBase    uint64 = 100_000
	DepositPerByte uint64 = 100
)

// DepositFor returns the storage deposit required for an account with
// the given data length.
func DepositFor(dataLen int) uint64 {
	return DepositBase + DepositPerByte*uint64(dataLen)
}

// Account is one ledger account: an address, the program that owns its
// state, a native-currency balance, and opaque data bytes.
type Account struct {
	Address address.Address
	Owner   string
	Balance uint64
	Data    []byte
}

// Program executes instructions against the ledger. Implementations
// receive the full capability surface through the ExecContext and must
// perform every check before the first mutation; on error the
// substrate rolls the whole transaction back regardless.
type Program interface {
	Execute(ctx *ExecContext, instruction string, payload codec.RawMessage) error
}

// LogEntry is one committed transaction in the append-only log.
type LogEntry struct {
	Seq         int64
	AppliedAt   time.Time
	Program     string
	Instruction string
	Payload     []byte
}

// Config holds the parameters for opening a ledger.
type Config struct {
	// Path is the filesystem path to the SQLite database file. The
	// parent directory must exist; the file is created if absent.
	// Use ":memory:" for an in-memory ledger (tests, scratch runs).
	Path string

	// Clock provides log timestamps. Defaults to clock.Real().
	Clock clock.Clock

	// Logger receives operational messages. If nil, a no-op logger
	// is used.
	Logger *slog.Logger
}

// Ledger is the transaction substrate. Safe for concurrent use; all
// access funnels through one writer connection under a mutex, which is
// what gives transactions their total order.
type Ledger struct {
	mu       sync.Mutex
	conn     *sqlite.Conn
	clock    clock.Clock
	logger   *slog.Logger
	programs map[string]Program
}

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS accounts (
		address BLOB PRIMARY KEY,
		owner   TEXT NOT NULL,
		balance INTEGER NOT NULL,
		data    BLOB
	);

	CREATE TABLE IF NOT EXISTS log (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		applied_at  INTEGER NOT NULL,
		program     TEXT NOT NULL,
		instruction TEXT NOT NULL,
		payload     BLOB
	);
`

// Open opens (creating if necessary) the ledger database at cfg.Path
// and applies the standard pragmas and schema. The caller must call
// Close when done.
func Open(cfg Config) (*Ledger, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("ledger: Path is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}

	// Default open flags: read-write, create, WAL.
	conn, err := sqlite.OpenConn(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("ledger: opening %s: %w", cfg.Path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=OFF",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ledger: %s: %w", pragma, err)
		}
	}

	if err := sqlitex.ExecuteScript(conn, schemaSQL, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ledger: creating schema: %w", err)
	}

	logger.Info("ledger opened", "path", cfg.Path)

	return &Ledger{
		conn:     conn,
		clock:    clk,
		logger:   logger,
		programs: make(map[string]Program),
	}, nil
}

// Close closes the underlying connection. The ledger must not be used
// afterwards.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.conn.Close(); err != nil {
		return fmt.Errorf("ledger: close: %w", err)
	}
	return nil
}

// Register installs a program under the given name. Registering the
// same name twice is a configuration bug and returns an error.
func (l *Ledger) Register(name string, program Program) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.programs[name]; exists {
		return fmt.Errorf("ledger: program %q already registered", name)
	}
	l.programs[name] = program
	return nil
}

// Execute verifies the transaction's signatures, runs the named
// program instruction inside a SAVEPOINT, and on success appends the
// transaction to the log and returns its sequence number. On any
// error every mutation is rolled back and nothing is logged.
func (l *Ledger) Execute(ctx context.Context, tx *Transaction) (seq int64, err error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	signed, err := tx.verify()
	if err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	program, ok := l.programs[tx.Message.Program]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownProgram, tx.Message.Program)
	}

	started := l.clock.Now()

	release := sqlitex.Save(l.conn)
	defer release(&err)

	execCtx := &ExecContext{
		ledger:  l,
		program: tx.Message.Program,
		signed:  signed,
		now:     started,
	}

	if err = program.Execute(execCtx, tx.Message.Instruction, tx.Message.Payload); err != nil {
		return 0, err
	}

	seq, err = l.appendLog(started, tx.Message.Program, tx.Message.Instruction, tx.Message.Payload)
	if err != nil {
		return 0, err
	}

	l.logger.Info("transaction applied",
		"seq", seq,
		"program", tx.Message.Program,
		"instruction", tx.Message.Instruction,
		"signers", len(tx.Signers),
	)
	return seq, nil
}

// creditPayload is the log payload recorded for Credit.
type creditPayload struct {
	To     address.Address `cbor:"1,keyasint"`
	Amount uint64          `cbor:"2,keyasint"`
}

// Credit adds amount to a wallet account, creating it (owner system)
// if absent. This is the genesis/faucet path for local deployments and
// tests; it mints currency out of thin air, so it lives outside the
// instruction surface and is still recorded in the log.
func (l *Ledger) Credit(ctx context.Context, to address.Address, amount uint64) (seq int64, err error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if to.IsZero() {
		return 0, fmt.Errorf("ledger: credit to zero address")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()

	release := sqlitex.Save(l.conn)
	defer release(&err)

	account, err := l.readAccount(to)
	if errors.Is(err, ErrAccountNotFound) {
		account = &Account{Address: to, Owner: OwnerSystem}
		if err := l.insertAccount(account); err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, err
	}

	balance, err := checkedBalanceAdd(account.Balance, amount)
	if err != nil {
		return 0, err
	}
	if err = l.updateBalance(to, balance); err != nil {
		return 0, err
	}

	payload, err := codec.Marshal(&creditPayload{To: to, Amount: amount})
	if err != nil {
		return 0, fmt.Errorf("ledger: encoding credit payload: %w", err)
	}
	seq, err = l.appendLog(now, OwnerSystem, "credit", payload)
	if err != nil {
		return 0, err
	}

	l.logger.Info("account credited", "seq", seq, "to", to.Short(), "amount", amount)
	return seq, nil
}

// Account returns the committed state of one account.
func (l *Ledger) Account(ctx context.Context, addr address.Address) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readAccount(addr)
}

// Scan calls fn for every account, ordered by address bytes. Returning
// an error from fn stops the scan. The callback sees committed state
// only; Scan never runs concurrently with a half-applied transaction.
func (l *Ledger) Scan(ctx context.Context, fn func(Account) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var callbackErr error
	err := sqlitex.Execute(l.conn,
		"SELECT address, owner, balance, data FROM accounts ORDER BY address",
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				if callbackErr != nil {
					return nil
				}
				account, err := accountFromRow(stmt)
				if err != nil {
					return err
				}
				callbackErr = fn(*account)
				return nil
			},
		})
	if err != nil {
		return fmt.Errorf("ledger: scan: %w", err)
	}
	return callbackErr
}

// Log returns up to limit committed log entries with seq > fromSeq, in
// sequence order. A read-side consumer uses the last seen seq as its
// incremental cursor.
func (l *Ledger) Log(ctx context.Context, fromSeq int64, limit int) ([]LogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var entries []LogEntry
	err := sqlitex.Execute(l.conn,
		"SELECT seq, applied_at, program, instruction, payload FROM log WHERE seq > ? ORDER BY seq LIMIT ?",
		&sqlitex.ExecOptions{
			Args: []any{fromSeq, limit},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				payload := make([]byte, stmt.ColumnLen(4))
				stmt.ColumnBytes(4, payload)
				entries = append(entries, LogEntry{
					Seq:         stmt.ColumnInt64(0),
					AppliedAt:   time.Unix(stmt.ColumnInt64(1), 0).UTC(),
					Program:     stmt.ColumnText(2),
					Instruction: stmt.ColumnText(3),
					Payload:     payload,
				})
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("ledger: reading log: %w", err)
	}
	return entries, nil
}

// appendLog inserts one log row and returns its sequence number. Runs
// inside the caller's SAVEPOINT, so a rolled-back transaction leaves
// no log entry.
func (l *Ledger) appendLog(at time.Time, program, instruction string, payload []byte) (int64, error) {
	err := sqlitex.Execute(l.conn,
		"INSERT INTO log (applied_at, program, instruction, payload) VALUES (?, ?, ?, ?)",
		&sqlitex.ExecOptions{
			Args: []any{at.Unix(), program, instruction, payload},
		})
	if err != nil {
		return 0, fmt.Errorf("ledger: appending log: %w", err)
	}
	return l.conn.LastInsertRowID(), nil
}

// readAccount loads one account row. Callers hold l.mu.
func (l *Ledger) readAccount(addr address.Address) (*Account, error) {
	var account *Account
	err := sqlitex.Execute(l.conn,
		"SELECT address, owner, balance, data FROM accounts WHERE address = ?",
		&sqlitex.ExecOptions{
			Args: []any{addr[:]},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				loaded, err := accountFromRow(stmt)
				if err != nil {
					return err
				}
				account = loaded
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("ledger: reading account %s: %w", addr.Short(), err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// insertAccount inserts a new account row. Callers hold l.mu.
func (l *Ledger) insertAccount(account *Account) error {
	err := sqlitex.Execute(l.conn,
		"INSERT INTO accounts (address, owner, balance, data) VALUES (?, ?, ?, ?)",
		&sqlitex.ExecOptions{
			Args: []any{account.Address[:], account.Owner, int64(account.Balance), account.Data},
		})
	if err != nil {
		return fmt.Errorf("ledger: inserting account %s: %w", account.Address.Short(), err)
	}
	return nil
}

// updateBalance overwrites one account's balance. Callers hold l.mu.
func (l *Ledger) updateBalance(addr address.Address, balance uint64) error {
	err := sqlitex.Execute(l.conn,
		"UPDATE accounts SET balance = ? WHERE address = ?",
		&sqlitex.ExecOptions{
			Args: []any{int64(balance), addr[:]},
		})
	if err != nil {
		return fmt.Errorf("ledger: updating balance of %s: %w", addr.Short(), err)
	}
	return nil
}

// updateData overwrites one account's data. Callers hold l.mu.
func (l *Ledger) updateData(addr address.Address, data []byte) error {
	err := sqlitex.Execute(l.conn,
		"UPDATE accounts SET data = ? WHERE address = ?",
		&sqlitex.ExecOptions{
			Args: []any{data, addr[:]},
		})
	if err != nil {
		return fmt.Errorf("ledger: updating data of %s: %w", addr.Short(), err)
	}
	return nil
}

// deleteAccount removes one account row. Callers hold l.mu.
func (l *Ledger) deleteAccount(addr address.Address) error {
	err := sqlitex.Execute(l.conn,
		"DELETE FROM accounts WHERE address = ?",
		&sqlitex.ExecOptions{
			Args: []any{addr[:]},
		})
	if err != nil {
		return fmt.Errorf("ledger: deleting account %s: %w", addr.Short(), err)
	}
	return nil
}

// accountFromRow decodes an accounts row in (address, owner, balance,
// data) column order.
func accountFromRow(stmt *sqlite.Stmt) (*Account, error) {
	var account Account
	if stmt.ColumnLen(0) != len(account.Address) {
		return nil, fmt.Errorf("ledger: account row has %d-byte address", stmt.ColumnLen(0))
	}
	stmt.ColumnBytes(0, account.Address[:])
	account.Owner = stmt.ColumnText(1)
	account.Balance = uint64(stmt.ColumnInt64(2))
	if n := stmt.ColumnLen(3); n > 0 {
		account.Data = make([]byte, n)
		stmt.ColumnBytes(3, account.Data)
	}
	return &account, nil
}

// checkedBalanceAdd adds two balances, failing instead of wrapping.
// Balances are stored in a signed 64-bit column, so the ceiling is
// MaxInt64 rather than MaxUint64.
func checkedBalanceAdd(balance, amount uint64) (uint64, error) {
	sum := balance + amount
	if sum < balance || sum > math.MaxInt64 {
		return 0, ErrBalanceOverflow
	}
	return sum, nil
}
