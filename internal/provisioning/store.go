// Package provisioning persists the WiFi credentials the panel joins with and
// erases them on factory reset.
package provisioning

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotProvisioned     = errors.New("provisioning: no credentials stored")
	ErrInvalidCredentials = errors.New("provisioning: invalid credentials")
)

const (
	maxSSIDLen       = 32
	minPassphraseLen = 8
	maxPassphraseLen = 63
)

type Credentials struct {
	SSID       string
	Passphrase string
	UpdatedAt  time.Time
}

// Validate checks the WPA2 limits. An empty passphrase means an open network.
func (c Credentials) Validate() error {
	if c.SSID == "" || len(c.SSID) > maxSSIDLen {
		return fmt.Errorf("%w: ssid must be 1..%d bytes", ErrInvalidCredentials, maxSSIDLen)
	}
	if n := len(c.Passphrase); n != 0 && (n < minPassphraseLen || n > maxPassphraseLen) {
		return fmt.Errorf("%w: passphrase must be %d..%d bytes", ErrInvalidCredentials, minPassphraseLen, maxPassphraseLen)
	}
	return nil
}

// SetupSSID is the network name shown while the panel waits for credentials.
func SetupSSID(stationID string) string {
	id := strings.TrimSpace(stationID)
	if id == "" {
		return "Meteo-Setup"
	}
	return "Meteo-" + id
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save replaces the stored credentials.
func (s *Store) Save(ctx context.Context, c Credentials) error {
	if err := c.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wifi_credentials (id, ssid, passphrase, updated_at)
		VALUES (1, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		ON CONFLICT(id) DO UPDATE SET
			ssid = excluded.ssid,
			passphrase = excluded.passphrase,
			updated_at = excluded.updated_at
	`, c.SSID, c.Passphrase)
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (Credentials, error) {
	var (
		c         Credentials
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT ssid, passphrase, updated_at FROM wifi_credentials WHERE id = 1`,
	).Scan(&c.SSID, &c.Passphrase, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Credentials{}, ErrNotProvisioned
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("load credentials: %w", err)
	}

	if t, perr := time.Parse(time.RFC3339Nano, updatedAt); perr == nil {
		c.UpdatedAt = t
	}
	return c, nil
}

// Erase deletes the credentials and records the reset. Erasing an
// unprovisioned store is not an error.
func (s *Store) Erase(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("erase credentials: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO factory_resets (ssid) SELECT ssid FROM wifi_credentials WHERE id = 1`,
	); err != nil {
		return fmt.Errorf("record reset: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM wifi_credentials`); err != nil {
		return fmt.Errorf("erase credentials: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("erase credentials: %w", err)
	}
	return nil
}

// ResetCount returns how many factory resets erased stored credentials.
func (s *Store) ResetCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM factory_resets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count resets: %w", err)
	}
	return n, nil
}
