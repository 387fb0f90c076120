// Package history archives each sync run's validated rows into ClickHouse as
// point-in-time snapshots, for time-travel diffs of partner pricing. The
// sink is optional: sync works without it and never fails because of it.
package history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tarifscan/internal/catalog"
	"tarifscan/internal/platform"
)

// Config holds the ClickHouse connection settings.
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

// ConfigFromEnv reads the connection settings; an empty host disables the
// sink.
func ConfigFromEnv() *Config {
	host := platform.GetEnv("CLICKHOUSE_HOST", "")
	if host == "" {
		return nil
	}
	return &Config{
		Host:     host,
		Port:     platform.GetEnvInt("CLICKHOUSE_PORT", 9000),
		Database: platform.GetEnv("CLICKHOUSE_DATABASE", "tarifscan"),
		Username: platform.GetEnv("CLICKHOUSE_USER", "default"),
		Password: platform.GetEnv("CLICKHOUSE_PASSWORD", ""),
	}
}

// Snapshot is one sync target's capture in one run.
type Snapshot struct {
	ID        uuid.UUID
	RunID     uuid.UUID
	Vertical  string
	Country   string
	RowCount  int
	Hash      string
	FetchedAt time.Time
}

// Sink writes snapshots and their flattened offer rows.
type Sink struct {
	conn clickhouse.Conn
}

// Open connects to ClickHouse and ensures the tables exist.
func Open(ctx context.Context, cfg *Config) (*Sink, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("history: connect: %w", err)
	}
	s := &Sink{conn: conn}
	if err := s.migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Sink) Close() error { return s.conn.Close() }

func (s *Sink) migrate(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS catalog_snapshots (
			id         UUID,
			run_id     UUID,
			vertical   LowCardinality(String),
			country    LowCardinality(String),
			row_count  UInt32,
			hash       String,
			fetched_at DateTime
		) ENGINE = MergeTree() ORDER BY (vertical, country, fetched_at)`,
		`CREATE TABLE IF NOT EXISTS offer_rows (
			snapshot_id   UUID,
			provider_id   LowCardinality(String),
			offer_id      String,
			region        LowCardinality(String),
			segment       LowCardinality(String),
			price         Decimal(12, 6),
			fixed_fee     Decimal(10, 2),
			contract_type LowCardinality(String),
			valid_from    String,
			fetched_at    DateTime
		) ENGINE = MergeTree() ORDER BY (provider_id, offer_id, fetched_at)`,
	}
	for _, q := range ddl {
		if err := s.conn.Exec(ctx, q); err != nil {
			return fmt.Errorf("history: migrate: %w", err)
		}
	}
	return nil
}

// Record writes one snapshot and its rows.
func (s *Sink) Record(ctx context.Context, snap Snapshot, rows []catalog.Row) error {
	if err := s.conn.Exec(ctx,
		`INSERT INTO catalog_snapshots (id, run_id, vertical, country, row_count, hash, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.RunID, snap.Vertical, snap.Country, uint32(snap.RowCount), snap.Hash, snap.FetchedAt,
	); err != nil {
		return fmt.Errorf("history: snapshot insert: %w", err)
	}

	batch, err := s.conn.PrepareBatch(ctx,
		`INSERT INTO offer_rows (snapshot_id, provider_id, offer_id, region, segment,
		 price, fixed_fee, contract_type, valid_from, fetched_at)`)
	if err != nil {
		return fmt.Errorf("history: prepare batch: %w", err)
	}
	for _, row := range rows {
		price := decimal.Zero
		fee := decimal.Zero
		switch {
		case row.EnergyPriceDay != nil:
			price = decimal.NewFromFloat(*row.EnergyPriceDay)
		case row.MonthlyPriceEUR != nil:
			price = decimal.NewFromFloat(*row.MonthlyPriceEUR)
		}
		if row.SupplierFixedFeeYear != nil {
			fee = decimal.NewFromFloat(*row.SupplierFixedFeeYear)
		}
		validFrom := ""
		if row.ValidFrom != nil {
			validFrom = *row.ValidFrom
		}
		if err := batch.Append(
			snap.ID, row.ProviderID, row.OfferID, string(row.Region), row.Key().Segment,
			price, fee, string(row.ContractType), validFrom, snap.FetchedAt,
		); err != nil {
			return fmt.Errorf("history: batch append: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("history: batch send: %w", err)
	}
	return nil
}

// HashRows computes a content hash of the rows for change detection across
// snapshots.
func HashRows(rows []catalog.Row) string {
	data, err := json.Marshal(rows)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
