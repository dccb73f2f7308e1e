package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"TradeCompass/internal/domain/models"
	domrepo "TradeCompass/internal/domain/repository"
	pkgch "TradeCompass/pkg/clickhouse"
	applogger "TradeCompass/pkg/logger"
	"TradeCompass/pkg/util"
)

// CHCandleStore implements CandleSource backed by ClickHouse. Useful when
// bars are ingested in-house instead of fetched from the quote provider.
type CHCandleStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHCandleStore(ch *pkgch.Client) *CHCandleStore {
	return &CHCandleStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHCandleStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHCandleStore) GetLatestNCandles(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) ([]models.Candle, error) {
	start := time.Now()
	table, err := tableForTF(tf)
	if err != nil {
		return nil, err
	}
	const qtpl = `
        SELECT bucket, open, high, low, close, vol
        FROM %s
        WHERE symbol = ?
        ORDER BY bucket DESC
        LIMIT ?
    `
	q := fmt.Sprintf(qtpl, table)
	rows, err := s.db.QueryContext(ctx, q, util.NormalizeTicker(symbol), n)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse latest_candles query error",
				applogger.String("table", table),
				applogger.String("symbol", symbol),
				applogger.String("tf", string(tf)),
				applogger.Int("limit", n),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get latest candles: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.Candle, 0, n)
	for rows.Next() {
		var c models.Candle
		var bucket time.Time
		if err := rows.Scan(&bucket, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse latest_candles scan error",
					applogger.String("table", table),
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		c.Date = util.FormatCandleDate(bucket)
		tmp = append(tmp, c)
	}
	if err := rows.Err(); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse latest_candles rows error",
				applogger.String("table", table),
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("rows: %w", err)
	}
	// reverse to ASC
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	if s.l != nil {
		s.l.Info("clickhouse latest_candles ok",
			applogger.String("table", table),
			applogger.String("symbol", symbol),
			applogger.String("tf", string(tf)),
			applogger.Int("limit", n),
			applogger.Int("rows", len(tmp)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return tmp, nil
}

// SchemaStatements returns idempotent DDL for the candle tables.
func SchemaStatements() []string {
	mk := func(table string) string {
		return fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            bucket DateTime,
            symbol LowCardinality(String),
            open Float64,
            high Float64,
            low Float64,
            close Float64,
            vol Float64
        ) ENGINE = ReplacingMergeTree()
        ORDER BY (symbol, bucket)
    `, table)
	}
	return []string{
		`CREATE DATABASE IF NOT EXISTS tradecompass`,
		mk("tradecompass.candles_1d"),
		mk("tradecompass.candles_1wk"),
		mk("tradecompass.candles_1mo"),
	}
}

func tableForTF(tf domrepo.Timeframe) (string, error) {
	switch tf {
	case domrepo.TF1d:
		return "tradecompass.candles_1d", nil
	case domrepo.TF1wk:
		return "tradecompass.candles_1wk", nil
	case domrepo.TF1mo:
		return "tradecompass.candles_1mo", nil
	default:
		return "", fmt.Errorf("unsupported timeframe: %s", tf)
	}
}
