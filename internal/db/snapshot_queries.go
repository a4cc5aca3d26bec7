package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/barkgg/barkdash/internal/logger"
	"github.com/barkgg/barkdash/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// ErrNoSnapshot is returned when no cached snapshot exists for a key.
var ErrNoSnapshot = errors.New("no cached snapshot")

// SaveSnapshot persists the latest usage snapshot for a key, replacing any
// previously cached rows for that key. Errored snapshots are skipped so a
// transient failure never clobbers good cached data.
func (db *DB) SaveSnapshot(snapshot *models.UsageSnapshot) error {
	if snapshot == nil || !snapshot.HasData() {
		return nil
	}

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Error("failed to roll back snapshot transaction", "error", rbErr)
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM usage_snapshots WHERE key_id = ?`, snapshot.KeyID); err != nil {
		return fmt.Errorf("failed to clear usage rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_endpoints WHERE key_id = ?`, snapshot.KeyID); err != nil {
		return fmt.Errorf("failed to clear endpoint rows: %w", err)
	}

	var metricsJSON []byte
	if snapshot.Metrics != nil {
		metricsJSON, err = json.Marshal(snapshot.Metrics)
		if err != nil {
			return fmt.Errorf("failed to marshal metrics: %w", err)
		}
	}

	fetchedAt := snapshot.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta (key_id, fetched_at, grand_total, credits_remaining, metrics)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key_id) DO UPDATE SET
			fetched_at = excluded.fetched_at,
			grand_total = excluded.grand_total,
			credits_remaining = excluded.credits_remaining,
			metrics = excluded.metrics
	`,
		snapshot.KeyID,
		fetchedAt.UTC().Format(timeLayout),
		snapshot.Usage.Total,
		snapshot.Usage.CreditsRemaining,
		nullBytes(metricsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot meta: %w", err)
	}

	for endpointID, ep := range snapshot.Usage.Endpoints {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO snapshot_endpoints (key_id, endpoint, total) VALUES (?, ?, ?)
		`, snapshot.KeyID, endpointID, ep.Total)
		if err != nil {
			return fmt.Errorf("failed to insert endpoint row: %w", err)
		}

		for day, du := range ep.Days {
			var hoursJSON []byte
			if du.Hours != nil {
				hoursJSON, err = json.Marshal(du.Hours)
				if err != nil {
					return fmt.Errorf("failed to marshal hours: %w", err)
				}
			}

			_, err = tx.ExecContext(ctx, `
				INSERT INTO usage_snapshots (key_id, endpoint, day, total, hours)
				VALUES (?, ?, ?, ?, ?)
			`, snapshot.KeyID, endpointID, day, du.Total, nullBytes(hoursJSON))
			if err != nil {
				return fmt.Errorf("failed to insert usage row: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the cached snapshot for a key, or ErrNoSnapshot.
func (db *DB) LoadSnapshot(keyID string) (*models.UsageSnapshot, error) {
	ctx := context.Background()

	var fetchedAt string
	var metricsJSON sql.NullString
	snapshot := &models.UsageSnapshot{
		KeyID: keyID,
		Usage: models.UsageRecord{
			Endpoints: make(map[string]models.EndpointUsage),
		},
	}

	err := db.QueryRowContext(ctx, `
		SELECT fetched_at, grand_total, credits_remaining, metrics
		FROM snapshot_meta WHERE key_id = ?
	`, keyID).Scan(&fetchedAt, &snapshot.Usage.Total, &snapshot.Usage.CreditsRemaining, &metricsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot meta: %w", err)
	}

	if t, err := time.Parse(timeLayout, fetchedAt); err == nil {
		snapshot.FetchedAt = t.UTC()
	}

	if metricsJSON.Valid && metricsJSON.String != "" {
		var metrics models.MetricsResponse
		if err := json.Unmarshal([]byte(metricsJSON.String), &metrics); err != nil {
			logger.Warn("failed to decode cached metrics", "key", keyID, "error", err)
		} else {
			snapshot.Metrics = metrics
		}
	}

	if err := db.loadEndpoints(ctx, keyID, snapshot); err != nil {
		return nil, err
	}
	if err := db.loadDays(ctx, keyID, snapshot); err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (db *DB) loadEndpoints(ctx context.Context, keyID string, snapshot *models.UsageSnapshot) error {
	rows, err := db.QueryContext(ctx, `
		SELECT endpoint, total FROM snapshot_endpoints WHERE key_id = ?
	`, keyID)
	if err != nil {
		return fmt.Errorf("failed to query endpoint rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var endpointID string
		var total int
		if err := rows.Scan(&endpointID, &total); err != nil {
			return fmt.Errorf("failed to scan endpoint row: %w", err)
		}
		snapshot.Usage.Endpoints[endpointID] = models.EndpointUsage{
			Total: total,
			Days:  make(map[string]models.DayUsage),
		}
	}
	return rows.Err()
}

func (db *DB) loadDays(ctx context.Context, keyID string, snapshot *models.UsageSnapshot) error {
	rows, err := db.QueryContext(ctx, `
		SELECT endpoint, day, total, hours FROM usage_snapshots WHERE key_id = ?
	`, keyID)
	if err != nil {
		return fmt.Errorf("failed to query usage rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var endpointID, day string
		var total int
		var hoursJSON sql.NullString
		if err := rows.Scan(&endpointID, &day, &total, &hoursJSON); err != nil {
			return fmt.Errorf("failed to scan usage row: %w", err)
		}

		ep, ok := snapshot.Usage.Endpoints[endpointID]
		if !ok {
			ep = models.EndpointUsage{Days: make(map[string]models.DayUsage)}
		}

		du := models.DayUsage{Total: total}
		if hoursJSON.Valid && hoursJSON.String != "" {
			if err := json.Unmarshal([]byte(hoursJSON.String), &du.Hours); err != nil {
				logger.Warn("failed to decode cached hours", "key", keyID, "day", day, "error", err)
			}
		}

		ep.Days[day] = du
		snapshot.Usage.Endpoints[endpointID] = ep
	}
	return rows.Err()
}

// LoadAllSnapshots returns every cached snapshot keyed by key ID.
func (db *DB) LoadAllSnapshots() (map[string]*models.UsageSnapshot, error) {
	rows, err := db.QueryContext(context.Background(), `SELECT key_id FROM snapshot_meta`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot keys: %w", err)
	}

	var keyIDs []string
	for rows.Next() {
		var keyID string
		if err := rows.Scan(&keyID); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan snapshot key: %w", err)
		}
		keyIDs = append(keyIDs, keyID)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	result := make(map[string]*models.UsageSnapshot, len(keyIDs))
	for _, keyID := range keyIDs {
		snap, err := db.LoadSnapshot(keyID)
		if err != nil {
			return nil, err
		}
		result[keyID] = snap
	}
	return result, nil
}

// DeleteSnapshot removes all cached rows for a key.
func (db *DB) DeleteSnapshot(keyID string) error {
	ctx := context.Background()
	for _, query := range []string{
		`DELETE FROM usage_snapshots WHERE key_id = ?`,
		`DELETE FROM snapshot_endpoints WHERE key_id = ?`,
		`DELETE FROM snapshot_meta WHERE key_id = ?`,
	} {
		if _, err := db.ExecContext(ctx, query, keyID); err != nil {
			return fmt.Errorf("failed to delete snapshot rows: %w", err)
		}
	}
	return nil
}

// PruneSnapshots removes cached snapshots fetched before the cutoff.
func (db *DB) PruneSnapshots(before time.Time) (int, error) {
	ctx := context.Background()
	cutoff := before.UTC().Format(timeLayout)

	rows, err := db.QueryContext(ctx, `SELECT key_id FROM snapshot_meta WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to query stale snapshots: %w", err)
	}

	var stale []string
	for rows.Next() {
		var keyID string
		if err := rows.Scan(&keyID); err != nil {
			_ = rows.Close()
			return 0, fmt.Errorf("failed to scan stale key: %w", err)
		}
		stale = append(stale, keyID)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, err
	}
	_ = rows.Close()

	for _, keyID := range stale {
		if err := db.DeleteSnapshot(keyID); err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
