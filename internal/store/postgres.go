package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mintmesh/rarityd/internal/scoring"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &PostgresStore{pool: pool}
	if err := s.ensureState(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure state row: %w", err)
	}
	return s, nil
}

// ensureState seeds the singleton state row if the table is empty.
func (s *PostgresStore) ensureState(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO rarity_state (id, total_assets, max_raw_score, height, weights_initialized)
		VALUES (1, 0, 0, 0, FALSE)
		ON CONFLICT (id) DO NOTHING`)
	return err
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- Attributes ---

func (s *PostgresStore) RegisterAsset(ctx context.Context, rec *AttributeRecord) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO rarity_attributes (asset_id, background, body, eyes, accessory, special, owner)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		rec.AssetID,
		rec.Attrs.Background, rec.Attrs.Body, rec.Attrs.Eyes, rec.Attrs.Accessory, rec.Attrs.Special,
		rec.Owner,
	).Scan(&rec.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("asset %s: %w", rec.AssetID, ErrAlreadyExists)
		}
		return fmt.Errorf("insert attributes: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE rarity_state SET total_assets = total_assets + 1 WHERE id = 1`); err != nil {
		return fmt.Errorf("increment total: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetAttributeRecord(ctx context.Context, id uuid.UUID) (*AttributeRecord, error) {
	rec := &AttributeRecord{}
	err := s.pool.QueryRow(ctx, `
		SELECT asset_id, background, body, eyes, accessory, special, owner, created_at
		FROM rarity_attributes WHERE asset_id = $1`, id,
	).Scan(
		&rec.AssetID,
		&rec.Attrs.Background, &rec.Attrs.Body, &rec.Attrs.Eyes, &rec.Attrs.Accessory, &rec.Attrs.Special,
		&rec.Owner, &rec.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// --- Weight table ---

func (s *PostgresStore) InitializeWeights(ctx context.Context, weights scoring.WeightTable) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var initialized bool
	if err := tx.QueryRow(ctx, `
		SELECT weights_initialized FROM rarity_state WHERE id = 1 FOR UPDATE`,
	).Scan(&initialized); err != nil {
		return fmt.Errorf("lock state: %w", err)
	}
	if initialized {
		return fmt.Errorf("weight table: %w", ErrAlreadyExists)
	}

	for name, weight := range weights {
		if _, err := tx.Exec(ctx, `
			INSERT INTO rarity_weights (trait, weight)
			VALUES ($1, $2)
			ON CONFLICT (trait) DO UPDATE SET weight = EXCLUDED.weight, updated_at = now()`,
			name, weight,
		); err != nil {
			return fmt.Errorf("insert weight %s: %w", name, err)
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE rarity_state SET weights_initialized = TRUE WHERE id = 1`); err != nil {
		return fmt.Errorf("set latch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateWeight(ctx context.Context, name string, weight uint32) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO rarity_weights (trait, weight)
		VALUES ($1, $2)
		ON CONFLICT (trait) DO UPDATE SET weight = EXCLUDED.weight, updated_at = now()`,
		name, weight)
	return err
}

func (s *PostgresStore) GetWeight(ctx context.Context, name string) (uint32, bool, error) {
	var weight uint32
	err := s.pool.QueryRow(ctx, `
		SELECT weight FROM rarity_weights WHERE trait = $1`, name,
	).Scan(&weight)
	if err == pgx.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return weight, true, nil
}

func (s *PostgresStore) GetWeights(ctx context.Context) (scoring.WeightTable, error) {
	rows, err := s.pool.Query(ctx, `SELECT trait, weight FROM rarity_weights`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weights := scoring.WeightTable{}
	for rows.Next() {
		var trait string
		var weight uint32
		if err := rows.Scan(&trait, &weight); err != nil {
			return nil, err
		}
		weights[trait] = weight
	}
	return weights, rows.Err()
}

func (s *PostgresStore) WeightsInitialized(ctx context.Context) (bool, error) {
	var initialized bool
	err := s.pool.QueryRow(ctx, `
		SELECT weights_initialized FROM rarity_state WHERE id = 1`).Scan(&initialized)
	return initialized, err
}

// --- Scoring ---

// ScoreAsset runs one scoring computation atomically: it locks the state
// row, reads the asset's traits and the current weight table, invokes fn,
// upserts the score record stamped with the next height, and persists the
// possibly advanced high-water mark. Any failure rolls the whole call back.
func (s *PostgresStore) ScoreAsset(ctx context.Context, id uuid.UUID, fn ScoreFn) (*ScoreRecord, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var maxRaw, height uint64
	if err := tx.QueryRow(ctx, `
		SELECT max_raw_score, height FROM rarity_state WHERE id = 1 FOR UPDATE`,
	).Scan(&maxRaw, &height); err != nil {
		return nil, fmt.Errorf("lock state: %w", err)
	}

	var attrs scoring.AttributeSet
	err = tx.QueryRow(ctx, `
		SELECT background, body, eyes, accessory, special
		FROM rarity_attributes WHERE asset_id = $1`, id,
	).Scan(&attrs.Background, &attrs.Body, &attrs.Eyes, &attrs.Accessory, &attrs.Special)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("asset %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load attributes: %w", err)
	}

	rows, err := tx.Query(ctx, `SELECT trait, weight FROM rarity_weights`)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}
	weights := scoring.WeightTable{}
	for rows.Next() {
		var trait string
		var weight uint32
		if err := rows.Scan(&trait, &weight); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan weight: %w", err)
		}
		weights[trait] = weight
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}

	raw, normalized, newMax := fn(attrs, weights, maxRaw)
	height++

	rec := &ScoreRecord{
		AssetID:     id,
		RawScore:    raw,
		Normalized:  normalized,
		Rank:        0,
		LastUpdated: height,
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO rarity_scores (asset_id, raw_score, normalized, rank, last_updated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (asset_id) DO UPDATE SET
			raw_score = EXCLUDED.raw_score,
			normalized = EXCLUDED.normalized,
			rank = EXCLUDED.rank,
			last_updated = EXCLUDED.last_updated,
			updated_at = now()
		RETURNING updated_at`,
		rec.AssetID, rec.RawScore, rec.Normalized, rec.Rank, rec.LastUpdated,
	).Scan(&rec.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert score: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE rarity_state SET max_raw_score = $1, height = $2 WHERE id = 1`,
		newMax, height,
	); err != nil {
		return nil, fmt.Errorf("update state: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

// ScoreBatch scores every resolvable id in one transaction under the state
// row lock. The mark advances across iterations inside the transaction, and
// all records share one height stamp. If any write fails, nothing from the
// batch is committed.
func (s *PostgresStore) ScoreBatch(ctx context.Context, ids []uuid.UUID, fn ScoreFn) ([]*ScoreRecord, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var maxRaw, height uint64
	if err := tx.QueryRow(ctx, `
		SELECT max_raw_score, height FROM rarity_state WHERE id = 1 FOR UPDATE`,
	).Scan(&maxRaw, &height); err != nil {
		return nil, fmt.Errorf("lock state: %w", err)
	}

	rows, err := tx.Query(ctx, `SELECT trait, weight FROM rarity_weights`)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}
	weights := scoring.WeightTable{}
	for rows.Next() {
		var trait string
		var weight uint32
		if err := rows.Scan(&trait, &weight); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan weight: %w", err)
		}
		weights[trait] = weight
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}

	height++
	var recs []*ScoreRecord
	for _, id := range ids {
		var attrs scoring.AttributeSet
		err := tx.QueryRow(ctx, `
			SELECT background, body, eyes, accessory, special
			FROM rarity_attributes WHERE asset_id = $1`, id,
		).Scan(&attrs.Background, &attrs.Body, &attrs.Eyes, &attrs.Accessory, &attrs.Special)
		if err == pgx.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load attributes: %w", err)
		}

		raw, normalized, newMax := fn(attrs, weights, maxRaw)
		maxRaw = newMax

		rec := &ScoreRecord{
			AssetID:     id,
			RawScore:    raw,
			Normalized:  normalized,
			Rank:        0,
			LastUpdated: height,
		}
		if err := tx.QueryRow(ctx, `
			INSERT INTO rarity_scores (asset_id, raw_score, normalized, rank, last_updated)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (asset_id) DO UPDATE SET
				raw_score = EXCLUDED.raw_score,
				normalized = EXCLUDED.normalized,
				rank = EXCLUDED.rank,
				last_updated = EXCLUDED.last_updated,
				updated_at = now()
			RETURNING updated_at`,
			rec.AssetID, rec.RawScore, rec.Normalized, rec.Rank, rec.LastUpdated,
		).Scan(&rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("upsert score: %w", err)
		}
		recs = append(recs, rec)
	}

	// A batch that resolved nothing writes nothing, height included.
	if len(recs) > 0 {
		if _, err := tx.Exec(ctx, `
			UPDATE rarity_state SET max_raw_score = $1, height = $2 WHERE id = 1`,
			maxRaw, height,
		); err != nil {
			return nil, fmt.Errorf("update state: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return recs, nil
}

func (s *PostgresStore) GetScoreRecord(ctx context.Context, id uuid.UUID) (*ScoreRecord, error) {
	rec := &ScoreRecord{}
	err := s.pool.QueryRow(ctx, `
		SELECT asset_id, raw_score, normalized, rank, last_updated, updated_at
		FROM rarity_scores WHERE asset_id = $1`, id,
	).Scan(&rec.AssetID, &rec.RawScore, &rec.Normalized, &rec.Rank, &rec.LastUpdated, &rec.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// --- Global scalars ---

func (s *PostgresStore) GetTotalAssets(ctx context.Context) (uint64, error) {
	var total uint64
	err := s.pool.QueryRow(ctx, `
		SELECT total_assets FROM rarity_state WHERE id = 1`).Scan(&total)
	return total, err
}

func (s *PostgresStore) GetMaxRawScore(ctx context.Context) (uint64, error) {
	var max uint64
	err := s.pool.QueryRow(ctx, `
		SELECT max_raw_score FROM rarity_state WHERE id = 1`).Scan(&max)
	return max, err
}

func (s *PostgresStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.pool.QueryRow(ctx, `
		SELECT st.total_assets, st.max_raw_score, st.height, st.weights_initialized,
			(SELECT COUNT(*) FROM rarity_scores)
		FROM rarity_state st WHERE st.id = 1`,
	).Scan(&stats.TotalAssets, &stats.MaxRawScore, &stats.Height, &stats.Initialized, &stats.ScoredAssets)
	return stats, err
}
