package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/epeers/transferdesk/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InstrumentRepository reads the instrument reference directory from
// Postgres. The directory is read-only for this service; rows in
// dim_instrument are maintained by a separate reference-data pipeline.
//
// It implements services.Directory: lookups return (nil, nil) on a clean
// miss so the matcher can fall through to the next identifier key.
type InstrumentRepository struct {
	pool *pgxpool.Pool
}

// NewInstrumentRepository creates a new InstrumentRepository
func NewInstrumentRepository(pool *pgxpool.Pool) *InstrumentRepository {
	return &InstrumentRepository{pool: pool}
}

const instrumentColumns = `id, ticker, isin, name, exchange, currency`

func (r *InstrumentRepository) queryOne(ctx context.Context, query string, args ...any) (*models.Instrument, error) {
	inst := &models.Instrument{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&inst.ID, &inst.Ticker, &inst.ISIN, &inst.Name, &inst.Exchange, &inst.Currency,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get instrument: %w", err)
	}
	return inst, nil
}

// FindByTicker retrieves an instrument by ticker, case-insensitively.
// When the same ticker exists on multiple exchanges the lowest internal ID
// wins, keeping resolution deterministic.
func (r *InstrumentRepository) FindByTicker(ctx context.Context, ticker string) (*models.Instrument, error) {
	query := `
		SELECT ` + instrumentColumns + `
		FROM dim_instrument
		WHERE upper(ticker) = upper($1)
		ORDER BY id
		LIMIT 1
	`
	return r.queryOne(ctx, query, ticker)
}

// FindByISIN retrieves an instrument by ISIN, case-insensitively.
func (r *InstrumentRepository) FindByISIN(ctx context.Context, isin string) (*models.Instrument, error) {
	query := `
		SELECT ` + instrumentColumns + `
		FROM dim_instrument
		WHERE upper(isin) = upper($1)
		ORDER BY id
		LIMIT 1
	`
	return r.queryOne(ctx, query, isin)
}

// FindByID retrieves an instrument by internal ID.
func (r *InstrumentRepository) FindByID(ctx context.Context, id int64) (*models.Instrument, error) {
	query := `
		SELECT ` + instrumentColumns + `
		FROM dim_instrument
		WHERE id = $1
	`
	return r.queryOne(ctx, query, id)
}

// FindByName retrieves an instrument by name: exact case-insensitive match
// first, then the first contains match by internal ID order.
func (r *InstrumentRepository) FindByName(ctx context.Context, name string) (*models.Instrument, error) {
	exact := `
		SELECT ` + instrumentColumns + `
		FROM dim_instrument
		WHERE lower(name) = lower($1)
		ORDER BY id
		LIMIT 1
	`
	inst, err := r.queryOne(ctx, exact, name)
	if err != nil || inst != nil {
		return inst, err
	}

	fuzzy := `
		SELECT ` + instrumentColumns + `
		FROM dim_instrument
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY id
		LIMIT 1
	`
	return r.queryOne(ctx, fuzzy, name)
}

// GetAll retrieves the whole directory, ordered by internal ID. Used to
// snapshot the directory into memory at startup in csv-less deployments.
func (r *InstrumentRepository) GetAll(ctx context.Context) ([]models.Instrument, error) {
	query := `
		SELECT ` + instrumentColumns + `
		FROM dim_instrument
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all instruments: %w", err)
	}
	defer rows.Close()

	var result []models.Instrument
	for rows.Next() {
		var inst models.Instrument
		if err := rows.Scan(&inst.ID, &inst.Ticker, &inst.ISIN, &inst.Name, &inst.Exchange, &inst.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan instrument: %w", err)
		}
		result = append(result, inst)
	}
	return result, rows.Err()
}
