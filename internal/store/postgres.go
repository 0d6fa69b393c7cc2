package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/parcelworks/feasibility-cli/internal/db"
	"github.com/parcelworks/feasibility-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool; useful for tests.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS reports (
	id         UUID PRIMARY KEY,
	kind       TEXT NOT NULL,
	query      JSONB NOT NULL,
	status     TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS report_sources (
	id              UUID PRIMARY KEY,
	owner_report_id UUID NOT NULL REFERENCES reports(id),
	source_key      TEXT NOT NULL,
	child_index     INTEGER,
	status          TEXT NOT NULL,
	payload         JSONB,
	error_message   TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status);
CREATE INDEX IF NOT EXISTS idx_reports_kind ON reports(kind);
CREATE INDEX IF NOT EXISTS idx_report_sources_owner ON report_sources(owner_report_id);
CREATE INDEX IF NOT EXISTS idx_report_sources_key ON report_sources(owner_report_id, source_key, child_index);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateReport(ctx context.Context, query model.AddressQuery) (*model.Report, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal query")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO reports (id, kind, query, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, string(query.Kind), queryJSON, string(model.ReportStatusPending), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert report")
	}

	return &model.Report{
		ID:        id,
		Query:     query,
		Status:    model.ReportStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) UpdateReportStatus(ctx context.Context, reportID string, status model.ReportStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE reports SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), reportID,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: update report status")
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: report %s not found", reportID)
	}
	return nil
}

func (s *PostgresStore) GetReport(ctx context.Context, reportID string) (*model.Report, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, query, status, created_at, updated_at FROM reports WHERE id = $1`, reportID,
	)

	var r model.Report
	var queryJSON []byte
	var status string
	if err := row.Scan(&r.ID, &queryJSON, &status, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(err, "postgres: report %s not found", reportID)
		}
		return nil, eris.Wrap(err, "postgres: scan report")
	}
	if err := json.Unmarshal(queryJSON, &r.Query); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal query")
	}
	r.Status = model.ReportStatus(status)
	return &r, nil
}

func (s *PostgresStore) ListReports(ctx context.Context, filter ReportFilter) ([]model.Report, error) {
	query := `SELECT id, query, status, created_at, updated_at FROM reports WHERE ($1 = '' OR status = $1) AND ($2 = '' OR kind = $2) ORDER BY created_at DESC LIMIT $3 OFFSET $4`

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, query, string(filter.Status), string(filter.Kind), limit, filter.Offset)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list reports")
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		var r model.Report
		var queryJSON []byte
		var status string
		if err := rows.Scan(&r.ID, &queryJSON, &status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan report")
		}
		if err := json.Unmarshal(queryJSON, &r.Query); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal query")
		}
		r.Status = model.ReportStatus(status)
		reports = append(reports, r)
	}
	return reports, eris.Wrap(rows.Err(), "postgres: list reports rows")
}

func (s *PostgresStore) AddSourceRecord(ctx context.Context, rec *model.ReportSourceRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var payload any
	if len(rec.Payload) > 0 {
		payload = []byte(rec.Payload)
	}
	var childIndex any
	if rec.ChildIndex != nil {
		childIndex = *rec.ChildIndex
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO report_sources (id, owner_report_id, source_key, child_index, status, payload, error_message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.OwnerReportID, string(rec.SourceKey), childIndex, string(rec.Status), payload, rec.ErrorMessage, rec.CreatedAt,
	)
	return eris.Wrap(err, "postgres: insert source record")
}

func (s *PostgresStore) ListSourceRecords(ctx context.Context, reportID string) ([]model.ReportSourceRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_report_id, source_key, child_index, status, payload, error_message, created_at
		 FROM report_sources WHERE owner_report_id = $1 ORDER BY created_at, source_key, child_index`,
		reportID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list source records")
	}
	defer rows.Close()

	var records []model.ReportSourceRecord
	for rows.Next() {
		var rec model.ReportSourceRecord
		var sourceKey, status string
		var childIndex *int
		var payload []byte
		var errMsg *string

		if err := rows.Scan(&rec.ID, &rec.OwnerReportID, &sourceKey, &childIndex, &status, &payload, &errMsg, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan source record")
		}
		rec.SourceKey = model.SourceKey(sourceKey)
		rec.Status = model.SourceStatus(status)
		rec.ChildIndex = childIndex
		if len(payload) > 0 {
			rec.Payload = json.RawMessage(payload)
		}
		if errMsg != nil {
			rec.ErrorMessage = *errMsg
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "postgres: list source records rows")
}
