package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/parcelworks/feasibility-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS reports (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	query      TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'pending',
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS report_sources (
	id              TEXT PRIMARY KEY,
	owner_report_id TEXT NOT NULL REFERENCES reports(id),
	source_key      TEXT NOT NULL,
	child_index     INTEGER,
	status          TEXT NOT NULL,
	payload         TEXT,
	error_message   TEXT,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status);
CREATE INDEX IF NOT EXISTS idx_reports_kind ON reports(kind);
CREATE INDEX IF NOT EXISTS idx_report_sources_owner ON report_sources(owner_report_id);
CREATE INDEX IF NOT EXISTS idx_report_sources_key ON report_sources(owner_report_id, source_key, child_index);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateReport(ctx context.Context, query model.AddressQuery) (*model.Report, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal query")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, kind, query, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(query.Kind), string(queryJSON), string(model.ReportStatusPending), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert report")
	}

	return &model.Report{
		ID:        id,
		Query:     query,
		Status:    model.ReportStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) UpdateReportStatus(ctx context.Context, reportID string, status model.ReportStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reports SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), reportID,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: update report status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return eris.Errorf("sqlite: report %s not found", reportID)
	}
	return nil
}

func (s *SQLiteStore) GetReport(ctx context.Context, reportID string) (*model.Report, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, query, status, created_at, updated_at FROM reports WHERE id = ?`, reportID,
	)
	return scanReport(row)
}

func (s *SQLiteStore) ListReports(ctx context.Context, filter ReportFilter) ([]model.Report, error) {
	query := `SELECT id, query, status, created_at, updated_at FROM reports WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(filter.Kind))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list reports")
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	return reports, eris.Wrap(rows.Err(), "sqlite: list reports rows")
}

func (s *SQLiteStore) AddSourceRecord(ctx context.Context, rec *model.ReportSourceRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var payload any
	if len(rec.Payload) > 0 {
		payload = string(rec.Payload)
	}
	var childIndex any
	if rec.ChildIndex != nil {
		childIndex = *rec.ChildIndex
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO report_sources (id, owner_report_id, source_key, child_index, status, payload, error_message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.OwnerReportID, string(rec.SourceKey), childIndex, string(rec.Status), payload, rec.ErrorMessage, rec.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert source record")
}

func (s *SQLiteStore) ListSourceRecords(ctx context.Context, reportID string) ([]model.ReportSourceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_report_id, source_key, child_index, status, payload, error_message, created_at
		 FROM report_sources WHERE owner_report_id = ? ORDER BY created_at, source_key, child_index`,
		reportID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list source records")
	}
	defer rows.Close()

	var records []model.ReportSourceRecord
	for rows.Next() {
		var rec model.ReportSourceRecord
		var sourceKey, status string
		var childIndex sql.NullInt64
		var payload, errMsg sql.NullString

		if err := rows.Scan(&rec.ID, &rec.OwnerReportID, &sourceKey, &childIndex, &status, &payload, &errMsg, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan source record")
		}
		rec.SourceKey = model.SourceKey(sourceKey)
		rec.Status = model.SourceStatus(status)
		if childIndex.Valid {
			idx := int(childIndex.Int64)
			rec.ChildIndex = &idx
		}
		if payload.Valid {
			rec.Payload = json.RawMessage(payload.String)
		}
		if errMsg.Valid {
			rec.ErrorMessage = errMsg.String
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list source records rows")
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*model.Report, error) {
	var r model.Report
	var queryJSON, status string

	if err := row.Scan(&r.ID, &queryJSON, &status, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, eris.Wrap(err, "sqlite: report not found")
		}
		return nil, eris.Wrap(err, "sqlite: scan report")
	}
	if err := json.Unmarshal([]byte(queryJSON), &r.Query); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal query")
	}
	r.Status = model.ReportStatus(status)
	return &r, nil
}
