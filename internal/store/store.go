package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/parcelworks/feasibility-cli/internal/model"
)

// ReportFilter specifies criteria for listing reports.
type ReportFilter struct {
	Status model.ReportStatus `json:"status,omitempty"`
	Kind   model.QueryKind    `json:"kind,omitempty"`
	Limit  int                `json:"limit,omitempty"`
	Offset int                `json:"offset,omitempty"`
}

// Store defines the persistence interface for feasibility reports.
//
// Source records are append-only: one row per agent execution, written on
// completion, never updated in place. The report's own status column is the
// only mutable field and is written solely by the orchestrators.
type Store interface {
	// Reports
	CreateReport(ctx context.Context, query model.AddressQuery) (*model.Report, error)
	UpdateReportStatus(ctx context.Context, reportID string, status model.ReportStatus) error
	GetReport(ctx context.Context, reportID string) (*model.Report, error)
	ListReports(ctx context.Context, filter ReportFilter) ([]model.Report, error)

	// Source records
	AddSourceRecord(ctx context.Context, rec *model.ReportSourceRecord) error
	ListSourceRecords(ctx context.Context, reportID string) ([]model.ReportSourceRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Config selects and configures the storage backend.
type Config struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = "feasibility.db"
		}
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
