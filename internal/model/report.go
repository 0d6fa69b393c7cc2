package model

import (
	"encoding/json"
	"time"
)

// ReportStatus is the only externally visible top-level outcome of a run.
// It is set exclusively by the orchestrators: ready when every critical
// stage succeeded, failed otherwise.
type ReportStatus string

const (
	ReportStatusPending ReportStatus = "pending"
	ReportStatusReady   ReportStatus = "ready"
	ReportStatusFailed  ReportStatus = "failed"
)

// SourceKey identifies which pipeline stage produced a source record.
type SourceKey string

const (
	SourceLocation             SourceKey = "location"
	SourceParcel               SourceKey = "parcel"
	SourceTransitZone          SourceKey = "transit_zone"
	SourceZoningResolution     SourceKey = "zoning_resolution"
	SourceAssemblageInput      SourceKey = "assemblage_input"
	SourceAssemblageAggregate  SourceKey = "assemblage_aggregation"
	SourceAssemblageZoning     SourceKey = "assemblage_zoning_consistency"
	SourceAssemblageContamRisk SourceKey = "assemblage_contamination_risk"
)

// SourceStatus is the terminal outcome of one agent execution.
type SourceStatus string

const (
	SourceStatusSucceeded SourceStatus = "succeeded"
	SourceStatusFailed    SourceStatus = "failed"
)

// Report is the owning record for one feasibility run.
type Report struct {
	ID        string       `json:"id"`
	Query     AddressQuery `json:"query"`
	Status    ReportStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ReportSourceRecord is the append-only envelope persisted for every agent
// execution. ChildIndex is nil for single-parcel runs and 0..N-1 for
// assemblage members; join-stage records (aggregation, evaluators) also use
// nil. Rows are written once on completion and never updated, so concurrent
// sub-pipelines can persist without coordination.
type ReportSourceRecord struct {
	ID            string          `json:"id"`
	OwnerReportID string          `json:"owner_report_id"`
	SourceKey     SourceKey       `json:"source_key"`
	ChildIndex    *int            `json:"child_index,omitempty"`
	Status        SourceStatus    `json:"status"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	ErrorMessage  string          `json:"error_message,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
