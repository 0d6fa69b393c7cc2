// Package pipeline orchestrates the acquisition and derivation stages that
// turn street addresses into persisted feasibility reports.
package pipeline

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/parcelworks/feasibility-cli/internal/model"
	"github.com/parcelworks/feasibility-cli/internal/store"
	"github.com/parcelworks/feasibility-cli/pkg/geolocate"
	"github.com/parcelworks/feasibility-cli/pkg/parcel"
	"github.com/parcelworks/feasibility-cli/pkg/transitzone"
)

// Criticality tags a stage as required or optional. A required stage's
// failure aborts the owning pipeline; an optional stage's failure is
// recorded and processing continues.
type Criticality string

const (
	CriticalityRequired Criticality = "required"
	CriticalityOptional Criticality = "optional"
)

// Options carries the orchestrators' tunables.
type Options struct {
	// DwellingUnitFactor is the floor area per permitted dwelling unit.
	DwellingUnitFactor float64
	// MaxConcurrentAddresses bounds assemblage sub-pipeline fan-out.
	MaxConcurrentAddresses int
	// ProviderRateLimit caps collaborator calls per second across
	// concurrent sub-pipelines. Zero disables limiting.
	ProviderRateLimit float64
}

// Pipeline sequences collaborator calls and persists one source record per
// agent execution.
type Pipeline struct {
	store   store.Store
	locator geolocate.Resolver
	parcels parcel.Fetcher
	transit transitzone.Classifier
	opts    Options
	limiter *rate.Limiter
}

// New creates a Pipeline with all dependencies.
func New(st store.Store, locator geolocate.Resolver, parcels parcel.Fetcher, transit transitzone.Classifier, opts Options) *Pipeline {
	if opts.MaxConcurrentAddresses <= 0 {
		opts.MaxConcurrentAddresses = 4
	}
	var limiter *rate.Limiter
	if opts.ProviderRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.ProviderRateLimit), 1)
	}
	return &Pipeline{
		store:   st,
		locator: locator,
		parcels: parcels,
		transit: transit,
		opts:    opts,
		limiter: limiter,
	}
}

// Outcome is the caller-visible result of a run: the report-level status
// plus every persisted source record.
type Outcome struct {
	ReportID    string                       `json:"report_id"`
	Status      model.ReportStatus           `json:"status"`
	Sources     []model.ReportSourceRecord   `json:"sources"`
	Aggregation *model.AssemblageAggregation `json:"aggregation,omitempty"`
}

// waitProvider blocks until the shared provider rate limit admits a call.
func (p *Pipeline) waitProvider(ctx context.Context) error {
	if p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}

// recordSource persists one terminal source record and echoes it back for
// the outcome. Persistence failures are logged, not propagated: the
// computed result is still the caller's to use.
func (p *Pipeline) recordSource(ctx context.Context, reportID string, key model.SourceKey, childIndex *int, payload any, stageErr error) model.ReportSourceRecord {
	rec := model.ReportSourceRecord{
		OwnerReportID: reportID,
		SourceKey:     key,
		ChildIndex:    childIndex,
	}

	if stageErr != nil {
		rec.Status = model.SourceStatusFailed
		rec.ErrorMessage = stageErr.Error()
	} else {
		rec.Status = model.SourceStatusSucceeded
		if payload != nil {
			data, err := json.Marshal(payload)
			if err != nil {
				zap.L().Warn("pipeline: marshal source payload",
					zap.String("source_key", string(key)),
					zap.Error(err),
				)
			} else {
				rec.Payload = data
			}
		}
	}

	if err := p.store.AddSourceRecord(ctx, &rec); err != nil {
		zap.L().Warn("pipeline: persist source record",
			zap.String("report_id", reportID),
			zap.String("source_key", string(key)),
			zap.Error(err),
		)
	}
	return rec
}

// setStatus writes the report-level status, logging rather than failing on
// persistence errors.
func (p *Pipeline) setStatus(ctx context.Context, reportID string, status model.ReportStatus) {
	if err := p.store.UpdateReportStatus(ctx, reportID, status); err != nil {
		zap.L().Warn("pipeline: update report status",
			zap.String("report_id", reportID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
	}
}
