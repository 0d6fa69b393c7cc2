package pipeline

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/parcelworks/feasibility-cli/internal/model"
	"github.com/parcelworks/feasibility-cli/internal/zoning"
	"github.com/parcelworks/feasibility-cli/pkg/transitzone"
)

// transitZonePayload is the persisted transit-zone stage result. A failed or
// unmatched classification surfaces as "unknown" rather than blocking the
// pipeline.
type transitZonePayload struct {
	Zone    transitzone.Zone `json:"zone"`
	Matched bool             `json:"matched"`
}

// RunSingle executes the single-parcel pipeline for one address.
//
// Location resolution is the only required stage: its failure marks the
// report failed and stops the run. Transit-zone classification and the
// parcel fetch both depend only on the resolved location and run
// concurrently; zoning resolution starts after both reach a terminal state
// and reads only persisted parcel data.
func RunSingle(ctx context.Context, p *Pipeline, address string) (*Outcome, error) {
	query, err := model.NewSingleQuery(address)
	if err != nil {
		// Input validation errors are rejected before any pipeline
		// starts and are never persisted.
		return nil, err
	}

	report, err := p.store.CreateReport(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create report")
	}

	log := zap.L().With(zap.String("report_id", report.ID), zap.String("address", address))
	log.Info("pipeline: starting single-parcel run")

	outcome := &Outcome{ReportID: report.ID}
	var sourcesMu sync.Mutex
	addSource := func(rec model.ReportSourceRecord) {
		sourcesMu.Lock()
		outcome.Sources = append(outcome.Sources, rec)
		sourcesMu.Unlock()
	}

	// Stage 1: location resolution (required).
	if err := p.waitProvider(ctx); err != nil {
		return nil, eris.Wrap(err, "pipeline: rate limit")
	}
	loc, locErr := p.locator.Resolve(ctx, address)
	addSource(p.recordSource(ctx, report.ID, model.SourceLocation, nil, loc, locErr))
	if locErr != nil {
		log.Warn("pipeline: location resolution failed", zap.Error(locErr))
		p.setStatus(ctx, report.ID, model.ReportStatusFailed)
		outcome.Status = model.ReportStatusFailed
		return outcome, nil
	}

	// Stages 2 and 3 depend only on stage 1 and run concurrently. Both
	// must reach a terminal state before zoning resolution begins.
	var (
		parcelRec *model.ParcelRecord
		parcelErr error
	)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Stage 2: transit-zone classification (optional).
		cls, err := p.transit.Classify(gCtx, loc.Latitude, loc.Longitude)
		if err != nil {
			log.Warn("pipeline: transit-zone classification failed", zap.Error(err))
			addSource(p.recordSource(ctx, report.ID, model.SourceTransitZone, nil, nil, err))
			return nil
		}
		payload := transitZonePayload{Zone: cls.Zone, Matched: cls.Matched}
		if !cls.Matched {
			payload.Zone = transitzone.ZoneUnknown
		}
		addSource(p.recordSource(ctx, report.ID, model.SourceTransitZone, nil, payload, nil))
		return nil
	})

	g.Go(func() error {
		// Stage 3: parcel-data fetch (optional).
		if err := p.waitProvider(gCtx); err != nil {
			parcelErr = err
		} else {
			parcelRec, parcelErr = p.parcels.Fetch(gCtx, loc.ParcelID)
		}
		if parcelErr != nil {
			log.Warn("pipeline: parcel fetch failed", zap.Error(parcelErr))
		}
		addSource(p.recordSource(ctx, report.ID, model.SourceParcel, nil, parcelRec, parcelErr))
		return nil
	})
	_ = g.Wait()

	// Stage 4: zoning resolution (optional). Pure computation over the
	// fetched parcel record; never calls external services. A missing
	// record from the upstream optional failure is itself recorded as
	// failed, not silently skipped.
	if parcelRec == nil {
		depErr := eris.New("pipeline: parcel data unavailable, zoning resolution skipped (dependency-missing)")
		addSource(p.recordSource(ctx, report.ID, model.SourceZoningResolution, nil, nil, depErr))
	} else {
		metrics := zoning.ResolveParcel(parcelRec)
		addSource(p.recordSource(ctx, report.ID, model.SourceZoningResolution, nil, metrics, nil))
	}

	p.setStatus(ctx, report.ID, model.ReportStatusReady)
	outcome.Status = model.ReportStatusReady
	log.Info("pipeline: single-parcel run complete",
		zap.Int("sources", len(outcome.Sources)),
	)
	return outcome, nil
}
