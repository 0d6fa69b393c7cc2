package pipeline

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/parcelworks/feasibility-cli/internal/evaluate"
	"github.com/parcelworks/feasibility-cli/internal/model"
	"github.com/parcelworks/feasibility-cli/internal/zoning"
)

// assemblageInputPayload is the per-child summary persisted once a
// sub-pipeline reaches its terminal state.
type assemblageInputPayload struct {
	Address   string `json:"address"`
	ParcelID  string `json:"parcel_id,omitempty"`
	HasParcel bool   `json:"has_parcel"`
}

// RunAssemblage executes the multi-parcel pipeline over two or more
// addresses.
//
// Sub-pipelines are mutually independent and run with bounded concurrency;
// the join stage blocks until every sub-pipeline is terminal. Any address
// whose location resolution failed marks the whole report failed and no
// aggregation records are written. Lots whose parcel fetch failed are
// excluded from the sums and recorded as missing.
func RunAssemblage(ctx context.Context, p *Pipeline, addresses []string) (*Outcome, error) {
	query, err := model.NewAssemblageQuery(addresses)
	if err != nil {
		// Input validation errors are rejected before any pipeline
		// starts and are never persisted.
		return nil, err
	}

	report, err := p.store.CreateReport(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create report")
	}

	log := zap.L().With(zap.String("report_id", report.ID), zap.Int("addresses", len(query.Addresses)))
	log.Info("pipeline: starting assemblage run")

	outcome := &Outcome{ReportID: report.ID}
	var sourcesMu sync.Mutex
	addSource := func(rec model.ReportSourceRecord) {
		sourcesMu.Lock()
		outcome.Sources = append(outcome.Sources, rec)
		sourcesMu.Unlock()
	}

	lots := make([]LotResult, len(query.Addresses))
	locationFailures := make([]bool, len(query.Addresses))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.MaxConcurrentAddresses)

	for i, address := range query.Addresses {
		g.Go(func() error {
			childIndex := i
			lot := LotResult{Index: childIndex, Address: address}

			// Sub-pipeline stage 1: location resolution (required).
			var locErr error
			if locErr = p.waitProvider(gCtx); locErr == nil {
				lot.Location, locErr = p.locator.Resolve(gCtx, address)
			}
			addSource(p.recordSource(ctx, report.ID, model.SourceLocation, &childIndex, lot.Location, locErr))
			if locErr != nil {
				zap.L().Warn("pipeline: assemblage location failed",
					zap.String("report_id", report.ID),
					zap.Int("child", childIndex),
					zap.Error(locErr),
				)
				locationFailures[childIndex] = true
				lots[childIndex] = lot
				return nil
			}

			// Sub-pipeline stage 2: parcel-data fetch (optional).
			var parcelErr error
			if parcelErr = p.waitProvider(gCtx); parcelErr == nil {
				lot.Parcel, parcelErr = p.parcels.Fetch(gCtx, lot.Location.ParcelID)
			}
			addSource(p.recordSource(ctx, report.ID, model.SourceParcel, &childIndex, lot.Parcel, parcelErr))

			if lot.Parcel != nil {
				profile, flags := zoning.BuildProfile(lot.Parcel)
				metrics := zoning.Resolve(profile, flags, lot.Parcel)
				lot.Profile = profile
				lot.Metrics = &metrics
			}

			payload := assemblageInputPayload{
				Address:   address,
				ParcelID:  lot.Location.ParcelID,
				HasParcel: lot.Parcel != nil,
			}
			addSource(p.recordSource(ctx, report.ID, model.SourceAssemblageInput, &childIndex, payload, nil))

			lots[childIndex] = lot
			return nil
		})
	}
	_ = g.Wait()

	// Join stage: every sub-pipeline is terminal past this point.
	for _, failed := range locationFailures {
		if failed {
			p.setStatus(ctx, report.ID, model.ReportStatusFailed)
			outcome.Status = model.ReportStatusFailed
			log.Warn("pipeline: assemblage failed, at least one address did not resolve")
			return outcome, nil
		}
	}

	agg := BuildAggregation(lots, p.opts.DwellingUnitFactor)
	addSource(p.recordSource(ctx, report.ID, model.SourceAssemblageAggregate, nil, agg, nil))
	outcome.Aggregation = &agg

	evalLots := make([]evaluate.LotInput, len(lots))
	for i, lot := range lots {
		evalLots[i] = evaluate.LotInput{
			Address:  lot.Address,
			ParcelID: lot.Location.ParcelID,
			Record:   lot.Parcel,
		}
	}

	consistency := evaluate.Consistency(evalLots)
	addSource(p.recordSource(ctx, report.ID, model.SourceAssemblageZoning, nil, consistency, nil))

	contamination := evaluate.ContaminationRisk(evalLots)
	addSource(p.recordSource(ctx, report.ID, model.SourceAssemblageContamRisk, nil, contamination, nil))

	p.setStatus(ctx, report.ID, model.ReportStatusReady)
	outcome.Status = model.ReportStatusReady
	log.Info("pipeline: assemblage run complete",
		zap.Float64("combined_lot_area", agg.CombinedLotAreaSqft),
		zap.Float64("total_buildable", agg.TotalBuildableSqft),
		zap.String("far_method", string(agg.FARMethod)),
	)
	return outcome, nil
}
