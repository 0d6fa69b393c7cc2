package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/parcelworks/feasibility-cli/internal/pipeline"
	"github.com/parcelworks/feasibility-cli/internal/store"
	"github.com/parcelworks/feasibility-cli/pkg/geolocate"
	"github.com/parcelworks/feasibility-cli/pkg/parcel"
	"github.com/parcelworks/feasibility-cli/pkg/transitzone"
)

// pipelineEnv bundles the pipeline with everything that must be closed when
// a command finishes.
type pipelineEnv struct {
	Pipeline *pipeline.Pipeline
	Store    store.Store
	closers  []func()
}

func (e *pipelineEnv) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	return st, nil
}

// initPipeline wires the store and the three collaborator clients into a
// Pipeline. The transit-zone classifier is optional: without a configured
// shapefile the stage records a failure and the pipeline continues.
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	if err := cfg.Validate("pipeline"); err != nil {
		return nil, err
	}
	env := &pipelineEnv{}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	env.Store = st
	env.closers = append(env.closers, func() { _ = st.Close() })

	if err := st.Migrate(ctx); err != nil {
		env.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	locator, err := geolocate.New(ctx, cfg.Geolocate.DatabaseURL)
	if err != nil {
		env.Close()
		return nil, eris.Wrap(err, "init geolocate client")
	}
	env.closers = append(env.closers, locator.Close)

	parcels, err := parcel.New(ctx, cfg.Parcel.DatabaseURL)
	if err != nil {
		env.Close()
		return nil, eris.Wrap(err, "init parcel client")
	}
	env.closers = append(env.closers, parcels.Close)

	var transit transitzone.Classifier
	if cfg.TransitZone.ShapefilePath != "" {
		transit, err = transitzone.NewFromShapefile(cfg.TransitZone.ShapefilePath)
		if err != nil {
			zap.L().Warn("transit-zone shapefile unavailable, classification will be skipped", zap.Error(err))
			transit = unavailableClassifier{err: err}
		}
	} else {
		transit = unavailableClassifier{err: eris.New("transit-zone shapefile not configured")}
	}

	env.Pipeline = pipeline.New(st, locator, parcels, transit, pipeline.Options{
		DwellingUnitFactor:     cfg.Zoning.DwellingUnitFactor,
		MaxConcurrentAddresses: cfg.Assemblage.MaxConcurrentAddresses,
		ProviderRateLimit:      cfg.Assemblage.ProviderRateLimit,
	})
	return env, nil
}

// unavailableClassifier fails every classification with the configuration
// error; the orchestrator records the failure and keeps going.
type unavailableClassifier struct {
	err error
}

func (u unavailableClassifier) Classify(_ context.Context, _, _ float64) (transitzone.Classification, error) {
	return transitzone.Classification{Zone: transitzone.ZoneUnknown}, u.err
}
