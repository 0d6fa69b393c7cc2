package zoning

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/parcelworks/feasibility-cli/internal/model"
)

//go:embed data/far.yaml
var farYAML []byte

//go:embed data/height.yaml
var heightYAML []byte

// farTable and heightTable are loaded once at init and never mutated, so
// concurrent lookups need no locking.
var (
	farTable    map[string]float64
	heightTable map[string]model.HeightEnvelope
)

type farFile struct {
	FAR map[string]float64 `yaml:"far"`
}

type heightEntry struct {
	Kind             string            `yaml:"kind"`
	BaseHeightFt     float64           `yaml:"base_height_ft"`
	BuildingHeightFt float64           `yaml:"building_height_ft"`
	Citation         string            `yaml:"citation"`
	Candidates       []heightCandidate `yaml:"candidates"`
}

type heightCandidate struct {
	BaseHeightFt     float64 `yaml:"base_height_ft"`
	BuildingHeightFt float64 `yaml:"building_height_ft"`
	Condition        string  `yaml:"condition"`
	Citation         string  `yaml:"citation"`
}

func init() {
	var ff farFile
	if err := yaml.Unmarshal(farYAML, &ff); err != nil {
		panic(fmt.Sprintf("zoning: embedded far table: %v", err))
	}
	farTable = ff.FAR

	var hf struct {
		Height map[string]heightEntry `yaml:"height"`
	}
	if err := yaml.Unmarshal(heightYAML, &hf); err != nil {
		panic(fmt.Sprintf("zoning: embedded height table: %v", err))
	}

	heightTable = make(map[string]model.HeightEnvelope, len(hf.Height))
	for district, entry := range hf.Height {
		heightTable[district] = buildEnvelope(district, entry)
	}
}

func buildEnvelope(district string, entry heightEntry) model.HeightEnvelope {
	switch model.HeightKind(entry.Kind) {
	case model.HeightKindFixed:
		return model.HeightEnvelope{
			Kind: model.HeightKindFixed,
			Candidates: []model.HeightPair{{
				BaseHeightFt:     entry.BaseHeightFt,
				BuildingHeightFt: entry.BuildingHeightFt,
				Citation:         entry.Citation,
			}},
			Citation: entry.Citation,
		}
	case model.HeightKindConditional:
		pairs := make([]model.HeightPair, 0, len(entry.Candidates))
		for _, c := range entry.Candidates {
			pairs = append(pairs, model.HeightPair{
				BaseHeightFt:     c.BaseHeightFt,
				BuildingHeightFt: c.BuildingHeightFt,
				Condition:        c.Condition,
				Citation:         c.Citation,
			})
		}
		citation := entry.Citation
		if citation == "" && len(entry.Candidates) > 0 {
			citation = entry.Candidates[0].Citation
		}
		return model.HeightEnvelope{
			Kind:                 model.HeightKindConditional,
			Candidates:           pairs,
			Citation:             citation,
			RequiresManualReview: true,
		}
	case model.HeightKindSeeSection:
		return model.HeightEnvelope{
			Kind:     model.HeightKindSeeSection,
			Citation: entry.Citation,
		}
	default:
		panic(fmt.Sprintf("zoning: district %s: unknown height kind %q", district, entry.Kind))
	}
}

// LookupFAR returns the maximum residential FAR for a district code. Exact
// matches win; otherwise the suffix-stripped base district is tried. The
// second return is false when neither form is in the table.
func LookupFAR(district string) (float64, bool) {
	if far, ok := farTable[district]; ok {
		return far, true
	}
	if far, ok := farTable[NormalizeDistrict(district)]; ok {
		return far, true
	}
	return 0, false
}

// LookupHeight returns the height envelope for a district code, falling back
// to the base district like LookupFAR. Districts absent from the table
// resolve as unsupported.
func LookupHeight(district string) model.HeightEnvelope {
	if env, ok := heightTable[district]; ok {
		return env
	}
	if env, ok := heightTable[NormalizeDistrict(district)]; ok {
		return env
	}
	return model.HeightEnvelope{Kind: model.HeightKindUnsupported}
}
