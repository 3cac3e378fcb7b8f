package service

import (
	"sort"
)

// WeightTable is an immutable lookup from categorical code to weight with an
// explicit fallback for codes outside the table.
type WeightTable struct {
	name     string
	weights  map[int]float64
	fallback float64
}

func newWeightTable(name string, fallback float64, weights map[int]float64) WeightTable {
	copied := make(map[int]float64, len(weights))
	for code, w := range weights {
		copied[code] = w
	}
	return WeightTable{name: name, weights: copied, fallback: fallback}
}

// Weight returns the weight for code, or the fallback when code is unknown
func (t WeightTable) Weight(code int) float64 {
	if w, ok := t.weights[code]; ok {
		return w
	}
	return t.fallback
}

// Name returns the table name
func (t WeightTable) Name() string { return t.name }

// Fallback returns the weight used for unknown codes
func (t WeightTable) Fallback() float64 { return t.fallback }

// WeightEntry is a single code/weight pair
type WeightEntry struct {
	Code   int     `json:"code"`
	Weight float64 `json:"weight"`
}

// Entries lists the table ordered by code
func (t WeightTable) Entries() []WeightEntry {
	entries := make([]WeightEntry, 0, len(t.weights))
	for code, w := range t.weights {
		entries = append(entries, WeightEntry{Code: code, Weight: w})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Code < entries[j].Code })
	return entries
}

// Anatomical-risk weights per muscle. Hamstring and adductor codes carry the
// highest weights.
var muscleWeights = newWeightTable("muscle", 1.5, map[int]float64{
	1: 3.0, 2: 2.5, 3: 2.5, 4: 2.0, 5: 2.2, 6: 1.8, 7: 1.8,
	8: 1.7, 9: 2.2, 10: 2.0, 11: 1.9, 12: 2.0, 13: 1.8, 14: 1.6,
})

var mechanismWeights = newWeightTable("mechanism", 2, map[int]float64{
	1: 5, 2: 5, 3: 3, 4: 2, 5: 1.5,
})

var segmentWeights = newWeightTable("segment", 2, map[int]float64{
	1: 4, 2: 2.5, 3: 2.0,
})

// Monotonically increasing with structural severity.
var anatomicWeights = newWeightTable("anatomic", 1, map[int]float64{
	1: 1.0, 2: 2.0, 3: 3.5, 4: 4.5,
})

// Multipliers applied to each categorical weight
const (
	muscleMultiplier    = 4
	mechanismMultiplier = 2
	segmentMultiplier   = 2
	anatomicMultiplier  = 3
	mlgrMultiplier      = 4
	tendonMultiplier    = 5
)

// VolumeStep maps volume percentages up to and including UpTo to Points
type VolumeStep struct {
	UpTo   float64 `json:"up_to"`
	Points float64 `json:"points"`
}

var volumeSteps = []VolumeStep{
	{UpTo: 5, Points: 1},
	{UpTo: 25, Points: 3},
	{UpTo: 50, Points: 6},
	{UpTo: 75, Points: 9},
	{UpTo: 100, Points: 12},
}

const (
	edemaDivisor = 10
	edemaCap     = 12
	gapDivisor   = 5
	gapCap       = 20

	completeTearPoints = 15
	partialTearPoints  = 6
	reinjuryPoints     = 4

	// rawPointCeiling approximates the worst-case accumulation and is a fixed
	// calibration constant, not derived from the tables above.
	rawPointCeiling = 180
)

// Reference describes the fixed scoring tables
type Reference struct {
	Muscle          []WeightEntry      `json:"muscle"`
	Mechanism       []WeightEntry      `json:"mechanism"`
	Segment         []WeightEntry      `json:"segment"`
	Anatomic        []WeightEntry      `json:"anatomic"`
	Fallbacks       map[string]float64 `json:"fallbacks"`
	VolumeSteps     []VolumeStep       `json:"volume_steps"`
	DurationBands   []DurationBand     `json:"duration_bands"`
	RawPointCeiling float64            `json:"raw_point_ceiling"`
}

// ScoringReference returns a copy of the scoring tables for display
func ScoringReference() Reference {
	tables := []WeightTable{muscleWeights, mechanismWeights, segmentWeights, anatomicWeights}
	fallbacks := make(map[string]float64, len(tables))
	for _, t := range tables {
		fallbacks[t.Name()] = t.Fallback()
	}

	return Reference{
		Muscle:          muscleWeights.Entries(),
		Mechanism:       mechanismWeights.Entries(),
		Segment:         segmentWeights.Entries(),
		Anatomic:        anatomicWeights.Entries(),
		Fallbacks:       fallbacks,
		VolumeSteps:     append([]VolumeStep(nil), volumeSteps...),
		DurationBands:   DurationBands(),
		RawPointCeiling: rawPointCeiling,
	}
}
