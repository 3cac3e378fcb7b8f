package service

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamic-rtp-server/internal/domain"
)

func TestEvaluate_MinimalRecord(t *testing.T) {
	record := minimalIntake()
	result := Evaluate(record)

	assert.Equal(t, 19, result.Score)
	assert.Equal(t, 34.0, result.RawPoints)
	assert.Equal(t, "0", result.Grade)
	assert.Equal(t, "Grade 0 (negative MRI / minimal change)", result.GradeText)
	assert.Equal(t, 8, result.Duration.MinDays)
	assert.Equal(t, 21, result.Duration.MaxDays)
	assert.Equal(t, record, result.Input)
}

func TestEvaluate_CompleteTear(t *testing.T) {
	record := minimalIntake()
	record.CompleteTear.Code = domain.TearComplete
	record.VolumePercent = 80
	record.Anatomic.Code = domain.AnatomicIntratendon

	result := Evaluate(record)

	// 12 + 10 + 8 + 13.5 + 12 + 15
	assert.Equal(t, 70.5, result.RawPoints)
	assert.Equal(t, 39, result.Score)
	assert.Equal(t, "4c", result.Grade)
	assert.Equal(t, 22, result.Duration.MinDays)
	assert.Equal(t, 42, result.Duration.MaxDays)
}

func TestEvaluate_ModerateMyofascial(t *testing.T) {
	record := minimalIntake()
	record.VolumePercent = 10
	record.Anatomic.Code = domain.AnatomicMyofascial

	result := Evaluate(record)

	assert.Equal(t, "2a", result.Grade)
	assert.Equal(t, 39.0, result.RawPoints)
	assert.Equal(t, 22, result.Score)
}

func TestEvaluate_DurationFollowsScore(t *testing.T) {
	record := minimalIntake()
	record.EdemaLengthMM = 120
	record.RuptureGapMM = 60
	record.MLGR.Code = 3

	result := Evaluate(record)
	assert.Equal(t, EstimateReturnToPlay(result.Score), result.Duration)
}

func TestEvaluate_JSONRoundTrip(t *testing.T) {
	record := minimalIntake()
	record.EdemaLengthMM = 37.5
	record.Timestamp = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	result := Evaluate(record)

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded domain.DerivedResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, result, decoded)
}

func TestEvaluate_Concurrent(t *testing.T) {
	record := minimalIntake()
	expected := Evaluate(record)

	var wg sync.WaitGroup
	results := make([]domain.DerivedResult, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Evaluate(record)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, expected, r)
	}
}

func TestScoringReference(t *testing.T) {
	ref := ScoringReference()

	require.Len(t, ref.Muscle, 14)
	assert.Equal(t, WeightEntry{Code: 1, Weight: 3.0}, ref.Muscle[0])
	assert.Equal(t, WeightEntry{Code: 14, Weight: 1.6}, ref.Muscle[13])
	assert.Len(t, ref.Mechanism, 5)
	assert.Len(t, ref.Segment, 3)
	assert.Len(t, ref.Anatomic, 4)
	assert.Equal(t, 1.5, ref.Fallbacks["muscle"])
	assert.Equal(t, 1.0, ref.Fallbacks["anatomic"])
	assert.Len(t, ref.VolumeSteps, 5)
	assert.Len(t, ref.DurationBands, 5)
	assert.Equal(t, 180.0, ref.RawPointCeiling)

	for i := 1; i < len(ref.Anatomic); i++ {
		assert.Greater(t, ref.Anatomic[i].Weight, ref.Anatomic[i-1].Weight)
	}
}
