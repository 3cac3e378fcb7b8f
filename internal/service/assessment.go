package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bamic-rtp-server/internal/domain"
)

// AssessmentService wraps the pure evaluation pipeline with validation,
// result caching and structured logging.
type AssessmentService struct {
	logger           *logrus.Logger
	cache            ResultCache
	strictValidation bool
}

// AssessmentOption configures an AssessmentService
type AssessmentOption func(*AssessmentService)

// WithResultCache enables result caching
func WithResultCache(cache ResultCache) AssessmentOption {
	return func(s *AssessmentService) {
		s.cache = cache
	}
}

// WithStrictValidation rejects out-of-range intakes before scoring
func WithStrictValidation(strict bool) AssessmentOption {
	return func(s *AssessmentService) {
		s.strictValidation = strict
	}
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(logger *logrus.Logger, opts ...AssessmentOption) *AssessmentService {
	s := &AssessmentService{logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assess evaluates an intake record into a derived result
func (s *AssessmentService) Assess(ctx context.Context, record domain.IntakeRecord) (*domain.DerivedResult, error) {
	startTime := time.Now()

	if s.strictValidation {
		if err := domain.ValidateIntake(record); err != nil {
			s.logger.WithError(err).Info("Rejected intake record")
			return nil, fmt.Errorf("intake record rejected: %w", err)
		}
	}

	var key string
	if s.cache != nil {
		key = CacheKey(record)
		if cached, ok := s.cache.Get(ctx, key); ok {
			result := cached.WithInput(record)
			s.logResult(&result, true, time.Since(startTime))
			return &result, nil
		}
	}

	result := Evaluate(record)
	if s.cache != nil {
		s.cache.Set(ctx, key, result.Assessment())
	}

	s.logResult(&result, false, time.Since(startTime))
	return &result, nil
}

// Score returns the severity score with its per-term breakdown
func (s *AssessmentService) Score(record domain.IntakeRecord) domain.ScoreResult {
	result := ScoreIntake(record)
	s.logger.WithFields(logrus.Fields{
		"score":      result.Score,
		"raw_points": result.RawPoints,
	}).Debug("Scored intake record")
	return result
}

// Grade returns the structural grade of an intake record
func (s *AssessmentService) Grade(record domain.IntakeRecord) domain.GradeResult {
	result := ClassifyGrade(record)
	s.logger.WithField("grade", result.Label()).Debug("Graded intake record")
	return result
}

// ReturnToPlay returns the return-to-play window for a score
func (s *AssessmentService) ReturnToPlay(score int) domain.DurationEstimate {
	return EstimateReturnToPlay(score)
}

func (s *AssessmentService) logResult(result *domain.DerivedResult, cacheHit bool, elapsed time.Duration) {
	s.logger.WithFields(logrus.Fields{
		"score":           result.Score,
		"raw_points":      result.RawPoints,
		"grade":           result.Grade,
		"rtp_min_days":    result.Duration.MinDays,
		"rtp_max_days":    result.Duration.MaxDays,
		"cache_hit":       cacheHit,
		"processing_time": elapsed,
	}).Info("Injury assessment completed")
}
