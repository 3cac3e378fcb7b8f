package domain

import (
	"context"
)

// InjuryAssessor evaluates intake records into derived results
type InjuryAssessor interface {
	Assess(ctx context.Context, record IntakeRecord) (*DerivedResult, error)
	Score(record IntakeRecord) ScoreResult
	Grade(record IntakeRecord) GradeResult
	ReturnToPlay(score int) DurationEstimate
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetCacheConfig() *CacheConfig
	Validate() error
	IsProduction() bool
	IsDevelopment() bool
}
