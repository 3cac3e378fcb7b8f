package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bamic-rtp-server/internal/domain"
	"github.com/bamic-rtp-server/internal/middleware"
	"github.com/bamic-rtp-server/internal/service"
)

// EvaluateResponse is the body returned by the evaluate endpoint
type EvaluateResponse struct {
	OK            bool   `json:"ok"`
	Model         string `json:"model"`
	CorrelationID string `json:"correlation_id"`
	domain.DerivedResult
}

// GradeResponse is the body returned by the grade preview endpoint
type GradeResponse struct {
	Grade       string `json:"grade"`
	GradeNumber int    `json:"grade_number"`
	Suffix      string `json:"suffix"`
	Text        string `json:"text"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   s.configManager.GetConfig().MCP.ServerVersion,
	})
}

// handleEvaluate scores, grades and estimates return to play for an intake
func (s *Server) handleEvaluate(c *gin.Context) {
	record, ok := s.bindIntake(c)
	if !ok {
		return
	}

	result, err := s.assessor.Assess(c.Request.Context(), record)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if err := s.delay.Wait(c.Request.Context(), result.Score); err != nil {
		// Request timed out while delivering; the timeout middleware responds.
		return
	}

	c.JSON(http.StatusOK, EvaluateResponse{
		OK:            true,
		Model:         s.configManager.GetConfig().Scoring.ModelName,
		CorrelationID: c.GetString(middleware.CorrelationIDKey),
		DerivedResult: *result,
	})
}

// handleScore returns the severity score and its breakdown
func (s *Server) handleScore(c *gin.Context) {
	record, ok := s.bindValidIntake(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.assessor.Score(record))
}

// handleGrade returns a grade preview without scoring
func (s *Server) handleGrade(c *gin.Context) {
	record, ok := s.bindValidIntake(c)
	if !ok {
		return
	}

	grade := s.assessor.Grade(record)
	c.JSON(http.StatusOK, GradeResponse{
		Grade:       grade.Label(),
		GradeNumber: grade.Grade,
		Suffix:      grade.Suffix,
		Text:        grade.Text,
	})
}

// handleReturnToPlay maps a score query parameter onto a return-to-play window
func (s *Server) handleReturnToPlay(c *gin.Context) {
	score, err := strconv.Atoi(c.Query("score"))
	if err != nil || score < 0 || score > 100 {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrInvalidInput,
			"score must be an integer between 0 and 100",
			c.Query("score"),
			c.GetString(middleware.CorrelationIDKey),
		))
		return
	}
	c.JSON(http.StatusOK, s.assessor.ReturnToPlay(score))
}

// handleReference lists the scoring tables
func (s *Server) handleReference(c *gin.Context) {
	c.JSON(http.StatusOK, service.ScoringReference())
}

// bindIntake decodes the request body; a missing timestamp defaults to now
func (s *Server) bindIntake(c *gin.Context) (domain.IntakeRecord, bool) {
	var record domain.IntakeRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrInvalidInput,
			"Malformed intake record",
			err.Error(),
			c.GetString(middleware.CorrelationIDKey),
		))
		return record, false
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	return record, true
}

// bindValidIntake decodes the body and validates it when strict validation is on
func (s *Server) bindValidIntake(c *gin.Context) (domain.IntakeRecord, bool) {
	record, ok := s.bindIntake(c)
	if !ok {
		return record, false
	}
	if s.configManager.GetConfig().Scoring.StrictValidation {
		if err := domain.ValidateIntake(record); err != nil {
			s.respondError(c, err)
			return record, false
		}
	}
	return record, true
}

func (s *Server) respondError(c *gin.Context, err error) {
	correlationID := c.GetString(middleware.CorrelationIDKey)

	var invalid *domain.InvalidIntakeRecordError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusUnprocessableEntity, domain.NewAPIError(
			domain.ErrInvalidIntakeRecord,
			"Invalid intake record",
			invalid.Error(),
			correlationID,
		))
		return
	}

	s.logger.WithError(err).WithField("correlation_id", correlationID).Error("Assessment failed")
	c.JSON(http.StatusInternalServerError, domain.NewAPIError(
		domain.ErrInternalServer,
		"Assessment failed",
		"",
		correlationID,
	))
}
