package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bamic-rtp-server/internal/domain"
)

// IntakeParams defines the flat intake accepted by the assessment tools
type IntakeParams struct {
	Muscle            int     `json:"muscle" jsonschema:"muscle code, 1-14"`
	MuscleLabel       string  `json:"muscle_label,omitempty" jsonschema:"display label for the muscle"`
	Mechanism         int     `json:"mechanism" jsonschema:"mechanism code, 1-5"`
	MechanismLabel    string  `json:"mechanism_label,omitempty" jsonschema:"display label for the mechanism"`
	Segment           int     `json:"segment" jsonschema:"segment code: 1 proximal, 2 middle, 3 distal"`
	SegmentLabel      string  `json:"segment_label,omitempty" jsonschema:"display label for the segment"`
	Anatomic          int     `json:"anatomic" jsonschema:"anatomic pattern: 1 intramuscular, 2 myofascial, 3 myotendinous, 4 intratendon"`
	AnatomicLabel     string  `json:"anatomic_label,omitempty" jsonschema:"display label for the anatomic pattern"`
	VolumePercent     float64 `json:"volume_percent" jsonschema:"affected cross-sectional volume in percent, 0-100"`
	EdemaLengthMM     float64 `json:"edema_length_mm,omitempty" jsonschema:"longitudinal edema length in millimetres"`
	RuptureGapMM      float64 `json:"rupture_gap_mm,omitempty" jsonschema:"retraction gap in millimetres"`
	MLGR              int     `json:"mlgr,omitempty" jsonschema:"MLG-R grade, 0-3"`
	MLGRLabel         string  `json:"mlgr_label,omitempty" jsonschema:"display label for the MLG-R grade"`
	TendonInvolvement int     `json:"tendon_involvement,omitempty" jsonschema:"tendon involvement level, 0-3"`
	TendonLabel       string  `json:"tendon_involvement_label,omitempty" jsonschema:"display label for the tendon involvement"`
	CompleteTear      int     `json:"complete_tear,omitempty" jsonschema:"0 none, 1 complete, 2 partial significant"`
	CompleteTearLabel string  `json:"complete_tear_label,omitempty" jsonschema:"display label for the tear status"`
	Reinjury          int     `json:"reinjury_last6mo,omitempty" jsonschema:"1 if reinjured within the last six months"`
	ReinjuryLabel     string  `json:"reinjury_last6mo_label,omitempty" jsonschema:"display label for the reinjury status"`
	Timestamp         string  `json:"timestamp,omitempty" jsonschema:"RFC 3339 intake time, defaults to now"`
}

// ReturnToPlayParams defines parameters for the estimate_return_to_play tool
type ReturnToPlayParams struct {
	Score int `json:"score" jsonschema:"severity score, 0-100"`
}

// GradeResult is the body returned by the classify_injury_grade tool
type GradeResult struct {
	Grade string `json:"grade"`
	Text  string `json:"text"`
}

// Record converts the tool parameters into an intake record
func (p IntakeParams) Record() (domain.IntakeRecord, error) {
	record := domain.IntakeRecord{
		Muscle:            domain.CodedValue{Code: p.Muscle, Label: p.MuscleLabel},
		Mechanism:         domain.CodedValue{Code: p.Mechanism, Label: p.MechanismLabel},
		Segment:           domain.CodedValue{Code: p.Segment, Label: p.SegmentLabel},
		Anatomic:          domain.CodedValue{Code: p.Anatomic, Label: p.AnatomicLabel},
		VolumePercent:     p.VolumePercent,
		EdemaLengthMM:     p.EdemaLengthMM,
		RuptureGapMM:      p.RuptureGapMM,
		MLGR:              domain.CodedValue{Code: p.MLGR, Label: p.MLGRLabel},
		TendonInvolvement: domain.CodedValue{Code: p.TendonInvolvement, Label: p.TendonLabel},
		CompleteTear:      domain.CodedValue{Code: p.CompleteTear, Label: p.CompleteTearLabel},
		ReinjuryLast6Mo:   domain.CodedValue{Code: p.Reinjury, Label: p.ReinjuryLabel},
		Timestamp:         time.Now().UTC(),
	}

	if p.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, p.Timestamp)
		if err != nil {
			return record, domain.NewInvalidIntakeRecordError("timestamp", "must be RFC 3339", p.Timestamp)
		}
		record.Timestamp = ts
	}
	return record, nil
}

// handleEvaluate handles the evaluate_muscle_injury tool invocation
func (s *Server) handleEvaluate(ctx context.Context, req *mcp.CallToolRequest, params IntakeParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolEvaluate).Info("Tool invoked")

	record, err := params.Record()
	if err != nil {
		return s.createErrorResult("Invalid intake record", err), nil, nil
	}

	result, err := s.assessor.Assess(ctx, record)
	if err != nil {
		var invalid *domain.InvalidIntakeRecordError
		if errors.As(err, &invalid) {
			return s.createErrorResult("Invalid intake record", err), nil, nil
		}
		return nil, nil, fmt.Errorf("assessment failed: %w", err)
	}

	return s.createJSONResult(result)
}

// handleClassify handles the classify_injury_grade tool invocation
func (s *Server) handleClassify(ctx context.Context, req *mcp.CallToolRequest, params IntakeParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolClassify).Info("Tool invoked")

	record, err := params.Record()
	if err != nil {
		return s.createErrorResult("Invalid intake record", err), nil, nil
	}
	if s.strict {
		if err := domain.ValidateIntake(record); err != nil {
			return s.createErrorResult("Invalid intake record", err), nil, nil
		}
	}

	grade := s.assessor.Grade(record)
	return s.createJSONResult(GradeResult{Grade: grade.Label(), Text: grade.Text})
}

// handleReturnToPlay handles the estimate_return_to_play tool invocation
func (s *Server) handleReturnToPlay(ctx context.Context, req *mcp.CallToolRequest, params ReturnToPlayParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolReturnToPlay).Info("Tool invoked")

	if params.Score < 0 || params.Score > 100 {
		return s.createErrorResult("Invalid score", fmt.Errorf("score must be between 0 and 100, got %d", params.Score)), nil, nil
	}

	return s.createJSONResult(s.assessor.ReturnToPlay(params.Score))
}

// createJSONResult renders a tool result as indented JSON text
func (s *Server) createJSONResult(v any) (*mcp.CallToolResult, any, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(body)},
		},
	}, nil, nil
}

// createErrorResult creates a standardized error result for tool calls
func (s *Server) createErrorResult(message string, err error) *mcp.CallToolResult {
	errorText := fmt.Sprintf("Error: %s", message)
	if err != nil {
		errorText += fmt.Sprintf(" - %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: errorText},
		},
		IsError: true,
	}
}
