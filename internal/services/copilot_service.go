package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"scholaris/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CopilotService produces narrative summaries of a student's term for
// teachers and guardians. When an LLM endpoint is configured it drafts the
// summary there; otherwise it falls back to a deterministic template built
// from the same facts, so the endpoint is always usable.
type CopilotService interface {
	StudentSummary(ctx context.Context, tenantID, studentID uuid.UUID, from, to time.Time) (*StudentSummary, error)
}

type StudentSummary struct {
	StudentID  uuid.UUID          `json:"student_id"`
	From       time.Time          `json:"from"`
	To         time.Time          `json:"to"`
	Narrative  string             `json:"narrative"`
	Generated  string             `json:"generated"` // "llm" or "template"
	Attendance *AttendanceSummary `json:"attendance"`
}

type CopilotConfig struct {
	APIURL string
	APIKey string
	Model  string
}

type copilotService struct {
	cfg            CopilotConfig
	studentRepo    repositories.StudentRepository
	disciplineRepo repositories.DisciplineRepository
	attendance     AttendanceService
	client         *http.Client
	logger         zerolog.Logger
}

func NewCopilotService(cfg CopilotConfig, studentRepo repositories.StudentRepository, disciplineRepo repositories.DisciplineRepository, attendance AttendanceService, logger zerolog.Logger) CopilotService {
	return &copilotService{
		cfg:            cfg,
		studentRepo:    studentRepo,
		disciplineRepo: disciplineRepo,
		attendance:     attendance,
		client:         &http.Client{Timeout: 30 * time.Second},
		logger:         logger,
	}
}

func (s *copilotService) StudentSummary(ctx context.Context, tenantID, studentID uuid.UUID, from, to time.Time) (*StudentSummary, error) {
	student, err := s.studentRepo.GetByID(ctx, tenantID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	att, err := s.attendance.AttendanceSummary(ctx, tenantID, studentID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance summary: %w", err)
	}

	openRecords, err := s.disciplineRepo.List(ctx, tenantID, &studentID, "OPEN", 10, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list discipline records: %w", err)
	}

	name := student.FirstName + " " + student.LastName
	facts := buildSummaryFacts(name, att, len(openRecords))

	summary := &StudentSummary{
		StudentID:  studentID,
		From:       from,
		To:         to,
		Attendance: att,
	}

	if s.cfg.APIURL != "" && s.cfg.APIKey != "" {
		narrative, err := s.draftWithLLM(ctx, facts)
		if err == nil {
			summary.Narrative = narrative
			summary.Generated = "llm"
			return summary, nil
		}
		s.logger.Warn().Err(err).Msg("llm summary failed, using template fallback")
	}

	summary.Narrative = templateNarrative(name, att, len(openRecords))
	summary.Generated = "template"
	return summary, nil
}

func buildSummaryFacts(name string, att *AttendanceSummary, openDiscipline int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Student: %s\n", name)
	fmt.Fprintf(&b, "Period: %s to %s\n", att.From.Format("2006-01-02"), att.To.Format("2006-01-02"))
	fmt.Fprintf(&b, "Attendance: %d present, %d late, %d absent, %d excused of %d days (%.0f%% present rate)\n",
		att.Present, att.Late, att.Absent, att.Excused, att.Total, att.PresentRate*100)
	fmt.Fprintf(&b, "Open discipline records: %d\n", openDiscipline)
	return b.String()
}

func templateNarrative(name string, att *AttendanceSummary, openDiscipline int) string {
	var b strings.Builder
	if att.Total == 0 {
		fmt.Fprintf(&b, "No attendance was recorded for %s in this period.", name)
	} else {
		fmt.Fprintf(&b, "%s attended %d of %d school days (%.0f%%).", name, att.Present+att.Late, att.Total, att.PresentRate*100)
		if att.Late > 0 {
			fmt.Fprintf(&b, " %d of those days were late arrivals.", att.Late)
		}
		if att.Absent > 0 {
			fmt.Fprintf(&b, " There were %d unexcused absences.", att.Absent)
		}
	}
	if openDiscipline > 0 {
		fmt.Fprintf(&b, " %d discipline record(s) remain open and need follow-up.", openDiscipline)
	}
	return b.String()
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (s *copilotService) draftWithLLM(ctx context.Context, facts string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: s.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You write short, factual progress summaries for school staff and guardians. Use only the facts provided. Two to four sentences, plain language, no speculation."},
			{Role: "user", Content: facts},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode llm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build llm request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("llm endpoint returned %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode llm response: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("llm returned no content")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
