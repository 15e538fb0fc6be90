package service

import (
	"context"
	"fmt"
	"strings"

	"evstation-backend/internal/assistant"
	"evstation-backend/internal/domain"
	"evstation-backend/internal/logger"
	"evstation-backend/internal/repository"
)

type assistantService struct {
	model       assistant.ModelClient
	kb          *assistant.KnowledgeBase
	vehicleRepo repository.VehicleRepository
	stationRepo repository.StationRepository
}

func NewAssistantService(
	model assistant.ModelClient,
	kb *assistant.KnowledgeBase,
	vehicleRepo repository.VehicleRepository,
	stationRepo repository.StationRepository,
) AssistantService {
	return &assistantService{
		model:       model,
		kb:          kb,
		vehicleRepo: vehicleRepo,
		stationRepo: stationRepo,
	}
}

func (s *assistantService) Chat(ctx context.Context, userID int32, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", domain.ValidationError("message is required")
	}

	prompt := s.buildPrompt(ctx, message)
	reply, err := s.model.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("assistant chat: %w", err)
	}
	logger.Info("Assistant replied", "user_id", userID, "message_len", len(message))
	return reply, nil
}

// buildPrompt combines the static knowledge base with live fleet numbers.
// Context lookups are best-effort: a failed count degrades the prompt, not
// the request.
func (s *assistantService) buildPrompt(ctx context.Context, message string) string {
	var b strings.Builder
	b.WriteString("You are the support assistant of a station-based electric vehicle rental service.\n")
	b.WriteString("Answer in the language of the question. Be concise and only use the facts below.\n\n")
	b.WriteString(s.kb.Render())
	b.WriteString("\n## Live status\n")

	if total, err := s.vehicleRepo.Count(ctx, nil); err == nil {
		b.WriteString(fmt.Sprintf("- Fleet size: %d vehicles\n", total))
	}
	if available, err := s.vehicleRepo.ListByStatus(ctx, domain.VehicleStatusAvailable, nil); err == nil {
		b.WriteString(fmt.Sprintf("- Available right now: %d vehicles\n", len(available)))
	}
	if stations, err := s.stationRepo.List(ctx, true); err == nil {
		b.WriteString(fmt.Sprintf("- Active stations: %d\n", len(stations)))
		for _, st := range stations {
			b.WriteString(fmt.Sprintf("  - %s (%s)\n", st.Name, st.Address))
		}
	}

	b.WriteString("\n## Question\n")
	b.WriteString(message)
	return b.String()
}
