package aiwriter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leadspark-io/leadspark-backend/internal/usage"
	"github.com/leadspark-io/leadspark-backend/pkg/ai"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	pkgerrors "github.com/leadspark-io/leadspark-backend/pkg/errors"
)

const systemPrompt = `You are an expert B2B cold-email copywriter. Write concise,
personalized outreach emails. Keep the subject line under 60 characters,
the body under 150 words, and end with a single clear call to action.
Return the subject on the first line prefixed with "Subject:", then a
blank line, then the body.`

// HistoryMessage is one prior turn of the copywriting conversation.
type HistoryMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// GenerateRequest carries the brief plus any prior turns so follow-up
// refinements ("make it shorter") keep their context.
type GenerateRequest struct {
	Prompt  string           `json:"prompt" validate:"required,max=4000"`
	History []HistoryMessage `json:"history" validate:"omitempty,max=20,dive"`
}

// GenerateResponse is the assistant's email plus the caller's quota state
// after this generation.
type GenerateResponse struct {
	Email      string               `json:"email"`
	TokensUsed int                  `json:"tokens_used"`
	Usage      *usage.ResourceUsage `json:"usage"`
}

type quotaConsumer interface {
	Consume(ctx context.Context, userID uuid.UUID, plan enums.Plan, resource enums.Resource) (*usage.ResourceUsage, error)
}

// Service generates outreach email copy, metered against the ai_email quota.
type Service struct {
	completer ai.ChatCompleter
	quota     quotaConsumer
	timeout   time.Duration
}

// ServiceParams groups the dependencies for the copywriter service.
type ServiceParams struct {
	Completer ai.ChatCompleter
	Quota     quotaConsumer
	Timeout   time.Duration
}

// NewService builds the copywriter service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Completer == nil {
		return nil, fmt.Errorf("chat completer is required")
	}
	if params.Quota == nil {
		return nil, fmt.Errorf("quota consumer is required")
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Service{
		completer: params.Completer,
		quota:     params.Quota,
		timeout:   timeout,
	}, nil
}

// Generate burns one ai_email credit, then asks the model for copy. The
// credit is consumed before the upstream call: a generation that reaches
// the model counts even if the caller drops the response.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID, plan enums.Plan, req GenerateRequest) (*GenerateResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prompt is required")
	}

	quotaState, err := s.quota.Consume(ctx, userID, plan, enums.ResourceAIEmail)
	if err != nil {
		return nil, err
	}

	messages := make([]ai.ChatMessage, 0, len(req.History)+2)
	messages = append(messages, ai.ChatMessage{Role: "system", Content: systemPrompt})
	for _, turn := range req.History {
		messages = append(messages, ai.ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, ai.ChatMessage{Role: "user", Content: req.Prompt})

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.completer.Chat(callCtx, ai.ChatRequest{Messages: messages})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate email copy")
	}

	return &GenerateResponse{
		Email:      resp.Message,
		TokensUsed: resp.TokensUsed,
		Usage:      quotaState,
	}, nil
}
