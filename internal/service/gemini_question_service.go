package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/haimq/examhub/config"
	"github.com/haimq/examhub/internal/dto"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// QuestionDraftService drafts multiple-choice questions with Gemini. Drafts
// are returned for operator review and never persisted directly.
type QuestionDraftService interface {
	DraftQuestions(ctx context.Context, topic string, count int) ([]dto.GeneratedQuestionDTO, error)
}

type geminiQuestionService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewGeminiQuestionService(cfg *config.Config) (QuestionDraftService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Question drafting will be unavailable.")
		return &geminiQuestionService{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	return &geminiQuestionService{client: model, cfg: cfg}, nil
}

func (s *geminiQuestionService) DraftQuestions(ctx context.Context, topic string, count int) ([]dto.GeneratedQuestionDTO, error) {
	if s.client == nil {
		return nil, &ValidationError{Message: "Question drafting is not configured on this server."}
	}

	prompt := fmt.Sprintf(`Write %d multiple-choice questions about %q.
Respond with ONLY a JSON array, no prose and no markdown fences.
Each element must be an object with exactly these keys:
"question" (string), "options" (array of exactly 4 distinct strings),
"correct_answer" (string, byte-identical to one of the options).`, count, topic)

	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("DraftQuestions: Gemini call failed")
		return nil, fmt.Errorf("question drafting failed: %w", err)
	}
	raw := responseText(resp)
	if raw == "" {
		return nil, fmt.Errorf("question drafting returned an empty response")
	}

	drafts, err := parseQuestionDrafts(raw)
	if err != nil {
		log.Error().Err(err).Str("raw", raw).Msg("DraftQuestions: could not parse model output")
		return nil, err
	}
	log.Info().Str("topic", topic).Int("requested", count).Int("drafted", len(drafts)).Msg("Questions drafted")
	return drafts, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}

// parseQuestionDrafts decodes the model's JSON and drops any draft that would
// not survive exam validation (wrong option count, correct answer not among
// the options).
func parseQuestionDrafts(raw string) ([]dto.GeneratedQuestionDTO, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var parsed []struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer string   `json:"correct_answer"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("model output was not valid JSON: %w", err)
	}

	drafts := make([]dto.GeneratedQuestionDTO, 0, len(parsed))
	for _, p := range parsed {
		text := strings.TrimSpace(p.Question)
		correct := strings.TrimSpace(p.CorrectAnswer)
		if text == "" || correct == "" || len(p.Options) != 4 {
			continue
		}
		options := make([]string, 0, 4)
		valid := true
		match := false
		for _, opt := range p.Options {
			opt = strings.TrimSpace(opt)
			if opt == "" {
				valid = false
				break
			}
			if opt == correct {
				match = true
			}
			options = append(options, opt)
		}
		if !valid || !match {
			continue
		}
		drafts = append(drafts, dto.GeneratedQuestionDTO{
			Text:          text,
			Options:       options,
			CorrectAnswer: correct,
		})
	}
	return drafts, nil
}
