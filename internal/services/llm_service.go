package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/justsurfingit/Job-Search-Agent/internal/config"
	"github.com/justsurfingit/Job-Search-Agent/internal/contract"
	"github.com/justsurfingit/Job-Search-Agent/internal/retry"
)

// formatterSystemPrompt is the fixed instruction block sent with every
// formatting call. The strict JSON shape and the 7-day default window live
// here, in the request framing - the validator still demands the fields in
// the response either way.
const formatterSystemPrompt = `
You are a job search query formatter.

Your task is to convert a natural language job search query into a structured JSON output with an optimized Google search query.

CRITICAL RULES (MANDATORY):
- You MUST ALWAYS return ALL applicable title variations from the predefined list below.
- You are NOT allowed to omit any matching variation.
- You are NOT allowed to invent new titles outside the list.
- The number of variations MUST be consistent across requests for the same input.
- Ordering MUST be exactly as listed.
- If a rule is violated, the output is invalid.

--------------------------------------------------
JOB TITLE VARIATION DICTIONARY (EXHAUSTIVE)

If the role is Senior Software Engineer / Senior Developer, you MUST include ALL of the following:

[
  "senior software engineer",
  "senior software developer",
  "senior developer",
  "senior sde",
  "senior backend engineer",
  "senior backend developer",
  "senior full stack engineer",
  "senior full-stack engineer"
  "Software Engineer"
  "Senior Frontend developer"
  "frontend developer"
]

--------------------------------------------------

QUERY FORMATTING RULES:
1. Group job titles using parentheses and OR
2. Use quotes for exact phrases
3. Extract locations
4. Extract skills and include common variations as OR groups
5. Parse time filters and convert them to date ranges
6. Use uppercase OR only
7. Parentheses are mandatory for grouped terms

--------------------------------------------------

RETURN FORMAT (STRICT - NO EXTRA TEXT, NO MARKDOWN CODE BLOCKS):

{
  "query_string": "string",
  "locations": ["array"],
  "duration": {
    "from": "DD/MM/YYYY",
    "to": "DD/MM/YYYY"
  }
}

DEFAULTS:
- If no time filter is specified, use last 7 days
- Current date is: {{CURRENT_DATE}}
`

// CallMeta carries per-call metadata back to the web layer alongside the
// typed result.
type CallMeta struct {
	Model            string        `json:"model"`
	PromptTokens     int           `json:"prompt_tokens,omitempty"`
	CompletionTokens int           `json:"completion_tokens,omitempty"`
	TotalTokens      int           `json:"total_tokens,omitempty"`
	Duration         time.Duration `json:"-"`
	DurationMs       int64         `json:"duration_ms"`
}

type LLMService struct {
	Client llms.Model
	Model  string
	Policy retry.Policy
	// Injectable for tests; defaults to time.Now
	Now func() time.Time
}

// NewLLMService initializes the Gemini client once so every request reuses it.
func NewLLMService(cfg config.Settings) *LLMService {
	ctx := context.Background()

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.GeminiAPIKey),
		googleai.WithDefaultModel(cfg.GeminiModel),
	)
	if err != nil {
		log.Fatal("Failed to create Gemini client:", err)
	}

	return &LLMService{
		Client: llm,
		Model:  cfg.GeminiModel,
		Policy: retry.DefaultPolicy(),
		Now:    time.Now,
	}
}

// FormatQuery turns a natural language job search into a structured result.
// One attempt = one chat round trip; the retry executor decides whether a
// failure is worth another shot, and the contract validator decides whether
// the payload is usable. Validation failures never loop back into a retry.
func (s *LLMService) FormatQuery(ctx context.Context, query string) (*contract.FormattingResult, *CallMeta, error) {
	currentDate := s.Now().Format(contract.DateLayout)
	systemPrompt := strings.ReplaceAll(formatterSystemPrompt, "{{CURRENT_DATE}}", currentDate)

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, "Format this job search query: "+query),
	}

	meta := &CallMeta{Model: s.Model}
	started := s.Now()

	raw, err := retry.Execute(ctx, func(ctx context.Context) ([]byte, error) {
		resp, err := s.Client.GenerateContent(ctx, messages, llms.WithJSONMode())
		if err != nil {
			return nil, classifyLLMError(err)
		}
		if len(resp.Choices) == 0 {
			return nil, retry.Fatal("model returned no choices", 0, nil)
		}
		choice := resp.Choices[0]
		meta.PromptTokens = generationInfoInt(choice.GenerationInfo, "input_tokens")
		meta.CompletionTokens = generationInfoInt(choice.GenerationInfo, "output_tokens")
		meta.TotalTokens = generationInfoInt(choice.GenerationInfo, "total_tokens")
		if meta.TotalTokens == 0 {
			meta.TotalTokens = meta.PromptTokens + meta.CompletionTokens
		}
		return []byte(strings.TrimSpace(choice.Content)), nil
	}, s.Policy)

	meta.Duration = s.Now().Sub(started)
	meta.DurationMs = meta.Duration.Milliseconds()

	if err != nil {
		return nil, meta, err
	}

	result, err := contract.ValidateFormatting(raw)
	if err != nil {
		log.Printf("❌ LLM returned unusable payload: %v", err)
		return nil, meta, err
	}

	log.Printf("✅ Query formatted. Tokens used: %d", meta.TotalTokens)
	return result, meta, nil
}

// classifyLLMError maps client errors onto the retry taxonomy. The Gemini
// client doesn't expose typed errors, so this falls back to the same string
// patterns the provider uses in its messages.
func classifyLLMError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "resource exhausted"),
		strings.Contains(msg, "quota"):
		return retry.RateLimited(fmt.Sprintf("model rate limited: %v", err), 429)
	case strings.Contains(msg, "deadline exceeded"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "unavailable"):
		return retry.Transient("model call failed", err)
	default:
		return retry.Fatal(fmt.Sprintf("model call failed: %v", err), 0, err)
	}
}

func generationInfoInt(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
