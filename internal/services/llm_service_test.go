package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/justsurfingit/Job-Search-Agent/internal/retry"
)

// fakeModel scripts GenerateContent responses for the adapter tests.
type fakeModel struct {
	calls    int32
	respond  func(call int) (*llms.ContentResponse, error)
	messages [][]llms.MessageContent
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = append(f.messages, messages)
	call := int(atomic.AddInt32(&f.calls, 1))
	return f.respond(call)
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := f.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func jsonResponse(content string, tokens map[string]any) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content:        content,
			GenerationInfo: tokens,
		}},
	}
}

func testLLMService(model llms.Model) *LLMService {
	return &LLMService{
		Client: model,
		Model:  "gemini-2.5-flash",
		Policy: retry.Policy{
			MaxAttempts:    3,
			BaseDelay:      time.Millisecond,
			MaxDelay:       5 * time.Millisecond,
			Multiplier:     2.0,
			RetryableKinds: map[retry.Kind]bool{retry.KindTransientNetwork: true},
		},
		Now: func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) },
	}
}

const validFormatterJSON = `{"query_string":"(\"senior software engineer\" OR \"senior developer\")","locations":["Hyderabad"],"duration":{"from":"03/03/2025","to":"10/03/2025"}}`

func TestLLMService_FormatQuery(t *testing.T) {
	model := &fakeModel{respond: func(int) (*llms.ContentResponse, error) {
		return jsonResponse(validFormatterJSON, map[string]any{
			"input_tokens":  int32(120),
			"output_tokens": int32(45),
		}), nil
	}}

	svc := testLLMService(model)
	result, meta, err := svc.FormatQuery(context.Background(), "senior software engineer in Hyderabad last week")
	require.NoError(t, err)

	assert.Equal(t, `("senior software engineer" OR "senior developer")`, result.QueryString)
	assert.Equal(t, []string{"Hyderabad"}, result.Locations)
	assert.True(t, result.DateFrom.Before(result.DateTo))

	assert.Equal(t, "gemini-2.5-flash", meta.Model)
	assert.Equal(t, 120, meta.PromptTokens)
	assert.Equal(t, 45, meta.CompletionTokens)
	assert.Equal(t, 165, meta.TotalTokens)
}

func TestLLMService_PromptFraming(t *testing.T) {
	model := &fakeModel{respond: func(int) (*llms.ContentResponse, error) {
		return jsonResponse(validFormatterJSON, nil), nil
	}}

	svc := testLLMService(model)
	_, _, err := svc.FormatQuery(context.Background(), "golang jobs")
	require.NoError(t, err)
	require.Len(t, model.messages, 1)

	messages := model.messages[0]
	require.Len(t, messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, messages[1].Role)

	system := messages[0].Parts[0].(llms.TextContent).Text
	// Current date substituted into the instruction block, not patched in later
	assert.Contains(t, system, "Current date is: 10/03/2025")
	assert.NotContains(t, system, "{{CURRENT_DATE}}")
	// The 7-day default lives in the request framing
	assert.Contains(t, system, "use last 7 days")
	assert.Contains(t, system, "JOB TITLE VARIATION DICTIONARY")

	user := messages[1].Parts[0].(llms.TextContent).Text
	assert.Equal(t, "Format this job search query: golang jobs", user)
}

func TestLLMService_RetriesTransientThenSucceeds(t *testing.T) {
	model := &fakeModel{respond: func(call int) (*llms.ContentResponse, error) {
		if call < 3 {
			return nil, errors.New("rpc error: code = Unavailable desc = connection reset")
		}
		return jsonResponse(validFormatterJSON, nil), nil
	}}

	svc := testLLMService(model)
	result, _, err := svc.FormatQuery(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, int32(3), model.calls)
	assert.NotNil(t, result)
}

func TestLLMService_RateLimitSurfaces(t *testing.T) {
	model := &fakeModel{respond: func(int) (*llms.ContentResponse, error) {
		return nil, errors.New("googleapi: Error 429: Resource exhausted, please try again later")
	}}

	svc := testLLMService(model)
	_, _, err := svc.FormatQuery(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, retry.KindRateLimited, retry.KindOf(err))
	assert.Equal(t, int32(1), model.calls, "rate limits surface instead of silently retrying")
}

func TestLLMService_SchemaViolationNotRetried(t *testing.T) {
	model := &fakeModel{respond: func(int) (*llms.ContentResponse, error) {
		return jsonResponse(`{"locations":[],"duration":{"from":"01/01/2025","to":"02/01/2025"}}`, nil), nil
	}}

	svc := testLLMService(model)
	_, _, err := svc.FormatQuery(context.Background(), "q")
	require.Error(t, err)

	var ce *retry.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, retry.KindSchemaViolation, ce.Kind)
	assert.Equal(t, "query_string", ce.Field)
	assert.Equal(t, int32(1), model.calls, "a bad payload will not improve by retrying")
}

func TestLLMService_ChattyResponseIsMalformed(t *testing.T) {
	model := &fakeModel{respond: func(int) (*llms.ContentResponse, error) {
		return jsonResponse("Sure! Here is the JSON you asked for: ...", nil), nil
	}}

	svc := testLLMService(model)
	_, _, err := svc.FormatQuery(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, retry.KindMalformedResponse, retry.KindOf(err))
}

func TestLLMService_FatalProviderErrorAbortsImmediately(t *testing.T) {
	model := &fakeModel{respond: func(int) (*llms.ContentResponse, error) {
		return nil, errors.New("googleapi: Error 400: API key not valid")
	}}

	svc := testLLMService(model)
	_, _, err := svc.FormatQuery(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, retry.KindFatalProvider, retry.KindOf(err))
	assert.Equal(t, int32(1), model.calls)
}
