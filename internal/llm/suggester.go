package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"api-batch-runner/internal/csvcodec"
	"api-batch-runner/internal/spec"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const defaultModel = openai.GPT3Dot5Turbo

// Suggester asks an LLM for plausible sample rows for an endpoint, as a
// starting point for a batch CSV
type Suggester struct {
	client *openai.Client
	model  string
	log    *zap.Logger
}

// NewSuggester creates a new Suggester. An empty model selects the
// default.
func NewSuggester(apiKey, model string, log *zap.Logger) *Suggester {
	if model == "" {
		model = defaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Suggester{
		client: openai.NewClient(apiKey),
		model:  model,
		log:    log,
	}
}

// SuggestRows requests count sample rows covering the endpoint's
// parameters and body fields. The response must be a JSON array of flat
// string-valued objects; anything else is an error.
func (s *Suggester) SuggestRows(ctx context.Context, endpoint spec.Endpoint, count int) ([]string, []csvcodec.Row, error) {
	headers := columnsFor(endpoint)
	if len(headers) == 0 {
		return nil, nil, fmt.Errorf("endpoint %s declares no parameters or body fields", endpoint.ID)
	}

	prompt := buildPrompt(endpoint, headers, count)
	s.log.Debug("requesting sample rows", zap.String("endpoint", endpoint.ID), zap.Int("count", count))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You generate realistic API test data. Respond with JSON only, no prose and no code fences.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, nil, fmt.Errorf("no response from OpenAI")
	}

	var parsed []map[string]string
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, nil, fmt.Errorf("invalid response format: %w", err)
	}

	rows := make([]csvcodec.Row, 0, len(parsed))
	for _, item := range parsed {
		row := make(csvcodec.Row, len(headers))
		for _, header := range headers {
			row[header] = item[header]
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// columnsFor lists the endpoint's input columns: parameters first, then
// flattened body fields
func columnsFor(endpoint spec.Endpoint) []string {
	var headers []string
	seen := make(map[string]bool)
	for _, param := range endpoint.Parameters {
		headers = append(headers, param.Name)
		seen[param.Name] = true
	}
	for _, field := range spec.Flatten(endpoint.BodySchema, endpoint.Definitions) {
		if !seen[field.Name] {
			headers = append(headers, field.Name)
		}
	}
	return headers
}

func buildPrompt(endpoint spec.Endpoint, headers []string, count int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate %d sample test rows for the API operation %q", count, endpoint.ID)
	if endpoint.Summary != "" && endpoint.Summary != endpoint.Path {
		fmt.Fprintf(&sb, " (%s)", endpoint.Summary)
	}
	sb.WriteString(".\n")
	fmt.Fprintf(&sb, "Respond with a JSON array of exactly %d objects. Each object must have exactly these string-valued keys: %s.\n",
		count, strings.Join(headers, ", "))

	for _, field := range spec.Flatten(endpoint.BodySchema, endpoint.Definitions) {
		fmt.Fprintf(&sb, "Field %q has type %s", field.Name, field.Type)
		if field.Required {
			sb.WriteString(" and is required")
		}
		if field.Description != "" {
			fmt.Fprintf(&sb, " (%s)", field.Description)
		}
		sb.WriteString(".\n")
	}
	return sb.String()
}
