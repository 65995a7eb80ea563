package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ErrNoAPIKey is returned when estimation is requested without a key.
var ErrNoAPIKey = errors.New("anthropic.api_key is not set (config or FOCUS_ANTHROPIC_API_KEY)")

// maxSessions bounds what an estimate may plan for a single task.
const maxSessions = 16

// Estimate is the model's plan for a task.
type Estimate struct {
	Sessions int      `json:"sessions"`
	Steps    []string `json:"steps"`
}

// Client wraps the Anthropic API for task estimation.
type Client struct {
	api   *anthropic.Client
	model anthropic.Model
}

// NewClient creates an LLM client with the given API key and model.
func NewClient(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Client{
		api:   &client,
		model: anthropic.Model(model),
	}, nil
}

// buildEstimatePrompt constructs the system and user prompts for a
// Pomodoro estimate.
func buildEstimatePrompt(title, description string, workMinutes int) (system string, user string) {
	system = fmt.Sprintf(`You plan focused work using the Pomodoro technique. One session is %d minutes of uninterrupted work. Given a task title and optional description, return a JSON object with exactly two fields:

- "sessions": integer number of work sessions the task needs, between 1 and %d
- "steps": array of 2 to 6 short imperative steps, in order, each fitting inside one or two sessions

Rules:
- Return valid JSON only, no markdown fencing or explanation
- Round up when unsure
- If the description is empty, infer as much as possible from the title alone`, workMinutes, maxSessions)

	var sb strings.Builder
	sb.WriteString("Task title: ")
	sb.WriteString(title)
	sb.WriteString("\n")
	if description != "" {
		sb.WriteString("\nDescription: ")
		sb.WriteString(description)
		sb.WriteString("\n")
	}
	user = sb.String()
	return
}

// EstimateTask asks the model how many work sessions a task needs.
func (c *Client) EstimateTask(ctx context.Context, title, description string, workMinutes int) (*Estimate, error) {
	systemPrompt, userPrompt := buildEstimatePrompt(title, description, workMinutes)

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return parseEstimate(text)
}

// parseEstimate decodes a model reply, tolerating markdown fencing, and
// clamps the session count.
func parseEstimate(text string) (*Estimate, error) {
	text = stripFence(text)

	var est Estimate
	if err := json.Unmarshal([]byte(text), &est); err != nil {
		return nil, fmt.Errorf("parse LLM response as JSON: %w\nraw response: %s", err, text)
	}
	if est.Sessions < 1 {
		est.Sessions = 1
	}
	if est.Sessions > maxSessions {
		est.Sessions = maxSessions
	}
	return &est, nil
}

func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		lines := strings.SplitN(text, "\n", 2)
		if len(lines) > 1 {
			text = lines[1]
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	return text
}
