package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

var ErrDistillerNotConfigured = errors.New("distillation service is not configured")

// Distillation is the checklist derived from a raw task description.
type Distillation struct {
	SuggestedTitle string   `json:"title"`
	Steps          []string `json:"steps"`
}

// Distiller turns raw text into an ordered checklist. It may fail; callers
// must not create a task from a failed distillation.
type Distiller interface {
	Distill(ctx context.Context, raw string) (Distillation, error)
}

// OpenAIDistiller distills task descriptions with the OpenAI chat API.
type OpenAIDistiller struct {
	client *openai.Client
	model  string
}

func NewOpenAIDistiller(apiKey, model string) *OpenAIDistiller {
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIDistiller{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Distill asks the model for a title and an ordered list of concrete steps.
func (d *OpenAIDistiller) Distill(ctx context.Context, raw string) (Distillation, error) {
	if d.client == nil {
		return Distillation{}, ErrDistillerNotConfigured
	}

	prompt := fmt.Sprintf(`You turn task descriptions written by a manager into a checklist for staff.

Description:
%s

Reply with a JSON object of this shape:
{
  "title": "short task title",
  "steps": ["first concrete action", "second concrete action"]
}

Rules:
- Steps are ordered in the sequence they should be done
- Each step is one short imperative sentence
- Return only the JSON object`, raw)

	resp, err := d.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: d.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return Distillation{}, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Distillation{}, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var out Distillation
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return Distillation{}, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return out, nil
}
