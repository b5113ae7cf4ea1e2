package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

type Client struct {
	client *openai.Client
	model  string
}

func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Suggestion is a drafted title and body for a piece of content.
type Suggestion struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

const systemPrompt = `You write short promotional copy for a restaurant's menu boards,
daily specials, and announcements. Respond with a JSON object only:
{"title": "...", "body": "..."}
The title is at most 60 characters. The body is one or two sentences, warm but
not gimmicky, no hashtags, no emoji.`

// SuggestCopy drafts title and body text for the given content kind
// ("special", "event", "announcement", "menu item") from a subject and
// optional notes.
func (c *Client) SuggestCopy(ctx context.Context, kind, subject, notes string) (*Suggestion, error) {
	user := fmt.Sprintf("Kind: %s\nSubject: %s", kind, subject)
	if notes != "" {
		user += "\nNotes: " + notes
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no completion choices returned")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	// Some models wrap JSON in a code fence despite instructions.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var suggestion Suggestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion: %w", err)
	}
	return &suggestion, nil
}
