package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a request to a chat completions API
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatCompletionGenerator calls a DeepSeek (OpenAI-compatible) chat
// completions endpoint
type ChatCompletionGenerator struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewChatCompletionGenerator creates a new ChatCompletionGenerator instance
func NewChatCompletionGenerator(apiKey, apiURL, model string, client *http.Client) (*ChatCompletionGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("DEEPSEEK_API_KEY must be set")
	}
	if apiURL == "" {
		apiURL = "https://api.deepseek.com/v1/chat/completions"
	}
	if model == "" {
		model = "deepseek-chat"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &ChatCompletionGenerator{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		client: client,
	}, nil
}

// Name identifies the backend in logs and errors
func (g *ChatCompletionGenerator) Name() string {
	return "deepseek"
}

// Generate sends prompt as a single user message and returns the reply
func (g *ChatCompletionGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := Request{
		Model: g.model,
		Messages: []Message{
			{
				Role:    "user",
				Content: prompt,
			},
		},
		Temperature: 0.3,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	return result.Choices[0].Message.Content, nil
}
