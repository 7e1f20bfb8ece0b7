package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"

	"github.com/madcapvc/blueprint/internal/config"
	"github.com/madcapvc/blueprint/internal/domain"
)

// ErrMissingAPIKey is returned per turn when no API key is configured.
var ErrMissingAPIKey = errors.New("llm: OPENAI_API_KEY is not set")

// Client streams completions from an OpenAI-compatible chat API.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewClient creates a completion client from configuration.
func NewClient(cfg config.OpenAIConfig) *Client {
	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

type chatRequest struct {
	Model       string           `json:"model"`
	Messages    []domain.Message `json:"messages"`
	Temperature float64          `json:"temperature"`
	Stream      bool             `json:"stream"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Stream issues one streaming chat-completion request and yields content
// fragments as they arrive. Single attempt; any transport or API error ends
// the sequence.
func (c *Client) Stream(ctx context.Context, messages []domain.Message) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if c.apiKey == "" {
			yield("", ErrMissingAPIKey)
			return
		}

		body, err := json.Marshal(chatRequest{
			Model:       c.model,
			Messages:    messages,
			Temperature: c.temperature,
			Stream:      true,
		})
		if err != nil {
			yield("", fmt.Errorf("marshal request: %w", err))
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			yield("", fmt.Errorf("create request: %w", err))
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			yield("", fmt.Errorf("completion request: %w", err))
			return
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		if resp.StatusCode != http.StatusOK {
			data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			yield("", fmt.Errorf("completion API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(data))))
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				return
			}

			var chunk streamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue // skip malformed chunks
			}
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}
			if !yield(chunk.Choices[0].Delta.Content, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield("", fmt.Errorf("read stream: %w", err))
		}
	}
}
