package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/madcapvc/blueprint/internal/config"
	"github.com/madcapvc/blueprint/internal/domain"
)

func testConfig(baseURL string) config.OpenAIConfig {
	return config.OpenAIConfig{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		Model:       "gpt-4o",
		Temperature: 0.7,
		Timeout:     5 * time.Second,
	}
}

func chunkLine(content string) string {
	data, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"delta": map[string]string{"content": content}},
		},
	})
	return "data: " + string(data) + "\n\n"
}

func collectStream(t *testing.T, c *Client, messages []domain.Message) (string, error) {
	t.Helper()
	var b strings.Builder
	for frag, err := range c.Stream(context.Background(), messages) {
		if err != nil {
			return b.String(), err
		}
		b.WriteString(frag)
	}
	return b.String(), nil
}

func TestStreamFoldsFragments(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, chunkLine("Hel"))
		fmt.Fprint(w, chunkLine("lo"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: "be brief"},
		{Role: domain.RoleUser, Content: "hi"},
	}

	got, err := collectStream(t, c, messages)
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if got != "Hello" {
		t.Errorf("folded output: got %q, want Hello", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header: got %q", gotAuth)
	}
	if !gotReq.Stream {
		t.Error("request must ask for incremental delivery")
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != domain.RoleSystem {
		t.Errorf("messages not forwarded verbatim: %+v", gotReq.Messages)
	}
}

func TestStreamSkipsMalformedChunks(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "data: {not json\n\n")
		fmt.Fprint(w, chunkLine("ok"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	got, err := collectStream(t, NewClient(testConfig(srv.URL)), nil)
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q, want ok", got)
	}
}

func TestStreamAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "model overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := collectStream(t, NewClient(testConfig(srv.URL)), nil)
	if err == nil {
		t.Fatal("want API error")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestStreamMissingAPIKey(t *testing.T) {
	t.Parallel()

	cfg := testConfig("http://unused.invalid")
	cfg.APIKey = ""

	_, err := collectStream(t, NewClient(cfg), nil)
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("got err %v, want ErrMissingAPIKey", err)
	}
}
