package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultLocalBaseURL = "http://127.0.0.1:11434"
	localProbeTimeout   = 2 * time.Second
)

// Local talks to an on-device AI runtime over its HTTP interface
// (tag listing for liveness, chat completion for generation).
type Local struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewLocal(baseURL, model string) *Local {
	if baseURL == "" {
		baseURL = defaultLocalBaseURL
	}
	return &Local{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (l *Local) Name() string { return "local" }

// Available checks the runtime is reachable and the configured model is
// installed.
func (l *Local) Available(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, localProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: local runtime unreachable: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: local runtime status %d", ErrUnavailable, resp.StatusCode)
	}

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return fmt.Errorf("%w: decode tags: %v", ErrUnavailable, err)
	}
	for _, m := range tags.Models {
		// "llama3.2" matches "llama3.2:latest"
		if m.Name == l.model || strings.SplitN(m.Name, ":", 2)[0] == l.model {
			return nil
		}
	}
	return fmt.Errorf("%w: model %q not installed", ErrUnavailable, l.model)
}

func (l *Local) Generate(ctx context.Context, req Request) (string, error) {
	type message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	body := map[string]any{
		"model":  l.model,
		"stream": false,
		"messages": []message{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		"options": map[string]any{"temperature": req.Temperature},
	}
	if req.JSONMode {
		body["format"] = "json"
	}
	b, _ := json.Marshal(body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/api/chat", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: local chat request: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read local response: %v", ErrProvider, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: local runtime error (%d): %s", ErrProvider, resp.StatusCode, string(respBytes))
	}

	var out struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return "", fmt.Errorf("%w: decode local response: %v", ErrProvider, err)
	}
	if strings.TrimSpace(out.Message.Content) == "" {
		return "", fmt.Errorf("%w: empty completion from local runtime", ErrProvider)
	}
	return out.Message.Content, nil
}
