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
	defaultRemoteBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultRemoteModel   = "gemini-2.0-flash"
)

// Remote talks to the hosted generative-AI API. It only participates in the
// chain when an API key is configured.
type Remote struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewRemote(apiKey, model string) *Remote {
	if model == "" {
		model = defaultRemoteModel
	}
	return &Remote{
		baseURL: defaultRemoteBaseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *Remote) Name() string { return "remote" }

func (r *Remote) Available(ctx context.Context) error {
	if r.apiKey == "" {
		return fmt.Errorf("%w: no API key configured", ErrUnavailable)
	}
	return nil
}

func (r *Remote) Generate(ctx context.Context, req Request) (string, error) {
	type part struct {
		Text string `json:"text"`
	}
	type content struct {
		Role  string `json:"role,omitempty"`
		Parts []part `json:"parts"`
	}
	genCfg := map[string]any{"temperature": req.Temperature}
	if req.JSONMode {
		genCfg["responseMimeType"] = "application/json"
	}
	body := map[string]any{
		"contents":         []content{{Role: "user", Parts: []part{{Text: req.Prompt}}}},
		"generationConfig": genCfg,
	}
	if req.System != "" {
		body["system_instruction"] = content{Parts: []part{{Text: req.System}}}
	}
	b, _ := json.Marshal(body)

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", r.baseURL, r.model, r.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: remote request: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read remote response: %v", ErrProvider, err)
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%w (%d): %s", ErrAuth, resp.StatusCode, apiErrorMessage(respBytes))
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: remote API error (%d): %s", ErrProvider, resp.StatusCode, apiErrorMessage(respBytes))
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return "", fmt.Errorf("%w: decode remote response: %v", ErrProvider, err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty completion from remote API", ErrProvider)
	}
	text := out.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty completion from remote API", ErrProvider)
	}
	return text, nil
}

// apiErrorMessage extracts {"error":{"message":...}} when present, otherwise
// returns a truncated raw body.
func apiErrorMessage(body []byte) string {
	var e struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	s := string(body)
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
