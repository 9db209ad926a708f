package openai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultGPTModel is the standard cleanup model.
const DefaultGPTModel = "gpt-4o-mini"

// enhancePrompt instructs the model to clean dictated text without
// changing what was said.
const enhancePrompt = `You clean up dictated text. Remove filler words ` +
	`(um, uh, like, you know), fix grammar and punctuation, and break ` +
	`run-on sentences. Keep the speaker's wording and meaning; do not ` +
	`summarize, expand, or add anything. Reply with the cleaned text only.`

// Enhancer rewrites raw transcripts via the chat-completions endpoint.
type Enhancer struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	log     zerolog.Logger
}

// NewEnhancer configures the cleanup client. Empty baseURL, model, and
// timeout select the defaults (hosted API, gpt-4o-mini, 30s).
func NewEnhancer(baseURL, apiKey, model string, timeout time.Duration, log zerolog.Logger) *Enhancer {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultGPTModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Enhancer{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    newHTTPClient(timeout, log),
		log:     log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Enhance returns a cleaned version of text, or text itself when cleanup
// is not worthwhile: single words skip the API call entirely, and a reply
// whose word count balloons past 3x or shrinks under 0.3x of the input is
// rejected as a model detour.
func (e *Enhancer) Enhance(text string) (string, error) {
	words := len(strings.Fields(text))
	if words <= 1 {
		return text, nil
	}

	payload, err := json.Marshal(chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{Role: "system", Content: enhancePrompt},
			{Role: "user", Content: text},
		},
		Temperature: 0.3,
		MaxTokens:   len(text) * 2,
	})
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, e.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.http.Do(req)
	if err != nil {
		return "", networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", classifyStatus(resp.StatusCode, excerpt)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &Error{
			Kind:    KindAPI,
			Message: "Malformed enhancement response.",
			Err:     err,
		}
	}
	if len(out.Choices) == 0 {
		return "", &Error{
			Kind:    KindAPI,
			Message: "Enhancement response had no choices.",
		}
	}

	enhanced := strings.TrimSpace(out.Choices[0].Message.Content)
	if enhanced == "" {
		return text, nil
	}
	if n := len(strings.Fields(enhanced)); n > 3*words || 10*n < 3*words {
		e.log.Warn().
			Int("input_words", words).
			Int("output_words", n).
			Msg("enhancement rejected by word-count sanity check")
		return text, nil
	}
	return enhanced, nil
}
