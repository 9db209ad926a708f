package openai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultWhisperModel is the standard hosted transcription model.
const DefaultWhisperModel = "whisper-1"

// Transcription is the service's answer for one audio payload.
type Transcription struct {
	Text    string
	Minutes float64
}

// Transcriber uploads recordings to the audio transcription endpoint.
type Transcriber struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	log     zerolog.Logger
}

// NewTranscriber configures the transcription client. Empty baseURL,
// model, and timeout select the defaults (hosted API, whisper-1, 60s).
func NewTranscriber(baseURL, apiKey, model string, timeout time.Duration, log zerolog.Logger) *Transcriber {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultWhisperModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Transcriber{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    newHTTPClient(timeout, log),
		log:     log,
	}
}

// Transcribe uploads a WAV payload and returns the recognized text plus
// the audio length the service billed. language "" or "auto" lets the
// service detect the language.
func (t *Transcriber) Transcribe(wav []byte, language string) (Transcription, error) {
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	part, err := form.CreateFormFile("file", "recording.wav")
	if err != nil {
		return Transcription{}, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := part.Write(wav); err != nil {
		return Transcription{}, fmt.Errorf("writing audio payload: %w", err)
	}
	if err := form.WriteField("model", t.model); err != nil {
		return Transcription{}, fmt.Errorf("building upload form: %w", err)
	}
	if err := form.WriteField("response_format", "verbose_json"); err != nil {
		return Transcription{}, fmt.Errorf("building upload form: %w", err)
	}
	if language != "" && language != "auto" {
		if err := form.WriteField("language", language); err != nil {
			return Transcription{}, fmt.Errorf("building upload form: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return Transcription{}, fmt.Errorf("building upload form: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, t.baseURL+"/audio/transcriptions", body)
	if err != nil {
		return Transcription{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	start := time.Now()
	resp, err := t.http.Do(req)
	if err != nil {
		return Transcription{}, networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Transcription{}, classifyStatus(resp.StatusCode, excerpt)
	}

	var out struct {
		Text     string  `json:"text"`
		Duration float64 `json:"duration"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Transcription{}, &Error{
			Kind:    KindAPI,
			Message: "Malformed transcription response.",
			Err:     err,
		}
	}

	t.log.Debug().
		Dur("elapsed", time.Since(start)).
		Float64("audio_seconds", out.Duration).
		Msg("transcription complete")

	return Transcription{
		Text:    strings.TrimSpace(out.Text),
		Minutes: out.Duration / 60,
	}, nil
}
