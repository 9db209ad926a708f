// Package openai talks to an OpenAI-compatible API: Whisper-style audio
// transcription and chat-completion transcript cleanup. Only the two
// endpoints the dictation pipeline needs are implemented; the base URL is
// configurable so compatible providers work too.
package openai

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// DefaultBaseURL is the hosted OpenAI API.
const DefaultBaseURL = "https://api.openai.com/v1"

// newHTTPClient builds the transport both services share. timeout is the
// whole-call budget; requests are never cancelled midway, they either
// finish or time out.
func newHTTPClient(timeout time.Duration, log zerolog.Logger) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:          8,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		log.Warn().Err(err).Msg("configuring http2 transport")
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
