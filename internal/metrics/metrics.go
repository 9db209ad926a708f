// Package metrics exposes Prometheus instrumentation for the dictation
// pipeline, served on an optional HTTP listener.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	dictationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ditado_dictation_runs_total",
		Help: "Finished dictation runs by outcome",
	}, []string{"outcome"})

	stageAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ditado_stage_attempts_total",
		Help: "Pipeline stage attempts by stage and status",
	}, []string{"stage", "status"})

	recordingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ditado_recording_duration_seconds",
		Help:    "Duration of captured recordings in seconds",
		Buckets: []float64{1, 2, 5, 10, 30, 60, 120, 300},
	})

	transcriptionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ditado_transcription_latency_seconds",
		Help:    "Transcription API round-trip latency in seconds",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})

	enhancementLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ditado_enhancement_latency_seconds",
		Help:    "Enhancement API round-trip latency in seconds",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
	})

	wordsTyped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ditado_words_typed_total",
		Help: "Total words injected into the focused application",
	})
)

// Run outcomes recorded by RecordRun.
const (
	OutcomeCompleted = "completed"
	OutcomeEmpty     = "empty"
	OutcomeTooShort  = "too_short"
	OutcomeSilent    = "silent"
	OutcomeError     = "error"
	OutcomeAbandoned = "abandoned"
)

// RecordRun counts a finished dictation run.
func RecordRun(outcome string) {
	dictationRuns.WithLabelValues(outcome).Inc()
}

// RecordStage counts one attempt of a pipeline stage.
func RecordStage(stage string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	stageAttempts.WithLabelValues(stage, status).Inc()
}

// ObserveRecording records the duration of a captured clip.
func ObserveRecording(d time.Duration) {
	recordingDuration.Observe(d.Seconds())
}

// ObserveTranscription records one transcription round trip.
func ObserveTranscription(d time.Duration) {
	transcriptionLatency.Observe(d.Seconds())
}

// ObserveEnhancement records one enhancement round trip.
func ObserveEnhancement(d time.Duration) {
	enhancementLatency.Observe(d.Seconds())
}

// AddWordsTyped counts words injected into the focused application.
func AddWordsTyped(n int) {
	wordsTyped.Add(float64(n))
}

// Serve exposes /metrics on addr in a background goroutine. An empty
// addr disables the listener.
func Serve(addr string, logger zerolog.Logger) {
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	logger.Info().Str("addr", addr).Msg("Prometheus metrics enabled at /metrics")

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Str("addr", addr).Msg("metrics listener failed")
		}
	}()
}
