package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/foliograph/inkscore/analysis"
)

func newRouter(svc *analysis.Service, cfg *analysis.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/analyze", handleAnalyze(svc, cfg, logger))

	return r
}

func handleAnalyze(svc *analysis.Service, cfg *analysis.Config, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			writeError(w, http.StatusBadRequest, errors.New("expected multipart/form-data with field 'file'"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxFileBytes()+1<<20)
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, analysis.ErrNoFile)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), cfg.RequestBudget)
		defer cancel()

		report, err := svc.Analyze(ctx, analysis.Upload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
		if err != nil {
			logger.Warn("analysis failed", "file", header.Filename, "error", err)
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, analysis.ErrNoFile),
		errors.Is(err, analysis.ErrNotEnoughText),
		errors.Is(err, analysis.ErrExtractionFailed):
		return http.StatusBadRequest
	case errors.Is(err, analysis.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
