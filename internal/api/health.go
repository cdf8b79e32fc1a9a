// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/bookshelf/internal/platform/respond"
)

// Dependency is a named backing service checked by the /ready probe.
type Dependency struct {
	Name  string
	Check func(context context.Context) error
}

type healthHandler struct {
	dependencies []Dependency
	logger       *slog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
//
// Dependencies with a nil Check are skipped, so optional services (Redis)
// can be listed unconditionally.
func NewHealthHandlers(logger *slog.Logger, dependencies ...Dependency) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: dependencies, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health.
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

// readiness handles GET /ready: 200 when every dependency answers, 503 otherwise.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, len(handler.dependencies))
	isSystemReady := true

	for _, dependency := range handler.dependencies {
		if dependency.Check == nil {
			continue
		}

		result := checkResult{Name: dependency.Name, IsOK: true}
		if err := dependency.Check(request.Context()); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.ErrorContext(request.Context(), "readiness_check_failed",
				slog.String("dependency", dependency.Name),
				slog.Any("error", err),
			)
		}
		results = append(results, result)
	}

	responseStatus := "ready"
	httpStatus := http.StatusOK
	if !isSystemReady {
		responseStatus = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, map[string]any{
		"status": responseStatus,
		"checks": results,
	})
}
