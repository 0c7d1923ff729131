package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hiroki-koketsu/go-task-tracker/internal/model"
	"github.com/hiroki-koketsu/go-task-tracker/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const internalErrorMessage = "Internal server error"

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// base carries what every handler needs to respond and record metrics.
type base struct {
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

func (b *base) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func (b *base) respondData(w http.ResponseWriter, status int, data any) {
	b.respondJSON(w, status, dataResponse{Success: true, Data: data})
}

// respondError maps err to a status code, logs it and writes the error
// envelope. Internal failures are logged in full but not exposed.
func (b *base) respondError(ctx context.Context, w http.ResponseWriter, err error) int {
	kind := model.KindOf(err)
	status := statusFor(kind)

	message := internalErrorMessage
	var appErr *model.AppError
	if kind != model.KindInternal && errors.As(err, &appErr) {
		message = appErr.Error()
	}

	if status >= http.StatusInternalServerError {
		b.logger.ErrorContext(ctx, "request failed", slog.Any("error", err))
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
	} else {
		b.logger.WarnContext(ctx, "request rejected",
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
	}

	b.metrics.ErrorCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("error.kind", string(kind))))
	b.respondJSON(w, status, errorResponse{Success: false, Message: message, StatusCode: status})
	return status
}

func statusFor(kind model.ErrorKind) int {
	switch kind {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (b *base) recordMetrics(ctx context.Context, method, route string, status int, start time.Time) {
	duration := time.Since(start).Seconds()

	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)

	b.metrics.RequestCounter.Add(ctx, 1, attrs)
	b.metrics.RequestDuration.Record(ctx, duration, attrs)
}
