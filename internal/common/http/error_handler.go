package http

import (
	"context"
	"net/http"
	"strconv"

	commonerrors "github.com/AlibekovAA/gql-user-auth/internal/common/errors"
	"github.com/AlibekovAA/gql-user-auth/internal/common/httpmetrics"
	"github.com/AlibekovAA/gql-user-auth/internal/common/logger"
	"github.com/AlibekovAA/gql-user-auth/internal/observability/metrics"
)

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

// HandleError writes a JSON error envelope for failures that happen before a
// request reaches the API layer.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	ctx := r.Context()
	traceID := TraceIDFromContext(ctx)

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		h.ReportDomainError(ctx, domainErr)
		metrics.HTTPErrorsTotal.WithLabelValues(
			strconv.Itoa(domainErr.HTTPStatus()),
			httpmetrics.NormalizePath(r.URL.Path),
			r.Method,
		).Inc()
		WriteErrorEnvelope(w, domainErr.HTTPStatus(), domainErr.Code(), domainErr.Message(), domainErr.Details(), traceID)
		return
	}

	h.log.WithFields(ctx, logger.Fields{
		"error":  err.Error(),
		"action": "unhandled_error",
	}).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, http.StatusInternalServerError, CodeInternal, "internal server error", nil, traceID)
}

// ReportDomainError counts and logs a domain error. Internal causes are
// logged here and never returned to the caller.
func (h *ErrorHandler) ReportDomainError(ctx context.Context, err commonerrors.DomainError) {
	status := err.HTTPStatus()

	logFields := logger.Fields{
		"error_code": err.Code(),
		"category":   string(err.Category()),
		"status":     status,
		"action":     "domain_error",
	}

	if status >= http.StatusInternalServerError {
		h.log.WithFields(ctx, logFields).Errorf("domain error: %s", err.Error())
	} else if h.log.ShouldLog(logger.DEBUG) {
		h.log.WithFields(ctx, logFields).Debugf("domain error: %s", err.Error())
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(err.Category()),
		err.Code(),
		strconv.Itoa(status),
	).Inc()
}
