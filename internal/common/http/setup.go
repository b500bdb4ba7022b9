package http

import (
	"net/http"

	"github.com/messagely/messagely/internal/common/constants"
	"github.com/messagely/messagely/internal/common/httpmetrics"
	"github.com/messagely/messagely/internal/common/logger"
)

// BuildBaseHandler wraps a handler with the ambient middleware chain:
// security headers, panic recovery, trace IDs, request size cap, metrics.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(recovery(TraceIDMiddleware(maxRequestSize(metrics.Wrap(handler)))))
}
