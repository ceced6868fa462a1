package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/akolanti/DocGateway/internal/adapter"
	"github.com/akolanti/DocGateway/internal/api"
	"github.com/akolanti/DocGateway/internal/apperror"
	"github.com/akolanti/DocGateway/internal/config"
	"github.com/akolanti/DocGateway/internal/normalizer"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response: %v", err)
	}
}

func writeAppError(w http.ResponseWriter, err error) {
	status, body := adapter.ToErrorResponse(err)
	writeJsonResponse(w, status, body)
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, code string, message string) {
	if code == "" {
		code = string(apperror.KindForHTTPStatus(httpCode))
	}
	writeJsonResponse(w, httpCode, adapter.BadRequest(code, message))
}

// decodeObjectEvent runs the raw notification through the normalizer so a
// direct payload and a gateway-wrapped one decode the same way.
func decodeObjectEvent(raw []byte) (api.ObjectCreatedEvent, error) {
	var event api.ObjectCreatedEvent

	res := normalizer.Normalize(raw)
	if !res.Success {
		msg := "event rejected upstream"
		if res.Error != nil {
			msg = res.Error.Message
		}
		return event, fmt.Errorf("object-created event: %s", msg)
	}

	data, err := json.Marshal(res.Data)
	if err != nil {
		return event, err
	}
	if err := json.Unmarshal(data, &event); err != nil {
		return event, err
	}
	return event, nil
}

func validateContext(ctx context.Context) bool {
	logRH.With("traceId:", ctx.Value(config.TRACE_ID_KEY))
	if ctx.Err() != nil {
		logRH.Warn("context error", "error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true

	}
}
