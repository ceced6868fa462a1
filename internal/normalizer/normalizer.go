// Package normalizer absorbs the two transport shapes the compute layer may
// emit: a direct JSON body, or a proxy envelope that wraps the body as a
// string next to an HTTP status code. Both collapse into one Result.
package normalizer

import (
	"encoding/json"

	"github.com/akolanti/DocGateway/internal/apperror"
	"github.com/akolanti/DocGateway/pkg/logger_i"
)

var logger = logger_i.NewLogger("Normalizer")

type ErrorInfo struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type Result struct {
	Success  bool           `json:"success"`
	Data     any            `json:"data,omitempty"`
	Error    *ErrorInfo     `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// proxyEnvelope is the wrapped shape: statusCode plus a stringified body.
type proxyEnvelope struct {
	StatusCode int             `json:"statusCode"`
	Body       json.RawMessage `json:"body"`
}

// Normalize unwraps a raw response into a Result. A wrapped statusCode >= 300
// is an error no matter what the inner body claims; an absent success field
// defaults to true.
func Normalize(raw []byte) Result {
	if env, ok := detectEnvelope(raw); ok {
		return normalizeEnvelope(env)
	}
	return normalizeBody(raw, 0)
}

func detectEnvelope(raw []byte) (proxyEnvelope, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return proxyEnvelope{}, false
	}

	// Only the presence of both fields marks an envelope; a body that merely
	// contains a statusCode of its own must not be unwrapped.
	if _, hasStatus := probe["statusCode"]; !hasStatus {
		return proxyEnvelope{}, false
	}
	if _, hasBody := probe["body"]; !hasBody {
		return proxyEnvelope{}, false
	}

	var env proxyEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return proxyEnvelope{}, false
	}
	return env, true
}

func normalizeEnvelope(env proxyEnvelope) Result {
	inner := unquoteBody(env.Body)
	return normalizeBody(inner, env.StatusCode)
}

// unquoteBody handles proxies that stringify the body instead of nesting it.
func unquoteBody(body json.RawMessage) []byte {
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return []byte(s)
	}
	return body
}

func normalizeBody(raw []byte, statusCode int) Result {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		logger.Warn("Response body is not valid JSON", "error", err)
		body = nil
	}

	if statusCode >= 300 {
		return Result{
			Success: false,
			Error:   errorFromBody(body, statusCode),
		}
	}

	success := true
	if v, ok := body["success"].(bool); ok {
		success = v
	}

	if !success {
		return Result{
			Success: false,
			Error:   errorFromBody(body, statusCode),
		}
	}

	res := Result{Success: true}
	if data, ok := body["data"]; ok {
		res.Data = data
	} else if body != nil {
		data := make(map[string]any, len(body))
		for k, v := range body {
			if k == "success" || k == "metadata" {
				continue
			}
			data[k] = v
		}
		if len(data) > 0 {
			res.Data = data
		}
	}
	if meta, ok := body["metadata"].(map[string]any); ok {
		res.Metadata = meta
	}
	return res
}

func errorFromBody(body map[string]any, statusCode int) *ErrorInfo {
	info := &ErrorInfo{}

	if nested, ok := body["error"].(map[string]any); ok {
		if code, ok := nested["code"].(string); ok {
			info.Code = code
		}
		if msg, ok := nested["message"].(string); ok {
			info.Message = msg
		}
	}
	if info.Message == "" {
		if msg, ok := body["message"].(string); ok {
			info.Message = msg
		}
	}

	if info.Code == "" && statusCode != 0 {
		info.Code = string(apperror.KindForHTTPStatus(statusCode))
	}
	if info.Message == "" {
		info.Message = "upstream request failed"
	}
	return info
}
