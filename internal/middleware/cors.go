package middleware

import "net/http"

// corsHeaders stamps the browser-facing policy on every wrapped response.
// The allowed origin comes from CORS_ALLOW_ORIGIN and defaults to "*".
func corsHeaders(re requestResponseStruct) requestResponseStruct {
	setCorsHeaders(re.writer)
	return re
}

func setCorsHeaders(w http.ResponseWriter) {
	origin := "*"
	if settings != nil && settings.CORSAllowOrigin != "" {
		origin = settings.CORSAllowOrigin
	}
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", origin)
	h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	h.Set("Access-Control-Max-Age", "3600")
}

// PreflightHandler answers CORS preflight requests. Browsers send these
// without an Authorization header, so preflights skip the wrapped chain.
func PreflightHandler(w http.ResponseWriter, r *http.Request) {
	setCorsHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}
