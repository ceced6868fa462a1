package customHttpClient

import (
	"net/http"

	"github.com/akolanti/DocGateway/internal/config"
)

// Transport is shared by the outbound clients (object store, llm) so they
// reuse connections instead of each holding their own idle pool.
var Transport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}
