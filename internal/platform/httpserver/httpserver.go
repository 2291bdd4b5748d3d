package httpserver

import (
	"net/http"
	"time"
)

// Fallbacks when the config leaves a timeout unset.
const (
	defaultReadHeaderTimeout = 5 * time.Second
	defaultWriteTimeout      = 10 * time.Second
)

// New builds the registration API server. Timeouts come from config so
// deployments behind slow clients can loosen them without a rebuild.
func New(addr string, handler http.Handler, readHeaderTimeout, writeTimeout time.Duration) *http.Server {
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = defaultReadHeaderTimeout
	}
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
}
