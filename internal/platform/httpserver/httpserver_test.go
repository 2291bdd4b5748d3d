package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_UsesConfiguredTimeouts(t *testing.T) {
	srv := New(":0", http.NewServeMux(), 2*time.Second, 30*time.Second)
	assert.Equal(t, 2*time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, 30*time.Second, srv.WriteTimeout)
}

func TestNew_FallsBackOnUnsetTimeouts(t *testing.T) {
	srv := New(":0", http.NewServeMux(), 0, 0)
	assert.Equal(t, defaultReadHeaderTimeout, srv.ReadHeaderTimeout)
	assert.Equal(t, defaultWriteTimeout, srv.WriteTimeout)
}
