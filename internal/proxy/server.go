package proxy

import (
	"net/http"
	"time"
)

// Path is where the frontend expects the proxy by default.
const Path = "/api/proxy"

// NewServer mounts h at Path and at the root.
func NewServer(addr string, h http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(Path, h)
	mux.Handle("/", h)
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
