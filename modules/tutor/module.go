package tutor

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-monolith/mono"
)

const defaultTimeout = 8 * time.Second

// Module exposes the content-generation client to the other modules.
type Module struct {
	client  *Client
	baseURL string
	timeout time.Duration
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)

// NewModule creates the tutor module. TUTOR_BASE_URL selects the upstream
// generation API; leaving it unset runs the client in offline fallback
// mode. TUTOR_TIMEOUT_MS overrides the per-call timeout.
func NewModule() *Module {
	timeout := defaultTimeout
	if raw := os.Getenv("TUTOR_TIMEOUT_MS"); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
			timeout = time.Duration(ms) * time.Millisecond
		}
	}
	m := &Module{
		baseURL: os.Getenv("TUTOR_BASE_URL"),
		timeout: timeout,
	}
	m.client = NewClient(m.baseURL, m.timeout)
	return m
}

// Name returns the module name.
func (m *Module) Name() string {
	return "tutor"
}

// Start starts the module.
func (m *Module) Start(_ context.Context) error {
	if m.baseURL == "" {
		log.Println("[tutor] Module started in offline mode (TUTOR_BASE_URL not set, using fallbacks)")
	} else {
		log.Printf("[tutor] Module started (upstream: %s, timeout: %s)", m.baseURL, m.timeout)
	}
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[tutor] Module stopped")
	return nil
}

// Client returns the generation client.
func (m *Module) Client() *Client {
	return m.client
}
