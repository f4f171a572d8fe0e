package ai

import (
	"context"
	"log"
	"sync"

	"github.com/cloudwego/eino/components/model"

	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/config"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/persona"
)

// Manager owns the current registry. The credential can arrive at boot via
// the environment or later through the credential endpoint; either way no
// persona exists until a key has been accepted, and reconfiguring replaces
// the whole squad at once.
type Manager struct {
	mu       sync.RWMutex
	cfg      config.AIConfig
	personas persona.Store
	registry *Registry
}

// NewManager creates a manager with no registry yet.
func NewManager(personas persona.Store, cfg config.AIConfig) *Manager {
	return &Manager{cfg: cfg, personas: personas}
}

// Bootstrap builds the registry from the boot-time credential when one is
// configured. A missing key is not an error; the service simply waits for
// the credential endpoint.
func (m *Manager) Bootstrap(ctx context.Context) error {
	if !m.cfg.Enabled() {
		return nil
	}
	return m.Configure(ctx, m.cfg.APIKey)
}

// Configure builds a fresh registry bound to the supplied key. On failure
// the previous registry (if any) stays in place.
func (m *Manager) Configure(ctx context.Context, apiKey string) error {
	registry, err := NewRegistry(ctx, m.personas, m.cfg.WithKey(apiKey))
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.registry = registry
	m.mu.Unlock()

	log.Printf("[ai] recovery squad configured with %d personas", len(registry.order))
	return nil
}

// Current returns the active registry, or nil before a credential arrives.
func (m *Manager) Current() *Registry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.registry
}

// ChatModel exposes the active registry's model for auxiliary consumers.
func (m *Manager) ChatModel() (model.BaseChatModel, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.registry == nil {
		return nil, false
	}
	return m.registry.chatModel, true
}
