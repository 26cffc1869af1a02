package manager

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ruler-hq/ruler/pkg/rulebook/ast"
	"ruler-hq/ruler/pkg/rulebook/parser"
)

// Config contains configuration for the rulebook manager.
type Config struct {
	// Path is the rulebook file or directory to load from.
	Path string

	// WatchEnabled enables hot reload on file changes.
	WatchEnabled bool

	// DebounceInterval is the reload debounce window (default: 100ms).
	DebounceInterval time.Duration

	// MaxFileSize is the maximum rulebook file size in bytes.
	MaxFileSize int64
}

// RulebookManager coordinates rulebook loading, registration, and hot
// reload. Reloads are atomic: either the whole new clause set applies or
// the previous set stays active.
type RulebookManager struct {
	config   *Config
	loader   *RulebookLoader
	registry *ClauseRegistry
	logger   *slog.Logger

	mu             sync.RWMutex
	lastLoadError  error
	lastGoodSet    []*ast.Clause
	reloadHooks    []func()

	watchMu     sync.Mutex
	watcher     *rulebookWatcher
	watchCancel context.CancelFunc
}

// NewRulebookManager creates a new rulebook manager.
func NewRulebookManager(config *Config, p *parser.Parser, logger *slog.Logger) (*RulebookManager, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.Path == "" {
		return nil, fmt.Errorf("rulebook path cannot be empty")
	}
	if p == nil {
		p = parser.NewParser()
	}
	if logger == nil {
		logger = slog.Default()
	}

	loaderConfig := DefaultLoaderConfig()
	if config.MaxFileSize > 0 {
		loaderConfig.MaxFileSize = config.MaxFileSize
	}

	return &RulebookManager{
		config:   config,
		loader:   NewRulebookLoader(loaderConfig, p),
		registry: NewClauseRegistry(),
		logger:   logger,
	}, nil
}

// Load loads all clauses from the configured source and registers them.
func (m *RulebookManager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	startTime := time.Now()
	m.logger.Info("Loading rulebook", "path", m.config.Path)

	clauses, err := m.loader.LoadClauses(m.config.Path)
	if err != nil {
		m.lastLoadError = err
		m.logger.Error("Failed to load rulebook",
			"error", err,
			"duration_ms", time.Since(startTime).Milliseconds(),
		)
		return err
	}

	if err := m.registry.Replace(clauses); err != nil {
		m.lastLoadError = err
		m.logger.Error("Failed to register clauses",
			"error", err,
			"duration_ms", time.Since(startTime).Milliseconds(),
		)
		return err
	}

	m.lastLoadError = nil
	m.lastGoodSet = clauses

	m.logger.Info("Rulebook loaded",
		"clauses", len(clauses),
		"version", m.registry.Version(),
		"duration_ms", time.Since(startTime).Milliseconds(),
	)
	return nil
}

// Reload reloads all clauses from the configured source. If loading or
// registration fails, the previously loaded clauses remain active.
func (m *RulebookManager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	startTime := time.Now()
	m.logger.Info("Reloading rulebook", "path", m.config.Path)

	clauses, err := m.loader.LoadClauses(m.config.Path)
	if err != nil {
		m.lastLoadError = err
		m.logger.Error("Rulebook reload failed, keeping previous clauses",
			"error", err,
			"duration_ms", time.Since(startTime).Milliseconds(),
		)
		return err
	}

	if err := m.registry.Replace(clauses); err != nil {
		m.lastLoadError = err
		m.logger.Error("Clause registration failed during reload, keeping previous clauses",
			"error", err,
			"duration_ms", time.Since(startTime).Milliseconds(),
		)
		if len(m.lastGoodSet) > 0 {
			_ = m.registry.Replace(m.lastGoodSet)
		}
		return err
	}

	m.lastLoadError = nil
	m.lastGoodSet = clauses

	m.logger.Info("Rulebook reloaded",
		"clauses", len(clauses),
		"version", m.registry.Version(),
		"duration_ms", time.Since(startTime).Milliseconds(),
	)

	for _, hook := range m.reloadHooks {
		hook()
	}
	return nil
}

// OnReload registers a hook invoked after every successful reload.
// Hooks must be registered before Watch starts.
func (m *RulebookManager) OnReload(hook func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reloadHooks = append(m.reloadHooks, hook)
}

// Clause retrieves a clause by ID.
func (m *RulebookManager) Clause(id string) (*ast.Clause, bool) {
	return m.registry.Get(id)
}

// Clauses retrieves all clauses in rulebook declaration order.
func (m *RulebookManager) Clauses() []*ast.Clause {
	return m.registry.GetAll()
}

// ClauseIDs returns all clause IDs in rulebook declaration order.
func (m *RulebookManager) ClauseIDs() []string {
	return m.registry.ClauseIDs()
}

// Version returns the version of the currently loaded rulebook.
func (m *RulebookManager) Version() string {
	return m.registry.Version()
}

// Stats returns statistics about the loaded rulebook.
func (m *RulebookManager) Stats() RegistryStats {
	return m.registry.Stats()
}

// LastLoadError returns the error from the most recent load or reload.
func (m *RulebookManager) LastLoadError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastLoadError
}

// Watch starts watching the rulebook source for changes. When changes are
// detected, clauses are automatically reloaded. This is a blocking
// operation that runs until the context is cancelled.
func (m *RulebookManager) Watch(ctx context.Context) error {
	if !m.config.WatchEnabled {
		return fmt.Errorf("watching is not enabled")
	}

	m.watchMu.Lock()
	if m.watcher != nil {
		m.watchMu.Unlock()
		return fmt.Errorf("already watching")
	}

	watcher, err := newRulebookWatcher(m.config.Path, m.config.DebounceInterval, m.logger)
	if err != nil {
		m.watchMu.Unlock()
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	m.watcher = watcher
	m.watchCancel = cancel
	m.watchMu.Unlock()

	return watcher.run(watchCtx, m.Reload)
}

// Close stops any active watcher and releases resources.
func (m *RulebookManager) Close() error {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()

	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}

	if m.watcher != nil {
		err := m.watcher.Stop()
		m.watcher = nil
		return err
	}
	return nil
}
