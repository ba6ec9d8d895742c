// Package theme holds the binary dark/light preference and the colors derived from it.
package theme

import (
	"context"
	"errors"
	"sync"

	"vidbrief/config"
	"vidbrief/store"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

// Theme is either Dark or Light
type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// Parse maps a stored literal onto a Theme. Only "dark" is dark.
func Parse(s string) Theme {
	if s == string(Dark) {
		return Dark
	}
	return Light
}

// IsDark reports whether t is the dark theme
func (t Theme) IsDark() bool { return t == Dark }

// Class returns the single active style class for t
func (t Theme) Class() string {
	if t.IsDark() {
		return "dark-theme"
	}
	return "light-theme"
}

// Icon is the toggle glyph shown for t
func (t Theme) Icon() string {
	if t.IsDark() {
		return "☾"
	}
	return "☀"
}

// Listener is notified after every theme change
type Listener func(Theme)

// Detector reports the OS or terminal preference
type Detector func() bool

// DetectTerminal asks the terminal for its background color
func DetectTerminal() bool {
	return lipgloss.HasDarkBackground()
}

// Manager owns the current theme. It is safe for concurrent use.
type Manager struct {
	kv        store.KV
	detect    Detector
	mu        sync.RWMutex
	current   Theme
	listeners []Listener
}

// NewManager creates a manager and resolves the initial theme from kv,
// falling back to detect when nothing is stored. The resolved theme is persisted.
func NewManager(ctx context.Context, kv store.KV, detect Detector) *Manager {
	if detect == nil {
		detect = DetectTerminal
	}
	m := &Manager{kv: kv, detect: detect}
	m.current = m.resolve(ctx)
	m.persist(ctx, m.current)
	return m
}

func (m *Manager) resolve(ctx context.Context) Theme {
	raw, err := m.kv.Get(ctx, config.ThemeKey)
	switch {
	case err == nil:
		return Parse(string(raw))
	case errors.Is(err, store.ErrNotFound):
	default:
		logrus.WithError(err).Warn("Failed to load theme preference")
	}
	if m.detect() {
		return Dark
	}
	return Light
}

// Current returns the active theme
func (m *Manager) Current() Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Palette returns the colors for the active theme
func (m *Manager) Palette() Palette {
	return PaletteFor(m.Current())
}

// Subscribe registers fn and immediately calls it with the current theme
func (m *Manager) Subscribe(fn Listener) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	current := m.current
	m.mu.Unlock()
	fn(current)
}

// Toggle flips the theme and returns the new value
func (m *Manager) Toggle(ctx context.Context) Theme {
	m.mu.RLock()
	next := Dark
	if m.current.IsDark() {
		next = Light
	}
	m.mu.RUnlock()
	m.Set(ctx, next)
	return next
}

// Set applies t, persists it, and notifies listeners
func (m *Manager) Set(ctx context.Context, t Theme) {
	m.mu.Lock()
	m.current = t
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.Unlock()

	m.persist(ctx, t)
	for _, fn := range listeners {
		fn(t)
	}
}

func (m *Manager) persist(ctx context.Context, t Theme) {
	if err := m.kv.Set(ctx, config.ThemeKey, []byte(t)); err != nil {
		logrus.WithError(err).WithField("theme", t).Warn("Failed to save theme preference")
	}
}
