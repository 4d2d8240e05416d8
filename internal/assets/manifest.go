// Package assets resolves build inputs to the hashed files produced by the
// frontend build.
package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

// Entry is one record of a Vite manifest.json.
type Entry struct {
	File    string   `json:"file"`
	Src     string   `json:"src,omitempty"`
	IsEntry bool     `json:"isEntry,omitempty"`
	CSS     []string `json:"css,omitempty"`
}

// Input names a build entry point and where to find it when no manifest has
// been built.
type Input struct {
	Source   string
	Fallback string
}

// DefaultInputs are the entry points of the frontend build.
var DefaultInputs = map[string]Input{
	"critical": {Source: "resources/css/critical.css", Fallback: "/static/css/critical.css"},
	"app":      {Source: "resources/css/app.css", Fallback: "/static/css/app.css"},
	"js":       {Source: "resources/js/app.js", Fallback: "/static/js/app.js"},
}

// DefaultBaseURL is the public prefix of the build output directory.
const DefaultBaseURL = "/static/build/"

// Manifest maps logical inputs to public URLs. It is safe for concurrent use.
type Manifest struct {
	fs      afero.Fs
	path    string
	baseURL string
	inputs  map[string]Input
	logger  *slog.Logger

	mu      sync.RWMutex
	entries map[string]Entry
}

// Option configures a Manifest.
type Option func(*Manifest)

// WithBaseURL sets the prefix prepended to manifest file paths.
func WithBaseURL(base string) Option {
	return func(m *Manifest) {
		m.baseURL = base
	}
}

// WithInputs replaces DefaultInputs.
func WithInputs(inputs map[string]Input) Option {
	return func(m *Manifest) {
		m.inputs = inputs
	}
}

// NewManifest creates a manifest backed by the file at manifestPath on fsys.
// Call Load to read it.
func NewManifest(fsys afero.Fs, manifestPath string, opts ...Option) *Manifest {
	m := &Manifest{
		fs:      fsys,
		path:    manifestPath,
		baseURL: DefaultBaseURL,
		inputs:  DefaultInputs,
		logger:  slog.Default().With("component", "assets"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load reads the manifest file. A missing file is not an error: every input
// then resolves to its fallback.
func (m *Manifest) Load() error {
	data, err := afero.ReadFile(m.fs, m.path)
	if errors.Is(err, fs.ErrNotExist) {
		m.logger.Debug("No asset manifest, using fallback paths", "path", m.path)
		m.set(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read asset manifest: %w", err)
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse asset manifest %s: %w", m.path, err)
	}
	m.set(entries)
	m.logger.Info("Asset manifest loaded", "path", m.path, "entries", len(entries))
	return nil
}

func (m *Manifest) set(entries map[string]Entry) {
	m.mu.Lock()
	m.entries = entries
	m.mu.Unlock()
}

// URL returns the public URL for a logical input such as "app". Unknown
// inputs return "".
func (m *Manifest) URL(input string) string {
	in, ok := m.inputs[input]
	if !ok {
		return ""
	}

	m.mu.RLock()
	entry, found := m.entries[in.Source]
	m.mu.RUnlock()

	if !found || entry.File == "" {
		return in.Fallback
	}
	return path.Join(m.baseURL, entry.File)
}

// Watch reloads the manifest whenever its file changes, until ctx is done.
// It only works for manifests on the OS filesystem.
func (m *Manifest) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create manifest watcher: %w", err)
	}

	// Watch the directory: build tools replace the file rather than write it.
	dir := filepath.Dir(m.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go func() {
		defer watcher.Close()
		target := filepath.Clean(m.path)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
					if err := m.Load(); err != nil {
						m.logger.Warn("Failed to reload asset manifest", "error", err)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				m.logger.Warn("Asset manifest watcher error", "error", err)
			}
		}
	}()
	return nil
}
