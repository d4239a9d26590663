// Package command implements the registry and dispatcher for the remote
// command surface: named operations looked up by exact string match, gated
// on document editability, and wrapped in a uniform error envelope.
package command

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"drawbridge/internal/domain"
	"drawbridge/internal/params"
)

// Result is a command's success payload. Handlers set "success": true plus
// command-specific fields.
type Result map[string]any

// HandlerFunc executes one command against the document.
type HandlerFunc func(ctx context.Context, doc domain.Document, p params.Bag) (Result, error)

// Command is one named operation in the dispatch table.
type Command struct {
	Name string
	Doc  string
	// RequiresEditable marks mutating/creation commands that must be
	// rejected before the handler runs when the document is read-only.
	RequiresEditable bool
	Handler          HandlerFunc
}

// Registry holds the dispatch table. It is populated once at startup and
// read-only afterwards.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
	logger   *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		commands: make(map[string]Command),
		logger:   logger,
	}
}

func (r *Registry) Register(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd.Name] = cmd
	r.logger.Debug("registered command", "name", cmd.Name, "editable", cmd.RequiresEditable)
}

// Get returns the command for an exact name match, or false.
func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns all registered command names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.commands))
	for n := range r.commands {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Describe returns name/doc pairs for every command, sorted by name.
func (r *Registry) Describe() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
