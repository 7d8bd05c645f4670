// Package command implements the device side of the text protocol: a
// registry of named commands and the processor binding them to the
// controller, parameter set and config store.
package command

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charliebeadle/galvonium/protocol"
)

// Handler executes one command. args is the remainder of the line after
// the verb; replies are written to w, one line each, ERR-prefixed on
// failure.
type Handler func(args string, w io.Writer)

type entry struct {
	name    string
	help    string
	handler Handler
}

// Registry maps command verbs to handlers. Verbs match
// case-insensitively; help lines keep registration order.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
}

// Register adds a command. Re-registering a name replaces its handler.
func (r *Registry) Register(name, help string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.ToUpper(name)
	for i := range r.entries {
		if r.entries[i].name == name {
			r.entries[i].help = help
			r.entries[i].handler = h
			return
		}
	}
	r.entries = append(r.entries, entry{name: name, help: help, handler: h})
}

// Dispatch parses the verb off the line and runs its handler. Unknown
// verbs get an ERR reply.
func (r *Registry) Dispatch(line string, w io.Writer) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	verb := line
	args := ""
	if i := strings.IndexByte(line, ' '); i >= 0 {
		verb, args = line[:i], strings.TrimSpace(line[i+1:])
	}
	verb = strings.ToUpper(verb)

	r.mu.RLock()
	var h Handler
	for i := range r.entries {
		if r.entries[i].name == verb {
			h = r.entries[i].handler
			break
		}
	}
	r.mu.RUnlock()

	if h == nil {
		fmt.Fprintf(w, "%s Unknown command\n", protocol.ReplyErr)
		return
	}
	h(args, w)
}

// Help writes one line per registered command.
func (r *Registry) Help(w io.Writer) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		fmt.Fprintf(w, "%s %s\n", e.name, e.help)
	}
}
