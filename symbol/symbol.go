// Package symbol assigns stable small integer ids to textual symbol
// names and parses the base/quote currency pair out of a name.
//
// Registry is the concurrent symbol table described in spec.md §4.1:
// interning is idempotent, ids are assigned sequentially from 0 and
// are stable for the process lifetime, and concurrent interners of the
// same name observe a single winning id.
package symbol

import "sync"

// Symbol is the metadata associated with an interned name.
type Symbol struct {
	ID    uint16
	Name  string
	Base  string
	Quote string
}

// Registry is a concurrent name -> Symbol table. The zero value is not
// usable; construct with NewRegistry.
type Registry struct {
	mu      sync.Mutex
	byName  map[string]Symbol
	byID    []Symbol // dense, indexed by Symbol.ID
	nextID  uint16
	overran bool
}

// NewRegistry creates an empty symbol registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Symbol),
		byID:   make([]Symbol, 0, 64),
	}
}

// Intern returns the stable id for name, allocating a new one on first
// sight. Intern is idempotent and safe for concurrent use: the id
// counter advances in the same critical section as the map insert, so
// concurrent first-callers for the same name never observe two
// different winning ids.
//
// Invalid names are accepted verbatim (spec.md §4.1): base/quote fall
// back to a 3/3 split when the name is long enough and contains no '/'.
func (r *Registry) Intern(name string) uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sym, ok := r.byName[name]; ok {
		return sym.ID
	}

	id := r.nextID
	r.nextID++

	base, quote := parsePair(name)
	sym := Symbol{ID: id, Name: name, Base: base, Quote: quote}
	r.byName[name] = sym
	r.byID = append(r.byID, sym)

	return id
}

// Resolve performs a non-creating lookup, returning the id and true if
// name has been interned, or the zero id and false otherwise.
func (r *Registry) Resolve(name string) (uint16, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sym, ok := r.byName[name]
	if !ok {
		return 0, false
	}

	return sym.ID, true
}

// Lookup returns the full Symbol record for id, if known.
func (r *Registry) Lookup(id uint16) (Symbol, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if int(id) >= len(r.byID) {
		return Symbol{}, false
	}

	return r.byID[id], true
}

// List returns a snapshot of currently known symbol names. Order is
// unspecified beyond being stable for a single call.
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, len(r.byID))
	for i, sym := range r.byID {
		names[i] = sym.Name
	}

	return names
}

// parsePair splits name into base/quote. If name contains '/', it
// splits on the first occurrence; otherwise it splits at offset 3 when
// the name is at least 6 characters long (e.g. "EURUSD" -> "EUR"/"USD").
// Shorter or otherwise irregular names yield an empty quote.
func parsePair(name string) (string, string) {
	for i := 0; i < len(name); i++ {
		if name[i] == '/' {
			return name[:i], name[i+1:]
		}
	}

	if len(name) >= 6 {
		return name[:3], name[3:]
	}

	return name, ""
}
