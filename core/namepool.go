package core

// Name is an interned identifier: tag names, attribute names, field names.
// Two Names from the same pool compare equal by pointer (§3.2, "pointer
// equality afterwards"); NamePool.Intern is the only way to mint one.
type Name struct {
	text string
}

func (n *Name) String() string { return n.text }

// NamePool interns short identifiers for the lifetime of the process, not
// per-input (§3.7: "Name-pool entries live for the full session"). A single
// pool is normally shared across every Input in a session so that, e.g., the
// HTML tag name "div" is the same *Name pointer everywhere.
type NamePool struct {
	entries map[string]*Name
}

func NewNamePool() *NamePool {
	return &NamePool{entries: make(map[string]*Name, 256)}
}

// Intern returns the canonical *Name for text, creating it on first use.
func (p *NamePool) Intern(text string) *Name {
	if n, ok := p.entries[text]; ok {
		return n
	}
	n := &Name{text: text}
	p.entries[text] = n
	return n
}

func (p *NamePool) InternBytes(b []byte) *Name {
	return p.Intern(string(b))
}

// Len reports how many distinct names have been interned, used by
// diagnostics and tests.
func (p *NamePool) Len() int { return len(p.entries) }
