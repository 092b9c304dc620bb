package ast

// VarNameManager is an append-only bijection between PB variable handles and
// their textual names. Interning is necessary because the grammar fabricates
// a handle for every name it sees for the first time, and later passes need
// the original text back to print a line.
type VarNameManager struct {
	names []string
	byVar map[string]VarHandle
}

// NewVarNameManager returns an empty manager.
func NewVarNameManager() *VarNameManager {
	return &VarNameManager{byVar: make(map[string]VarHandle)}
}

// Intern returns the handle for name, fabricating a new one on first sight.
func (m *VarNameManager) Intern(name string) VarHandle {
	if h, ok := m.byVar[name]; ok {
		return h
	}
	h := VarHandle(len(m.names))
	m.names = append(m.names, name)
	m.byVar[name] = h
	return h
}

// Name returns the textual name for a handle. Panics on an unknown handle:
// every handle in circulation was produced by Intern, so this indicates an
// internal-logic error rather than bad input.
func (m *VarNameManager) Name(v VarHandle) string {
	if int(v) < 0 || int(v) >= len(m.names) {
		panic("ast: unknown variable handle")
	}
	return m.names[v]
}

// Lookup returns the handle for name without interning it.
func (m *VarNameManager) Lookup(name string) (VarHandle, bool) {
	h, ok := m.byVar[name]
	return h, ok
}
