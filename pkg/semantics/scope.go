package semantics

import (
	"github.com/slatelang/slate/pkg/types"
)

// SymbolTable is an ordered stack of lexical scopes mapping names to
// type descriptors. Scopes are pushed and popped in strict LIFO order
// matching block entry and exit; a name may be declared at most once
// per scope, but may shadow an outer declaration.
type SymbolTable struct {
	scopes []map[string]types.Type
}

// NewSymbolTable creates a table holding only the global scope.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{scopes: []map[string]types.Type{{}}}
}

// Push enters a new innermost scope.
func (st *SymbolTable) Push() {
	st.scopes = append(st.scopes, map[string]types.Type{})
}

// Pop leaves the innermost scope. The global scope is never popped.
func (st *SymbolTable) Pop() {
	if len(st.scopes) > 1 {
		st.scopes = st.scopes[:len(st.scopes)-1]
	}
}

// Depth returns the number of live scopes, the global scope included.
func (st *SymbolTable) Depth() int {
	return len(st.scopes)
}

// Declare binds name in the innermost scope. It fails if name is
// already declared in that scope; shadowing an outer scope is fine.
func (st *SymbolTable) Declare(name string, t types.Type) error {
	scope := st.scopes[len(st.scopes)-1]
	if _, exists := scope[name]; exists {
		return errf("%q is already declared in this scope", name)
	}
	scope[name] = t
	return nil
}

// Lookup resolves name innermost-to-outermost.
func (st *SymbolTable) Lookup(name string) (types.Type, bool) {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if t, ok := st.scopes[i][name]; ok {
			return t, true
		}
	}
	return nil, false
}
