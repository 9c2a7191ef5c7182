package lsp

import "sync"

// DocumentManager tracks the content of open documents by URI. It is
// safe for concurrent use; the JSON-RPC layer may dispatch handlers in
// parallel.
type DocumentManager struct {
	mu   sync.RWMutex
	docs map[string]string
}

// NewDocumentManager creates an empty manager.
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{docs: make(map[string]string)}
}

// Set stores the current content of a document.
func (m *DocumentManager) Set(uri, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[uri] = content
}

// Get returns a document's content.
func (m *DocumentManager) Get(uri string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.docs[uri]
	return content, ok
}

// Delete forgets a closed document.
func (m *DocumentManager) Delete(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, uri)
}
