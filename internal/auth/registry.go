package auth

import "sync"

// Registry records the single currently-valid session nonce per user.
// A login elsewhere rotates the nonce of record, which invalidates
// every other session held for that user.
//
// The registry lives in process memory: it does not survive a restart
// and is not shared between server instances. That is fine for a
// single-process deployment; running multiple instances requires a
// shared backend behind this same surface.
type Registry struct {
	mu     sync.Mutex
	nonces map[string]string
}

// NewRegistry creates an empty nonce registry.
func NewRegistry() *Registry {
	return &Registry{nonces: make(map[string]string)}
}

// Set records nonce as the nonce of record for uid.
func (r *Registry) Set(uid, nonce string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nonces[uid] = nonce
}

// Get returns the nonce of record for uid.
func (r *Registry) Get(uid string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	nonce, ok := r.nonces[uid]
	return nonce, ok
}

// Delete drops the nonce of record for uid.
func (r *Registry) Delete(uid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.nonces, uid)
}
