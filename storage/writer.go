package storage

import (
	"sync"
	"time"
)

// AsyncWriter persists values for a single key in the background. Writes
// never block the caller, and a slow older write can never land after and
// overwrite a newer one: at most one flush runs at a time and it always
// picks up the latest submitted value, skipping intermediates.
type AsyncWriter struct {
	store Store
	key   string
	ttl   time.Duration

	mu       sync.Mutex
	pending  string
	dirty    bool
	flushing bool
}

// NewAsyncWriter builds a writer for one key of st.
func NewAsyncWriter(st Store, key string, ttl time.Duration) *AsyncWriter {
	return &AsyncWriter{store: st, key: key, ttl: ttl}
}

// Write submits value for persistence. To keep submissions ordered with the
// state they snapshot, call Write while still holding the lock that guarded
// the mutation.
func (w *AsyncWriter) Write(value string) {
	w.mu.Lock()
	w.pending = value
	w.dirty = true
	if w.flushing {
		w.mu.Unlock()
		return
	}
	w.flushing = true
	w.mu.Unlock()
	go w.flush()
}

func (w *AsyncWriter) flush() {
	for {
		w.mu.Lock()
		if !w.dirty {
			w.flushing = false
			w.mu.Unlock()
			return
		}
		value := w.pending
		w.dirty = false
		w.mu.Unlock()
		w.store.Set(w.key, value, w.ttl)
	}
}
