package procrun

import (
	"bytes"
	"sync"
)

// headWriter keeps the first limit bytes written and silently drops the
// rest. Lookups only care about the leading lines, and the cap protects
// against a misbehaving child flooding memory.
type headWriter struct {
	mu        sync.Mutex
	limit     int64
	buf       bytes.Buffer
	truncated bool
}

func newHeadWriter(limit int64) *headWriter {
	return &headWriter{limit: limit}
}

func (w *headWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.limit <= 0 {
		w.buf.Write(p)
		return len(p), nil
	}
	room := w.limit - int64(w.buf.Len())
	if room <= 0 {
		if len(p) > 0 {
			w.truncated = true
		}
		return len(p), nil
	}
	if int64(len(p)) > room {
		w.buf.Write(p[:room])
		w.truncated = true
		return len(p), nil
	}
	w.buf.Write(p)
	return len(p), nil
}

func (w *headWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	// Replace invalid UTF-8 sequences; a cut can land mid-rune.
	return string(bytes.ToValidUTF8(w.buf.Bytes(), []byte("\uFFFD")))
}

func (w *headWriter) Truncated() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.truncated
}
