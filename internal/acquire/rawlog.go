package acquire

import "sync"

// DefaultRawLogLines bounds the raw-line log so the viewer's memory stays
// fixed during long captures.
const DefaultRawLogLines = 1000

// RawLog is a bounded FIFO ring of raw lines received from the measurement
// source. When full, Add evicts the oldest entry instead of blocking.
type RawLog struct {
	mu    sync.Mutex
	buf   []string
	head  int
	count int
}

// NewRawLog creates a log holding at most max lines. A non-positive max
// falls back to DefaultRawLogLines.
func NewRawLog(max int) *RawLog {
	if max <= 0 {
		max = DefaultRawLogLines
	}
	return &RawLog{buf: make([]string, max)}
}

// Add appends a line, evicting the oldest when the log is full.
func (l *RawLog) Add(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tail := (l.head + l.count) % len(l.buf)
	l.buf[tail] = line
	if l.count < len(l.buf) {
		l.count++
	} else {
		l.head = (l.head + 1) % len(l.buf)
	}
}

// Lines returns the buffered lines oldest first.
func (l *RawLog) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, l.count)
	for i := 0; i < l.count; i++ {
		out[i] = l.buf[(l.head+i)%len(l.buf)]
	}
	return out
}

// Len returns the number of buffered lines.
func (l *RawLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
