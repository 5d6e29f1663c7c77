package acquire

import (
	"sync"
	"time"

	"ttc/internal/domain"
)

// Session buffers the samples of the test currently being acquired. The
// buffer is unbounded — a test runs until the operator stops it — and
// appends never block the producer. Safe for one producer and one consumer.
type Session struct {
	mu      sync.Mutex
	started time.Time
	samples []domain.Sample
	peak    float64
	now     func() time.Time
}

// NewSession starts a session clocked from now.
func NewSession() *Session {
	return newSessionAt(time.Now)
}

func newSessionAt(now func() time.Time) *Session {
	return &Session{started: now(), now: now}
}

// Add appends a sample. A sample without a wire timestamp (Elapsed ==
// NoTimestamp) is stamped from the session clock.
func (s *Session) Add(sample domain.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sample.Elapsed == NoTimestamp {
		sample.Elapsed = s.now().Sub(s.started).Seconds()
	}
	if sample.Peak > s.peak {
		s.peak = sample.Peak
	}
	s.samples = append(s.samples, sample)
}

// Snapshot returns a copy of the buffered samples.
func (s *Session) Snapshot() []domain.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// Count returns the number of buffered samples.
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}

// Peak returns the highest peak seen so far.
func (s *Session) Peak() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peak
}

// StartedAt returns the session start time.
func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Discard abandons every buffered sample without touching disk and restarts
// the session clock.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = nil
	s.peak = 0
	s.started = s.now()
}

// Record freezes the buffer into a test record. PeakForce is the highest
// sample peak and CreatedAt the session start time. The session keeps its
// buffer; callers discard explicitly when done.
func (s *Session) Record(name, technician, notes string) domain.TestRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	samples := make([]domain.Sample, len(s.samples))
	copy(samples, s.samples)

	return domain.TestRecord{
		Name:       name,
		Technician: technician,
		CreatedAt:  s.started,
		Notes:      notes,
		PeakForce:  s.peak,
		Samples:    samples,
	}
}
