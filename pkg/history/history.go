// Package history keeps a bounded in-memory log of gas readings on the host
// side. Readings are delta-filtered: a new entry is recorded only when the
// gas value moved enough since the last recorded entry, or when the alert
// state flipped, so a steady sensor does not flood the log. Nothing is
// persisted.
package history

import "time"

const (
	// DefaultCapacity covers 24 hours of delta-filtered readings.
	DefaultCapacity = 8640
	// DefaultMinDelta is the minimum gas-value change between entries.
	DefaultMinDelta = 10
)

// Entry is one recorded reading.
type Entry struct {
	Timestamp time.Time
	Gas       int
	Threshold int
	LED       bool
	Buzzer    bool
	Auto      bool
	// Alert is whether the gas value exceeded the threshold when recorded.
	Alert bool
}

// Log is a fixed-capacity FIFO of entries with delta filtering.
// Not safe for concurrent use — caller must synchronize.
type Log struct {
	buf      []Entry
	capacity int
	head     int // next write position
	count    int

	minDelta  int
	lastGas   int
	lastAlert bool
	hasLast   bool
}

// NewLog creates a log. Non-positive capacity or a negative delta fall back
// to the defaults.
func NewLog(capacity, minDelta int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if minDelta < 0 {
		minDelta = DefaultMinDelta
	}
	return &Log{
		buf:      make([]Entry, capacity),
		capacity: capacity,
		minDelta: minDelta,
	}
}

// Record applies the delta filter and appends the entry if it passes,
// overwriting the oldest entry when full. It returns whether the entry was
// recorded. The Alert field is derived from Gas and Threshold.
func (l *Log) Record(e Entry) bool {
	e.Alert = e.Gas > e.Threshold

	if l.hasLast && abs(e.Gas-l.lastGas) < l.minDelta && e.Alert == l.lastAlert {
		return false
	}

	l.buf[l.head] = e
	l.head = (l.head + 1) % l.capacity
	if l.count < l.capacity {
		l.count++
	}

	l.lastGas = e.Gas
	l.lastAlert = e.Alert
	l.hasLast = true

	return true
}

// Entries returns all recorded entries, oldest first.
func (l *Log) Entries() []Entry {
	if l.count == 0 {
		return nil
	}

	result := make([]Entry, l.count)
	start := (l.head - l.count + l.capacity) % l.capacity
	for i := 0; i < l.count; i++ {
		result[i] = l.buf[(start+i)%l.capacity]
	}
	return result
}

// Tail returns the most recent n entries, oldest first.
func (l *Log) Tail(n int) []Entry {
	entries := l.Entries()
	if n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	return l.count
}

// Cap returns the log capacity.
func (l *Log) Cap() int {
	return l.capacity
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
