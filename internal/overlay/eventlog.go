package overlay

import (
	"fmt"
	"strings"
)

// Entry is one recorded overlay event.
type Entry struct {
	Tick     int
	Category string  // map, feed, fog, lifecycle
	Key      string  // specific event within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] map      zoom             13.00 -> 14.00
func (e Entry) String() string {
	return fmt.Sprintf("[T=%03d] %-8s %-16s %s", e.Tick, e.Category, e.Key, e.Value)
}

// EventLog records overlay events. With a positive capacity it keeps only the
// most recent entries (ring buffer); otherwise it grows without bound.
type EventLog struct {
	entries  []Entry
	head     int
	count    int
	capacity int
	verbose  bool
}

// NewEventLog creates a log. capacity <= 0 means unbounded. If verbose is true
// per-repaint entries are kept as well.
func NewEventLog(capacity int, verbose bool) *EventLog {
	l := &EventLog{capacity: capacity, verbose: verbose}
	if capacity > 0 {
		l.entries = make([]Entry, capacity)
	}
	return l
}

// Add records an entry.
func (l *EventLog) Add(tick int, category, key, value string, numVal float64) {
	e := Entry{Tick: tick, Category: category, Key: key, Value: value, NumVal: numVal}
	if l.capacity <= 0 {
		l.entries = append(l.entries, e)
		l.count++
		return
	}
	l.entries[l.head] = e
	l.head = (l.head + 1) % l.capacity
	if l.count < l.capacity {
		l.count++
	}
}

// AddVerbose records an entry only when verbose mode is on.
func (l *EventLog) AddVerbose(tick int, category, key, value string, numVal float64) {
	if !l.verbose {
		return
	}
	l.Add(tick, category, key, value, numVal)
}

// Entries returns the retained entries, oldest first.
func (l *EventLog) Entries() []Entry {
	if l.capacity <= 0 {
		return l.entries
	}
	out := make([]Entry, l.count)
	for i := 0; i < l.count; i++ {
		idx := (l.head - l.count + i + l.capacity) % l.capacity
		out[i] = l.entries[idx]
	}
	return out
}

// Len returns the number of retained entries.
func (l *EventLog) Len() int { return l.count }

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (l *EventLog) Filter(category, key string) []Entry {
	var out []Entry
	for _, e := range l.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count returns the number of entries matching category/key.
func (l *EventLog) Count(category, key string) int {
	return len(l.Filter(category, key))
}

// Format renders all entries as newline-separated lines.
func (l *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range l.Entries() {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
