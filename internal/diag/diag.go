// Package diag collects non-fatal diagnostics: data gaps and malformed input
// that are returned next to a result instead of failing it.
package diag

import "fmt"

// Set is an insertion-ordered set of messages. The zero value is ready to use.
type Set struct {
	seen  map[string]struct{}
	items []string
}

// Add records msg unless it is already present. It reports whether msg was new.
func (s *Set) Add(msg string) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[msg]; ok {
		return false
	}
	s.seen[msg] = struct{}{}
	s.items = append(s.items, msg)
	return true
}

// Addf formats and records a message.
func (s *Set) Addf(format string, args ...any) bool {
	return s.Add(fmt.Sprintf(format, args...))
}

// Merge adds every message of o in order.
func (s *Set) Merge(o *Set) {
	if o == nil {
		return
	}
	for _, m := range o.items {
		s.Add(m)
	}
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	c := &Set{}
	c.Merge(s)
	return c
}

// Len returns the number of distinct messages.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns the messages in insertion order.
func (s *Set) Items() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// List is the session-level log of diagnostics. Unlike Set it keeps repeats.
type List struct {
	items []string
}

// Add appends msg.
func (l *List) Add(msg string) {
	l.items = append(l.items, msg)
}

// Addf formats and appends a message.
func (l *List) Addf(format string, args ...any) {
	l.Add(fmt.Sprintf(format, args...))
}

// Extend appends msgs in order.
func (l *List) Extend(msgs ...string) {
	l.items = append(l.items, msgs...)
}

// Len returns the number of recorded messages.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// Items returns a copy of the messages in insertion order.
func (l *List) Items() []string {
	if l == nil {
		return nil
	}
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out
}
