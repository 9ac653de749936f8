package diag

import "testing"

func TestSetDeduplicates(t *testing.T) {
	var s Set
	if !s.Add("a") {
		t.Error("first Add should report new")
	}
	if s.Add("a") {
		t.Error("second Add should report duplicate")
	}
	s.Addf("missing %s", "b")
	got := s.Items()
	if len(got) != 2 || got[0] != "a" || got[1] != "missing b" {
		t.Errorf("Items() = %v", got)
	}
}

func TestSetCloneIsIndependent(t *testing.T) {
	var s Set
	s.Add("x")
	c := s.Clone()
	c.Add("y")
	if s.Len() != 1 {
		t.Errorf("original modified by clone: %v", s.Items())
	}
	if c.Len() != 2 {
		t.Errorf("clone Len = %d, want 2", c.Len())
	}
}

func TestListKeepsRepeats(t *testing.T) {
	var l List
	l.Add("a")
	l.Add("a")
	l.Extend("b", "c")
	if l.Len() != 4 {
		t.Errorf("Len = %d, want 4", l.Len())
	}
	var nilList *List
	if nilList.Len() != 0 || nilList.Items() != nil {
		t.Error("nil list should be empty")
	}
}
