package term

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name               string
		start, end, number int
		wantErr            bool
	}{
		{"valid first", 2015, 2016, 1, false},
		{"valid second", 2015, 2016, 2, false},
		{"years not adjacent", 2015, 2017, 1, true},
		{"years reversed", 2016, 2015, 1, true},
		{"term zero", 2015, 2016, 0, true},
		{"term three", 2015, 2016, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.start, tt.end, tt.number)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() err = %v, wantErr %v", err, tt.wantErr)
			}
			if s.Start != tt.start || s.End != tt.end || s.Number != tt.number {
				t.Errorf("New() = %+v, fields not preserved", s)
			}
			var fe *FormatError
			if tt.wantErr && !errors.As(err, &fe) {
				t.Errorf("expected *FormatError, got %T", err)
			}
		})
	}
}

func TestEqualityAndString(t *testing.T) {
	a, _ := New(2015, 2016, 1)
	b, _ := New(2015, 2016, 1)
	c, _ := New(2015, 2016, 2)
	if a != b {
		t.Error("identical semesters should be equal")
	}
	if a == c {
		t.Error("different terms should not be equal")
	}
	if a.String() != "2015-2016-1" {
		t.Errorf("String() = %q", a.String())
	}
}

func TestParse(t *testing.T) {
	s, err := Parse("2016-2017-2")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s != (Semester{2016, 2017, 2}) {
		t.Errorf("Parse = %+v", s)
	}

	if _, err := Parse("2016-2017"); err == nil {
		t.Error("expected error for missing term")
	}
	if _, err := Parse("abcd-2017-1"); err == nil {
		t.Error("expected error for non-numeric year")
	}

	s, err = Parse("2016-2018-1")
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if s.String() != "2016-2018-1" {
		t.Errorf("malformed semester should still be returned, got %s", s)
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		from, to string
		want     []string
	}{
		{"2015-2016-1", "2015-2016-1", []string{"2015-2016-1"}},
		{"2015-2016-1", "2015-2016-2", []string{"2015-2016-1", "2015-2016-2"}},
		{"2015-2016-2", "2017-2018-1", []string{"2015-2016-2", "2016-2017-1", "2016-2017-2", "2017-2018-1"}},
		{"2015-2016-1", "2017-2018-2", []string{
			"2015-2016-1", "2015-2016-2", "2016-2017-1", "2016-2017-2", "2017-2018-1", "2017-2018-2",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.from+".."+tt.to, func(t *testing.T) {
			from, _ := Parse(tt.from)
			to, _ := Parse(tt.to)
			got, err := Range(from, to)
			if err != nil {
				t.Fatalf("Range: %v", err)
			}
			gotStr := Strings(got)
			if len(gotStr) != len(tt.want) {
				t.Fatalf("Range = %v, want %v", gotStr, tt.want)
			}
			for i := range tt.want {
				if gotStr[i] != tt.want[i] {
					t.Errorf("[%d] = %s, want %s", i, gotStr[i], tt.want[i])
				}
			}
		})
	}
}

func TestRangeErrors(t *testing.T) {
	a, _ := Parse("2016-2017-1")
	b, _ := Parse("2015-2016-2")
	if _, err := Range(a, b); !errors.Is(err, ErrEmptyRange) {
		t.Errorf("expected ErrEmptyRange, got %v", err)
	}
	bad := Semester{2015, 2017, 1}
	var fe *FormatError
	if _, err := Range(bad, a); !errors.As(err, &fe) {
		t.Errorf("expected FormatError, got %v", err)
	}
}

func TestParseSpan(t *testing.T) {
	tests := []struct {
		name       string
		from, to   string
		wantErr    bool
		wantFormat bool
	}{
		{"both valid", "2015-2016-1", "2016-2017-2", false, false},
		{"inconsistent from", "2015-2017-1", "2016-2017-2", true, true},
		{"inconsistent to", "2015-2016-1", "2016-2017-3", true, true},
		{"garbage to after inconsistent from", "2015-2017-1", "abc", true, false},
		{"garbage from", "abc", "2015-2016-1", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseSpan(tt.from, tt.to)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSpan() error = %v, wantErr %v", err, tt.wantErr)
			}
			var fe *FormatError
			if got := errors.As(err, &fe); got != tt.wantFormat {
				t.Errorf("errors.As(FormatError) = %v, want %v (%v)", got, tt.wantFormat, err)
			}
		})
	}
}
