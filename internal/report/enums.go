package report

import "strings"

// SortBy selects the row order within a table.
type SortBy string

const (
	SortNone SortBy = "none"
	SortGPA  SortBy = "gpa"
	SortCAA  SortBy = "caa"
	SortID   SortBy = "id"
)

func (s SortBy) Valid() bool {
	switch s {
	case SortNone, SortGPA, SortCAA, SortID:
		return true
	}
	return false
}

// ParseSortBy reads a sort key case-insensitively. Empty means SortNone.
func ParseSortBy(s string) (SortBy, bool) {
	if strings.TrimSpace(s) == "" {
		return SortNone, true
	}
	v := SortBy(strings.ToLower(strings.TrimSpace(s)))
	return v, v.Valid()
}

// GroupBy selects how students are partitioned into tables.
type GroupBy string

const (
	GroupNone        GroupBy = "none"
	GroupMajor       GroupBy = "major"
	GroupSource      GroupBy = "source"
	GroupMajorSource GroupBy = "major+source"
)

func (g GroupBy) Valid() bool {
	switch g {
	case GroupNone, GroupMajor, GroupSource, GroupMajorSource:
		return true
	}
	return false
}

// ParseGroupBy reads a grouping key case-insensitively. Empty means GroupNone.
func ParseGroupBy(s string) (GroupBy, bool) {
	if strings.TrimSpace(s) == "" {
		return GroupNone, true
	}
	v := GroupBy(strings.ToLower(strings.TrimSpace(s)))
	return v, v.Valid()
}

// key returns the group key of a row and the attributes it carries.
func (g GroupBy) key(r Row) (name, major, source string) {
	switch g {
	case GroupMajor:
		return r.Major, r.Major, ""
	case GroupSource:
		return r.Source, "", r.Source
	case GroupMajorSource:
		return r.Major + "-" + r.Source, r.Major, r.Source
	default:
		return DefaultTableName, "", ""
	}
}
