package report

// Assemble partitions rows into tables by opts.GroupBy in order of first
// appearance, then sorts and ranks each table.
func Assemble(rows []Row, opts Options) []Table {
	tables := Group(rows, opts.GroupBy)
	for i := range tables {
		SortRows(tables[i].Rows, opts.SortBy)
		RankRows(tables[i].Rows)
	}
	return tables
}

// Group partitions rows by key. With GroupNone every row lands in one table
// named DefaultTableName.
func Group(rows []Row, by GroupBy) []Table {
	var tables []Table
	index := make(map[string]int)
	for _, r := range rows {
		name, major, source := by.key(r)
		i, ok := index[name]
		if !ok {
			i = len(tables)
			index[name] = i
			tables = append(tables, Table{Name: name, Major: major, Source: source})
		}
		tables[i].Rows = append(tables[i].Rows, r)
	}
	if len(tables) == 0 && (by == GroupNone || by == "") {
		tables = append(tables, Table{Name: DefaultTableName})
	}
	return tables
}
