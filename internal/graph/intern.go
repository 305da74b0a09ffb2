package graph

// Table interns canonical names to dense integer ids. Ids start at 0 and are
// never reused or invalidated; every id handed out by Intern can be turned
// back into its string with Resolve.
//
// File names and symbol names share this single table. A file and a symbol
// whose names sanitize to the same string therefore collide to the same id
// and the same graph node. That is a documented property, not an error.
type Table struct {
	ids   map[string]int
	names []string
}

func NewTable() *Table {
	return &Table{ids: make(map[string]int)}
}

// Intern returns the existing id for name, or allocates the next one.
func (t *Table) Intern(name string) int {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := len(t.names)
	t.ids[name] = id
	t.names = append(t.names, name)
	return id
}

// Resolve is the inverse of Intern.
func (t *Table) Resolve(id int) (string, bool) {
	if id < 0 || id >= len(t.names) {
		return "", false
	}
	return t.names[id], true
}

// Len reports the number of distinct names interned so far.
func (t *Table) Len() int {
	return len(t.names)
}
