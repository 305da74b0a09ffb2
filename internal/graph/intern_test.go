package graph

import "testing"

func TestTable_InternStable(t *testing.T) {
	table := NewTable()

	a := table.Intern("foo")
	b := table.Intern("bar")
	if a == b {
		t.Fatalf("distinct strings got the same id %d", a)
	}

	if again := table.Intern("foo"); again != a {
		t.Errorf("Intern(%q) = %d on second call, want %d", "foo", again, a)
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
}

func TestTable_ResolveRoundtrip(t *testing.T) {
	table := NewTable()

	for _, name := range []string{"liba_so", "foo", "x"} {
		id := table.Intern(name)
		got, ok := table.Resolve(id)
		if !ok {
			t.Fatalf("Resolve(%d) failed for %q", id, name)
		}
		if got != name {
			t.Errorf("Resolve(Intern(%q)) = %q", name, got)
		}
	}
}

func TestTable_ResolveUnknown(t *testing.T) {
	table := NewTable()
	table.Intern("only")

	if _, ok := table.Resolve(5); ok {
		t.Error("Resolve(5) succeeded for an id that was never issued")
	}
	if _, ok := table.Resolve(-1); ok {
		t.Error("Resolve(-1) succeeded")
	}
}
