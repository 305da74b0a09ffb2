package graph

import (
	"strings"
	"testing"
)

func TestWriter_EndToEnd(t *testing.T) {
	g := newTestGraph(t)

	a := mustAddFile(t, g, "liba.so")
	g.AddSymbol(a, "foo", true)
	b := mustAddFile(t, g, "libb.so")
	g.AddSymbol(b, "foo", false)

	want := "digraph deps {\n" +
		"    n0 [label=\"liba_so\"]\n" +
		"    n2 [label=\"libb_so\"]\n" +
		"    n2 -> n0 [label=\"foo\"]\n" +
		"}\n"

	if got := NewWriter(g).Generate(); got != want {
		t.Errorf("Generate() =\n%s\nwant:\n%s", got, want)
	}
}

func TestWriter_ReverseOrderSameEdges(t *testing.T) {
	g := newTestGraph(t)

	b := mustAddFile(t, g, "libb.so")
	g.AddSymbol(b, "foo", false)
	a := mustAddFile(t, g, "liba.so")
	g.AddSymbol(a, "foo", true)

	out := NewWriter(g).Generate()

	// Ids differ from the forward run, but the rendered relationship is the
	// same: libb_so depends on liba_so via foo.
	if !strings.Contains(out, "n0 [label=\"libb_so\"]") {
		t.Errorf("missing libb_so node in:\n%s", out)
	}
	if !strings.Contains(out, "n2 [label=\"liba_so\"]") {
		t.Errorf("missing liba_so node in:\n%s", out)
	}
	if !strings.Contains(out, "n0 -> n2 [label=\"foo\"]") {
		t.Errorf("missing edge in:\n%s", out)
	}
}

func TestWriter_ParallelSymbolLines(t *testing.T) {
	g := newTestGraph(t)

	b := mustAddFile(t, g, "libb.so")
	g.AddSymbol(b, "x", true)
	g.AddSymbol(b, "y", true)
	a := mustAddFile(t, g, "liba.so")
	g.AddSymbol(a, "x", false)
	g.AddSymbol(a, "y", false)

	out := NewWriter(g).Generate()

	if !strings.Contains(out, "[label=\"x\"]") || !strings.Contains(out, "[label=\"y\"]") {
		t.Fatalf("expected two labeled edge lines in:\n%s", out)
	}
	if strings.Count(out, "->") != 2 {
		t.Errorf("edge line count = %d, want 2:\n%s", strings.Count(out, "->"), out)
	}
}

func TestWriter_MergedEdgeUnlabeled(t *testing.T) {
	g := newTestGraph(t)

	b := mustAddFile(t, g, "libb.so")
	g.AddSymbol(b, "x", true)
	g.AddSymbol(b, "y", true)
	a := mustAddFile(t, g, "liba.so")
	g.AddSymbol(a, "x", false)
	g.AddSymbol(a, "y", false)

	g.Merge()
	out := NewWriter(g).Generate()

	if strings.Count(out, "->") != 1 {
		t.Errorf("merged edge line count = %d, want 1:\n%s", strings.Count(out, "->"), out)
	}
	if strings.Contains(out, "-> n0 [label=") {
		t.Errorf("merged edge still labeled:\n%s", out)
	}
}

func TestWriter_Clusters(t *testing.T) {
	g := newTestGraph(t)

	a := mustAddFile(t, g, "liba.so")
	b := mustAddFile(t, g, "libb.so")
	g.AddCluster("core", []int{b, a})
	g.AddCluster("", []int{a})

	out := NewWriter(g).Generate()

	if !strings.Contains(out, "    subgraph core {\n") {
		t.Errorf("missing named subgraph in:\n%s", out)
	}
	if !strings.Contains(out, "    subgraph {\n") {
		t.Errorf("missing anonymous subgraph in:\n%s", out)
	}
	// Members sort by id regardless of insertion order.
	core := out[strings.Index(out, "subgraph core"):]
	if strings.Index(core, "n0 ") > strings.Index(core, "n1 ") {
		t.Errorf("cluster members not sorted by id:\n%s", out)
	}
}

func TestWriter_Deterministic(t *testing.T) {
	g := newTestGraph(t)

	for _, path := range []string{"libc.so", "liba.so", "libb.so"} {
		id := mustAddFile(t, g, path)
		g.AddSymbol(id, "common", true)
		g.AddSymbol(id, "needed_"+path, false)
	}

	first := NewWriter(g).Generate()
	for i := 0; i < 5; i++ {
		if got := NewWriter(g).Generate(); got != first {
			t.Fatalf("run %d produced different output", i)
		}
	}
}
