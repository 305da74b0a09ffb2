// # internal/graph/graph.go
package graph

import (
	"sort"
	"sync"

	"symgraph/internal/observability"
)

// SymbolRecord is one observation handed over by the binary decoder: a
// symbol the file either defines (exports) or requires from elsewhere.
type SymbolRecord struct {
	Name    string
	Defined bool
}

// EdgeKey identifies the directed edge From -> To, meaning "From requires a
// symbol that To defines". At most one edge exists per pair; additional
// resolutions between the same two files grow the edge's symbol list.
type EdgeKey struct {
	From int
	To   int
}

type nodeProperties struct {
	symbols []int // defined symbol ids, display only
}

type edgeProperties struct {
	symbols []int
}

type cluster struct {
	name  int
	named bool
	nodes []int
}

// Graph accumulates file nodes and symbol-justified edges across one build
// run. Symbol resolution is order independent: a consumer processed before
// its provider is linked retroactively the moment the provider is ingested.
//
// All ingestion must happen from a single goroutine; the mutex only guards
// concurrent readers (accessors, rendering) against the writer.
type Graph struct {
	mu sync.RWMutex

	name     string
	strings  *Table
	sanitize *Sanitizer

	nodes map[int]*nodeProperties
	edges map[EdgeKey]*edgeProperties

	clusters []cluster

	// Pending-resolution index, transient bookkeeping for one run.
	// providers: symbol id -> files known to define it (append only).
	// awaiting:  symbol id -> files that required it before any provider
	// was known. Drained entirely the moment the first provider registers;
	// once a provider exists the awaiting bucket is never consulted again.
	providers map[int][]int
	awaiting  map[int][]int
}

func New(name string, sanitize *Sanitizer) *Graph {
	return &Graph{
		name:      name,
		strings:   NewTable(),
		sanitize:  sanitize,
		nodes:     make(map[int]*nodeProperties),
		edges:     make(map[EdgeKey]*edgeProperties),
		providers: make(map[int][]int),
		awaiting:  make(map[int][]int),
	}
}

// AddFile sanitizes and interns path and creates its node. It returns false
// when the sanitizer rejects the name; no node is created in that case.
// Two paths that sanitize to the same label share one node.
func (g *Graph) AddFile(path string) (int, bool) {
	cleaned, ok := g.sanitize.Clean(path)
	if !ok {
		return 0, false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.strings.Intern(cleaned)
	if _, exists := g.nodes[id]; !exists {
		g.nodes[id] = &nodeProperties{}
	}

	observability.GraphNodes.Set(float64(len(g.nodes)))
	return id, true
}

// AddSymbol ingests one symbol record for the given file node. Rejected
// names are dropped without any node or edge effect.
//
// A file never resolves against itself: when the consumer and the provider
// are the same node, no edge is created in either direction.
func (g *Graph) AddSymbol(fileID int, rawName string, defined bool) {
	cleaned, ok := g.sanitize.Clean(rawName)
	if !ok {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	symbolID := g.strings.Intern(cleaned)

	if defined {
		g.addDefinedLocked(fileID, symbolID)
	} else {
		g.addUndefinedLocked(fileID, symbolID)
	}

	observability.GraphEdges.Set(float64(len(g.edges)))
	observability.PendingSymbols.Set(float64(len(g.awaiting)))
}

func (g *Graph) addDefinedLocked(fileID, symbolID int) {
	if node, ok := g.nodes[fileID]; ok {
		node.symbols = append(node.symbols, symbolID)
	}

	g.providers[symbolID] = append(g.providers[symbolID], fileID)

	// Every consumer queued on this symbol resolves against the new
	// provider, then the bucket is drained for good. Consumers arriving
	// after a second provider registers only link to providers already
	// known at that point; already-linked edges are not revisited.
	waiting, ok := g.awaiting[symbolID]
	if !ok {
		return
	}
	for _, consumerID := range waiting {
		if consumerID == fileID {
			continue
		}
		g.addEdgeSymbolLocked(consumerID, fileID, symbolID)
	}
	delete(g.awaiting, symbolID)
}

func (g *Graph) addUndefinedLocked(fileID, symbolID int) {
	if providers, ok := g.providers[symbolID]; ok {
		for _, providerID := range providers {
			if providerID == fileID {
				continue
			}
			g.addEdgeSymbolLocked(fileID, providerID, symbolID)
		}
		return
	}

	// No provider yet, queue until some later file defines it.
	g.awaiting[symbolID] = append(g.awaiting[symbolID], fileID)
}

func (g *Graph) addEdgeSymbolLocked(from, to, symbolID int) {
	key := EdgeKey{From: from, To: to}
	if edge, ok := g.edges[key]; ok {
		edge.symbols = append(edge.symbols, symbolID)
		return
	}
	g.edges[key] = &edgeProperties{symbols: []int{symbolID}}
}

// AddCluster records a rendering-only grouping of node ids. The name goes
// through the same sanitizer as everything else; a rejected name produces
// an anonymous subgraph. Clusters have no effect on resolution and a node
// may belong to any number of them.
func (g *Graph) AddCluster(name string, nodeIDs []int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	c := cluster{nodes: append([]int(nil), nodeIDs...)}
	if cleaned, ok := g.sanitize.Clean(name); ok {
		c.name = g.strings.Intern(cleaned)
		c.named = true
	}
	sort.Ints(c.nodes)
	g.clusters = append(g.clusters, c)
}

// Merge clears the symbol list of every edge in place. Connectivity is
// unchanged; merged edges render as a single unlabeled line. Idempotent.
func (g *Graph) Merge() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, edge := range g.edges {
		edge.symbols = nil
	}
}

func (g *Graph) Name() string {
	return g.name
}

// Resolve returns the canonical name behind an id.
func (g *Graph) Resolve(id int) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.strings.Resolve(id)
}

func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// PendingCount reports how many required symbols still have no provider.
func (g *Graph) PendingCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.awaiting)
}

// NameCount reports the number of distinct interned names. Files and
// symbols share one universe.
func (g *Graph) NameCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.strings.Len()
}

// NodeLabels returns a snapshot of node id -> resolved label.
func (g *Graph) NodeLabels() map[int]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	labels := make(map[int]string, len(g.nodes))
	for id := range g.nodes {
		if label, ok := g.strings.Resolve(id); ok {
			labels[id] = label
		}
	}
	return labels
}

// NodeSymbols returns a snapshot of the defined-symbol ids of a node.
func (g *Graph) NodeSymbols(id int) ([]int, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	node, ok := g.nodes[id]
	if !ok {
		return nil, false
	}
	return append([]int(nil), node.symbols...), true
}

// Edges returns a snapshot of edge key -> justifying symbol ids.
func (g *Graph) Edges() map[EdgeKey][]int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	res := make(map[EdgeKey][]int, len(g.edges))
	for key, edge := range g.edges {
		res[key] = append([]int(nil), edge.symbols...)
	}
	return res
}
