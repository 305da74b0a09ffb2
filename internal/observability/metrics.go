package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	DecodeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "symgraph_decode_seconds",
		Help:    "Time spent decoding symbols from a binary file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"format"})

	FilesDecoded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "symgraph_files_decoded_total",
		Help: "Total number of binary files successfully decoded.",
	}, []string{"format"})

	DecodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "symgraph_decode_failures_total",
		Help: "Total number of input files skipped because no container format matched.",
	})

	InvalidSymbols = promauto.NewCounter(prometheus.CounterOpts{
		Name: "symgraph_invalid_symbols_total",
		Help: "Total number of symbol records skipped because the name was not valid text.",
	})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "symgraph_graph_nodes_total",
		Help: "Total number of file nodes in the dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "symgraph_graph_edges_total",
		Help: "Total number of edges in the dependency graph.",
	})

	PendingSymbols = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "symgraph_pending_symbols",
		Help: "Current number of required symbols with no known provider.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "symgraph_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RescanTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "symgraph_rescan_total",
		Help: "Total number of graph rebuilds triggered in watch mode.",
	})
)
