// # internal/app/app.go
package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/gobwas/glob"

	"symgraph/internal/config"
	"symgraph/internal/decoder"
	symerrors "symgraph/internal/errors"
	"symgraph/internal/graph"
	"symgraph/internal/history"
	"symgraph/internal/observability"
	"symgraph/internal/watcher"
)

type compiledCluster struct {
	name    string
	members []glob.Glob
}

// App wires the decoder, the graph builder, the serializer and the
// supporting stores into the scan pipeline.
type App struct {
	cfg      *config.Config
	sanitize *graph.Sanitizer
	clusters []compiledCluster
	store    *history.Store

	// decode is swappable for tests.
	decode func(string) ([]decoder.Record, error)
}

func New(cfg *config.Config) (*App, error) {
	sanitize, err := graph.NewSanitizer(graph.SanitizerConfig{
		ReservedPrefixLen: cfg.Sanitizer.ReservedPrefixLen,
		ExcludeSymbols:    cfg.Sanitizer.ExcludeSymbols,
	})
	if err != nil {
		return nil, err
	}

	clusters := make([]compiledCluster, 0, len(cfg.Clusters))
	for _, c := range cfg.Clusters {
		compiled := compiledCluster{name: c.Name}
		for _, pattern := range c.Members {
			g, err := glob.Compile(pattern)
			if err != nil {
				wrapped := symerrors.Wrap(err, symerrors.CodeValidationError, "invalid cluster member pattern")
				return nil, symerrors.AddContext(wrapped, symerrors.CtxSymbol, pattern)
			}
			compiled.members = append(compiled.members, g)
		}
		clusters = append(clusters, compiled)
	}

	a := &App{
		cfg:      cfg,
		sanitize: sanitize,
		clusters: clusters,
		decode:   decoder.Decode,
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	return a, nil
}

func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// Scan rebuilds the dependency graph from scratch over the given inputs.
// An unreadable input aborts the scan; an undecodable one is reported and
// skipped. Files are ingested strictly in argument order, which keeps the
// output deterministic for a given input list.
func (a *App) Scan(paths []string) (*graph.Graph, error) {
	g := graph.New(a.cfg.GraphName, a.sanitize)

	for _, path := range paths {
		records, err := a.decode(path)
		if err != nil {
			if symerrors.IsCode(err, symerrors.CodeUndecodableFormat) {
				slog.Warn("skipping undecodable input", "path", path, "error", err)
				continue
			}
			return nil, err
		}

		fileID, ok := g.AddFile(path)
		if !ok {
			slog.Debug("input name rejected by sanitizer", "path", path)
			continue
		}

		for _, rec := range records {
			if !utf8.ValidString(rec.Name) {
				observability.InvalidSymbols.Inc()
				slog.Debug("skipping symbol with invalid text", "path", path)
				continue
			}
			g.AddSymbol(fileID, rec.Name, rec.Defined)
		}

		slog.Debug("ingested file", "path", path, "records", len(records))
	}

	a.assignClusters(g)
	return g, nil
}

// assignClusters maps config cluster globs onto sanitized node labels.
func (a *App) assignClusters(g *graph.Graph) {
	if len(a.clusters) == 0 {
		return
	}

	labels := g.NodeLabels()
	for _, c := range a.clusters {
		var members []int
		for id, label := range labels {
			for _, m := range c.members {
				if m.Match(label) {
					members = append(members, id)
					break
				}
			}
		}
		if len(members) == 0 {
			continue
		}
		g.AddCluster(c.name, members)
	}
}

// Render serializes g into w.
func (a *App) Render(g *graph.Graph, w io.Writer) error {
	if _, err := io.WriteString(w, graph.NewWriter(g).Generate()); err != nil {
		return symerrors.Wrap(err, symerrors.CodeOutputWriteFailure, "cannot write graph")
	}
	return nil
}

// Run executes one full scan-merge-render cycle.
func (a *App) Run(paths []string, outPath string, merge bool) error {
	g, err := a.Scan(paths)
	if err != nil {
		return err
	}

	if merge {
		slog.Debug("merging parallel edges")
		g.Merge()
	}

	if err := a.writeOutput(g, outPath); err != nil {
		return err
	}

	a.saveHistory(g, len(paths), merge)

	slog.Info("graph built",
		"files", len(paths),
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"unresolved", g.PendingCount(),
	)
	return nil
}

// Watch runs one initial cycle and then re-runs it whenever a tracked
// input changes, until ctx is cancelled. Failures inside the loop are
// logged rather than fatal: a transiently unreadable input must not kill
// the watch session.
func (a *App) Watch(ctx context.Context, paths []string, outPath string, merge bool) error {
	if err := a.Run(paths, outPath, merge); err != nil {
		return err
	}

	w, err := watcher.NewWatcher(a.cfg.Watch.Debounce, a.cfg.Watch.RescanPerSec, nil, func(changed []string) {
		observability.RescanTotal.Inc()
		slog.Info("inputs changed, rebuilding graph", "changed", len(changed))
		if err := a.Run(paths, outPath, merge); err != nil {
			slog.Error("rebuild failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Watch(paths); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}

func (a *App) writeOutput(g *graph.Graph, outPath string) error {
	if outPath == "" {
		return a.Render(g, os.Stdout)
	}

	f, err := os.Create(outPath)
	if err != nil {
		wrapped := symerrors.Wrap(err, symerrors.CodeOutputWriteFailure, "cannot create output file")
		return symerrors.AddContext(wrapped, symerrors.CtxPath, outPath)
	}
	defer f.Close()

	if err := a.Render(g, f); err != nil {
		return symerrors.AddContext(err, symerrors.CtxPath, outPath)
	}
	if err := f.Sync(); err != nil {
		wrapped := symerrors.Wrap(err, symerrors.CodeOutputWriteFailure, "cannot flush output file")
		return symerrors.AddContext(wrapped, symerrors.CtxPath, outPath)
	}
	return nil
}

// saveHistory is best effort: a full output on disk beats a missing
// snapshot row, so failures only warn.
func (a *App) saveHistory(g *graph.Graph, files int, merged bool) {
	if a.store == nil {
		return
	}

	run, err := a.store.SaveRun(history.Run{
		Files:   files,
		Nodes:   g.NodeCount(),
		Edges:   g.EdgeCount(),
		Names:   g.NameCount(),
		Pending: g.PendingCount(),
		Merged:  merged,
	})
	if err != nil {
		slog.Warn("failed to save history snapshot", "error", err)
		return
	}
	slog.Debug("saved history snapshot", "run_id", run.ID)
}
