package graph

import (
	"strings"

	"github.com/gobwas/glob"

	symerrors "symgraph/internal/errors"
)

// SanitizerConfig controls the rejection policy for raw names.
type SanitizerConfig struct {
	// ReservedPrefixLen is the number of leading underscores that marks a
	// name as compiler/linker reserved. Valid values are 1 and 2; zero
	// defaults to 1.
	ReservedPrefixLen int
	// ExcludeSymbols are glob patterns matched against the raw name before
	// any rewriting. A match rejects the name.
	ExcludeSymbols []string
}

// Sanitizer maps raw file paths and symbol names to identifiers that are
// safe to emit as bare DOT node labels, or rejects them. Clean is pure:
// equal inputs always produce equal results.
type Sanitizer struct {
	reservedPrefix string
	excludes       []glob.Glob
}

func NewSanitizer(cfg SanitizerConfig) (*Sanitizer, error) {
	prefixLen := cfg.ReservedPrefixLen
	if prefixLen == 0 {
		prefixLen = 1
	}
	if prefixLen != 1 && prefixLen != 2 {
		return nil, symerrors.New(symerrors.CodeValidationError, "reserved_prefix_len must be 1 or 2")
	}

	excludes := make([]glob.Glob, 0, len(cfg.ExcludeSymbols))
	for _, pattern := range cfg.ExcludeSymbols {
		g, err := glob.Compile(pattern)
		if err != nil {
			wrapped := symerrors.Wrap(err, symerrors.CodeValidationError, "invalid exclude pattern")
			return nil, symerrors.AddContext(wrapped, symerrors.CtxSymbol, pattern)
		}
		excludes = append(excludes, g)
	}

	return &Sanitizer{
		reservedPrefix: strings.Repeat("_", prefixLen),
		excludes:       excludes,
	}, nil
}

// Clean returns the canonical form of name, or false when the name is a
// known link-time artifact that must not become a node or edge.
func (s *Sanitizer) Clean(name string) (string, bool) {
	switch name {
	case "", "_GLOBAL_OFFSET_TABLE_":
		return "", false
	}

	// .LC0, .LC1, ... are anonymous constant pool labels.
	if strings.HasPrefix(name, ".LC") {
		return "", false
	}
	if strings.HasPrefix(name, s.reservedPrefix) {
		return "", false
	}
	for _, g := range s.excludes {
		if g.Match(name) {
			return "", false
		}
	}

	// foo.o and foo must sanitize identically.
	end := len(name)
	if strings.HasSuffix(name, ".o") {
		end -= 2
	}
	start := 0
	if slash := strings.LastIndexByte(name[:end], '/'); slash >= 0 {
		start = slash + 1
	}

	// Dash and dot are edge syntax in DOT, rewrite them.
	cleaned := strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return '_'
		}
		return r
	}, name[start:end])

	return cleaned, true
}
