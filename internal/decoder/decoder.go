// Package decoder extracts symbol records from compiled binaries. It
// recognizes ELF, Mach-O and PE containers and reduces each file to a flat
// list of (name, defined) observations; everything else about the container
// (sections, relocations, versioning) is dropped.
package decoder

import (
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"errors"
	"os"
	"time"

	symerrors "symgraph/internal/errors"
	"symgraph/internal/observability"
)

// Record is one symbol observation: a name the file either defines
// (exports) or requires from some other file.
type Record struct {
	Name    string
	Defined bool
}

var ErrUnrecognizedFormat = errors.New("unrecognized binary container format")

// Decode opens the file at path and extracts its symbol records.
//
// An unopenable path yields an UNREADABLE_INPUT error (fatal upstream).
// Bytes that match no known container yield UNDECODABLE_FORMAT, which the
// caller is expected to skip-and-continue on.
func Decode(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		wrapped := symerrors.Wrap(err, symerrors.CodeUnreadableInput, "cannot open input file")
		return nil, symerrors.AddContext(wrapped, symerrors.CtxPath, path)
	}
	defer f.Close()

	start := time.Now()

	for _, attempt := range []struct {
		format string
		decode func(*os.File) ([]Record, error)
	}{
		{"elf", decodeELF},
		{"macho", decodeMachO},
		{"pe", decodePE},
	} {
		records, err := attempt.decode(f)
		if err != nil {
			continue
		}
		observability.DecodeDuration.WithLabelValues(attempt.format).Observe(time.Since(start).Seconds())
		observability.FilesDecoded.WithLabelValues(attempt.format).Inc()
		return records, nil
	}

	observability.DecodeFailures.Inc()
	wrapped := symerrors.Wrap(ErrUnrecognizedFormat, symerrors.CodeUndecodableFormat, "cannot decode input file")
	return nil, symerrors.AddContext(wrapped, symerrors.CtxPath, path)
}

func decodeELF(f *os.File) ([]Record, error) {
	obj, err := elf.NewFile(f)
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	var records []Record

	// Dynamic symbols first, then the static table for plain object files.
	// Shared objects usually carry both; either may be absent.
	dyn, err := obj.DynamicSymbols()
	if err != nil && !errors.Is(err, elf.ErrNoSymbols) {
		return nil, err
	}
	static, err := obj.Symbols()
	if err != nil && !errors.Is(err, elf.ErrNoSymbols) {
		return nil, err
	}

	for _, sym := range dyn {
		records = append(records, Record{Name: sym.Name, Defined: sym.Section != elf.SHN_UNDEF})
	}
	for _, sym := range static {
		records = append(records, Record{Name: sym.Name, Defined: sym.Section != elf.SHN_UNDEF})
	}

	return records, nil
}

func decodeMachO(f *os.File) ([]Record, error) {
	obj, err := macho.NewFile(f)
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	if obj.Symtab == nil {
		return nil, nil
	}

	records := make([]Record, 0, len(obj.Symtab.Syms))
	for _, sym := range obj.Symtab.Syms {
		// Sect 0 (NO_SECT) marks an undefined reference.
		records = append(records, Record{Name: sym.Name, Defined: sym.Sect != 0})
	}
	return records, nil
}

func decodePE(f *os.File) ([]Record, error) {
	obj, err := pe.NewFile(f)
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	records := make([]Record, 0, len(obj.Symbols))
	for _, sym := range obj.Symbols {
		// SectionNumber <= 0 covers undefined, absolute and debug symbols.
		records = append(records, Record{Name: sym.Name, Defined: sym.SectionNumber > 0})
	}
	return records, nil
}
