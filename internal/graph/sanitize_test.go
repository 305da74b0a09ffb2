package graph

import "testing"

func mustSanitizer(t *testing.T, cfg SanitizerConfig) *Sanitizer {
	t.Helper()
	s, err := NewSanitizer(cfg)
	if err != nil {
		t.Fatalf("NewSanitizer: %v", err)
	}
	return s
}

func TestSanitizer_Clean(t *testing.T) {
	s := mustSanitizer(t, SanitizerConfig{})

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"", "", false},
		{"_GLOBAL_OFFSET_TABLE_", "", false},
		{".LC0", "", false},
		{".LC17", "", false},
		{"_reserved", "", false},
		{"__twice_reserved", "", false},
		{"foo", "foo", true},
		{"foo.o", "foo", true},
		{"/usr/lib/libfoo.o", "libfoo", true},
		{"libfoo", "libfoo", true},
		{"a-b.c", "a_b_c", true},
		{"liba.so", "liba_so", true},
		{"dir/sub/libz-1.2.so", "libz_1_2_so", true},
	}

	for _, tt := range tests {
		got, ok := s.Clean(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Clean(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSanitizer_Deterministic(t *testing.T) {
	s := mustSanitizer(t, SanitizerConfig{})

	for i := 0; i < 3; i++ {
		if got, ok := s.Clean("/usr/lib/libfoo.o"); !ok || got != "libfoo" {
			t.Fatalf("run %d: Clean = (%q, %v)", i, got, ok)
		}
		if _, ok := s.Clean(".LC0"); ok {
			t.Fatalf("run %d: .LC0 accepted", i)
		}
	}
}

func TestSanitizer_ReservedPrefixLen(t *testing.T) {
	single := mustSanitizer(t, SanitizerConfig{ReservedPrefixLen: 1})
	double := mustSanitizer(t, SanitizerConfig{ReservedPrefixLen: 2})

	if _, ok := single.Clean("_init"); ok {
		t.Error("prefix len 1: _init accepted")
	}
	if _, ok := double.Clean("__cxa_atexit"); ok {
		t.Error("prefix len 2: __cxa_atexit accepted")
	}
	if got, ok := double.Clean("_init"); !ok || got != "_init" {
		t.Errorf("prefix len 2: Clean(_init) = (%q, %v), want accepted unchanged", got, ok)
	}
}

func TestSanitizer_ReservedPrefixLenValidation(t *testing.T) {
	if _, err := NewSanitizer(SanitizerConfig{ReservedPrefixLen: 3}); err == nil {
		t.Error("ReservedPrefixLen 3 accepted")
	}
}

func TestSanitizer_ExcludeGlobs(t *testing.T) {
	s := mustSanitizer(t, SanitizerConfig{ExcludeSymbols: []string{"llvm*", "*.internal"}})

	if _, ok := s.Clean("llvm_gcov_init"); ok {
		t.Error("llvm_gcov_init accepted despite exclude glob")
	}
	if _, ok := s.Clean("foo.internal"); ok {
		t.Error("foo.internal accepted despite exclude glob")
	}
	if got, ok := s.Clean("keepme"); !ok || got != "keepme" {
		t.Errorf("Clean(keepme) = (%q, %v)", got, ok)
	}
}
