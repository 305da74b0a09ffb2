package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapAndIsCode(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(base, CodeUnreadableInput, "cannot open input file")

	if !IsCode(err, CodeUnreadableInput) {
		t.Error("IsCode failed for wrapped error")
	}
	if IsCode(err, CodeUndecodableFormat) {
		t.Error("IsCode matched the wrong code")
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error lost its cause")
	}
}

func TestAddContext(t *testing.T) {
	err := New(CodeOutputWriteFailure, "cannot write graph")
	err = AddContext(err, CtxPath, "/tmp/out.dot")

	if !strings.Contains(err.Error(), "/tmp/out.dot") {
		t.Errorf("context missing from message: %s", err.Error())
	}
	if !IsCode(err, CodeOutputWriteFailure) {
		t.Error("AddContext changed the code")
	}
}

func TestAddContext_ForeignError(t *testing.T) {
	err := AddContext(errors.New("plain"), CtxPath, "x")
	if !IsCode(err, CodeInternal) {
		t.Error("foreign error not wrapped as INTERNAL_ERROR")
	}
}

func TestIsCode_NilAndPlain(t *testing.T) {
	if IsCode(nil, CodeInternal) {
		t.Error("IsCode(nil) = true")
	}
	if IsCode(errors.New("plain"), CodeInternal) {
		t.Error("IsCode(plain) = true")
	}
}
