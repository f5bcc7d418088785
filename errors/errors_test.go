package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:   PhaseClassify,
				Kind:    KindUnsupportedShape,
				Path:    []string{"request", "payload"},
				WitType: "docs:example/types#tree-node",
				Detail:  "self-referential record",
			},
			contains: []string{"[classify]", "unsupported_shape", "request.payload", "docs:example/types#tree-node", "self-referential record"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseWrite,
				Kind:  KindWriteFailure,
			},
			contains: []string{"[write]", "write_failure"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInvalidInput,
				Detail: "loading wit/types.wit",
				Cause:  errors.New("no such file"),
			},
			contains: []string{"[load]", "invalid_input", "loading wit/types.wit", "caused by", "no such file"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Load("loading input", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find the cause")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap did not return the cause")
	}
}

func TestError_Is(t *testing.T) {
	a := UnsupportedShape("docs:example/types#handle", "resource types are not supported")
	b := &Error{Phase: PhaseClassify, Kind: KindUnsupportedShape}
	c := &Error{Phase: PhaseClassify, Kind: KindFlagOverflow}

	if !errors.Is(a, b) {
		t.Error("errors with matching phase and kind should match")
	}
	if errors.Is(a, c) {
		t.Error("errors with different kinds should not match")
	}
}

func TestBuilder(t *testing.T) {
	err := New(PhaseNaming, KindCollision).
		Path("world", "parser").
		Detail("%q collides with %q", "foo-bar", "foo_bar").
		Build()

	if err.Phase != PhaseNaming || err.Kind != KindCollision {
		t.Errorf("builder lost phase/kind: %v %v", err.Phase, err.Kind)
	}
	msg := err.Error()
	for _, s := range []string{"world.parser", "foo-bar", "foo_bar"} {
		if !strings.Contains(msg, s) {
			t.Errorf("error message %q does not contain %q", msg, s)
		}
	}
}

func TestCollision(t *testing.T) {
	err := Collision("ffi_parse", "parse", "parse-")
	msg := err.Error()
	for _, s := range []string{"parse", "parse-", "ffi_parse"} {
		if !strings.Contains(msg, s) {
			t.Errorf("collision message %q does not name %q", msg, s)
		}
	}
}

func TestAmbiguousWorld(t *testing.T) {
	err := AmbiguousWorld([]string{"calculator", "tooling"})
	msg := err.Error()
	if !strings.Contains(msg, "calculator") || !strings.Contains(msg, "tooling") {
		t.Errorf("ambiguous world message %q does not list candidates", msg)
	}
}
