package swiftgen

import (
	"errors"
	"testing"

	"go.bytecodealliance.org/wit"

	witffierrors "github.com/wippyai/witffi/errors"
)

func TestNewRequiresWorld(t *testing.T) {
	if _, err := New(nil, Config{}); err == nil {
		t.Fatal("expected error for nil world")
	}
}

func TestWriteArtifactsNotImplemented(t *testing.T) {
	g, err := New(&wit.World{Name: "demo"}, Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	err = g.WriteArtifacts(t.TempDir())
	if err == nil {
		t.Fatal("expected not-implemented error")
	}
	want := &witffierrors.Error{Phase: witffierrors.PhaseGenerate, Kind: witffierrors.KindNotImplemented}
	if !errors.Is(err, want) {
		t.Errorf("error = %v, want not_implemented", err)
	}
}
