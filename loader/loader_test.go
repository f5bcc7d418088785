package loader

import (
	"errors"
	"testing"

	witffierrors "github.com/wippyai/witffi/errors"
	"go.bytecodealliance.org/wit"
)

func TestSelectWorldSingle(t *testing.T) {
	res := &wit.Resolve{Worlds: []*wit.World{{Name: "calculator"}}}
	w, err := SelectWorld(res, "")
	if err != nil {
		t.Fatalf("SelectWorld failed: %v", err)
	}
	if w.Name != "calculator" {
		t.Errorf("world = %q", w.Name)
	}
}

func TestSelectWorldAmbiguous(t *testing.T) {
	res := &wit.Resolve{Worlds: []*wit.World{{Name: "calculator"}, {Name: "tooling"}}}
	_, err := SelectWorld(res, "")
	if err == nil {
		t.Fatal("expected ambiguous world error")
	}
	want := &witffierrors.Error{Phase: witffierrors.PhaseLoad, Kind: witffierrors.KindAmbiguousWorld}
	if !errors.Is(err, want) {
		t.Errorf("error = %v, want ambiguous_world", err)
	}
}

func TestSelectWorldByName(t *testing.T) {
	res := &wit.Resolve{Worlds: []*wit.World{{Name: "calculator"}, {Name: "tooling"}}}

	w, err := SelectWorld(res, "tooling")
	if err != nil {
		t.Fatalf("SelectWorld failed: %v", err)
	}
	if w.Name != "tooling" {
		t.Errorf("world = %q", w.Name)
	}

	if _, err := SelectWorld(res, "missing"); err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestExportedFunctionsOrder(t *testing.T) {
	parse := &wit.Function{Name: "parse", Kind: &wit.Freestanding{}, Params: []wit.Param{{Name: "input", Type: wit.String{}}}}
	format := &wit.Function{Name: "format", Kind: &wit.Freestanding{}, Params: []wit.Param{{Name: "value", Type: wit.U64{}}}}
	version := &wit.Function{Name: "version", Kind: &wit.Freestanding{}}

	name := "parser"
	iface := &wit.Interface{Name: &name}
	iface.Functions.Set("parse", parse)
	iface.Functions.Set("format", format)

	world := &wit.World{Name: "demo"}
	world.Exports.Set("parser", &wit.InterfaceRef{Interface: iface})
	world.Exports.Set("version", version)

	funcs, err := ExportedFunctions(world)
	if err != nil {
		t.Fatalf("ExportedFunctions failed: %v", err)
	}
	if len(funcs) != 3 {
		t.Fatalf("got %d functions, want 3", len(funcs))
	}

	want := []struct{ iface, name string }{
		{"parser", "parse"},
		{"parser", "format"},
		{"", "version"},
	}
	for i, w := range want {
		if funcs[i].Interface != w.iface || funcs[i].Name != w.name {
			t.Errorf("funcs[%d] = %s/%s, want %s/%s", i, funcs[i].Interface, funcs[i].Name, w.iface, w.name)
		}
	}
}

func TestExportNameIdForm(t *testing.T) {
	name := "parser"
	iface := &wit.Interface{Name: &name}
	if got := exportName("docs:calc/parser@1.0.0", iface); got != "parser" {
		t.Errorf("exportName = %q", got)
	}
	// Resolved worlds key id-form exports with synthesized placeholders.
	if got := exportName("interface-0", iface); got != "parser" {
		t.Errorf("placeholder exportName = %q", got)
	}
	if got := exportName("parser", &wit.Interface{}); got != "parser" {
		t.Errorf("plain exportName = %q", got)
	}
	if got := exportName("docs:calc/parser@1.0.0", &wit.Interface{}); got != "parser" {
		t.Errorf("fallback exportName = %q", got)
	}
}
