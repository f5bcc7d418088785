package loader

import (
	"fmt"
	"strings"

	"github.com/wippyai/witffi/errors"
	"go.bytecodealliance.org/wit"
)

// Load reads and resolves WIT definitions from path. A ".json" path is
// treated as pre-resolved wasm-tools JSON; anything else (a WIT file,
// a WIT directory, or a component binary) goes through the front-end's
// WIT loader.
func Load(path string) (*wit.Resolve, error) {
	var (
		res *wit.Resolve
		err error
	)
	if strings.HasSuffix(path, ".json") {
		res, err = wit.LoadJSON(path)
	} else {
		res, err = wit.LoadWIT(path)
	}
	if err != nil {
		return nil, errors.Load(fmt.Sprintf("loading WIT from %s", path), err)
	}
	return res, nil
}

// SelectWorld picks the world to generate for. An empty name requires
// the package to define exactly one world; otherwise the world is
// selected by name.
func SelectWorld(res *wit.Resolve, name string) (*wit.World, error) {
	if name == "" {
		switch len(res.Worlds) {
		case 1:
			return res.Worlds[0], nil
		case 0:
			return nil, errors.AmbiguousWorld(nil)
		default:
			names := make([]string, 0, len(res.Worlds))
			for _, w := range res.Worlds {
				names = append(names, w.Name)
			}
			return nil, errors.AmbiguousWorld(names)
		}
	}

	for _, w := range res.Worlds {
		if w.Name == name {
			return w, nil
		}
	}
	return nil, errors.WorldNotFound(name)
}

// ExportedFunction is one function exported from a world, qualified by
// the interface it came through (empty for freestanding exports).
type ExportedFunction struct {
	Interface string
	Name      string
	Func      *wit.Function
}

// ExportedFunctions walks a world's exports in declaration order and
// collects every exported function. Interfaces contribute their
// functions in declaration order; named interfaces keep their own name,
// inline interfaces the name the world's export key gave them.
// Resource methods have no flat-C lowering and are rejected.
func ExportedFunctions(w *wit.World) ([]ExportedFunction, error) {
	var out []ExportedFunction

	for key, item := range w.Exports.All() {
		switch v := item.(type) {
		case *wit.InterfaceRef:
			iface := v.Interface
			ifaceName := exportName(key, iface)
			for fnName, fn := range iface.Functions.All() {
				if !fn.IsFreestanding() {
					return nil, errors.New(errors.PhaseLoad, errors.KindUnsupportedShape).
						Path(ifaceName, fnName).
						Detail("resource functions are not supported").
						Build()
				}
				out = append(out, ExportedFunction{
					Interface: ifaceName,
					Name:      fnName,
					Func:      fn,
				})
			}
		case *wit.Function:
			if !v.IsFreestanding() {
				return nil, errors.New(errors.PhaseLoad, errors.KindUnsupportedShape).
					Path(key).
					Detail("resource functions are not supported").
					Build()
			}
			out = append(out, ExportedFunction{Name: v.Name, Func: v})
		case *wit.TypeDef:
			// Type exports produce no functions.
		}
	}

	return out, nil
}

// exportName resolves the display name of an exported interface. The
// interface's own name wins when it has one; id-form export keys carry
// synthesized placeholders ("interface-0", "ns:pkg/iface") rather than
// the declared name. Only inline interfaces, which are nameless, fall
// back to the key, with any path and version decoration stripped.
func exportName(key string, iface *wit.Interface) string {
	if iface.Name != nil {
		return *iface.Name
	}
	name := key
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return name
}
