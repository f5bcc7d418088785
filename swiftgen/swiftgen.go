package swiftgen

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/witffi/errors"
)

// Config mirrors the rustgen configuration so flags round-trip
// unchanged once the backend lands.
type Config struct {
	CPrefix     string
	CTypePrefix string
}

// Generator is the placeholder Swift backend.
type Generator struct {
	world *wit.World
	cfg   Config
}

// New accepts the same inputs as the Rust backend. The world must
// already be selected and resolved.
func New(world *wit.World, cfg Config) (*Generator, error) {
	if world == nil {
		return nil, errors.New(errors.PhaseGenerate, errors.KindInvalidInput).
			Detail("no world selected").
			Build()
	}
	return &Generator{world: world, cfg: cfg}, nil
}

// WriteArtifacts reports that the Swift target is not implemented.
func (g *Generator) WriteArtifacts(dir string) error {
	_ = dir
	return errors.NotImplemented("swift")
}
