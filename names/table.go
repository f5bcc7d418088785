package names

import "github.com/wippyai/witffi/errors"

// Role distinguishes the namespaces generated identifiers live in.
// Injectivity is required per (role, namespace) pair, not globally: a
// type and a function may share a spelling, two fields of different
// records may not collide with each other's records, and so on.
type Role string

const (
	RoleType   Role = "type"
	RoleFunc   Role = "func"
	RoleField  Role = "field"
	RoleCase   Role = "case"
	RoleConst  Role = "const"
	RoleMethod Role = "method"
)

type tableKey struct {
	role      Role
	namespace string
	generated string
}

// Table records every generated identifier and the source identifier
// it came from. Registering a second, distinct source for the same
// generated identifier in the same (role, namespace) is a
// NamingCollision; re-registering the same mapping is a no-op, so
// shared types reached from several functions register freely.
type Table struct {
	seen map[tableKey]string
}

func NewTable() *Table {
	return &Table{seen: make(map[tableKey]string)}
}

// Register records source -> generated for a role and namespace.
func (t *Table) Register(role Role, namespace, source, generated string) error {
	key := tableKey{role: role, namespace: namespace, generated: generated}
	if prev, ok := t.seen[key]; ok {
		if prev != source {
			return errors.Collision(generated, prev, source)
		}
		return nil
	}
	t.seen[key] = source
	return nil
}

// Len reports the number of distinct generated identifiers recorded.
func (t *Table) Len() int {
	return len(t.seen)
}
