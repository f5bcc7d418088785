package classify

import (
	"github.com/wippyai/witffi/errors"
	"go.bytecodealliance.org/wit"
)

// Ownership is a type's memory-ownership class.
type Ownership int

const (
	// Value types cross the boundary by copy; nobody frees anything.
	Value Ownership = iota
	// Borrowed values are caller-owned views; the callee must not
	// retain or free them.
	Borrowed
	// Owned values are callee-allocated; the caller must release them
	// through the generated release function.
	Owned
)

func (o Ownership) String() string {
	switch o {
	case Value:
		return "value"
	case Borrowed:
		return "borrowed"
	case Owned:
		return "owned"
	default:
		return "unknown"
	}
}

// ReprKind names the binary representation a type lowers to.
type ReprKind int

const (
	ReprScalar     ReprKind = iota // primitive, passed directly
	ReprCStringRef                 // borrowed UTF-8 text view (parameter position)
	ReprByteSlice                  // borrowed raw byte view (parameter position)
	ReprByteBuffer                 // owned byte buffer (strings and byte lists)
	ReprRecordRef                  // named C aggregate
	ReprVariantRef                 // named tag+union aggregate
	ReprEnumRef                    // named ordinal type
	ReprFlagsRef                   // named bitset type
	ReprList                       // length + array of element type
	ReprOption                     // presence flag + inline value, or nullable reference
	ReprResult                     // two-arm tagged outcome
)

func (k ReprKind) String() string {
	switch k {
	case ReprScalar:
		return "scalar"
	case ReprCStringRef:
		return "cstring-ref"
	case ReprByteSlice:
		return "byte-slice"
	case ReprByteBuffer:
		return "byte-buffer"
	case ReprRecordRef:
		return "record-ref"
	case ReprVariantRef:
		return "variant-ref"
	case ReprEnumRef:
		return "enum-ref"
	case ReprFlagsRef:
		return "flags-ref"
	case ReprList:
		return "list"
	case ReprOption:
		return "option"
	case ReprResult:
		return "result"
	default:
		return "unknown"
	}
}

// Scalar identifies which primitive a ReprScalar stands for.
type Scalar int

const (
	ScalarBool Scalar = iota
	ScalarU8
	ScalarS8
	ScalarU16
	ScalarS16
	ScalarU32
	ScalarS32
	ScalarU64
	ScalarS64
	ScalarF32
	ScalarF64
	ScalarChar
)

// Repr describes a type's lowered representation. Exactly the fields
// relevant to the Kind are populated.
type Repr struct {
	Kind       ReprKind
	Scalar     Scalar          // ReprScalar
	Def        *wit.TypeDef    // Record/Variant/Enum/FlagsRef: the defining typedef
	Elem       *Classification // ReprList element, ReprOption inner
	OK         *Classification // ReprResult ok arm; nil when absent
	Err        *Classification // ReprResult err arm; nil when absent
	FlagsWidth int             // ReprFlagsRef: 8, 16, 32 or 64
}

// Classification is the classifier's verdict for one type.
type Classification struct {
	Ownership Ownership
	Repr      Repr
}

// Classifier computes and caches classifications. It is not safe for
// concurrent use; each generator run owns one.
type Classifier struct {
	cache    map[*wit.TypeDef]*Classification
	visiting map[*wit.TypeDef]bool
}

func New() *Classifier {
	return &Classifier{
		cache:    make(map[*wit.TypeDef]*Classification),
		visiting: make(map[*wit.TypeDef]bool),
	}
}

// Classify returns the ownership class and representation for a type.
func (c *Classifier) Classify(t wit.Type) (*Classification, error) {
	return c.classify(t, nil)
}

func (c *Classifier) classify(t wit.Type, path []string) (*Classification, error) {
	switch v := t.(type) {
	case wit.Bool:
		return scalar(ScalarBool), nil
	case wit.U8:
		return scalar(ScalarU8), nil
	case wit.S8:
		return scalar(ScalarS8), nil
	case wit.U16:
		return scalar(ScalarU16), nil
	case wit.S16:
		return scalar(ScalarS16), nil
	case wit.U32:
		return scalar(ScalarU32), nil
	case wit.S32:
		return scalar(ScalarS32), nil
	case wit.U64:
		return scalar(ScalarU64), nil
	case wit.S64:
		return scalar(ScalarS64), nil
	case wit.F32:
		return scalar(ScalarF32), nil
	case wit.F64:
		return scalar(ScalarF64), nil
	case wit.Char:
		return scalar(ScalarChar), nil
	case wit.String:
		return &Classification{Ownership: Owned, Repr: Repr{Kind: ReprByteBuffer}}, nil
	case *wit.TypeDef:
		return c.classifyTypeDef(v, path)
	default:
		return nil, errors.New(errors.PhaseClassify, errors.KindUnsupportedShape).
			Path(path...).
			Detail("unsupported WIT type: %T", t).
			Build()
	}
}

func scalar(s Scalar) *Classification {
	return &Classification{Ownership: Value, Repr: Repr{Kind: ReprScalar, Scalar: s}}
}

func (c *Classifier) classifyTypeDef(t *wit.TypeDef, path []string) (*Classification, error) {
	if cached, ok := c.cache[t]; ok {
		return cached, nil
	}
	if c.visiting[t] {
		return nil, errors.New(errors.PhaseClassify, errors.KindUnsupportedShape).
			Path(path...).
			WitType(TypePath(t)).
			Detail("self-referential type without an indirection point").
			Build()
	}
	c.visiting[t] = true
	defer delete(c.visiting, t)

	cl, err := c.classifyKind(t, path)
	if err != nil {
		return nil, err
	}

	c.cache[t] = cl
	return cl, nil
}

func (c *Classifier) classifyKind(t *wit.TypeDef, path []string) (*Classification, error) {
	switch kind := t.Kind.(type) {
	case *wit.Record:
		return c.classifyRecord(t, kind, path)
	case *wit.Variant:
		return c.classifyVariant(t, kind, path)
	case *wit.Enum:
		return &Classification{Ownership: Value, Repr: Repr{Kind: ReprEnumRef, Def: t}}, nil
	case *wit.Flags:
		return classifyFlags(t, kind)
	case *wit.List:
		return c.classifyList(kind, path)
	case *wit.Option:
		return c.classifyOption(kind, path)
	case *wit.Result:
		return c.classifyResult(kind, path)
	case wit.Type:
		// Type alias; the classification is the root type's.
		return c.classify(kind, path)
	default:
		return nil, errors.New(errors.PhaseClassify, errors.KindUnsupportedShape).
			Path(path...).
			WitType(TypePath(t)).
			Detail("no lowering for %T", kind).
			Build()
	}
}

func (c *Classifier) classifyRecord(t *wit.TypeDef, r *wit.Record, path []string) (*Classification, error) {
	own := Value
	for _, f := range r.Fields {
		fieldPath := append(append([]string{}, path...), f.Name)
		fc, err := c.classify(f.Type, fieldPath)
		if err != nil {
			return nil, err
		}
		if fc.Ownership == Owned {
			own = Owned
		}
	}
	return &Classification{Ownership: own, Repr: Repr{Kind: ReprRecordRef, Def: t}}, nil
}

func (c *Classifier) classifyVariant(t *wit.TypeDef, v *wit.Variant, path []string) (*Classification, error) {
	own := Value
	for _, cs := range v.Cases {
		if cs.Type == nil {
			continue
		}
		casePath := append(append([]string{}, path...), cs.Name)
		cc, err := c.classify(cs.Type, casePath)
		if err != nil {
			return nil, err
		}
		if cc.Ownership == Owned {
			own = Owned
		}
	}
	return &Classification{Ownership: own, Repr: Repr{Kind: ReprVariantRef, Def: t}}, nil
}

func classifyFlags(t *wit.TypeDef, f *wit.Flags) (*Classification, error) {
	width, ok := FlagsWidth(len(f.Flags))
	if !ok {
		return nil, errors.FlagOverflow(TypePath(t), len(f.Flags))
	}
	return &Classification{Ownership: Value, Repr: Repr{Kind: ReprFlagsRef, Def: t, FlagsWidth: width}}, nil
}

func (c *Classifier) classifyList(l *wit.List, path []string) (*Classification, error) {
	if IsByteType(l.Type) {
		return &Classification{Ownership: Owned, Repr: Repr{Kind: ReprByteBuffer}}, nil
	}
	elem, err := c.classify(l.Type, append(append([]string{}, path...), "[elem]"))
	if err != nil {
		return nil, err
	}
	// The array itself is callee-allocated on output, so general lists
	// always carry a release obligation.
	return &Classification{Ownership: Owned, Repr: Repr{Kind: ReprList, Elem: elem}}, nil
}

func (c *Classifier) classifyOption(o *wit.Option, path []string) (*Classification, error) {
	inner, err := c.classify(o.Type, append(append([]string{}, path...), "[option]"))
	if err != nil {
		return nil, err
	}
	own := Value
	if inner.Ownership != Value {
		// Absence collapses into a null reference; present values are
		// heap-allocated.
		own = Owned
	}
	return &Classification{Ownership: own, Repr: Repr{Kind: ReprOption, Elem: inner}}, nil
}

func (c *Classifier) classifyResult(r *wit.Result, path []string) (*Classification, error) {
	var okc, errc *Classification
	var err error
	if r.OK != nil {
		okc, err = c.classify(r.OK, append(append([]string{}, path...), "[ok]"))
		if err != nil {
			return nil, err
		}
	}
	if r.Err != nil {
		errc, err = c.classify(r.Err, append(append([]string{}, path...), "[err]"))
		if err != nil {
			return nil, err
		}
	}
	own := Value
	if (okc != nil && okc.Ownership == Owned) || (errc != nil && errc.Ownership == Owned) {
		own = Owned
	}
	return &Classification{Ownership: own, Repr: Repr{Kind: ReprResult, OK: okc, Err: errc}}, nil
}

// FlagsWidth returns the smallest backing integer width that fits n
// flag bits, and whether one exists.
func FlagsWidth(n int) (int, bool) {
	switch {
	case n <= 8:
		return 8, true
	case n <= 16:
		return 16, true
	case n <= 32:
		return 32, true
	case n <= 64:
		return 64, true
	default:
		return 0, false
	}
}

// IsByteType reports whether t is u8, through any alias chain.
func IsByteType(t wit.Type) bool {
	for {
		switch v := t.(type) {
		case wit.U8:
			return true
		case *wit.TypeDef:
			if inner, ok := v.Kind.(wit.Type); ok {
				t = inner
				continue
			}
			return false
		default:
			return false
		}
	}
}

// IsBytes reports whether t is a list<u8>, through any alias chain.
func IsBytes(t wit.Type) bool {
	td, ok := t.(*wit.TypeDef)
	if !ok {
		return false
	}
	switch kind := td.Kind.(type) {
	case *wit.List:
		return IsByteType(kind.Type)
	case wit.Type:
		return IsBytes(kind)
	default:
		return false
	}
}

// IsString reports whether t is a string, through any alias chain.
func IsString(t wit.Type) bool {
	for {
		switch v := t.(type) {
		case wit.String:
			return true
		case *wit.TypeDef:
			if inner, ok := v.Kind.(wit.Type); ok {
				t = inner
				continue
			}
			return false
		default:
			return false
		}
	}
}

// TypePath renders the fully qualified path of a type definition for
// diagnostics: package, owning interface or world, and type name.
func TypePath(t *wit.TypeDef) string {
	name := "<anonymous>"
	if t.Name != nil {
		name = *t.Name
	}

	switch owner := t.Owner.(type) {
	case *wit.Interface:
		prefix := ""
		if owner.Package != nil {
			prefix = owner.Package.Name.String() + "/"
		}
		iface := "<inline>"
		if owner.Name != nil {
			iface = *owner.Name
		}
		return prefix + iface + "#" + name
	case *wit.World:
		prefix := ""
		if owner.Package != nil {
			prefix = owner.Package.Name.String() + "/"
		}
		return prefix + owner.Name + "#" + name
	default:
		return name
	}
}
