package rustgen

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.bytecodealliance.org/wit"

	witffierrors "github.com/wippyai/witffi/errors"
)

func named(name string, kind wit.TypeDefKind) *wit.TypeDef {
	return &wit.TypeDef{Name: &name, Kind: kind}
}

func export(name string, result wit.Type, params ...wit.Param) *wit.Function {
	f := &wit.Function{Name: name, Kind: &wit.Freestanding{}, Params: params}
	if result != nil {
		f.Results = []wit.Param{{Type: result}}
	}
	return f
}

func exportWorld(name, iface string, fns ...*wit.Function) *wit.World {
	i := &wit.Interface{Name: &iface}
	for _, f := range fns {
		i.Functions.Set(f.Name, f)
	}
	w := &wit.World{Name: name}
	w.Exports.Set(iface, &wit.InterfaceRef{Interface: i})
	return w
}

func mustNew(t *testing.T, w *wit.World) *Generator {
	t.Helper()
	g, err := New(w, Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return g
}

// paymentWorld exports parser.parse(input: string) -> result<payment, string>
// where payment is a record with a text, a scalar and an optional-bytes
// field, in that order.
func paymentWorld() *wit.World {
	payment := named("payment", &wit.Record{Fields: []wit.Field{
		{Name: "address", Type: wit.String{}},
		{Name: "amount", Type: wit.U64{}},
		{Name: "memo", Type: &wit.TypeDef{Kind: &wit.Option{Type: named("bytes", &wit.List{Type: wit.U8{}})}}},
	}})
	parse := export("parse",
		&wit.TypeDef{Kind: &wit.Result{OK: payment, Err: wit.String{}}},
		wit.Param{Name: "input", Type: wit.String{}})
	return exportWorld("payments", "parser", parse)
}

func TestRecordFieldOrder(t *testing.T) {
	g := mustNew(t, paymentWorld())
	src := g.Generate()
	hdr := g.GenerateHeader()

	wantRust := "pub struct FfiPayment {\n" +
		"    pub address: FfiByteBuffer,\n" +
		"    pub amount: u64,\n" +
		"    pub memo: FfiByteBuffer,\n" +
		"}"
	if !strings.Contains(src, wantRust) {
		t.Errorf("Rust record layout missing or reordered:\n%s", wantRust)
	}

	wantC := "typedef struct {\n" +
		"    FfiByteBuffer address;\n" +
		"    uint64_t amount;\n" +
		"    FfiByteBuffer memo;\n" +
		"} FfiPayment;"
	if !strings.Contains(hdr, wantC) {
		t.Errorf("C record layout missing or reordered:\n%s", wantC)
	}
}

func TestOptionalBytesCollapseToNullableBuffer(t *testing.T) {
	g := mustNew(t, paymentWorld())
	src := g.Generate()

	// No synthesized option struct: absence rides on the null pointer.
	if strings.Contains(src, "FfiOptionBytes") {
		t.Error("optional bytes should not synthesize an option struct")
	}
	if !strings.Contains(src, "witffi_lift_opt_bytes") && !strings.Contains(src, "witffi_buf_null()") {
		t.Error("optional buffer handling missing")
	}
}

func TestResultReturnLowersToPointerWithErrorSlot(t *testing.T) {
	g := mustNew(t, paymentWorld())
	src := g.Generate()
	hdr := g.GenerateHeader()

	if !strings.Contains(hdr, "FfiPayment *witffi_parser_parse(FfiByteSlice input);") {
		t.Errorf("C signature wrong:\n%s", hdr)
	}
	if !strings.Contains(src, `pub unsafe extern "C" fn witffi_parser_parse(input: FfiByteSlice) -> *mut FfiPayment`) {
		t.Error("Rust wrapper signature wrong")
	}
	for _, want := range []string{
		"witffi_reset_last_error();",
		"witffi_set_last_error(message);",
		"::core::ptr::null_mut()",
		"::std::panic::catch_unwind",
		"witffi_slice_str(input)?",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("wrapper missing %q", want)
		}
	}
}

func TestTraitSpeaksIdiomaticRust(t *testing.T) {
	g := mustNew(t, paymentWorld())
	src := g.Generate()

	if !strings.Contains(src, "pub trait Payments {") {
		t.Error("trait missing")
	}
	if !strings.Contains(src, "fn parser_parse(input: &str) -> Result<Payment, String>;") {
		t.Errorf("trait method signature wrong:\n%s", src)
	}
}

func TestOwnedRecordGetsReleaseFunction(t *testing.T) {
	g := mustNew(t, paymentWorld())
	src := g.Generate()
	hdr := g.GenerateHeader()

	if !strings.Contains(src, `pub unsafe extern "C" fn witffi_free_payment(value: *mut FfiPayment)`) {
		t.Error("release function missing from Rust source")
	}
	if !strings.Contains(src, "witffi_drop_payment") {
		t.Error("drop helper missing")
	}
	if !strings.Contains(hdr, "void witffi_free_payment(FfiPayment *value);") {
		t.Error("release function missing from header")
	}
}

func TestOwnedResultReturnGetsReleaseFunction(t *testing.T) {
	// The ok arm is itself a result carrying a string, so the boxed
	// return needs a release path of its own.
	inner := &wit.TypeDef{Kind: &wit.Result{OK: wit.String{}, Err: wit.U32{}}}
	fetch := export("fetch", &wit.TypeDef{Kind: &wit.Result{OK: inner, Err: wit.String{}}})

	g := mustNew(t, exportWorld("app", "api", fetch))
	src := g.Generate()
	hdr := g.GenerateHeader()

	if !strings.Contains(hdr, "FfiResultStringU32 *witffi_api_fetch(void);") {
		t.Errorf("boxed result return signature wrong:\n%s", hdr)
	}
	if !strings.Contains(hdr, "void witffi_free_result_string_u32(FfiResultStringU32 *value);") {
		t.Error("release function missing from header")
	}
	if !strings.Contains(src, `pub unsafe extern "C" fn witffi_free_result_string_u32(value: *mut FfiResultStringU32)`) {
		t.Error("release function missing from Rust source")
	}
	if !strings.Contains(src, "witffi_drop_result_string_u32") {
		t.Error("drop helper missing")
	}
}

func TestMultipleResultsRejected(t *testing.T) {
	stat := &wit.Function{
		Name: "stat",
		Kind: &wit.Freestanding{},
		Results: []wit.Param{
			{Name: "size", Type: wit.U64{}},
			{Name: "mtime", Type: wit.U64{}},
		},
	}
	_, err := New(exportWorld("fs", "meta", stat), Config{})
	if err == nil {
		t.Fatal("expected error for multiple results")
	}
	want := &witffierrors.Error{Phase: witffierrors.PhaseClassify, Kind: witffierrors.KindUnsupportedShape}
	if !errors.Is(err, want) {
		t.Errorf("error = %v, want unsupported_shape", err)
	}
}

func TestVariantTagsAndEmptyCase(t *testing.T) {
	shape := named("shape", &wit.Variant{Cases: []wit.Case{
		{Name: "circle", Type: wit.F64{}},
		{Name: "label", Type: wit.String{}},
		{Name: "empty"},
	}})
	describe := export("describe", shape)
	g := mustNew(t, exportWorld("geometry", "shapes", describe))
	src := g.Generate()
	hdr := g.GenerateHeader()

	for _, want := range []string{
		"pub const SHAPE_CIRCLE: u32 = 0;",
		"pub const SHAPE_LABEL: u32 = 1;",
		"pub const SHAPE_EMPTY: u32 = 2;",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("missing tag constant %q", want)
		}
	}

	// The empty case carries no union arm.
	if strings.Contains(src, "pub empty:") {
		t.Error("payload-less case must not appear in the union")
	}
	if !strings.Contains(hdr, "SHAPE_EMPTY = 2,") {
		t.Error("header tag constants missing")
	}
	if !strings.Contains(src, "Shape::Empty => FfiShape { tag: SHAPE_EMPTY") {
		t.Error("lowering for the payload-less case missing")
	}
}

func TestSameNameDifferentInterfaces(t *testing.T) {
	parse := func() *wit.Function {
		return export("parse", nil, wit.Param{Name: "input", Type: wit.String{}})
	}
	parserName, lexerName := "parser", "lexer"
	parser := &wit.Interface{Name: &parserName}
	parser.Functions.Set("parse", parse())
	lexer := &wit.Interface{Name: &lexerName}
	lexer.Functions.Set("parse", parse())

	w := &wit.World{Name: "tools"}
	w.Exports.Set("parser", &wit.InterfaceRef{Interface: parser})
	w.Exports.Set("lexer", &wit.InterfaceRef{Interface: lexer})

	g := mustNew(t, w)
	hdr := g.GenerateHeader()
	if !strings.Contains(hdr, "witffi_parser_parse(") || !strings.Contains(hdr, "witffi_lexer_parse(") {
		t.Errorf("interface-qualified symbols missing:\n%s", hdr)
	}
}

func TestIdFormExportUsesInterfaceName(t *testing.T) {
	// Worlds loaded from WIT text key id-form exports with synthesized
	// placeholders; symbols must come from the interface's own name.
	parserName := "parser"
	parser := &wit.Interface{Name: &parserName}
	parser.Functions.Set("parse", export("parse", wit.Bool{}, wit.Param{Name: "input", Type: wit.String{}}))

	w := &wit.World{Name: "payments"}
	w.Exports.Set("interface-0", &wit.InterfaceRef{Interface: parser})

	g := mustNew(t, w)
	hdr := g.GenerateHeader()
	if !strings.Contains(hdr, "witffi_parser_parse(") {
		t.Errorf("symbol not derived from interface name:\n%s", hdr)
	}
	if strings.Contains(hdr, "interface_0") {
		t.Error("placeholder export key leaked into a symbol")
	}
}

func TestFlagsWidthAndConstants(t *testing.T) {
	flags := make([]wit.Flag, 9)
	flagNames := []string{"read", "write", "exec", "append", "create", "truncate", "sync", "lock", "share"}
	for i, n := range flagNames {
		flags[i] = wit.Flag{Name: n}
	}
	perms := named("permissions", &wit.Flags{Flags: flags})
	check := export("check", wit.Bool{}, wit.Param{Name: "mode", Type: perms})

	g := mustNew(t, exportWorld("fs", "access", check))
	src := g.Generate()
	hdr := g.GenerateHeader()

	if !strings.Contains(src, "pub type FfiPermissions = u16;") {
		t.Error("9 flags should widen to u16")
	}
	if !strings.Contains(src, "pub const PERMISSIONS_SHARE: u16 = 1 << 8;") {
		t.Error("flag constant bit position wrong")
	}
	if !strings.Contains(hdr, "typedef uint16_t FfiPermissions;") {
		t.Error("header flags width wrong")
	}
	if !strings.Contains(hdr, "#define PERMISSIONS_READ ((uint16_t)1 << 0)") {
		t.Error("header flag constant wrong")
	}
}

func TestFlagOverflowDiagnostic(t *testing.T) {
	flags := make([]wit.Flag, 65)
	for i := range flags {
		flags[i] = wit.Flag{Name: "f" + string(rune('a'+i%26)) + string(rune('a'+i/26))}
	}
	wide := named("wide", &wit.Flags{Flags: flags})
	check := export("check", nil, wit.Param{Name: "mode", Type: wide})

	_, err := New(exportWorld("fs", "access", check), Config{})
	if err == nil {
		t.Fatal("expected flag overflow error")
	}
	want := &witffierrors.Error{Phase: witffierrors.PhaseClassify, Kind: witffierrors.KindFlagOverflow}
	if !errors.Is(err, want) {
		t.Errorf("error = %v, want flag_overflow", err)
	}
}

func TestEnumOrdinalsAndValidation(t *testing.T) {
	color := named("color", &wit.Enum{Cases: []wit.EnumCase{
		{Name: "red"}, {Name: "green"}, {Name: "blue"},
	}})
	pick := export("pick", color, wit.Param{Name: "c", Type: color})

	g := mustNew(t, exportWorld("palette", "colors", pick))
	src := g.Generate()

	for _, want := range []string{
		"pub type FfiColor = u32;",
		"pub const COLOR_RED: u32 = 0;",
		"pub const COLOR_BLUE: u32 = 2;",
		"pub fn witffi_lift_color(value: u32) -> Result<Color, String>",
		`Err(format!("invalid color ordinal: {}", value))`,
	} {
		if !strings.Contains(src, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestOptionValueSynthesizesFlagStruct(t *testing.T) {
	find := export("find",
		&wit.TypeDef{Kind: &wit.Option{Type: wit.U64{}}},
		wit.Param{Name: "key", Type: wit.String{}})
	g := mustNew(t, exportWorld("store", "index", find))
	src := g.Generate()
	hdr := g.GenerateHeader()

	if !strings.Contains(src, "pub struct FfiOptionU64 {\n    pub is_some: bool,\n    pub value: u64,\n}") {
		t.Error("synthesized option struct missing")
	}
	if !strings.Contains(hdr, "} FfiOptionU64;") {
		t.Error("header option struct missing")
	}
	// Value-class option returns by value; there is nothing to free.
	if strings.Contains(src, "witffi_free_option_u64") {
		t.Error("value option must not get a release function")
	}
}

func TestGeneralListSynthesizesAggregate(t *testing.T) {
	primes := export("primes",
		&wit.TypeDef{Kind: &wit.List{Type: wit.U32{}}},
		wit.Param{Name: "limit", Type: wit.U32{}})
	g := mustNew(t, exportWorld("math", "sieve", primes))
	src := g.Generate()
	hdr := g.GenerateHeader()

	if !strings.Contains(src, "pub struct FfiU32List {\n    pub ptr: *mut u32,\n    pub len: usize,\n}") {
		t.Error("list aggregate missing")
	}
	if !strings.Contains(hdr, "uint32_t *ptr;") {
		t.Error("header list aggregate missing")
	}
	if !strings.Contains(src, `pub unsafe extern "C" fn witffi_free_u32_list(list: FfiU32List)`) {
		t.Error("list release function missing")
	}
}

func TestEmptyRecordPlaceholderAndNoOpRelease(t *testing.T) {
	unit := named("heartbeat", &wit.Record{})
	ping := export("ping", unit)

	g := mustNew(t, exportWorld("health", "monitor", ping))
	src := g.Generate()
	hdr := g.GenerateHeader()

	if !strings.Contains(src, "pub _reserved: u8,") {
		t.Error("empty record placeholder missing in Rust")
	}
	if !strings.Contains(hdr, "uint8_t _reserved;") {
		t.Error("empty record placeholder missing in C")
	}
	if !strings.Contains(src, `pub extern "C" fn witffi_free_heartbeat(_value: FfiHeartbeat) {}`) {
		t.Error("no-op release function missing")
	}
}

func TestZeroParamWrapper(t *testing.T) {
	version := export("version", wit.U32{})
	g := mustNew(t, exportWorld("meta", "info", version))
	src := g.Generate()
	hdr := g.GenerateHeader()

	if !strings.Contains(hdr, "uint32_t witffi_info_version(void);") {
		t.Error("zero-parameter C declaration wrong")
	}
	if !strings.Contains(src, `pub unsafe extern "C" fn witffi_info_version() -> u32`) {
		t.Error("zero-parameter wrapper wrong")
	}
}

func TestCharParamValidated(t *testing.T) {
	classify := export("kind", wit.U32{}, wit.Param{Name: "c", Type: wit.Char{}})
	g := mustNew(t, exportWorld("text", "chars", classify))
	src := g.Generate()

	if !strings.Contains(src, "witffi_lift_char(c)?") {
		t.Error("char parameter must be validated before the call")
	}
}

func TestKeywordEscaping(t *testing.T) {
	cfg := named("config", &wit.Record{Fields: []wit.Field{
		{Name: "type", Type: wit.U32{}},
		{Name: "match", Type: wit.Bool{}},
	}})
	get := export("get", cfg)
	g := mustNew(t, exportWorld("settings", "store", get))
	src := g.Generate()

	if !strings.Contains(src, "pub type_: u32,") {
		t.Error("Rust keyword field not escaped")
	}
	if !strings.Contains(src, "pub match_: bool,") {
		t.Error("Rust keyword field not escaped")
	}
}

func TestNamingCollisionDetected(t *testing.T) {
	a := named("foo-bar", &wit.Record{Fields: []wit.Field{{Name: "x", Type: wit.U32{}}}})
	b := named("foo_bar", &wit.Record{Fields: []wit.Field{{Name: "y", Type: wit.U32{}}}})
	fn := export("mix", nil,
		wit.Param{Name: "a", Type: a},
		wit.Param{Name: "b", Type: b})

	_, err := New(exportWorld("clash", "demo", fn), Config{})
	if err == nil {
		t.Fatal("expected collision error")
	}
	want := &witffierrors.Error{Phase: witffierrors.PhaseNaming, Kind: witffierrors.KindCollision}
	if !errors.Is(err, want) {
		t.Errorf("error = %v, want collision", err)
	}
}

func TestGenerationIsDeterministic(t *testing.T) {
	first := mustNew(t, paymentWorld())
	second := mustNew(t, paymentWorld())

	if first.Generate() != second.Generate() {
		t.Error("two runs produced different Rust sources")
	}
	if first.GenerateHeader() != second.GenerateHeader() {
		t.Error("two runs produced different headers")
	}
	if first.Generate() != first.Generate() {
		t.Error("repeated rendering of one generator diverged")
	}
}

func TestHeaderMirrorsSourceOrder(t *testing.T) {
	g := mustNew(t, paymentWorld())
	src := g.Generate()
	hdr := g.GenerateHeader()

	// The record and its release function appear in both artifacts,
	// with the type first in each.
	for _, artifact := range []string{src, hdr} {
		typeAt := strings.Index(artifact, "FfiPayment")
		freeAt := strings.Index(artifact, "witffi_free_payment")
		if typeAt < 0 || freeAt < 0 || typeAt > freeAt {
			t.Error("declaration order differs between artifacts")
		}
	}
}

func TestCustomPrefixes(t *testing.T) {
	g, err := New(paymentWorld(), Config{CPrefix: "zcash-eip681", CTypePrefix: "Zx"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	hdr := g.GenerateHeader()

	if !strings.Contains(hdr, "ZxPayment *zcash_eip681_parser_parse(ZxByteSlice input);") {
		t.Errorf("custom prefixes not applied:\n%s", hdr)
	}
	if !strings.Contains(hdr, "size_t zcash_eip681_last_error_length(void);") {
		t.Error("error accessors missing custom prefix")
	}
}

func TestAliasResolvesToRoot(t *testing.T) {
	addr := named("address", wit.String{})
	lookup := export("lookup", wit.Bool{}, wit.Param{Name: "addr", Type: addr})
	g := mustNew(t, exportWorld("dns", "resolver", lookup))
	src := g.Generate()

	// The alias is a string; the parameter crosses as a borrowed view.
	if !strings.Contains(src, "witffi_slice_str(addr)?") {
		t.Error("string alias parameter not lowered as a text view")
	}
}

func TestErrorAccessorsAlwaysPresent(t *testing.T) {
	version := export("version", wit.U32{})
	g := mustNew(t, exportWorld("meta", "info", version))
	src := g.Generate()
	hdr := g.GenerateHeader()

	for _, want := range []string{
		"witffi_last_error_length",
		"witffi_last_error_message",
		"witffi_clear_last_error",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("Rust source missing accessor %s", want)
		}
		if !strings.Contains(hdr, want) {
			t.Errorf("header missing accessor %s", want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	g := mustNew(t, paymentWorld())
	dir := t.TempDir()

	if err := g.WriteArtifacts(dir); err != nil {
		t.Fatalf("WriteArtifacts failed: %v", err)
	}

	rust, err := os.ReadFile(filepath.Join(dir, RustFileName))
	if err != nil {
		t.Fatalf("read %s: %v", RustFileName, err)
	}
	hdr, err := os.ReadFile(filepath.Join(dir, HeaderFileName))
	if err != nil {
		t.Fatalf("read %s: %v", HeaderFileName, err)
	}

	if string(rust) != g.Generate() {
		t.Error("written Rust artifact differs from rendered output")
	}
	if string(hdr) != g.GenerateHeader() {
		t.Error("written header differs from rendered output")
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("output dir has %d entries, want 2", len(entries))
	}
}
