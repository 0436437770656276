package buildgraph

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	bperrors "github.com/matzehuels/buildport/pkg/errors"
)

func TestGraphAdd(t *testing.T) {
	g := New()
	if err := g.Add(NewTarget("a")); err != nil {
		t.Fatalf("Add(a) error = %v", err)
	}
	if err := g.Add(NewTarget("a")); !errors.Is(err, ErrDuplicateTarget) {
		t.Errorf("Add(a) again error = %v, want ErrDuplicateTarget", err)
	}
	if err := g.Add(NewTarget("")); !errors.Is(err, ErrInvalidTargetName) {
		t.Errorf("Add(\"\") error = %v, want ErrInvalidTargetName", err)
	}
}

func TestGraphGetNotFound(t *testing.T) {
	g := New()
	_, err := g.Get("missing")
	if !bperrors.Is(err, bperrors.ErrCodeNotFound) {
		t.Errorf("Get() code = %v, want %v", bperrors.GetCode(err), bperrors.ErrCodeNotFound)
	}
	if !errors.Is(err, ErrTargetNotFound) {
		t.Error("Get() error should wrap ErrTargetNotFound")
	}
}

func TestGraphRemoveDropsReferences(t *testing.T) {
	g := New()
	app := NewTarget("app")
	app.Dependencies.Add("clog", "cpuinfo")
	_ = app.Attach(FieldDependencies, Branch(Flag("OS_ANDROID"), Patch{Dependencies: NewStringSet("clog", "log")}))
	_ = g.Add(app)
	_ = g.Add(NewTarget("clog"))

	if !g.Remove("clog") {
		t.Fatal("Remove(clog) = false, want true")
	}
	if g.Remove("clog") {
		t.Error("Remove(clog) twice = true, want false")
	}
	if diff := cmp.Diff([]string{"cpuinfo"}, app.Dependencies.Sorted()); diff != "" {
		t.Errorf("Dependencies mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"log"}, app.Blocks[0].Cases[0].Patch.Dependencies.Sorted()); diff != "" {
		t.Errorf("patch Dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestGraphRename(t *testing.T) {
	g := New()
	host := NewTarget("onnxruntime")
	host.Dependencies.Add("onnxruntime_providers_cuda")
	mac := NewTarget("tool")
	_ = mac.Attach(FieldSources, Branch(Flag("OS_DARWIN"), Patch{Dependencies: NewStringSet("onnxruntime_providers_cuda")}))
	_ = g.Add(host)
	_ = g.Add(mac)
	_ = g.Add(NewTarget("onnxruntime_providers_cuda"))

	if err := g.Rename("onnxruntime_providers_cuda", "onnxruntime/core/providers/cuda"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if _, ok := g.Lookup("onnxruntime_providers_cuda"); ok {
		t.Error("old name still present")
	}
	cuda, err := g.Get("onnxruntime/core/providers/cuda")
	if err != nil {
		t.Fatalf("Get(new) error = %v", err)
	}
	if cuda.Name != "onnxruntime/core/providers/cuda" {
		t.Errorf("Name = %q", cuda.Name)
	}
	if !host.Dependencies.Has("onnxruntime/core/providers/cuda") {
		t.Error("dependency reference not rewritten")
	}
	if !mac.Blocks[0].Cases[0].Patch.Dependencies.Has("onnxruntime/core/providers/cuda") {
		t.Error("patch dependency reference not rewritten")
	}

	if err := g.Rename("onnxruntime", "tool"); !errors.Is(err, ErrDuplicateTarget) {
		t.Errorf("Rename onto existing error = %v, want ErrDuplicateTarget", err)
	}
	if err := g.Rename("nope", "x"); !bperrors.Is(err, bperrors.ErrCodeNotFound) {
		t.Errorf("Rename missing error = %v, want NOT_FOUND", err)
	}
}

func TestGraphCloneIsDeep(t *testing.T) {
	g := New()
	a := NewTarget("a")
	a.Sources.Add("a.cc")
	a.AddSourcesToGroup("SRC_C_AVX", Source{Path: "x_avx.cc", Global: true})
	_ = a.Attach(FieldRecurse, Branch(Flag("HAVE_CUDA"), Patch{Recurse: NewStringSet("cuda")}))
	_ = g.Add(a)

	c := g.Clone()
	ca, _ := c.Lookup("a")
	ca.Sources.Add("b.cc")
	ca.Groups[0].Sources[0] = "changed"
	ca.Groups[0].Global.Add("changed")
	ca.Blocks[0].Cases[0].Patch.Recurse.Add("more")

	if a.Sources.Has("b.cc") {
		t.Error("clone shares sources")
	}
	if a.Groups[0].Sources[0] != "x_avx.cc" || a.Groups[0].Global.Has("changed") {
		t.Error("clone shares groups")
	}
	if !ca.Groups[0].Global.Has("x_avx.cc") {
		t.Error("clone dropped the GLOBAL group member")
	}
	if a.Blocks[0].Cases[0].Patch.Recurse.Has("more") {
		t.Error("clone shares patches")
	}
}

func TestGraphNamesSorted(t *testing.T) {
	g := New()
	for _, n := range []string{"c", "a", "b"} {
		_ = g.Add(NewTarget(n))
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, g.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if g.Targets()[0].Name != "a" {
		t.Errorf("Targets()[0] = %q, want a", g.Targets()[0].Name)
	}
}

func TestGraphValidate(t *testing.T) {
	g := New()
	bad := NewTarget("bad")
	bad.Sources.Add("/abs/path.cc")
	_ = g.Add(bad)

	err := g.Validate()
	if !bperrors.Is(err, bperrors.ErrCodeInvalidGraph) {
		t.Errorf("Validate() = %v, want INVALID_GRAPH", err)
	}

	bad.Sources.Remove("/abs/path.cc")
	bad.Sources.Add("ok.cc")
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestTargetAttach(t *testing.T) {
	tgt := NewTarget("t")

	if err := tgt.Attach(FieldSources, Block{}); !errors.Is(err, ErrEmptyBlock) {
		t.Errorf("Attach(empty) = %v, want ErrEmptyBlock", err)
	}
	if err := tgt.Attach(FieldSources, Branch(nil, Patch{})); !errors.Is(err, ErrNilPredicate) {
		t.Errorf("Attach(nil predicate) = %v, want ErrNilPredicate", err)
	}
	if err := tgt.Attach(Field("SRCS_X"), Branch(Flag("A"), Patch{})); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Attach(unknown field) = %v, want ErrUnknownField", err)
	}
	if len(tgt.Blocks) != 0 {
		t.Fatalf("failed Attach should not append, got %d blocks", len(tgt.Blocks))
	}

	_ = tgt.Attach(FieldSources, Branch(Flag("OS_DARWIN"), Patch{Sources: NewSourceSet("m.mm")}))
	_ = tgt.Attach(FieldRecurse, Switch(
		Case{When: Flag("OS_LINUX"), Patch: Patch{Recurse: NewStringSet("linux")}},
		Case{When: Flag("OS_DARWIN"), Patch: Patch{Recurse: NewStringSet("darwin")}},
	))

	if len(tgt.Blocks) != 2 {
		t.Fatalf("len(Blocks) = %d, want 2", len(tgt.Blocks))
	}
	if tgt.Blocks[0].Field != FieldSources || tgt.Blocks[1].Field != FieldRecurse {
		t.Errorf("fields = %s, %s", tgt.Blocks[0].Field, tgt.Blocks[1].Field)
	}
	if len(tgt.Blocks[1].Cases) != 2 {
		t.Errorf("switch cases = %d, want 2", len(tgt.Blocks[1].Cases))
	}
}

func TestTargetMerge(t *testing.T) {
	host := NewTarget("host")
	host.Sources.Add("a.cc")
	host.AddToGroup("SRC_C_AVX", "a_avx.cc")

	other := NewTarget("other")
	other.Sources.Add("a.cc", "b.cc")
	other.Dependencies.Add("protobuf")
	other.AddToGroup("SRC_C_AVX", "a_avx.cc")
	other.AddSourcesToGroup("SRC_C_AVX", Source{Path: "b_avx.cc", Global: true})

	host.Merge(other)

	if diff := cmp.Diff([]string{"a.cc", "b.cc"}, host.Sources.Paths()); diff != "" {
		t.Errorf("Sources mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a_avx.cc", "b_avx.cc"}, host.Group("SRC_C_AVX")); diff != "" {
		t.Errorf("group mismatch (-want +got):\n%s", diff)
	}
	if !host.Groups[0].Global.Has("b_avx.cc") || host.Groups[0].Global.Has("a_avx.cc") {
		t.Errorf("group GLOBAL members = %v, want [b_avx.cc]", host.Groups[0].Global.Sorted())
	}
	if !host.Dependencies.Has("protobuf") {
		t.Error("dependencies not merged")
	}
}

func TestParseField(t *testing.T) {
	if f, err := ParseField("recurse"); err != nil || f != FieldRecurse {
		t.Errorf("ParseField(recurse) = %v, %v", f, err)
	}
	if _, err := ParseField("SRCS"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("ParseField(SRCS) error = %v, want ErrUnknownField", err)
	}
}

func TestGraphAbsorb(t *testing.T) {
	g := New()
	common := NewTarget("onnxruntime_common")
	common.Sources.Add("common.cc")
	common.Dependencies.Add("onnxruntime_mlas")
	mlas := NewTarget("onnxruntime_mlas")
	mlas.Sources.Add("mlas.cc")
	mlas.Dependencies.Add("cpuinfo")
	user := NewTarget("app")
	user.Dependencies.Add("onnxruntime_mlas")
	for _, tgt := range []*Target{common, mlas, user} {
		_ = g.Add(tgt)
	}

	if err := g.Absorb("onnxruntime_common", "onnxruntime_mlas"); err != nil {
		t.Fatalf("Absorb() error = %v", err)
	}
	if _, ok := g.Lookup("onnxruntime_mlas"); ok {
		t.Error("member still present")
	}
	if diff := cmp.Diff([]string{"common.cc", "mlas.cc"}, common.Sources.Paths()); diff != "" {
		t.Errorf("Sources mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"cpuinfo"}, common.Dependencies.Sorted()); diff != "" {
		t.Errorf("host dependencies mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"onnxruntime_common"}, user.Dependencies.Sorted()); diff != "" {
		t.Errorf("user dependencies mismatch (-want +got):\n%s", diff)
	}
	if err := g.Absorb("onnxruntime_common", "gone"); !bperrors.Is(err, bperrors.ErrCodeNotFound) {
		t.Errorf("Absorb(missing) = %v, want NOT_FOUND", err)
	}
}
