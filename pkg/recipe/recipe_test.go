package recipe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/buildport/pkg/buildgraph"
	bperrors "github.com/matzehuels/buildport/pkg/errors"
	"github.com/matzehuels/buildport/pkg/rewrite"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"recipe.toml", FormatTOML},
		{"recipe.TOML", FormatTOML},
		{"recipe.yaml", FormatYAML},
		{"recipe.yml", FormatYAML},
		{"recipe.json", FormatJSON},
		{"recipe", FormatYAML},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoadYAML(t *testing.T) {
	r, err := Load(filepath.Join("testdata", "onnxruntime.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if r.Project != "onnxruntime" || r.Arcdir != "contrib/libs/onnx_runtime" {
		t.Errorf("Project, Arcdir = %q, %q", r.Project, r.Arcdir)
	}
	if diff := cmp.Diff([]string{"flatc", "protoc", "clog"}, r.IgnoreTargets); diff != "" {
		t.Errorf("IgnoreTargets mismatch (-want +got):\n%s", diff)
	}
	if len(r.Steps) != 7 {
		t.Fatalf("len(Steps) = %d, want 7", len(r.Steps))
	}
	if got := r.Steps[4].Branch.When.Expr; got != "OS_DARWIN" {
		t.Errorf("branch predicate = %q, want OS_DARWIN", got)
	}
	if r.Steps[3].RemoveSource == nil || !r.Steps[3].RemoveSource.Delete {
		t.Error("remove_source step lost its delete flag")
	}
}

func TestRulesOrder(t *testing.T) {
	r, err := Load(filepath.Join("testdata", "onnxruntime.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	rules, err := r.Rules()
	if err != nil {
		t.Fatalf("Rules() error = %v", err)
	}

	var names []string
	for _, rule := range rules {
		names = append(names, rule.Name())
	}
	want := []string{
		"ignore targets",
		"merge into onnxruntime_common",
		"put onnxruntime_common at .",
		"put onnxruntime_providers_cuda at onnxruntime/core/providers/cuda",
		"disable includes",
		"resolve duplicate core/providers/shared_library/provider_bridge_provider.cc",
		"always link core/providers/cuda/cuda_provider_factory.cc",
		"fix dependencies of onnxruntime/core/providers/cuda",
		"remove source onnxruntime/core/providers/shared/common.cc",
		"branch . on OS_DARWIN",
		"reclassify .",
		"gate recursion of .",
		"unbundle eigen",
		"unbundle re2",
		"unbundle contrib/restricted/abseil-cpp components",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("rule order mismatch (-want +got):\n%s", diff)
	}

	fix := rules[7].(rewrite.DependencyFix)
	if diff := cmp.Diff([]string{"contrib/libs/onnx_runtime/_deps/abseil_cpp-src"}, fix.RemoveIncludePaths); diff != "" {
		t.Errorf("arcdir expansion mismatch (-want +got):\n%s", diff)
	}
	re2 := rules[13].(rewrite.Unbundling)
	if re2.Rule.Prefix != "contrib/libs/onnx_runtime/_deps/re2-src" {
		t.Errorf("unbundle prefix = %q", re2.Rule.Prefix)
	}
	gate := rules[11].(rewrite.RecursionGate)
	if got := gate.When.String(); got != "HAVE_CUDA AND CUDA_VERSION VERSION_GE 11.4" {
		t.Errorf("gate predicate = %q", got)
	}
	branch := rules[9].(rewrite.PlatformBranch)
	if !branch.Patch.LinkFlags.Has("-framework Foundation") || branch.Field != buildgraph.FieldSources {
		t.Errorf("branch = %+v", branch)
	}
	comp := rules[14].(rewrite.ComponentUnbundling)
	if len(comp.Rule.Components) != 2 || comp.Rule.Prefix != "contrib/libs/onnx_runtime/_deps/abseil_cpp-src" {
		t.Errorf("component rule = %+v", comp.Rule)
	}
}

func TestLoadTOML(t *testing.T) {
	r, err := Load(filepath.Join("testdata", "minimal.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	rules, err := r.Rules()
	if err != nil {
		t.Fatalf("Rules() error = %v", err)
	}
	if len(rules) != 6 {
		t.Fatalf("len(rules) = %d, want 6", len(rules))
	}

	recl := rules[3].(rewrite.Reclassification)
	if len(recl.Groups) != 1 || recl.Groups[0].Group != "SRC_C_SSE4" {
		t.Fatalf("groups = %+v", recl.Groups)
	}
	m := recl.Groups[0].Match
	if !m.Match("src/x86/sse4/init.c") || !m.Match("src/x86/cache_sse4.c") || m.Match("src/x86/init.c") {
		t.Errorf("matcher %s matched the wrong paths", m)
	}

	gate := rules[4].(rewrite.RecursionGate)
	if got := gate.When.String(); got != "NOT OS_ANDROID" {
		t.Errorf("gate predicate = %q, want NOT OS_ANDROID", got)
	}
	unb := rules[5].(rewrite.Unbundling)
	if unb.Rule.Prefix != "contrib/libs/cpuinfo/deps/clog" {
		t.Errorf("unbundle prefix = %q", unb.Rule.Prefix)
	}
}

func TestParseJSON(t *testing.T) {
	doc := `{"project": "p", "steps": [{"target": ".", "always_link": "a.cc"}]}`
	r, err := Parse([]byte(doc), FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	rules, err := r.Rules()
	if err != nil {
		t.Fatalf("Rules() error = %v", err)
	}
	if diff := cmp.Diff([]string{"always link a.cc"}, []string{rules[0].Name()}); diff != "" {
		t.Errorf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format Format
	}{
		{"missing project", "ignore_targets: [a]", FormatYAML},
		{"unknown key", "project: p\nunbundle_from: {a: b}", FormatYAML},
		{"two actions in one step", "project: p\nsteps:\n  - target: .\n    always_link: a.cc\n    gate_recurse: HAVE_CUDA", FormatYAML},
		{"step without action", "project: p\nsteps:\n  - target: .", FormatYAML},
		{"unbundle without external", "project: p\nunbundle:\n  re2: {prefix: x}", FormatYAML},
		{"unknown branch field", "project: p\nsteps:\n  - target: .\n    branch: {field: srcs, when: OS_LINUX, sources: [a.cc]}", FormatYAML},
		{"predicate with two operators", "project: p\nsteps:\n  - target: .\n    gate_recurse: {flag: A, expr: B}", FormatYAML},
		{"unquoted version", "project: p\nsteps:\n  - target: .\n    gate_recurse: {version: {var: V, at_least: 11.4}}", FormatYAML},
		{"absolute keep path", "project: p\nkeep_paths: [/etc/passwd]", FormatYAML},
		{"put_with lists host", "project: p\nput_with:\n  a: [a]", FormatYAML},
		{"broken toml", "project = ", FormatTOML},
		{"broken yaml", "project: [", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), tt.format)
			if !bperrors.Is(err, bperrors.ErrCodeInvalidConfig) {
				t.Errorf("Parse() code = %q, want INVALID_CONFIG (err %v)", bperrors.GetCode(err), err)
			}
		})
	}
}

func TestRulesInvalidIncludePattern(t *testing.T) {
	r, err := Parse([]byte(`{"project": "p", "disable_includes": ["[oops"]}`), FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, err := r.Rules(); !bperrors.Is(err, bperrors.ErrCodeInvalidConfig) {
		t.Errorf("Rules() code = %q, want INVALID_CONFIG", bperrors.GetCode(err))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !bperrors.Is(err, bperrors.ErrCodeIO) {
		t.Errorf("Load() code = %q, want IO_ERROR", bperrors.GetCode(err))
	}
}

func TestLoadWrapsParseErrors(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(p, []byte("project: p\nbogus: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(p)
	if !bperrors.Is(err, bperrors.ErrCodeInvalidConfig) {
		t.Errorf("Load() code = %q, want INVALID_CONFIG", bperrors.GetCode(err))
	}
}

func TestPredicateBuild(t *testing.T) {
	tests := []struct {
		name string
		p    Predicate
		want string
	}{
		{"flag", Predicate{Flag: "OS_DARWIN"}, "OS_DARWIN"},
		{"expr", Predicate{Expr: "OS_LINUX AND ARCH_X86_64"}, "OS_LINUX AND ARCH_X86_64"},
		{"any", Predicate{Any: []Predicate{{Flag: "OS_LINUX"}, {Flag: "OS_DARWIN"}}}, "OS_LINUX OR OS_DARWIN"},
		{"not any", Predicate{Not: &Predicate{Any: []Predicate{{Flag: "A"}, {Flag: "B"}}}}, "NOT (A OR B)"},
		{"nested expr", Predicate{All: []Predicate{{Flag: "A"}, {Expr: "B OR C"}}}, "A AND (B OR C)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.p.Build()
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("Build() = %q, want %q", got.String(), tt.want)
			}
		})
	}

	if _, err := (Predicate{}).Build(); !bperrors.Is(err, bperrors.ErrCodeInvalidConfig) {
		t.Errorf("empty Build() code = %q, want INVALID_CONFIG", bperrors.GetCode(err))
	}
}

func TestSchema(t *testing.T) {
	if len(Schema()) == 0 {
		t.Fatal("Schema() is empty")
	}
}
