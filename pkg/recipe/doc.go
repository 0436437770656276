// Package recipe loads import recipes.
//
// A recipe holds everything a single import run needs besides the graph
// itself: the static parameter tables (ignored targets, placements,
// disabled includes, the unbundling table) and the ordered post-install
// rewrite steps. Recipes are written in TOML or YAML; both are converted to
// JSON and checked against an embedded JSON Schema before being decoded
// into [Recipe].
//
// # Example
//
//	project: onnxruntime
//	arcdir: contrib/libs/onnx_runtime
//	ignore_targets: [flatc, protoc]
//	unbundle:
//	  re2: {external: contrib/libs/re2, prefix: _deps/re2-src}
//	steps:
//	  - target: onnxruntime/core/providers/cuda
//	    always_link: core/providers/cuda/cuda_provider_factory.cc
//	  - target: .
//	    gate_recurse:
//	      all: [HAVE_CUDA, {version: {var: CUDA_VERSION, at_least: "11.4"}}]
//
// [Recipe.Rules] turns a recipe into the ordered [rewrite.Rule] list that
// pkg/pipeline applies.
package recipe
