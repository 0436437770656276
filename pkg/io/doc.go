// Package io provides JSON import and export for build graphs.
//
// # Overview
//
// The producer's configure/build trace is converted into this format by
// the import front end; buildport reads it, rewrites it, and writes it back
// in the same format for the emitter of the downstream build description.
//
// # JSON Format
//
// The format has one required top-level array:
//
//	{
//	  "targets": [
//	    {
//	      "name": ".",
//	      "sources": ["a.cc"],
//	      "global_sources": ["mlas/lib/platform.cpp"],
//	      "dependencies": ["contrib/libs/re2"],
//	      "include_paths": ["contrib/libs/onnx_runtime/include"],
//	      "recurse": ["onnxruntime/core/providers/cuda"],
//	      "includes": ["core/session.h"],
//	      "link_flags": [],
//	      "groups": [{"name": "SRC_C_AVX2", "sources": ["b_avx2.cc"]}],
//	      "blocks": [
//	        {"field": "sources", "cases": [
//	          {"when": "OS_DARWIN", "patch": {"sources": ["log.mm"], "link_flags": ["-framework Foundation"]}}
//	        ]}
//	      ]
//	    }
//	  ]
//	}
//
// # Field Semantics
//
// Every field except name is optional. Set-valued fields are written sorted
// so that exports are byte-stable across runs. Group sources keep the order
// in which they were recorded. Predicates are written in downstream syntax
// and read back as opaque [buildgraph.Expr] values, which render
// identically.
//
// # Side Channels
//
// [WriteDeletions] writes the paths a run scheduled for physical removal,
// one per line, for the step that prunes the output source tree.
package io
