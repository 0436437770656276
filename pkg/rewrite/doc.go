// Package rewrite provides the structural rewrite rules applied to an
// imported build graph before it is handed to the downstream build system.
//
// # Overview
//
// A producer-generated graph rarely links or resolves symbols correctly in
// the downstream build system as-is. The rules in this package fix that in
// place, one target at a time:
//
//   - [Reclassify] moves instruction-set-specific sources (paths under an
//     avx2/ directory, files named *_avx2.cc) into dedicated compilation
//     groups such as SRC_C_AVX2
//   - [ResolveDuplicate] swaps a proxy source that re-exports an API on both
//     sides of a link boundary for a curated set of smaller files
//   - [MarkAlwaysLinked] tags a source GLOBAL so a weak-symbol override in
//     it survives static linking
//   - [Unbundle] rewrites a dependency on a vendored library to the
//     externally maintained build and strips the vendored include paths;
//     [UnbundleComponents] does the same for a library made of many
//     fine-grained components, one sub-target per component
//   - [GateRecurse] moves a target's recursive subdirectories behind a
//     feature/version predicate
//
// # Ordering
//
// Rules are not commutative. Unbundling assumes duplicate resolution has
// already removed the proxy source it would otherwise touch, and renamed
// targets must be placed before post-install rules address them by output
// directory. The [Rule] values built by pkg/recipe are applied by
// pkg/pipeline in a fixed order.
//
// # Failure Semantics
//
// Every rule checks its preconditions before mutating anything, so a failed
// rule leaves the graph as it found it. Precondition failures are
// INVARIANT_VIOLATION errors: they mean the upstream project changed in a
// way the rule table no longer matches. A rule that matches nothing returns
// (or records) an UNUSED_RULE error, which callers log and tolerate.
//
// # Usage
//
//	t, _ := g.Get(".")
//	groups := rewrite.Reclassify(t, rewrite.ExtensionRules("avx", "avx2", "avx512", "amx"))
//	if _, err := rewrite.ResolveDuplicate(t, proxy, parts); err != nil {
//	    return err
//	}
package rewrite
