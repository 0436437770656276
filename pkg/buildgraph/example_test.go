package buildgraph_test

import (
	"fmt"

	"github.com/matzehuels/buildport/pkg/buildgraph"
)

func Example() {
	g := buildgraph.New()
	t := buildgraph.NewTarget(".")
	t.Sources.Add("onnxruntime/core/session/inference_session.cc")
	t.Dependencies.Add("contrib/libs/protobuf")
	_ = g.Add(t)

	_ = t.Attach(buildgraph.FieldSources, buildgraph.Branch(
		buildgraph.Flag("OS_DARWIN"),
		buildgraph.Patch{
			Sources:   buildgraph.NewSourceSet("onnxruntime/core/platform/apple/logging/apple_log_sink.mm"),
			LinkFlags: buildgraph.NewStringSet("-framework Foundation"),
		},
	))

	root, _ := g.Get(".")
	fmt.Println(root.Sources.Paths())
	fmt.Println(root.Blocks[0].Field, root.Blocks[0].Cases[0].When)
	// Output:
	// [onnxruntime/core/session/inference_session.cc]
	// sources OS_DARWIN
}

func ExampleAll() {
	p := buildgraph.All{
		buildgraph.Flag("HAVE_CUDA"),
		buildgraph.VersionAtLeast{Var: "CUDA_VERSION", Version: "11.4"},
	}
	fmt.Println(p)
	// Output: HAVE_CUDA AND CUDA_VERSION VERSION_GE 11.4
}
