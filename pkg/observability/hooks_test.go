package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnRunStart(ctx, "run", "onnxruntime", 12)
	p.OnRuleStart(ctx, "run", "reclassify .")
	p.OnRuleComplete(ctx, "run", "reclassify .", time.Millisecond, nil)
	p.OnUnusedRule(ctx, "run", "unbundle re2", "target \".\" does not depend on \"re2\"")
	p.OnRunComplete(ctx, "run", time.Second, nil)

	io := NoopIOHooks{}
	io.OnRead(ctx, "graph", "graph.json", 1024)
	io.OnWrite(ctx, "keep", "keep.json", 64)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := IO().(NoopIOHooks); !ok {
		t.Error("IO() should return NoopIOHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customIO := &testIOHooks{}
	SetIOHooks(customIO)
	if IO() != customIO {
		t.Error("SetIOHooks should set custom hooks")
	}

	// nil must not replace registered hooks
	SetPipelineHooks(nil)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks(nil) should keep existing hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
	if _, ok := IO().(NoopIOHooks); !ok {
		t.Error("Reset() should restore NoopIOHooks")
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }

type testIOHooks struct{ NoopIOHooks }
