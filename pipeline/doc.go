// Package pipeline implements the marketing-content generation graph:
// brand research, brand strategy, creative concepts, a structured
// 30-second video script, cross-scene visual themes, and per-scene
// frame prompts for storyboard illustration.
//
// The graph has two human-approval cycles: strategy approval loops back
// to the strategist, and concept approval loops back to the creative
// director carrying accumulated feedback. Both cycles are bounded by a
// configurable revision cap.
//
// Every stage is defensive about model output. Backend failures and
// unparseable responses degrade to documented fallback values and emit
// diagnostic events; a degraded run still produces a complete,
// well-shaped final state.
//
// Batch use:
//
//	p, err := pipeline.New(pipeline.Config{
//	    Chat:   c,
//	    Source: brand.FileSource{Path: "company.json"},
//	})
//	result, err := p.Run(ctx)
//	strategy := workflow.MustGet(result.State, pipeline.KeyStrategy)
//
// Interactive use drives individual stage steps against a stored
// session state; see the mcp package.
package pipeline
