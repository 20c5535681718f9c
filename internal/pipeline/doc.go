// Package pipeline runs one bundle analysis as a sequence of steps.
//
// A Run flows through the steps of DefaultPipeline:
//
//	load      read the stats file (or stdin) and decode the JSON document
//	detect    select the adapter that recognizes the document
//	analyze   normalize and aggregate into a model.Analysis
//	evaluate  run the rule engine and collect issues
//
// Context cancellation is checked between steps, and the first failing step
// stops the run. Steps log through log/slog.
package pipeline
