// Package pipeline chains typed transform stages into a streaming flow
// with bounded buffers: enqueue at any time, let each stage parallelize
// on its own lines, and drain everything with one close cascade.
//
// Highlights:
// - First/Then: build a typed stage blueprint, reusable across starts
// - Start: wire buffers and worker lines, obtain a running Flow
// - Enqueue/EnqueueAll: streamed intake, blocking while a buffer is full
// - Close/Done/Wait: stop intake and observe the stage-by-stage flush
//
// A failing item is routed to the error sink and the flow keeps running;
// ordering across a stage is not preserved. Callers needing a final
// ordered view should attach a sequence number at intake and re-sort, or
// use traverse instead.
package pipeline
