// Package llm is the provider-agnostic core of the chat dispatch layer.
//
// Design goals:
//   - One contract: every vendor adapter turns a Conversation plus a Settings snapshot into a
//     final string and, optionally, a series of cumulative progress emissions (see Adapter).
//   - Explicit configuration: Settings is an immutable value passed into each call; nothing in this
//     package reads ambient storage.
//   - Stable error classification: adapters return *Error values carrying a Kind (configuration,
//     transient, protocol, ...) so callers and the retry policy can branch without string matching.
//
// The package also hosts the small pure helpers shared by the adapters: the endpoint table
// (Resolve, DefaultModel), message normalization (Normalize) and the reasoning/answer Splitter.
// Adapter implementations live under llm/providers.
package llm
