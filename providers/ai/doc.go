// Package ai defines the provider contract shared by the structured-call
// core and concrete LLM adapters. The core never performs network I/O
// itself: it hands a [Request] to a caller-supplied [Provider] and consumes
// the returned [Response] text, plus an optional cost figure if the provider
// chooses to attach one.
package ai
