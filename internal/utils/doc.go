// Package utils holds small internal helpers shared across packages: JSON
// string rendering, log-safe truncation, and the HTTP POST helper used by
// provider adapters.
package utils
