package structured

import "errors"

// ErrNoProvider is returned by [Call] when Args.Provider is nil. This is a
// caller bug, not a runtime condition, so it surfaces as an error instead of
// a non-valid envelope.
var ErrNoProvider = errors.New("structo: provider is required")

// ErrNoSchema is returned by [Call] when Args.Schema is nil.
var ErrNoSchema = errors.New("structo: schema is required")

// extractionFailureMessage is the synthetic error recorded in the envelope
// when no syntactically valid JSON candidate was found in provider output.
const extractionFailureMessage = "no JSON value found in model output"
