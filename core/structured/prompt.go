package structured

import (
	"fmt"

	"github.com/leofalp/structo/internal/utils"
)

// maxFeedbackLen caps how much of a failed attempt's raw output is echoed
// back into the follow-up prompt.
const maxFeedbackLen = 4000

// attemptFailure records what went wrong in the previous attempt so the
// follow-up prompt can ask the model to correct itself.
type attemptFailure struct {
	raw    string // previous raw output, empty when the provider call failed
	reason string
}

// buildPrompt assembles the prompt for one attempt: the caller's input, the
// compacted schema, and, on retries, feedback about the previous failure.
func buildPrompt(input, compactSchema string, prior *attemptFailure) string {
	prompt := fmt.Sprintf(`%s

Respond with a single JSON value matching this type:
%s

Return only the JSON value, with no commentary.`, input, compactSchema)

	if prior == nil {
		return prompt
	}

	if prior.raw != "" {
		prompt += fmt.Sprintf(`

Your previous output was:
%s

Problem: %s

Return ONLY valid JSON matching the type above.`, utils.TruncateString(prior.raw, maxFeedbackLen), prior.reason)
	} else {
		prompt += fmt.Sprintf(`

The previous attempt failed (%s). Return ONLY valid JSON matching the type above.`, prior.reason)
	}

	return prompt
}
