package llm

import (
	"encoding/json"

	"github.com/abhisek/jurusan/internal/schema"
)

// validateResponse checks raw against s. A nil schema accepts anything.
func validateResponse(s *Schema, raw json.RawMessage) error {
	if s == nil {
		return nil
	}
	if err := schema.Validate(s.Name, s.Definition, raw); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	return nil
}

// checkTruncated reports a max-token stop on structured output as
// ErrMaxTokensExceeded.
func checkTruncated(req Request, resp *Response) error {
	if req.Schema != nil && resp.StopReason == "max_tokens" {
		return &ErrMaxTokensExceeded{MaxTokens: req.MaxTokens, Content: resp.Content}
	}
	return nil
}
