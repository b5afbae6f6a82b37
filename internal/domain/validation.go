package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultMaxReviewBytes bounds submissions; the classification service
// rejects documents beyond 5000 bytes, so reject early at ingestion.
const DefaultMaxReviewBytes = 5000

// ValidateReviewText rejects malformed submissions before an event is
// published. A maxBytes of zero falls back to DefaultMaxReviewBytes.
func ValidateReviewText(text string, maxBytes int) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxReviewBytes
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("reviewText is required")
	}
	if !utf8.ValidString(text) {
		return fmt.Errorf("reviewText must be valid UTF-8")
	}
	if len(text) > maxBytes {
		return fmt.Errorf("reviewText exceeds %d bytes", maxBytes)
	}
	return nil
}

// IsNegative is the workflow's branch condition: an exact, case-sensitive
// match on NEGATIVE. Unrecognized labels take the non-negative path.
func IsNegative(label SentimentLabel) bool {
	return label == SentimentNegative
}
