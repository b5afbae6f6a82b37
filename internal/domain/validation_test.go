package domain

import (
	"strings"
	"testing"
)

func TestValidateReviewText(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		text     string
		maxBytes int
		wantErr  bool
	}{
		{name: "valid", text: "Great experience!"},
		{name: "empty", text: "", wantErr: true},
		{name: "whitespace only", text: " \n\t ", wantErr: true},
		{name: "invalid utf8", text: string([]byte{0xff, 0xfe, 0xfd}), wantErr: true},
		{name: "at limit", text: strings.Repeat("a", 100), maxBytes: 100},
		{name: "over limit", text: strings.Repeat("a", 101), maxBytes: 100, wantErr: true},
		{name: "default limit applies", text: strings.Repeat("a", DefaultMaxReviewBytes+1), wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateReviewText(tc.text, tc.maxBytes)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestIsNegative(t *testing.T) {
	cases := []struct {
		label SentimentLabel
		want  bool
	}{
		{SentimentNegative, true},
		{SentimentPositive, false},
		{SentimentNeutral, false},
		{SentimentMixed, false},
		{SentimentLabel("negative"), false},
		{SentimentLabel("Negative"), false},
		{SentimentLabel("SARCASTIC"), false},
		{SentimentLabel(""), false},
	}

	for _, tc := range cases {
		if got := IsNegative(tc.label); got != tc.want {
			t.Fatalf("IsNegative(%q) = %v, want %v", tc.label, got, tc.want)
		}
	}
}
