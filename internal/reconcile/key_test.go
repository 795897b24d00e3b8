package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKey(t *testing.T) {
	tests := []struct {
		name         string
		description  string
		wantSource   string
		wantDeadline string
	}{
		{
			name:         "url and iso deadline",
			description:  "PhD position in GIS.\nURL: https://jobs.example.edu/123\nDeadline: 2024-03-01",
			wantSource:   "https://jobs.example.edu/123",
			wantDeadline: "2024-03-01",
		},
		{
			name:         "labels are case-insensitive and soon keeps its case",
			description:  "url:   http://a.example.org/x?id=1 deadline: soon",
			wantSource:   "http://a.example.org/x?id=1",
			wantDeadline: "soon",
		},
		{
			name:         "url stops at whitespace and angle bracket",
			description:  "URL: https://b.example.org/p<br>Deadline: Soon",
			wantSource:   "https://b.example.org/p",
			wantDeadline: "Soon",
		},
		{
			name:         "first occurrence wins",
			description:  "URL: https://first.example.org Deadline: 2024-01-01 URL: https://second.example.org Deadline: 2025-01-01",
			wantSource:   "https://first.example.org",
			wantDeadline: "2024-01-01",
		},
		{
			name:         "non-strict deadline is ignored",
			description:  "URL: https://c.example.org Deadline: 2024/01/05",
			wantSource:   "https://c.example.org",
			wantDeadline: "",
		},
		{
			name:         "url without scheme is ignored",
			description:  "URL: www.example.org Deadline: 2024-01-05",
			wantSource:   "",
			wantDeadline: "2024-01-05",
		},
		{
			name:        "no labels",
			description: "Postdoc in remote sensing",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, deadline := ExtractKey(tt.description)
			assert.Equal(t, tt.wantSource, source)
			assert.Equal(t, tt.wantDeadline, deadline)
		})
	}
}

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "a_b", BuildKey(" a ", " b "))
	assert.Equal(t, "_", BuildKey("", ""))
	assert.Equal(t, "https://x.org_", BuildKey("https://x.org", ""))
	assert.Equal(t, "_Soon", BuildKey("\t", "Soon"))
	assert.NotEqual(t, BuildKey("https://X.org", "Soon"), BuildKey("https://x.org", "Soon"))
	assert.True(t, isEmptyKey(BuildKey("  ", "  ")))
}
