package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
	}{
		{
			name:     "강조",
			input:    "**bold** and _em_",
			contains: []string{"<strong>bold</strong>", "<em>em</em>"},
		},
		{
			name:        "스크립트 제거",
			input:       "hi <script>alert(1)</script>",
			contains:    []string{"hi"},
			notContains: []string{"<script", "alert(1)"},
		},
		{
			name:     "외부 링크",
			input:    "[site](https://example.com)",
			contains: []string{`href="https://example.com"`, "nofollow", "noreferrer"},
		},
		{
			name:        "javascript 링크",
			input:       "[x](javascript:alert(1))",
			notContains: []string{"javascript:"},
		},
		{
			name:     "줄바꿈 유지",
			input:    "line one\nline two",
			contains: []string{"<br"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Render(tt.input)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Jamie", "Jamie"},
		{"trims", "  Jamie  ", "Jamie"},
		{"strips tags", "<b>Jamie</b>", "Jamie"},
		{"drops script body", "<script>alert(1)</script>Jamie", "Jamie"},
		{"keeps ampersand", "Tom & Jerry", "Tom & Jerry"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}
