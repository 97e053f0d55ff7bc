package htmltext

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple paragraph",
			input: "<p>Hello world</p>",
			want:  "Hello world",
		},
		{
			name:  "paragraphs become breaks",
			input: "<div><p>Hello</p><p>World</p></div>",
			want:  "Hello\n\nWorld",
		},
		{
			name:  "with attributes",
			input: `<a href="https://example.com">Link text</a>`,
			want:  "Link text",
		},
		{
			name:  "nested tags",
			input: "<p><strong>Bold</strong> and <em>italic</em></p>",
			want:  "Bold and italic",
		},
		{
			name:  "plain text",
			input: "No HTML here",
			want:  "No HTML here",
		},
		{
			name:  "line break",
			input: "Line 1<br>Line 2",
			want:  "Line 1\nLine 2",
		},
		{
			name:  "scripts and styles dropped",
			input: "<html><head><title>T</title><style>p{}</style></head><body><script>x()</script><p>Body</p></body></html>",
			want:  "Body",
		},
		{
			name:  "collapses whitespace",
			input: "<p>  lots   of\t space  </p>",
			want:  "lots of space",
		},
		{
			name:  "entities",
			input: "<p>Fish &amp; chips</p>",
			want:  "Fish & chips",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.input); got != tt.want {
				t.Errorf("String(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractHeadingsAndLists(t *testing.T) {
	doc := "<h1>Report</h1><ul><li>First</li><li>Second</li></ul>"
	got, err := Extract(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if got != "Report\n\nFirst\n\nSecond" {
		t.Errorf("Unexpected text %q", got)
	}
}
