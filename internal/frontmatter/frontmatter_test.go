package frontmatter

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantOK   bool
		wantMeta string
		wantBody string
	}{
		{
			name:     "complete block",
			content:  "---\ntags:\n  - a\n---\nbody line\n",
			wantOK:   true,
			wantMeta: "tags:\n  - a",
			wantBody: "body line\n",
		},
		{
			name:     "no block",
			content:  "just text\n",
			wantOK:   false,
			wantBody: "just text\n",
		},
		{
			name:     "unterminated block",
			content:  "---\ntags:\n  - a\n",
			wantOK:   false,
			wantBody: "---\ntags:\n  - a\n",
		},
		{
			name:     "blank lines before block",
			content:  "\n  \n---\ntags:\n  - a\n---\nbody line\n",
			wantOK:   true,
			wantMeta: "tags:\n  - a",
			wantBody: "body line\n",
		},
		{
			name:     "only blank lines",
			content:  "\n\n",
			wantOK:   false,
			wantBody: "\n\n",
		},
		{
			name:     "crlf delimiters",
			content:  "---\r\ntags:\r\n---\r\nbody",
			wantOK:   true,
			wantMeta: "tags:\r",
			wantBody: "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body, ok := Split([]byte(tt.content))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if string(meta) != tt.wantMeta {
				t.Errorf("meta = %q, want %q", meta, tt.wantMeta)
			}
			if string(body) != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestTags(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "ordered with duplicates",
			content: "---\ntags:\n  - Piano\n  - Etude\n  - Piano\n---\n",
			want:    []string{"Piano", "Etude", "Piano"},
		},
		{
			name:    "empty list",
			content: "---\ntags:\n---\nbody",
			want:    []string{},
		},
		{
			name:    "no front matter",
			content: "- not a tag\n",
			want:    []string{},
		},
		{
			name:    "body bullets are ignored",
			content: "---\ntags:\n  - Scale\n---\n- step one\n- step two\n",
			want:    []string{"Scale"},
		},
		{
			name:    "blank line before block",
			content: "\n---\ntags:\n  - Piano\n---\nbody\n",
			want:    []string{"Piano"},
		},
		{
			name:    "invalid yaml falls back to list items",
			content: "---\ntags:\n  - Piano\n  - Violin\nbroken: [unclosed\n---\n",
			want:    []string{"Piano", "Violin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tags([]byte(tt.content))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tags() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
