// Package frontmatter splits the `---` delimited metadata block off the top of
// a markdown file and decodes the tag list it carries.
package frontmatter

import (
	"bytes"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	delimiter    = []byte("---")
	listItemLine = regexp.MustCompile(`^\s*-\s+(.+?)\s*$`)
)

// Split returns the lines between the opening and closing `---` delimiters and
// everything after the closing delimiter. Blank lines before the opening
// delimiter are skipped. ok is false when the content does not start with a
// complete block; body is then the whole content.
func Split(content []byte) (meta []byte, body []byte, ok bool) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	lines := bytes.Split(content, []byte("\n"))

	start := 0
	for start < len(lines) && len(bytes.TrimSpace(lines[start])) == 0 {
		start++
	}
	if start == len(lines) || !bytes.Equal(bytes.TrimSpace(lines[start]), delimiter) {
		return nil, content, false
	}

	var end int
	for i := start + 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), delimiter) {
			end = i
			break
		}
	}

	if end == 0 {
		return nil, content, false
	}

	meta = bytes.Join(lines[start+1:end], []byte("\n"))
	body = bytes.Join(lines[end+1:], []byte("\n"))
	return meta, body, true
}

// Tags returns the `tags:` list items of the front matter in file order,
// duplicates included. Content without a front matter block has no tags.
func Tags(content []byte) []string {
	meta, _, ok := Split(content)
	if !ok {
		return []string{}
	}

	var fm struct {
		Tags []string `yaml:"tags"`
	}
	if err := yaml.Unmarshal(meta, &fm); err == nil {
		tags := make([]string, 0, len(fm.Tags))
		for _, tag := range fm.Tags {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		return tags
	}

	// Not valid YAML: take the list items as written
	tags := []string{}
	for _, line := range strings.Split(string(meta), "\n") {
		if m := listItemLine.FindStringSubmatch(line); m != nil {
			tags = append(tags, m[1])
		}
	}
	return tags
}
