package index

import (
	"strings"

	"gopkg.in/yaml.v3"
)

type frontmatter struct {
	Tags []string `yaml:"tags"`
}

// parseTags extracts the tags list from a leading YAML front matter
// block. Notes without front matter, or with invalid YAML, have no tags.
func parseTags(text string) []string {
	if !strings.HasPrefix(text, "---") {
		return nil
	}

	rest := text[3:]

	nl := strings.IndexByte(rest, '\n')
	if nl < 0 {
		return nil
	}

	rest = rest[nl+1:]

	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return nil
	}

	seen := make(map[string]bool, len(fm.Tags))
	tags := make([]string, 0, len(fm.Tags))

	for _, t := range fm.Tags {
		t = strings.TrimSpace(strings.TrimPrefix(t, "#"))
		if t == "" || seen[t] {
			continue
		}

		seen[t] = true
		tags = append(tags, t)
	}

	return tags
}
