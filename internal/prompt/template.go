package prompt

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// CommentSlot is the substitution point the comment template must contain.
const CommentSlot = "{comment}"

// Template holds the ordered instruction lines and the comment-insertion
// template loaded from the prompt file.
type Template struct {
	Instructions    []string `json:"instructions"`
	CommentTemplate string   `json:"comment_template"`
}

type templateFile struct {
	Prompt Template `json:"prompt"`
}

// LoadTemplate reads the prompt file. The canonical layout nests the
// template under a "prompt" key; a flat object is accepted too.
func LoadTemplate(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("reading prompt file: %w", err)
	}

	var f templateFile
	if err := json.Unmarshal(data, &f); err != nil {
		return Template{}, fmt.Errorf("parsing prompt file %s: %w", path, err)
	}
	t := f.Prompt
	if len(t.Instructions) == 0 && t.CommentTemplate == "" {
		if err := json.Unmarshal(data, &t); err != nil {
			return Template{}, fmt.Errorf("parsing prompt file %s: %w", path, err)
		}
	}

	if t.CommentTemplate == "" {
		return Template{}, fmt.Errorf("prompt file %s: comment_template is required", path)
	}
	if !strings.Contains(t.CommentTemplate, CommentSlot) {
		return Template{}, fmt.Errorf("prompt file %s: comment_template must contain %s", path, CommentSlot)
	}
	return t, nil
}

// Build assembles the final prompt: instruction lines joined by newlines, an
// optional labeled image-analysis section, then the comment template with the
// sanitized comment text substituted in.
func Build(t Template, commentText, analysis string) string {
	var b strings.Builder
	b.WriteString(strings.Join(t.Instructions, "\n"))
	if analysis != "" {
		b.WriteString("\n\nImage analysis:\n")
		b.WriteString(analysis)
	}
	b.WriteString("\n\n")
	b.WriteString(strings.ReplaceAll(t.CommentTemplate, CommentSlot, StripEmoji(commentText)))
	return b.String()
}
