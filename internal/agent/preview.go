package agent

import (
	"fmt"
	"strings"
)

// previewLimit caps how many records an execution response lists.
const previewLimit = 3

// FormatPreview renders the first few preview lines as a bulleted block,
// with a "showing N of M" suffix when the set is larger than the limit.
func FormatPreview(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	shown := lines
	if len(shown) > previewLimit {
		shown = shown[:previewLimit]
	}
	var b strings.Builder
	for _, line := range shown {
		b.WriteString("\n- ")
		b.WriteString(line)
	}
	if len(lines) > previewLimit {
		fmt.Fprintf(&b, "\n(showing %d of %d)", previewLimit, len(lines))
	}
	return b.String()
}
