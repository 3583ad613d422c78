package cmdline

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Complete completes the command name (the first word) against names.
// A unique prefix match is completed with a trailing space, several prefix
// matches are completed to their common prefix, and with no prefix match
// the best fuzzy match wins. Returns false when nothing changed.
func (b *Buffer) Complete(names []string) bool {
	text := string(b.text)
	if strings.ContainsRune(text, ' ') || b.cursor != len(b.text) {
		return false
	}

	var prefixed []string
	for _, n := range names {
		if strings.HasPrefix(n, text) {
			prefixed = append(prefixed, n)
		}
	}
	sort.Strings(prefixed)

	var completed string
	switch {
	case len(prefixed) == 1:
		completed = prefixed[0] + " "
	case len(prefixed) > 1:
		completed = commonPrefix(prefixed)
	case text != "":
		matches := fuzzy.Find(text, names)
		if len(matches) == 0 {
			return false
		}
		completed = matches[0].Str + " "
	default:
		return false
	}

	if completed == text {
		return false
	}
	b.SetText(completed)
	return true
}

func commonPrefix(words []string) string {
	p := words[0]
	for _, w := range words[1:] {
		for !strings.HasPrefix(w, p) {
			p = p[:len(p)-1]
		}
	}
	return p
}
