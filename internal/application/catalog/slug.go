package catalog

import (
	"fmt"
	"strings"
	"unicode"
)

// Slugify lowercases value and collapses every run of characters that are
// neither letters nor digits into a single hyphen. Hangul survives as is.
func Slugify(value string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// Slugger hands out slugs that are unique within one build pass. It is not
// safe for concurrent use.
type Slugger struct {
	counts map[string]int
	used   map[string]bool
}

func NewSlugger() *Slugger {
	return &Slugger{counts: make(map[string]int), used: make(map[string]bool)}
}

// Assign returns the slug for the group at position index. explicit wins
// over the title-derived slug; collisions get -2, -3, ... in encounter order,
// skipping any suffixed slug an earlier group already holds.
func (s *Slugger) Assign(explicit, title string, index int) string {
	base := strings.TrimSpace(explicit)
	if base == "" {
		base = Slugify(title)
	}
	if base == "" {
		base = fmt.Sprintf("course-%d", index+1)
	}

	n := s.counts[base]
	slug := base
	if n > 0 {
		slug = fmt.Sprintf("%s-%d", base, n+1)
	}
	for s.used[slug] {
		n++
		slug = fmt.Sprintf("%s-%d", base, n+1)
	}
	s.counts[base] = n + 1
	s.used[slug] = true
	return slug
}
