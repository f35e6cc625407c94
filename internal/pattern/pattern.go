// Package pattern parses wildcard pattern strings into the index slices
// the enumerator and hash core need, applying the primary/secondary
// swap rule that makes the longer wildcard class primary.
package pattern

import (
	"fmt"

	"namehash/internal/hashcore"
)

const (
	primaryChar   = '*'
	secondaryChar = '%'
)

// Pattern is a parsed wildcard template: a Hash-String buffer plus the
// wildcard index slices the enumerator uses to fill candidates in.
type Pattern struct {
	Text      string
	HashStr   *hashcore.HashString
	Primary   []int // padded-buffer byte offsets of the primary wildcard, one per enumerator digit
	Secondary []int // mirrored positions, always len(Secondary) <= len(Primary)
}

// Width returns the number of enumerator digits (primary wildcard count).
func (p *Pattern) Width() int { return len(p.Primary) }

// Parse builds a Pattern from raw pattern text. The longer of the two
// wildcard classes becomes primary; ties keep '*' as primary.
func Parse(raw string) (*Pattern, error) {
	if raw == "" {
		return nil, fmt.Errorf("pattern: empty pattern")
	}

	var stars, percents []int
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case primaryChar:
			stars = append(stars, i)
		case secondaryChar:
			percents = append(percents, i)
		}
	}

	primary, secondary := stars, percents
	if len(percents) > len(stars) {
		primary, secondary = percents, stars
	}

	return &Pattern{
		Text:      raw,
		HashStr:   hashcore.New(raw),
		Primary:   primary,
		Secondary: secondary,
	}, nil
}

// Format renders a resolved candidate for display: the whole match is
// lowercased (undoing the internal uppercase normalisation) with '\'
// un-normalised back to '/'. Callers must have already resolved every
// wildcard position via Enumerator.Apply.
func Format(hs *hashcore.HashString) string {
	buf := make([]byte, hs.Size())
	for i := 0; i < hs.Size(); i++ {
		b := hs.At(i)
		if b == '\\' {
			buf[i] = '/'
			continue
		}
		buf[i] = lower(b)
	}
	return string(buf)
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
