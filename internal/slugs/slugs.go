package slugs

import (
	"fmt"

	"github.com/gosimple/slug"
)

// Make normalizes a display name to a lowercase, hyphenated ASCII slug.
func Make(name string) string {
	return slug.Make(name)
}

// Unique returns base unchanged when free, otherwise the smallest
// base-n (n >= 1) not already taken. The taken callback must exclude
// the record's own prior slug so re-saving does not self-collide.
func Unique(base string, taken func(candidate string) (bool, error)) (string, error) {
	candidate := base
	for n := 1; ; n++ {
		inUse, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !inUse {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
