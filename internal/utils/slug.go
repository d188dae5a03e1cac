package utils

import (
	"math/rand"
	"regexp"
	"strings"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

const slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Slugify turns a title into a URL slug, appending a short random suffix so
// two posts with the same title never collide.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 60 {
		s = s[:60]
	}
	if s == "" {
		s = "post"
	}

	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = slugAlphabet[rand.Intn(len(slugAlphabet))]
	}
	return s + "-" + string(suffix)
}
