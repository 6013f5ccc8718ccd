package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var topicSlugRegex = regexp.MustCompile(`^[a-z0-9-]{3,24}$`)

var reservedTopicSlugs = map[string]struct{}{
	"admin":    {},
	"api":      {},
	"auth":     {},
	"settings": {},
	"topics":   {},
	"t":        {},
	"users":    {},
	"posts":    {},
	"comments": {},
	"votes":    {},
	"reports":  {},
	"saved":    {},
	"metrics":  {},
	"health":   {},
	"login":    {},
	"signup":   {},
}

// ValidateTopicSlug validates topic slug format and reserved names.
func ValidateTopicSlug(slug string) error {
	if !topicSlugRegex.MatchString(slug) {
		return fmt.Errorf("slug must be 3-24 characters and contain only lowercase letters, numbers, and hyphens")
	}

	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return fmt.Errorf("slug cannot start or end with a hyphen")
	}

	if _, exists := reservedTopicSlugs[slug]; exists {
		return fmt.Errorf("slug is reserved")
	}

	return nil
}
