package youtube

import "strings"

// YouTube category ids that indicate instructional content.
var educationalCategories = map[string]bool{
	"27": true, // Education
	"28": true, // Science & Technology
	"26": true, // Howto & Style
}

var educationalKeywords = []string{
	"tutorial", "lecture", "course", "lesson", "explained",
	"introduction to", "how to", "crash course", "study",
	"exam", "learn", "chapter",
}

// LooksEducational is a coarse signal only. Non-educational videos are
// still accepted; the flag travels back to the client.
func LooksEducational(v Video) bool {
	if educationalCategories[v.CategoryID] {
		return true
	}
	haystack := strings.ToLower(v.Title + " " + v.Description)
	for _, tag := range v.Tags {
		haystack += " " + strings.ToLower(tag)
	}
	for _, kw := range educationalKeywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
