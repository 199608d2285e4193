package narrative

import (
	"regexp"
	"strings"
)

// Updates carries the structured state changes embedded in generated prose.
// An empty field means the tag was absent and the prior value stands.
type Updates struct {
	Location   string
	Quest      string
	Companions string
	Events     string
}

var tagPatterns = map[string]*regexp.Regexp{
	"location":   regexp.MustCompile(`\[LOCATION:\s*([^\]]+)\]`),
	"quest":      regexp.MustCompile(`\[QUEST:\s*([^\]]+)\]`),
	"companions": regexp.MustCompile(`\[COMPANIONS:\s*([^\]]+)\]`),
	"events":     regexp.MustCompile(`\[EVENTS:\s*([^\]]+)\]`),
}

// ParseTags extracts the bracketed update tags from generated text and
// returns them alongside the prose with all tags stripped.
func ParseTags(text string) (Updates, string) {
	var up Updates
	extract := func(key string) string {
		m := tagPatterns[key].FindStringSubmatch(text)
		if m == nil {
			return ""
		}
		return strings.TrimSpace(m[1])
	}
	up.Location = extract("location")
	up.Quest = extract("quest")
	up.Companions = extract("companions")
	up.Events = extract("events")

	clean := text
	for _, re := range tagPatterns {
		clean = re.ReplaceAllString(clean, "")
	}
	return up, strings.TrimSpace(clean)
}
