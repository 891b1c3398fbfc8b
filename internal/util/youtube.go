package util

import (
	"regexp"
	"strings"
)

const youTubeEmbedBase = "https://www.youtube.com/embed/"

// Later patterns override earlier ones when a URL matches several.
var youTubePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[?&]v=([^&#]+)`),
	regexp.MustCompile(`youtu\.be/([^?&#]+)`),
	regexp.MustCompile(`embed/([^?&#]+)`),
	regexp.MustCompile(`shorts/([^?&#]+)`),
}

// YouTubeID extracts the video identifier from watch, short-link, embed and
// shorts URLs. It returns "" when none match.
func YouTubeID(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}

	id := ""
	for _, pattern := range youTubePatterns {
		if match := pattern.FindStringSubmatch(rawURL); match != nil {
			id = match[1]
		}
	}
	return id
}

func YouTubeEmbedURL(rawURL string) string {
	id := YouTubeID(rawURL)
	if id == "" {
		return ""
	}
	return youTubeEmbedBase + id
}

// YouTubeEmbeds maps the given URLs to embed URLs, skipping the ones that
// are empty or unrecognized.
func YouTubeEmbeds(urls ...string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if embed := YouTubeEmbedURL(u); embed != "" {
			out = append(out, embed)
		}
	}
	return out
}
