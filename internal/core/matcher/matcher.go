// Package matcher finds supported video links in free text.
package matcher

import (
	"regexp"
	"strings"

	"reelscript/internal/core/domain"
)

// Rule pairs a platform with one link pattern. Rules are evaluated in order.
type Rule struct {
	Platform domain.Platform
	Pattern  *regexp.Regexp
}

// rules is ordered: FindVideoURL returns the match of the first rule that
// matches anywhere in the text, not the leftmost link.
var rules = []Rule{
	{domain.PlatformTikTok, regexp.MustCompile(`(?i)https?://(?:www\.)?tiktok\.com/@[\w.-]+/video/\d+`)},
	{domain.PlatformTikTok, regexp.MustCompile(`(?i)https?://(?:vm|vt)\.tiktok\.com/\w+`)},
	{domain.PlatformYouTube, regexp.MustCompile(`(?i)https?://(?:www\.)?youtube\.com/watch\?v=[\w-]+`)},
	{domain.PlatformYouTube, regexp.MustCompile(`(?i)https?://(?:www\.)?youtube\.com/shorts/[\w-]+`)},
	{domain.PlatformYouTube, regexp.MustCompile(`(?i)https?://youtu\.be/[\w-]+`)},
	{domain.PlatformInstagram, regexp.MustCompile(`(?i)https?://(?:www\.)?instagram\.com/(?:p|reel|reels)/[\w-]+`)},
}

// hostMarkers is checked in order; the first platform with a hit wins.
var hostMarkers = []struct {
	platform domain.Platform
	markers  []string
}{
	{domain.PlatformTikTok, []string{"tiktok.com"}},
	{domain.PlatformYouTube, []string{"youtube.com", "youtu.be"}},
	{domain.PlatformInstagram, []string{"instagram.com"}},
}

// Rules returns a copy of the ordered rule list.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// DetectPlatform classifies a URL by substring, in the fixed order
// TikTok, YouTube, Instagram.
func DetectPlatform(url string) (domain.Platform, bool) {
	lower := strings.ToLower(url)
	for _, hm := range hostMarkers {
		for _, m := range hm.markers {
			if strings.Contains(lower, m) {
				return hm.platform, true
			}
		}
	}
	return "", false
}

// FindVideoURL returns the first textual match of the first matching rule.
func FindVideoURL(text string) (string, bool) {
	for _, r := range rules {
		if m := r.Pattern.FindString(text); m != "" {
			return m, true
		}
	}
	return "", false
}

// Match finds a video link in text and classifies it.
func Match(text string) (domain.VideoReference, bool) {
	url, ok := FindVideoURL(text)
	if !ok {
		return domain.VideoReference{}, false
	}
	platform, _ := DetectPlatform(url)
	return domain.VideoReference{URL: url, Platform: platform}, true
}
