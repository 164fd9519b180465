package structured

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// videoHosts are platforms where a playing video element under the main
// region is a stronger signal than any declared metadata.
var videoHosts = []string{"youtube.com", "tiktok.com", "vimeo.com", "twitch.tv"}

// resolveContentType applies the final priority order: explicit structured
// video tag, then platform DOM heuristics, then whatever structured data
// produced, then "unknown".
func resolveContentType(doc *goquery.Document, pageURL, declared string) string {
	if declared == "video" {
		return declared
	}

	if t := platformContentType(doc, pageURL); t != "" {
		return t
	}
	if declared != "" {
		return declared
	}
	return "unknown"
}

// platformContentType detects short-form and video pages from hostname plus
// known DOM markers.
func platformContentType(doc *goquery.Document, pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	path := strings.ToLower(parsed.Path)

	if strings.Contains(host, "youtube.com") && strings.Contains(path, "/shorts/") {
		return "short"
	}
	if strings.Contains(host, "instagram.com") && strings.Contains(path, "/reel") {
		return "reel"
	}
	if strings.Contains(host, "tiktok.com") {
		return "video"
	}

	for _, vh := range videoHosts {
		if !strings.Contains(host, vh) {
			continue
		}
		if doc != nil && doc.Find("main video, [role=main] video, #main video").Length() > 0 {
			return "video"
		}
	}
	return ""
}
