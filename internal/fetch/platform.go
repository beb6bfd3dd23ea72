package fetch

import (
	"net/url"
	"regexp"
	"strings"
)

// Platform represents a known content platform.
type Platform string

const (
	// PlatformGoogleDocs is a Google Docs document
	PlatformGoogleDocs Platform = "google_docs"
	// PlatformWikipedia is a Wikipedia article
	PlatformWikipedia Platform = "wikipedia"
	// PlatformMedium is a Medium post
	PlatformMedium Platform = "medium"
	// PlatformSubstack is a Substack post
	PlatformSubstack Platform = "substack"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// googleDocIDPattern extracts the document id from a /d/<id>/ path
var googleDocIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)

// DetectPlatform identifies the content platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())

	switch {
	case host == "docs.google.com":
		return PlatformGoogleDocs
	case host == "wikipedia.org" || strings.HasSuffix(host, ".wikipedia.org"):
		return PlatformWikipedia
	case host == "medium.com" || strings.HasSuffix(host, ".medium.com"):
		return PlatformMedium
	case strings.HasSuffix(host, ".substack.com"):
		return PlatformSubstack
	default:
		return PlatformUnknown
	}
}

// GoogleDocsExportURL rewrites a Google Docs document link to its
// plain-text export. ok is false for any other URL, including Docs
// links that are already exports.
func GoogleDocsExportURL(urlStr string) (string, bool) {
	if DetectPlatform(urlStr) != PlatformGoogleDocs {
		return "", false
	}
	parsed, err := url.Parse(urlStr)
	if err != nil || !strings.HasPrefix(parsed.Path, "/document/") || strings.Contains(parsed.Path, "/export") {
		return "", false
	}
	match := googleDocIDPattern.FindStringSubmatch(parsed.Path)
	if match == nil {
		return "", false
	}
	return "https://docs.google.com/document/d/" + match[1] + "/export?format=txt", true
}

// PlatformContentSelectors returns content selectors for a specific platform.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformWikipedia:
		return []string{"#mw-content-text", "#content"}
	case PlatformMedium:
		return []string{"article", "main"}
	case PlatformSubstack:
		return []string{".available-content", ".body.markup", "article"}
	default:
		return DefaultTextSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a specific platform.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		"form",
		".social-share",
		".share-buttons",
		".social-links",
		".cookie-consent",
		".gdpr-notice",
		".newsletter-signup",
	}

	switch platform {
	case PlatformWikipedia:
		return append(common,
			".mw-editsection",
			".reference",
			".reflist",
			".navbox",
			".infobox",
			"#toc",
		)
	case PlatformMedium:
		return append(common,
			".pw-responses",
			"[data-testid='headerClapButton']",
		)
	case PlatformSubstack:
		return append(common,
			".subscribe-widget",
			".post-footer",
			".comments-section",
		)
	default:
		return common
	}
}
