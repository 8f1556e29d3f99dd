package utils

import (
	"net/url"
	"strings"
)

// URLPath reduces an absolute tab URL to its path component. Values that
// are already paths, or that do not parse, are returned unchanged.
func URLPath(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	if p := u.EscapedPath(); p != "" {
		return p
	}
	return "/"
}

// DownloadPath maps a tab path such as "/tab/artist/song-123" onto its
// download route "/download/artist/song-123". Paths with fewer than two
// segments yield "".
func DownloadPath(tabURL string) string {
	parts := strings.SplitN(URLPath(tabURL), "/", 3)
	if len(parts) < 3 || parts[2] == "" {
		return ""
	}
	return "/download/" + parts[2]
}

// IsAbsoluteURL reports whether s carries a scheme and host.
func IsAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
