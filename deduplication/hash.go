// Package deduplication remembers which stories have already been rendered so
// scheduled runs do not publish the same story twice.
package deduplication

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"brainrot/types"
)

// NormalizeAndHash returns a SHA-256 hex hash of the article's normalized URL
// and title.
// - URL: remove fragment, remove tracking query params (utm_*, fbclid, gclid), lowercase scheme and host
// - Title: collapse whitespace and lowercase
func NormalizeAndHash(article *types.Article) (string, error) {
	if article == nil {
		return "", fmt.Errorf("nil article")
	}
	if article.URL == "" && article.Title == "" {
		return "", fmt.Errorf("article has neither URL nor title")
	}

	combined := normalizeURL(article.URL) + "|" + normalizeTitle(article.Title)
	h := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(h[:]), nil
}

func normalizeTitle(t string) string {
	return strings.Join(strings.Fields(strings.ToLower(t)), " ")
}

func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || lk == "fbclid" || lk == "gclid" {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()

	return strings.TrimRight(u.String(), "/")
}
