package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidGroupURL = errors.New("group URL must be an absolute http(s) URL")

// HashURL creates a SHA256 hash of a URL string.
// This is useful for creating consistent, safe keys for Redis.
func HashURL(rawURL string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	return hex.EncodeToString(h.Sum(nil))
}

// NormalizeGroupURL checks that raw is an absolute http(s) URL and returns it
// without fragment and trailing slash.
func NormalizeGroupURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", ErrInvalidGroupURL
	}
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	return u.String(), nil
}

// NewJobID derives a short job id from the group URL and submission time.
func NewJobID(groupURL string, at time.Time) string {
	return HashURL(groupURL + "#" + strconv.FormatInt(at.UnixNano(), 10))[:16]
}
