package firmwarerepo

import (
	"net/url"
	"strings"
)

// FilenameFromURL returns the last path segment of the URL, which is used
// as the name of the local copy of the file.
func FilenameFromURL(rawURL string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", ErrParseURL{Err: err, URL: rawURL}
	}

	// escaped, so the name is the one the URL literally ends with
	pathParts := strings.Split(parsedURL.EscapedPath(), "/")
	filename := pathParts[len(pathParts)-1]
	switch filename {
	case "", ".", "..":
		return "", ErrNoFilename{URL: rawURL}
	}
	if strings.ContainsRune(filename, '\\') || strings.ContainsRune(filename, 0) {
		return "", ErrNoFilename{URL: rawURL}
	}
	return filename, nil
}
