package firmwarerepo

import (
	"fmt"
)

// ErrHTTPGet implements "error", for the description see Error.
type ErrHTTPGet struct {
	Err error
	URL string
}

func (err ErrHTTPGet) Error() string {
	return fmt.Sprintf("unable to GET a HTTP resource '%s': %v",
		err.URL, err.Err)
}

func (err ErrHTTPGet) Unwrap() error {
	return err.Err
}

// ErrHTTPGetBody implements "error", for the description see Error.
type ErrHTTPGetBody struct {
	Err error
	URL string
}

func (err ErrHTTPGetBody) Error() string {
	return fmt.Sprintf("unable to read body of HTTP GET-resource '%s': %v",
		err.URL, err.Err)
}

func (err ErrHTTPGetBody) Unwrap() error {
	return err.Err
}

// ErrHTTPStatus means the server replied with a non-2xx status code.
type ErrHTTPStatus struct {
	StatusCode int
	Status     string
}

func (err ErrHTTPStatus) Error() string {
	return fmt.Sprintf("invalid status code: %d (%s)", err.StatusCode, err.Status)
}

// ErrHTTPMakeRequest implements "error", for the description see Error.
type ErrHTTPMakeRequest struct {
	Err error
	URL string
}

func (err ErrHTTPMakeRequest) Error() string {
	return fmt.Sprintf("unable to make an HTTP request to '%s': %v", err.URL, err.Err)
}

func (err ErrHTTPMakeRequest) Unwrap() error {
	return err.Err
}

// ErrParseURL implements "error", for the description see Error.
type ErrParseURL struct {
	Err error
	URL string
}

func (err ErrParseURL) Error() string {
	return fmt.Sprintf("unable to parse '%s' as URL: %v", err.URL, err.Err)
}

func (err ErrParseURL) Unwrap() error {
	return err.Err
}

// ErrUnsupportedScheme means the URL is neither http:// nor https://.
type ErrUnsupportedScheme struct {
	URL    string
	Scheme string
}

func (err ErrUnsupportedScheme) Error() string {
	return fmt.Sprintf("unknown scheme '%s' in URL '%s'", err.Scheme, err.URL)
}

// ErrNoFilename means no usable file name could be derived from the URL.
type ErrNoFilename struct {
	URL string
}

func (err ErrNoFilename) Error() string {
	return fmt.Sprintf("URL '%s' does not end with a file name", err.URL)
}
