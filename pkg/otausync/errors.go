package otausync

import (
	"fmt"
)

// ErrFetchManifest implements "error", for the description see Error.
type ErrFetchManifest struct {
	URL string
	Err error
}

func (err ErrFetchManifest) Error() string {
	return fmt.Sprintf("unable to fetch the manifest from '%s': %v", err.URL, err.Err)
}

func (err ErrFetchManifest) Unwrap() error {
	return err.Err
}

func (err ErrFetchManifest) ExitCode() int {
	return 4
}

// ErrParseManifest implements "error", for the description see Error.
type ErrParseManifest struct {
	URL string
	Err error
}

func (err ErrParseManifest) Error() string {
	return fmt.Sprintf("unable to parse the manifest received from '%s': %v", err.URL, err.Err)
}

func (err ErrParseManifest) Unwrap() error {
	return err.Err
}

func (err ErrParseManifest) ExitCode() int {
	return 5
}

// ErrOutputDir implements "error", for the description see Error.
type ErrOutputDir struct {
	Path string
	Err  error
}

func (err ErrOutputDir) Error() string {
	return fmt.Sprintf("unable to prepare the output directory '%s': %v", err.Path, err.Err)
}

func (err ErrOutputDir) Unwrap() error {
	return err.Err
}

func (err ErrOutputDir) ExitCode() int {
	return 6
}

// ErrDownload implements "error", for the description see Error.
type ErrDownload struct {
	URL string
	Err error
}

func (err ErrDownload) Error() string {
	return fmt.Sprintf("unable to download '%s': %v", err.URL, err.Err)
}

func (err ErrDownload) Unwrap() error {
	return err.Err
}

// ErrSyncFiles means some of the files were not downloaded. Err contains
// an ErrDownload for each of them.
type ErrSyncFiles struct {
	Failed int
	Total  int
	Err    error
}

func (err ErrSyncFiles) Error() string {
	return fmt.Sprintf("%d of %d files failed: %v", err.Failed, err.Total, err.Err)
}

func (err ErrSyncFiles) Unwrap() error {
	return err.Err
}

func (err ErrSyncFiles) ExitCode() int {
	return 7
}
