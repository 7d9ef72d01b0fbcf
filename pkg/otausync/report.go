package otausync

import (
	"github.com/immune-gmbh/otaufetch/pkg/manifest"
)

// Outcome is the result of processing a single manifest entry.
type Outcome int

const (
	OutcomeUndefined = Outcome(iota)

	// OutcomeDownloaded means the file was missing and has been downloaded.
	OutcomeDownloaded

	// OutcomeAlreadyPresent means a file with the same name was already
	// stored, so it was not downloaded.
	OutcomeAlreadyPresent

	// OutcomeMissing means the file is not stored (reported by Inventory).
	OutcomeMissing

	// OutcomeWouldDownload is OutcomeDownloaded in the dry-run mode.
	OutcomeWouldDownload

	// OutcomeFailed means the entry could not be processed, see Entry.Err.
	OutcomeFailed
)

func (outcome Outcome) String() string {
	switch outcome {
	case OutcomeUndefined:
		return "undefined"
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeAlreadyPresent:
		return "already-present"
	case OutcomeMissing:
		return "missing"
	case OutcomeWouldDownload:
		return "would-download"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Entry describes what happened to a manifest entry with a binary URL.
type Entry struct {
	Record   manifest.Record
	Filename string
	Path     string
	Outcome  Outcome

	// Size is the amount of bytes written, set only for OutcomeDownloaded.
	Size int64

	Err error
}

// Report is the result of a Sync.
type Report struct {
	ManifestURL string
	Dir         string
	DirCreated  bool

	// Records is the total amount of entries in the manifest.
	Records int

	// Entries contains one item per manifest entry with a binary URL, in
	// the manifest order.
	Entries []Entry
}

// Count returns the amount of entries with the given outcome.
func (report *Report) Count(outcome Outcome) int {
	var count int
	for _, entry := range report.Entries {
		if entry.Outcome == outcome {
			count++
		}
	}
	return count
}
