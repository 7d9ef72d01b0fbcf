// Copyright 2023 Meta Platforms, Inc. and affiliates.
//
// Redistribution and use in source and binary forms, with or without modification, are permitted provided that the following conditions are met:
//
// 1. Redistributions of source code must retain the above copyright notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright notice, this list of conditions and the following disclaimer in the documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its contributors may be used to endorse or promote products derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

package otausync

import (
	"context"
	"errors"

	"github.com/dustin/go-humanize"
	"github.com/facebookincubator/go-belt/beltctx"
	"github.com/facebookincubator/go-belt/tool/experimental/tracer"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"

	"github.com/immune-gmbh/otaufetch/pkg/firmwarerepo"
	"github.com/immune-gmbh/otaufetch/pkg/manifest"
	"github.com/immune-gmbh/otaufetch/pkg/otaustore"
)

// Syncer downloads the firmware binaries referenced by a manifest into a
// Store, skipping the ones already stored.
//
// Everything is done sequentially, one file at a time.
type Syncer struct {
	manifestURL string
	fwRepo      FirmwareRepo
	store       Store
	cfg         config
}

// New returns an instance of Syncer.
func New(
	manifestURL string,
	fwRepo FirmwareRepo,
	store Store,
	opts ...Option,
) *Syncer {
	return &Syncer{
		manifestURL: manifestURL,
		fwRepo:      fwRepo,
		store:       store,
		cfg:         getConfig(opts...),
	}
}

// Records fetches and parses the manifest.
func (s *Syncer) Records(ctx context.Context) ([]manifest.Record, error) {
	b, err := s.fwRepo.FetchManifest(ctx, s.manifestURL)
	if err != nil {
		return nil, ErrFetchManifest{URL: s.manifestURL, Err: err}
	}

	records, err := manifest.Parse(ctx, b)
	if err != nil {
		return nil, ErrParseManifest{URL: s.manifestURL, Err: err}
	}
	return records, nil
}

// Sync downloads every file referenced by the manifest which is not stored
// yet.
//
// A failure to fetch or parse the manifest, or to prepare the directory,
// aborts the run. A failure to download a file does not: the rest of the
// files are still processed and all the failures are returned at the end as
// ErrSyncFiles. The Report is returned in any case once the manifest was
// received.
func (s *Syncer) Sync(ctx context.Context) (*Report, error) {
	span, ctx := tracer.StartChildSpanFromCtx(ctx, "Syncer.Sync")
	defer span.Finish()
	ctx = beltctx.WithField(ctx, "pkg", "otausync")
	log := logger.FromCtx(ctx)

	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ManifestURL: s.manifestURL,
		Dir:         s.store.Root(),
		Records:     len(records),
	}

	if !s.cfg.DryRun {
		created, err := s.store.Ensure()
		if err != nil {
			return report, ErrOutputDir{Path: report.Dir, Err: err}
		}
		if created {
			log.Infof("created directory '%s'", report.Dir)
		}
		report.DirCreated = created
	}

	var mErr *multierror.Error
	for _, record := range manifest.WithBinaryURL(records) {
		entry := s.syncRecord(ctx, record)
		if entry.Err != nil {
			mErr = multierror.Append(mErr, entry.Err)
		}
		report.Entries = append(report.Entries, entry)
		if s.cfg.OnEntry != nil {
			s.cfg.OnEntry(ctx, entry)
		}
	}
	log.Debugf("records: %d, considered: %d, downloaded: %d, failed: %d",
		report.Records, len(report.Entries), report.Count(OutcomeDownloaded), report.Count(OutcomeFailed))

	if err := mErr.ErrorOrNil(); err != nil {
		return report, ErrSyncFiles{
			Failed: len(mErr.Errors),
			Total:  len(report.Entries),
			Err:    err,
		}
	}
	return report, nil
}

// Inventory reports for each manifest entry with a binary URL whether the
// file is already stored. Nothing is downloaded.
func (s *Syncer) Inventory(ctx context.Context) ([]Entry, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, record := range manifest.WithBinaryURL(records) {
		entry, has := s.lookup(record)
		switch {
		case entry.Err != nil:
		case has:
			entry.Outcome = OutcomeAlreadyPresent
		default:
			entry.Outcome = OutcomeMissing
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Syncer) lookup(record manifest.Record) (Entry, bool) {
	entry := Entry{Record: record}

	filename, err := firmwarerepo.FilenameFromURL(record.BinaryURL)
	if err != nil {
		entry.Outcome = OutcomeFailed
		entry.Err = ErrDownload{URL: record.BinaryURL, Err: err}
		return entry, false
	}
	entry.Filename = filename
	entry.Path = s.store.Path(filename)

	has, err := s.store.Has(filename)
	if err != nil {
		entry.Outcome = OutcomeFailed
		entry.Err = ErrDownload{URL: record.BinaryURL, Err: err}
		return entry, false
	}
	return entry, has
}

func (s *Syncer) syncRecord(ctx context.Context, record manifest.Record) Entry {
	log := logger.FromCtx(ctx)

	entry, has := s.lookup(record)
	switch {
	case entry.Err != nil:
		log.Errorf("%v", entry.Err)
		return entry
	case has:
		log.Infof("already had file: %s", entry.Filename)
		entry.Outcome = OutcomeAlreadyPresent
		return entry
	case s.cfg.DryRun:
		log.Infof("would download: %s", entry.Path)
		entry.Outcome = OutcomeWouldDownload
		return entry
	}

	size, err := s.download(ctx, record.BinaryURL, entry.Filename)
	switch {
	case err == nil:
		log.Infof("updated: %s (%s)", entry.Path, humanize.Bytes(uint64(size)))
		entry.Outcome = OutcomeDownloaded
		entry.Size = size
	case errors.As(err, &otaustore.ErrExists{}) && s.hasNow(entry.Filename):
		log.Infof("already had file: %s", entry.Filename)
		entry.Outcome = OutcomeAlreadyPresent
	default:
		entry.Outcome = OutcomeFailed
		entry.Err = ErrDownload{URL: record.BinaryURL, Err: err}
		log.Errorf("%v", entry.Err)
	}
	return entry
}

// hasNow reports whether the file appeared while it was being downloaded.
func (s *Syncer) hasNow(filename string) bool {
	has, err := s.store.Has(filename)
	return err == nil && has
}

func (s *Syncer) download(ctx context.Context, binaryURL, filename string) (int64, error) {
	span, ctx := tracer.StartChildSpanFromCtx(ctx, "Syncer.download")
	defer span.Finish()
	ctx = beltctx.WithField(ctx, "filename", filename)

	body, expectedSize, err := s.fwRepo.OpenBinary(ctx, binaryURL)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := body.Close(); err != nil {
			logger.FromCtx(ctx).Debugf("unable to close the body of '%s': %v", binaryURL, err)
		}
	}()

	if expectedSize >= 0 {
		logger.FromCtx(ctx).Debugf("downloading %s", humanize.Bytes(uint64(expectedSize)))
	}
	return s.store.Put(ctx, filename, body)
}
