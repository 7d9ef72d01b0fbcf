package helpers

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/immune-gmbh/otaufetch/pkg/commands"
	"github.com/immune-gmbh/otaufetch/pkg/manifest"
	"github.com/immune-gmbh/otaufetch/pkg/otausync"
)

func TestPrintEntry(t *testing.T) {
	ctx := context.Background()
	size := func(v int64) *int64 { return &v }

	for name, tc := range map[string]struct {
		entry    otausync.Entry
		expected string
		absent   string
	}{
		"downloaded": {
			entry:    otausync.Entry{Filename: "bulb.ota", Outcome: otausync.OutcomeDownloaded, Size: 204610},
			expected: "205 kB",
		},
		"manifest_size": {
			entry: otausync.Entry{
				Record:   manifest.Record{FileSize: size(2048)},
				Filename: "bulb.ota",
				Outcome:  otausync.OutcomeMissing,
			},
			expected: "2.0 kB",
		},
		"negative_manifest_size": {
			entry: otausync.Entry{
				Record:   manifest.Record{FileSize: size(-1)},
				Filename: "bulb.ota",
				Outcome:  otausync.OutcomeMissing,
			},
			expected: "bulb.ota",
			absent:   "EB",
		},
		"failed": {
			entry: otausync.Entry{
				Record:  manifest.Record{BinaryURL: "http://example.org/"},
				Outcome: otausync.OutcomeFailed,
				Err:     errors.New("no file name"),
			},
			expected: "http://example.org/\tno file name",
		},
	} {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			NewPrinter(commands.Config{Stdout: &out}).PrintEntry(ctx, tc.entry)
			require.Contains(t, out.String(), tc.expected)
			if tc.absent != "" {
				require.NotContains(t, out.String(), tc.absent)
			}
		})
	}

	t.Run("quiet", func(t *testing.T) {
		var out bytes.Buffer
		NewPrinter(commands.Config{Stdout: &out, IsQuiet: true}).PrintEntry(ctx, otausync.Entry{Filename: "bulb.ota"})
		require.Empty(t, out.String())
	})
}
