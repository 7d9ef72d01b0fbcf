package otausync

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/immune-gmbh/otaufetch/pkg/firmwarerepo"
	"github.com/immune-gmbh/otaufetch/pkg/otaustore"
)

// vendor is a fake OTA feed: it serves the manifest at /feed/version_info.json
// and the binaries at /bin/<name>.
type vendor struct {
	*httptest.Server

	locker   sync.Mutex
	manifest string
	binaries map[string]string
	requests []string
}

func newVendor(t *testing.T, binaries map[string]string) *vendor {
	v := &vendor{binaries: binaries}
	v.Server = httptest.NewServer(http.HandlerFunc(v.serveHTTP))
	t.Cleanup(v.Close)
	return v
}

func (v *vendor) serveHTTP(w http.ResponseWriter, r *http.Request) {
	v.locker.Lock()
	defer v.locker.Unlock()
	v.requests = append(v.requests, r.URL.Path)

	if r.URL.Path == "/feed/version_info.json" {
		_, _ = w.Write([]byte(v.manifest))
		return
	}
	content, ok := v.binaries[strings.TrimPrefix(r.URL.Path, "/bin/")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write([]byte(content))
}

func (v *vendor) setManifest(manifest string) {
	v.locker.Lock()
	defer v.locker.Unlock()
	v.manifest = manifest
}

func (v *vendor) manifestURL() string {
	return v.URL + "/feed/version_info.json"
}

func (v *vendor) binaryURL(name string) string {
	return v.URL + "/bin/" + name
}

func (v *vendor) binaryRequests() []string {
	v.locker.Lock()
	defer v.locker.Unlock()
	var result []string
	for _, path := range v.requests {
		if strings.HasPrefix(path, "/bin/") {
			result = append(result, strings.TrimPrefix(path, "/bin/"))
		}
	}
	return result
}

func (v *vendor) resetRequests() {
	v.locker.Lock()
	defer v.locker.Unlock()
	v.requests = nil
}

func newSyncer(v *vendor, dir string, opts ...Option) *Syncer {
	return New(v.manifestURL(), firmwarerepo.New(), otaustore.New(dir), opts...)
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	v := newVendor(t, map[string]string{
		"bulb.ota":    "bulb-image",
		"remote.ota":  "remote-image",
		"outlet.ota":  "outlet-image",
		"blinds.ota":  "blinds-image",
		"unused.ota":  "never-referenced",
		"speaker.ota": "speaker-image",
	})
	v.setManifest(fmt.Sprintf(`[
		{"fw_binary_url": %q, "fw_type": 2},
		{"fw_type": 0, "fw_weblink_relnote": "http://example.org/notes.html"},
		{"fw_binary_url": %q},
		{"fw_binary_url": %q},
		{"fw_filesize": 10},
		{"fw_binary_url": %q}
	]`, v.binaryURL("bulb.ota"), v.binaryURL("remote.ota"), v.binaryURL("outlet.ota"), v.binaryURL("blinds.ota")))

	dir := filepath.Join(t.TempDir(), "otau")
	require.NoError(t, os.MkdirAll(dir, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "remote.ota"), []byte("local-copy"), 0640))

	var seen []Entry
	s := newSyncer(v, dir, OptionOnEntry(func(_ context.Context, entry Entry) {
		seen = append(seen, entry)
	}))

	report, err := s.Sync(ctx)
	require.NoError(t, err)
	require.False(t, report.DirCreated)
	require.Equal(t, 6, report.Records)
	require.Len(t, report.Entries, 4)
	require.Equal(t, report.Entries, seen)
	require.Equal(t, 3, report.Count(OutcomeDownloaded))
	require.Equal(t, 1, report.Count(OutcomeAlreadyPresent))
	require.ElementsMatch(t, []string{"bulb.ota", "outlet.ota", "blinds.ota"}, v.binaryRequests())

	require.Equal(t, "remote.ota", report.Entries[1].Filename)
	require.Equal(t, OutcomeAlreadyPresent, report.Entries[1].Outcome)
	require.Equal(t, int64(len("bulb-image")), report.Entries[0].Size)

	for name, expected := range map[string]string{
		"bulb.ota":   "bulb-image",
		"remote.ota": "local-copy",
		"outlet.ota": "outlet-image",
		"blinds.ota": "blinds-image",
	} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		require.Equal(t, expected, string(b))
	}
	_, err = os.Stat(filepath.Join(dir, "unused.ota"))
	require.True(t, os.IsNotExist(err))

	t.Run("idempotence", func(t *testing.T) {
		v.resetRequests()

		report, err := s.Sync(ctx)
		require.NoError(t, err)
		require.Len(t, report.Entries, 4)
		require.Zero(t, report.Count(OutcomeDownloaded))
		require.Equal(t, 4, report.Count(OutcomeAlreadyPresent))
		require.Empty(t, v.binaryRequests())
	})
}

func TestSyncCreatesDir(t *testing.T) {
	ctx := context.Background()
	v := newVendor(t, map[string]string{"bulb.ota": "bulb-image"})
	v.setManifest(fmt.Sprintf(`[{"fw_binary_url": %q}]`, v.binaryURL("bulb.ota")))

	dir := filepath.Join(t.TempDir(), "home", "otau")
	s := newSyncer(v, dir)

	report, err := s.Sync(ctx)
	require.NoError(t, err)
	require.True(t, report.DirCreated)
	require.Equal(t, dir, report.Dir)
	require.Equal(t, 1, report.Count(OutcomeDownloaded))

	report, err = s.Sync(ctx)
	require.NoError(t, err)
	require.False(t, report.DirCreated)
	require.Zero(t, report.Count(OutcomeDownloaded))
}

func TestSyncNoURLs(t *testing.T) {
	v := newVendor(t, nil)
	v.setManifest(`[{"fw_type": 0}, {}, [], 1]`)

	report, err := newSyncer(v, t.TempDir()).Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, report.Records)
	require.Empty(t, report.Entries)
	require.Empty(t, v.binaryRequests())
}

func TestSyncDuplicateFilename(t *testing.T) {
	v := newVendor(t, map[string]string{"bulb.ota": "bulb-image"})
	v.setManifest(fmt.Sprintf(`[{"fw_binary_url": %q}, {"fw_binary_url": %q}]`,
		v.binaryURL("bulb.ota"), v.URL+"/mirror/bin/bulb.ota"))

	report, err := newSyncer(v, t.TempDir()).Sync(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Entries, 2)
	require.Equal(t, OutcomeDownloaded, report.Entries[0].Outcome)
	require.Equal(t, OutcomeAlreadyPresent, report.Entries[1].Outcome)
	require.Equal(t, []string{"bulb.ota"}, v.binaryRequests())
}

func TestSyncFailuresContinue(t *testing.T) {
	v := newVendor(t, map[string]string{
		"bulb.ota":   "bulb-image",
		"outlet.ota": "outlet-image",
	})
	v.setManifest(fmt.Sprintf(`[
		{"fw_binary_url": %q},
		{"fw_binary_url": %q},
		{"fw_binary_url": %q},
		{"fw_binary_url": "ftp://example.org/bin/legacy.ota"},
		{"fw_binary_url": %q}
	]`, v.binaryURL("bulb.ota"), v.binaryURL("gone.ota"), v.URL+"/bin/", v.binaryURL("outlet.ota")))

	dir := t.TempDir()
	report, err := newSyncer(v, dir).Sync(context.Background())

	var errSync ErrSyncFiles
	require.ErrorAs(t, err, &errSync)
	require.Equal(t, 7, errSync.ExitCode())
	require.Equal(t, 3, errSync.Failed)
	require.Equal(t, 5, errSync.Total)
	require.ErrorAs(t, err, &firmwarerepo.ErrHTTPStatus{})
	require.ErrorAs(t, err, &firmwarerepo.ErrNoFilename{})
	require.ErrorAs(t, err, &firmwarerepo.ErrUnsupportedScheme{})

	require.NotNil(t, report)
	require.Len(t, report.Entries, 5)
	require.Equal(t, 2, report.Count(OutcomeDownloaded))
	require.Equal(t, 3, report.Count(OutcomeFailed))
	require.Equal(t, OutcomeDownloaded, report.Entries[4].Outcome)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	require.ElementsMatch(t, []string{"bulb.ota", "outlet.ota"}, names)
}

func TestSyncNameOccupied(t *testing.T) {
	for name, occupy := range map[string]func(path string) error{
		"directory": func(path string) error {
			return os.Mkdir(path, 0750)
		},
		"dangling_symlink": func(path string) error {
			return os.Symlink(path+".missing", path)
		},
	} {
		t.Run(name, func(t *testing.T) {
			v := newVendor(t, map[string]string{"bulb.ota": "bulb-image"})
			v.setManifest(fmt.Sprintf(`[{"fw_binary_url": %q}]`, v.binaryURL("bulb.ota")))

			dir := t.TempDir()
			require.NoError(t, occupy(filepath.Join(dir, "bulb.ota")))

			report, err := newSyncer(v, dir).Sync(context.Background())
			require.ErrorAs(t, err, &ErrSyncFiles{})
			require.ErrorAs(t, err, &otaustore.ErrNotRegularFile{})
			require.Equal(t, 1, report.Count(OutcomeFailed))
			require.Zero(t, report.Count(OutcomeAlreadyPresent))
			require.Empty(t, v.binaryRequests())
		})
	}
}

func TestSyncDryRun(t *testing.T) {
	v := newVendor(t, map[string]string{"bulb.ota": "bulb-image"})
	v.setManifest(fmt.Sprintf(`[{"fw_binary_url": %q}]`, v.binaryURL("bulb.ota")))

	dir := filepath.Join(t.TempDir(), "otau")
	report, err := newSyncer(v, dir, OptionDryRun(true)).Sync(context.Background())
	require.NoError(t, err)
	require.False(t, report.DirCreated)
	require.Equal(t, 1, report.Count(OutcomeWouldDownload))
	require.Empty(t, v.binaryRequests())

	_, err = os.Stat(dir)
	require.True(t, os.IsNotExist(err))
}

func TestSyncFatalErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("fetch", func(t *testing.T) {
		v := newVendor(t, nil)
		s := New(v.URL+"/feed/missing.json", firmwarerepo.New(), otaustore.New(t.TempDir()))
		_, err := s.Sync(ctx)
		var errFetch ErrFetchManifest
		require.ErrorAs(t, err, &errFetch)
		require.Equal(t, 4, errFetch.ExitCode())
	})

	t.Run("parse", func(t *testing.T) {
		v := newVendor(t, nil)
		v.setManifest(`[{"fw_binary_url": `)
		_, err := newSyncer(v, t.TempDir()).Sync(ctx)
		var errParse ErrParseManifest
		require.ErrorAs(t, err, &errParse)
		require.Equal(t, 5, errParse.ExitCode())
		require.Empty(t, v.binaryRequests())
	})

	t.Run("output_dir", func(t *testing.T) {
		v := newVendor(t, map[string]string{"bulb.ota": "bulb-image"})
		v.setManifest(fmt.Sprintf(`[{"fw_binary_url": %q}]`, v.binaryURL("bulb.ota")))
		dir := filepath.Join(t.TempDir(), "otau")
		require.NoError(t, os.WriteFile(dir, nil, 0640))

		_, err := newSyncer(v, dir).Sync(ctx)
		var errDir ErrOutputDir
		require.ErrorAs(t, err, &errDir)
		require.Equal(t, 6, errDir.ExitCode())
		require.ErrorAs(t, err, &otaustore.ErrNotDirectory{})
		require.Empty(t, v.binaryRequests())
	})
}

func TestInventory(t *testing.T) {
	v := newVendor(t, map[string]string{"bulb.ota": "bulb-image", "remote.ota": "remote-image"})
	v.setManifest(fmt.Sprintf(`[{"fw_binary_url": %q}, {}, {"fw_binary_url": %q}, {"fw_binary_url": "http://example.org/"}]`,
		v.binaryURL("bulb.ota"), v.binaryURL("remote.ota")))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "remote.ota"), []byte("x"), 0640))

	entries, err := newSyncer(v, dir).Inventory(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, OutcomeMissing, entries[0].Outcome)
	require.Equal(t, filepath.Join(dir, "bulb.ota"), entries[0].Path)
	require.Equal(t, OutcomeAlreadyPresent, entries[1].Outcome)
	require.Equal(t, OutcomeFailed, entries[2].Outcome)
	require.Empty(t, v.binaryRequests())
}
