package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/immune-gmbh/otaufetch/pkg/commands"
	"github.com/immune-gmbh/otaufetch/pkg/otausync"
)

func newVendor(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	mux.HandleFunc("/feed/version_info.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"fw_binary_url": "%[1]s/bin/bulb.ota"}, {"fw_type": 0}, {"fw_binary_url": "%[1]s/bin/gone.ota"}]`, srv.URL)
	})
	mux.HandleFunc("/bin/bulb.ota", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("bulb-image"))
	})
	return srv
}

func execute(t *testing.T, cfg commands.Config, args ...string) error {
	var cmd Command
	flagSet := pflag.NewFlagSet("sync", pflag.ContinueOnError)
	cmd.SetupFlagSet(flagSet)
	require.NoError(t, flagSet.Parse(args))
	return cmd.Execute(context.Background(), cfg, flagSet.Args())
}

func TestExecute(t *testing.T) {
	srv := newVendor(t)
	dir := filepath.Join(t.TempDir(), "otau")

	var out bytes.Buffer
	err := execute(t, commands.Config{Stdout: &out},
		"--manifest-url", srv.URL+"/feed/version_info.json",
		"--output-dir", dir,
	)

	require.ErrorAs(t, err, &commands.SilentError{})
	var exitCoder commands.ExitCoder
	require.ErrorAs(t, err, &exitCoder)
	require.Equal(t, 7, exitCoder.ExitCode())
	require.ErrorAs(t, err, &otausync.ErrSyncFiles{})

	require.Contains(t, out.String(), "bulb.ota")
	require.Contains(t, out.String(), "gone.ota")
	require.Contains(t, out.String(), "3 manifest records, 2 with a firmware file: 1 downloaded, 0 already present, 1 failed")

	b, err := os.ReadFile(filepath.Join(dir, "bulb.ota"))
	require.NoError(t, err)
	require.Equal(t, "bulb-image", string(b))
}

func TestExecuteDryRunQuiet(t *testing.T) {
	srv := newVendor(t)
	dir := filepath.Join(t.TempDir(), "otau")

	var out bytes.Buffer
	err := execute(t, commands.Config{Stdout: &out, IsQuiet: true},
		"--manifest-url", srv.URL+"/feed/version_info.json",
		"--output-dir", dir,
		"--dry-run",
	)
	require.NoError(t, err)
	require.Empty(t, out.String())

	_, err = os.Stat(dir)
	require.True(t, os.IsNotExist(err))
}

func TestExecuteOutputDirError(t *testing.T) {
	srv := newVendor(t)
	dir := filepath.Join(t.TempDir(), "otau")
	require.NoError(t, os.WriteFile(dir, nil, 0640))

	var out bytes.Buffer
	err := execute(t, commands.Config{Stdout: &out},
		"--manifest-url", srv.URL+"/feed/version_info.json",
		"--output-dir", dir,
	)
	require.ErrorAs(t, err, &otausync.ErrOutputDir{})
	require.False(t, errors.As(err, &commands.SilentError{}))
	require.NotContains(t, out.String(), "manifest records")
}

func TestExecuteArgs(t *testing.T) {
	err := execute(t, commands.Config{}, "--output-dir", t.TempDir(), "extra")
	require.ErrorAs(t, err, &commands.ErrArgs{})

	err = execute(t, commands.Config{}, "--output-dir", "")
	require.ErrorAs(t, err, &commands.ErrArgs{})
}
