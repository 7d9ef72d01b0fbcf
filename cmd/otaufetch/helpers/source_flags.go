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

package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/immune-gmbh/otaufetch/pkg/commands"
	"github.com/immune-gmbh/otaufetch/pkg/firmwarerepo"
	"github.com/immune-gmbh/otaufetch/pkg/otaustore"
	"github.com/immune-gmbh/otaufetch/pkg/otausync"
)

const (
	// DefaultManifestURL is the OTA feed of IKEA Home smart devices.
	DefaultManifestURL = "http://fw.ota.homesmart.ikea.net/feed/version_info.json"

	// EnvManifestURL overrides DefaultManifestURL.
	EnvManifestURL = "OTAU_MANIFEST_URL"

	// EnvOutputDir overrides DefaultOutputDir.
	EnvOutputDir = "OTAU_DIR"
)

// DefaultOutputDir returns "$HOME/otau", or an empty string if the home
// directory is unknown.
func DefaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "otau")
}

// SourceFlags are the options defining where to get the firmware files
// from and where to put them.
type SourceFlags struct {
	ManifestURL *string
	OutputDir   *string
	HTTPTimeout *time.Duration
}

// Setup registers the options in the flag set.
func (f *SourceFlags) Setup(flagSet *pflag.FlagSet) {
	f.ManifestURL = flagSet.String("manifest-url", envOr(EnvManifestURL, DefaultManifestURL), "the URL of the JSON manifest listing the firmware files (env: "+EnvManifestURL+")")
	f.OutputDir = flagSet.String("output-dir", envOr(EnvOutputDir, DefaultOutputDir()), "the directory to store the firmware files in (env: "+EnvOutputDir+")")
	f.HTTPTimeout = flagSet.Duration("http-timeout", 0, "the limit for a single HTTP request; zero means no limit")
}

// NewSyncer returns a Syncer configured by the options.
func (f *SourceFlags) NewSyncer(opts ...otausync.Option) (*otausync.Syncer, error) {
	if *f.ManifestURL == "" {
		return nil, commands.ErrArgs{Err: fmt.Errorf("--manifest-url is empty")}
	}
	if *f.OutputDir == "" {
		return nil, commands.ErrArgs{Err: fmt.Errorf("--output-dir is empty and the home directory is unknown")}
	}

	return otausync.New(
		*f.ManifestURL,
		firmwarerepo.New(firmwarerepo.OptionTimeout(*f.HTTPTimeout)),
		otaustore.New(*f.OutputDir),
		opts...,
	), nil
}

func envOr(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}
