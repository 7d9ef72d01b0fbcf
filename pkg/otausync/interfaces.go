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
	"io"

	"github.com/immune-gmbh/otaufetch/pkg/firmwarerepo"
	"github.com/immune-gmbh/otaufetch/pkg/otaustore"
)

var (
	_ FirmwareRepo = (*firmwarerepo.FirmwareRepo)(nil)
	_ Store        = (*otaustore.Dir)(nil)
)

// FirmwareRepo is the source of the manifest and of the firmware binaries.
//
// See also firmwarerepo.FirmwareRepo.
type FirmwareRepo interface {
	FetchManifest(ctx context.Context, manifestURL string) ([]byte, error)
	OpenBinary(ctx context.Context, binaryURL string) (io.ReadCloser, int64, error)
}

// Store is the local directory the firmware binaries are saved to.
//
// See also otaustore.Dir.
type Store interface {
	Root() string
	Ensure() (bool, error)
	Has(name string) (bool, error)
	Put(ctx context.Context, name string, r io.Reader) (int64, error)
	Path(name string) string
}
