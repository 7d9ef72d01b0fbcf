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

package otaustore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/google/uuid"
)

const (
	dirPerm  = 0750
	filePerm = 0640

	tempFilePrefix = ".otaufetch-"
	tempFileSuffix = ".part"
)

// Dir is a local directory with OTA files, each stored by its file name.
type Dir struct {
	RootDir string
}

// New returns an instance of Dir. Nothing is created on disk until Ensure
// or Put is called.
func New(rootDir string) *Dir {
	return &Dir{
		RootDir: rootDir,
	}
}

// Root returns the path of the directory.
func (d *Dir) Root() string {
	return d.RootDir
}

// Ensure creates the directory (with parents) if it does not exist yet.
// It reports whether the directory was created.
func (d *Dir) Ensure() (bool, error) {
	fi, err := os.Stat(d.RootDir)
	switch {
	case err == nil:
		if !fi.IsDir() {
			return false, ErrNotDirectory{Path: d.RootDir}
		}
		return false, nil
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("unable to stat '%s': %w", d.RootDir, err)
	}

	if err := os.MkdirAll(d.RootDir, dirPerm); err != nil {
		return false, fmt.Errorf("unable to create the directory '%s': %w", d.RootDir, err)
	}
	return true, nil
}

// Path returns the path the file with the given name is stored by.
func (d *Dir) Path(name string) string {
	return filepath.Join(d.RootDir, name)
}

// Has reports whether a file with the given name is already stored.
//
// Anything else than a regular file occupying the name (e.g. a directory or
// a dangling symlink) is reported as ErrNotRegularFile.
func (d *Dir) Has(name string) (bool, error) {
	if err := checkName(name); err != nil {
		return false, err
	}
	path := d.Path(name)
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("unable to stat '%s': %w", path, err)
	}

	fi, err := os.Stat(path)
	switch {
	case err == nil && fi.Mode().IsRegular():
		return true, nil
	case err == nil, errors.Is(err, fs.ErrNotExist):
		return false, ErrNotRegularFile{Path: path}
	default:
		return false, fmt.Errorf("unable to stat '%s': %w", path, err)
	}
}

// Put stores the content of r as the file with the given name. The file
// appears only after r was read until EOF; an existing file is never
// replaced.
func (d *Dir) Put(ctx context.Context, name string, r io.Reader) (_ int64, _err error) {
	log := logger.FromCtx(ctx)
	if err := checkName(name); err != nil {
		return 0, err
	}
	dstPath := d.Path(name)

	tmpPath := filepath.Join(d.RootDir, tempFilePrefix+uuid.NewString()+tempFileSuffix)
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return 0, fmt.Errorf("unable to create a temporary file '%s': %w", tmpPath, err)
	}
	defer func() {
		if _err == nil {
			return
		}
		_ = f.Close()
		if err := os.Remove(tmpPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Errorf("unable to remove temporary file '%s': %v", tmpPath, err)
		}
	}()

	n, err := io.Copy(f, r)
	if err != nil {
		return n, fmt.Errorf("unable to write '%s': %w", tmpPath, err)
	}
	if err := f.Sync(); err != nil {
		return n, fmt.Errorf("unable to sync '%s': %w", tmpPath, err)
	}
	if err := f.Close(); err != nil {
		return n, fmt.Errorf("unable to close '%s': %w", tmpPath, err)
	}

	// os.Link fails if dstPath exists, unlike os.Rename.
	err = os.Link(tmpPath, dstPath)
	switch {
	case err == nil:
		if err := os.Remove(tmpPath); err != nil {
			log.Warnf("unable to remove temporary file '%s': %v", tmpPath, err)
		}
	case errors.Is(err, fs.ErrExist):
		return n, ErrExists{Path: dstPath}
	default:
		log.Debugf("unable to hard-link '%s', falling back to rename: %v", tmpPath, err)
		if _, err := os.Lstat(dstPath); err == nil {
			return n, ErrExists{Path: dstPath}
		}
		if err := os.Rename(tmpPath, dstPath); err != nil {
			return n, fmt.Errorf("unable to move '%s' to '%s': %w", tmpPath, dstPath, err)
		}
	}
	return n, nil
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, tempFilePrefix) {
		return ErrInvalidName{Name: name}
	}
	return nil
}
