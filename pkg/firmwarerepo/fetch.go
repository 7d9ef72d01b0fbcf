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

package firmwarerepo

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/facebookincubator/go-belt/beltctx"
	"github.com/facebookincubator/go-belt/tool/experimental/tracer"
	"github.com/facebookincubator/go-belt/tool/logger"
)

// FetchManifest downloads the manifest document by URL and returns it as is.
func (fwRepo *FirmwareRepo) FetchManifest(ctx context.Context, manifestURL string) ([]byte, error) {
	span, ctx := tracer.StartChildSpanFromCtx(ctx, "FirmwareRepo.FetchManifest")
	defer span.Finish()
	ctx = beltctx.WithField(ctx, "manifestURL", manifestURL)

	resp, err := fwRepo.get(ctx, manifestURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrHTTPGetBody{Err: err, URL: manifestURL}
	}
	logger.FromCtx(ctx).Debugf("received a manifest of %d bytes", len(b))
	return b, nil
}

// OpenBinary starts downloading a firmware binary. The caller is responsible
// for closing the returned body. The size is -1 if the server did not
// report it.
func (fwRepo *FirmwareRepo) OpenBinary(ctx context.Context, binaryURL string) (io.ReadCloser, int64, error) {
	resp, err := fwRepo.get(ctx, binaryURL)
	if err != nil {
		return nil, 0, err
	}
	return &bodyReader{ReadCloser: resp.Body, url: binaryURL}, resp.ContentLength, nil
}

func (fwRepo *FirmwareRepo) get(ctx context.Context, rawURL string) (*http.Response, error) {
	log := logger.FromCtx(ctx)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, ErrParseURL{Err: err, URL: rawURL}
	}
	switch strings.ToLower(parsedURL.Scheme) {
	case "http", "https":
	default:
		return nil, ErrUnsupportedScheme{URL: rawURL, Scheme: parsedURL.Scheme}
	}

	log.Debugf("downloading a file from '%s'", rawURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		err = ErrHTTPMakeRequest{Err: err, URL: rawURL}
		log.Errorf("internal error: %v", err)
		return nil, err
	}
	if fwRepo.userAgent != "" {
		req.Header.Set("User-Agent", fwRepo.userAgent)
	}

	resp, err := fwRepo.httpClient.Do(req)
	if err != nil {
		return nil, ErrHTTPGet{Err: err, URL: rawURL}
	}
	log.Debugf("status code: %d", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warnf("invalid response status code: %d", resp.StatusCode)
		resp.Body.Close()
		return nil, ErrHTTPGet{Err: ErrHTTPStatus{StatusCode: resp.StatusCode, Status: resp.Status}, URL: rawURL}
	}

	return resp, nil
}

// bodyReader wraps read errors into ErrHTTPGetBody.
type bodyReader struct {
	io.ReadCloser
	url string
}

func (r *bodyReader) Read(p []byte) (int, error) {
	n, err := r.ReadCloser.Read(p)
	if err != nil && err != io.EOF {
		err = ErrHTTPGetBody{Err: err, URL: r.url}
	}
	return n, err
}
