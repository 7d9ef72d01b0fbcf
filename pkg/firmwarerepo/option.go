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
	"net/http"
	"time"
)

const (
	// DefaultUserAgent is the value of the User-Agent header sent to the vendor.
	DefaultUserAgent = "otaufetch/1"
)

type config struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	UserAgent  string
}

// Option is an abstract option for New.
type Option interface {
	apply(*config)
}

// OptionHTTPClient makes FirmwareRepo use the given HTTP client. If set,
// OptionTimeout is ignored.
type OptionHTTPClient struct {
	Client *http.Client
}

func (opt OptionHTTPClient) apply(cfg *config) {
	cfg.HTTPClient = opt.Client
}

// OptionTimeout sets the timeout of a whole HTTP request (including reading
// the body). Zero means no timeout.
type OptionTimeout time.Duration

func (opt OptionTimeout) apply(cfg *config) {
	cfg.Timeout = time.Duration(opt)
}

// OptionUserAgent overrides DefaultUserAgent.
type OptionUserAgent string

func (opt OptionUserAgent) apply(cfg *config) {
	cfg.UserAgent = string(opt)
}

func getConfig(opts ...Option) config {
	cfg := config{
		UserAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	return cfg
}
