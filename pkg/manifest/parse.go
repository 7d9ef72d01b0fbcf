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

package manifest

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/tidwall/gjson"
)

// Parse decodes a manifest: a JSON array of objects each of which may
// contain the URL of a firmware binary (see FieldBinaryURL).
//
// The whole document is validated first, so a malformed manifest yields
// no records at all.
func Parse(ctx context.Context, b []byte) ([]Record, error) {
	log := logger.FromCtx(ctx)

	if !utf8.Valid(b) {
		return nil, ErrInvalidJSON{Reason: "invalid UTF-8"}
	}
	if !gjson.ValidBytes(b) {
		return nil, ErrInvalidJSON{Reason: "syntax error"}
	}

	doc := gjson.ParseBytes(b)
	if !doc.IsArray() {
		return nil, ErrNotArray{Type: typeName(doc)}
	}

	var records []Record
	doc.ForEach(func(_, entry gjson.Result) bool {
		record := newRecord(len(records), entry)
		if !entry.IsObject() {
			log.Warnf("manifest entry #%d is not an object: %s", record.Index, typeName(entry))
		} else if !record.HasBinaryURL && entry.Get(FieldBinaryURL).Exists() {
			log.Warnf("manifest entry #%d has non-string '%s': %s", record.Index, FieldBinaryURL, entry.Get(FieldBinaryURL).Raw)
		}
		records = append(records, record)
		return true
	})
	log.Debugf("parsed %d manifest records", len(records))
	return records, nil
}

func typeName(v gjson.Result) string {
	switch {
	case v.IsArray():
		return "array"
	case v.IsObject():
		return "object"
	}
	return strings.ToLower(v.Type.String())
}
