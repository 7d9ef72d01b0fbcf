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
	"github.com/tidwall/gjson"
)

// Keys of a manifest entry which are interpreted by this package.
const (
	FieldBinaryURL      = "fw_binary_url"
	FieldType           = "fw_type"
	FieldImageType      = "fw_image_type"
	FieldManufacturerID = "fw_manufacturer_id"
	FieldFileSize       = "fw_filesize"
)

// Record is a single entry of a manifest.
//
// Only BinaryURL matters for synchronization, the rest is informational
// and is set only if the vendor provided it.
type Record struct {
	Index        int
	BinaryURL    string
	HasBinaryURL bool

	Type           *int64
	ImageType      *int64
	ManufacturerID *int64
	FileSize       *int64

	// Raw is the undecoded JSON of the entry.
	Raw string
}

func newRecord(index int, entry gjson.Result) Record {
	record := Record{
		Index: index,
		Raw:   entry.Raw,
	}
	if !entry.IsObject() {
		return record
	}

	if v := entry.Get(FieldBinaryURL); v.Type == gjson.String {
		record.BinaryURL = v.Str
		record.HasBinaryURL = true
	}
	record.Type = optionalInt(entry, FieldType)
	record.ImageType = optionalInt(entry, FieldImageType)
	record.ManufacturerID = optionalInt(entry, FieldManufacturerID)
	record.FileSize = optionalInt(entry, FieldFileSize)
	return record
}

func optionalInt(entry gjson.Result, key string) *int64 {
	v := entry.Get(key)
	if v.Type != gjson.Number {
		return nil
	}
	i := v.Int()
	return &i
}

// WithBinaryURL returns only the records which reference a firmware binary.
func WithBinaryURL(records []Record) []Record {
	var result []Record
	for _, record := range records {
		if record.HasBinaryURL {
			result = append(result, record)
		}
	}
	return result
}
