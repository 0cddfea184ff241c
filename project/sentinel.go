// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.

// Package project scans a UF2 binary image for the embedded MakeCode
// project blob: a sentinel-delimited header, a JSON metadata object, and
// an LZMA-compressed archive of project source files.
package project

import (
	"bytes"
	"encoding/binary"
	"encoding/json"

	"github.com/pkg/errors"
)

// Sentinel is the 8-byte marker that announces an inline metadata+source blob.
var Sentinel = []byte{0x41, 0x14, 0x0E, 0x2F, 0xB8, 0x2F, 0xA2, 0xBB}

const (
	sentinelAlign  = 16
	headerLen      = 16 // 8 bytes sentinel + 8 bytes header fields (6 used, 2 reserved)
	headerFieldsLen = 8
)

var (
	ErrNoSentinelFound      = errors.New("project: no sentinel found")
	ErrBadHeader            = errors.New("project: header exceeds payload bounds")
	ErrBadMetadataJSON      = errors.New("project: metadata is not valid JSON")
	ErrUnsupportedCompression = errors.New("project: unsupported compression")
	ErrLZMADecodeFailed     = errors.New("project: LZMA decode failed")
)

// Metadata is the decoded per-blob metadata JSON object. Only the fields
// the extractor needs are named; everything else round-trips through Extra.
type Metadata struct {
	Name        string `json:"name"`
	Compression string `json:"compression"`
	HeaderSize  int    `json:"headerSize"`
	MetaSize    int    `json:"metaSize"`
	Extra       map[string]interface{} `json:"-"`
}

// UnmarshalJSON decodes known fields and stashes the rest in Extra.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	type alias Metadata
	aux := &struct{ *alias }{alias: (*alias)(m)}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Extra = raw
	return nil
}

// Candidate is one sentinel match found while scanning a binary image.
type Candidate struct {
	Offset int
	Meta   *Metadata
}

// FindSentinels scans raw at 16-byte-aligned offsets and yields every
// offset whose first 8 bytes match Sentinel, in ascending order.
func FindSentinels(raw []byte) []int {
	var offsets []int
	for off := 0; off+len(Sentinel) <= len(raw); off += sentinelAlign {
		if bytes.Equal(raw[off:off+len(Sentinel)], Sentinel) {
			offsets = append(offsets, off)
		}
	}
	return offsets
}

// header is the decoded 8 header bytes following the sentinel. The repo
// reads a u16 meta length and a u32 text length from the first 6 bytes;
// the final 2 bytes are reserved and ignored (see spec notes on the
// original header parsing).
type header struct {
	MetaLength uint16
	TextLength uint32
}

func decodeHeader(raw []byte) header {
	return header{
		MetaLength: binary.LittleEndian.Uint16(raw[0:2]),
		TextLength: binary.LittleEndian.Uint32(raw[2:6]),
	}
}
