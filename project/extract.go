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

package project

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/ulikunitz/xz/lzma"
)

// lzmaTrailerLen is the number of trailing bytes the authoring tool writes
// as a malformed end-of-stream marker; the LZMA-alone stream decodes
// cleanly once they're stripped.
const lzmaTrailerLen = 6

// Project is the fully extracted result of one sentinel blob: decoded
// metadata, the decompressed source-meta object, and the source file map.
type Project struct {
	Metadata   *Metadata
	SourceMeta map[string]interface{}
	Source     map[string]string
}

// Name is metadata.name, or "" if Metadata is nil.
func (p *Project) Name() string {
	if p == nil || p.Metadata == nil {
		return ""
	}
	return p.Metadata.Name
}

// Iterate walks every sentinel-aligned candidate in raw (the UF2 binary
// image) and invokes visit with the decoded project for each one, except
// candidates that fail the bounds check or whose LZMA source or source JSON
// cannot be decoded: those are logged at debug level and skipped. visit
// receives (nil, nil, nil) when a candidate's metadata JSON doesn't parse,
// and (meta, nil, nil) when the metadata names an unsupported compression.
// It returns the first error returned by visit, or nil after exhausting
// all candidates.
func Iterate(raw []byte, visit func(offset int, p *Project) error) error {
	offsets := FindSentinels(raw)
	if len(offsets) == 0 {
		return ErrNoSentinelFound
	}

	for _, off := range offsets {
		p, skip, err := decodeCandidate(raw, off)
		if err != nil {
			log.Debug().Int("offset", off).Err(err).Msg("project: skipping malformed sentinel candidate")
			continue
		}
		if skip {
			continue
		}
		if err := visit(off, p); err != nil {
			return err
		}
	}
	return nil
}

// First returns the first project extracted from raw whose source
// decompressed successfully, or ErrNoSentinelFound if none did.
func First(raw []byte) (*Project, error) {
	var found *Project
	err := Iterate(raw, func(offset int, p *Project) error {
		if found == nil && p != nil && p.Source != nil {
			found = p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrNoSentinelFound
	}
	return found, nil
}

// decodeCandidate decodes the single candidate at offset off. skip is true
// when the caller should silently move to the next candidate (a bounds
// failure, e.g.) without surfacing a Project at all.
func decodeCandidate(raw []byte, off int) (p *Project, skip bool, err error) {
	if off+headerLen > len(raw) {
		return nil, true, errors.Wrap(ErrBadHeader, "header does not fit in payload")
	}

	hdr := decodeHeader(raw[off+len(Sentinel) : off+headerLen])

	metaStart := off + headerLen
	metaEnd := metaStart + int(hdr.MetaLength)
	textEnd := metaEnd + int(hdr.TextLength)
	if textEnd > len(raw) || metaEnd > textEnd {
		return nil, true, errors.Wrapf(ErrBadHeader, "offset=%d meta_length=%d text_length=%d exceeds payload (len=%d)",
			off, hdr.MetaLength, hdr.TextLength, len(raw))
	}

	var meta Metadata
	if err := json.Unmarshal(raw[metaStart:metaEnd], &meta); err != nil {
		// Malformed metadata JSON: the extractor recovers by yielding a
		// fully-empty project for this candidate, not an error.
		return &Project{}, false, nil
	}

	if meta.Compression != "LZMA" {
		return &Project{Metadata: &meta}, false, nil
	}

	text, err := decompressLZMAAlone(raw[metaEnd:textEnd])
	if err != nil {
		return nil, true, errors.Wrapf(ErrLZMADecodeFailed, "offset=%d: %v", off, err)
	}

	sourceLength := meta.HeaderSize
	if sourceLength == 0 {
		sourceLength = meta.MetaSize
	}
	if sourceLength > len(text) {
		return nil, true, errors.Wrap(ErrBadHeader, "source_length exceeds decompressed text")
	}

	var sourceMeta map[string]interface{}
	if err := json.Unmarshal(text[:sourceLength], &sourceMeta); err != nil {
		return nil, true, errors.Wrap(ErrBadMetadataJSON, "source-meta JSON")
	}

	var source map[string]string
	if err := json.Unmarshal(text[sourceLength:], &source); err != nil {
		return nil, true, errors.Wrap(ErrBadMetadataJSON, "source JSON")
	}

	return &Project{Metadata: &meta, SourceMeta: sourceMeta, Source: source}, false, nil
}

// decompressLZMAAlone decompresses an LZMA-alone stream after stripping the
// authoring tool's malformed trailing end-marker bytes, and patches a
// truncated trailing '}' back onto the result (a documented artifact of
// the same tool).
func decompressLZMAAlone(raw []byte) ([]byte, error) {
	if len(raw) < lzmaTrailerLen {
		return nil, errors.New("lzma payload shorter than trailer")
	}
	trimmed := raw[:len(raw)-lzmaTrailerLen]

	r, err := lzma.NewReader(bytes.NewReader(trimmed))
	if err != nil {
		return nil, errors.Wrap(err, "opening LZMA-alone stream")
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading LZMA-alone stream")
	}

	if len(out) > 0 && out[len(out)-1] != '}' {
		out = append(out, '}')
	}

	return out, nil
}
