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

package uf2

import (
	"sort"

	"github.com/pkg/errors"
)

var ErrBadBlockSize = errors.New("uf2: file size is not a multiple of 512")

// Archive is an ordered, validated sequence of UF2 blocks.
type Archive struct {
	Blocks []*Block
}

// Parse splits raw into 512-byte records, decodes and validates each one,
// and returns them sorted ascending by BlockNumber.
func Parse(raw []byte) (*Archive, error) {
	if len(raw)%BlockSize != 0 {
		return nil, ErrBadBlockSize
	}

	n := len(raw) / BlockSize
	blocks := make([]*Block, 0, n)
	for i := 0; i < n; i++ {
		rec := raw[i*BlockSize : (i+1)*BlockSize]
		b, err := Decode(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "uf2: decoding block %d", i)
		}
		if err := b.Validate(); err != nil {
			return nil, errors.Wrapf(err, "uf2: validating block %d", i)
		}
		blocks = append(blocks, b)
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].BlockNumber < blocks[j].BlockNumber
	})

	return &Archive{Blocks: blocks}, nil
}

// ExtractBinary concatenates the valid payload of every block, in
// BlockNumber order, into one contiguous image.
func (a *Archive) ExtractBinary() []byte {
	var total int
	for _, b := range a.Blocks {
		total += int(b.PayloadSize)
	}
	out := make([]byte, 0, total)
	for _, b := range a.Blocks {
		out = append(out, b.Data[:b.PayloadSize]...)
	}
	return out
}

// ExtractFiles reassembles every file-container block into a name→content
// map. Each new filename lazily allocates a zero-filled buffer sized by
// that block's FileSizeOrFamilyID (interpreted as file_size in this
// context), and payloads are spliced in at TargetAddress.
func (a *Archive) ExtractFiles() (map[string][]byte, error) {
	files := make(map[string][]byte)

	for i, b := range a.Blocks {
		if !b.IsFileContainer() {
			continue
		}

		name, err := b.Filename()
		if err != nil {
			return nil, errors.Wrapf(err, "uf2: block %d", i)
		}

		buf, ok := files[name]
		if !ok {
			buf = make([]byte, b.FileSizeOrFamilyID)
			files[name] = buf
		}

		end := int(b.TargetAddress) + int(b.PayloadSize)
		if end > len(buf) {
			grown := make([]byte, end)
			copy(grown, buf)
			buf = grown
			files[name] = buf
		}
		copy(buf[b.TargetAddress:end], b.Data[:b.PayloadSize])
	}

	return files, nil
}
