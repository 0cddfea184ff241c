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

// Package uf2 decodes and encodes the UF2 firmware container format: a
// sequence of fixed 512-byte blocks, each bracketed by magic numbers, that
// together carry either a contiguous binary image or a set of named files.
package uf2

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// Block size and layout constants, per the UF2 file format.
const (
	BlockSize  = 512
	dataSize   = 476
	headerSize = 32 // 8 u32 fields before data
)

// Magic numbers bracketing every UF2 block.
const (
	MagicStart0 uint32 = 0x0A324655
	MagicStart1 uint32 = 0x9E5D5157
	MagicEnd    uint32 = 0x0AB16F30
)

// Flag bits recognized in Block.Flags.
const (
	FlagNotMainFlash         uint32 = 0x00000001
	FlagFileContainer        uint32 = 0x00001000
	FlagFamilyIDPresent      uint32 = 0x00002000
	FlagMD5ChecksumPresent   uint32 = 0x00004000
	FlagExtensionTagsPresent uint32 = 0x00008000
)

// Sentinel errors for the codec. Wrap with errors.Wrap at call sites that
// want to attach the offending block index or offset.
var (
	ErrBadMagic    = errors.New("uf2: bad magic")
	ErrCorruptBlock = errors.New("uf2: corrupt block")
)

// Block is one decoded 512-byte UF2 record.
type Block struct {
	MagicStart0         uint32
	MagicStart1         uint32
	Flags               uint32
	TargetAddress       uint32
	PayloadSize         uint32
	BlockNumber         uint32
	TotalBlocks         uint32
	FileSizeOrFamilyID  uint32
	Data                [dataSize]byte
	MagicEnd            uint32
}

// IsFileContainer reports whether this block carries a named embedded file
// rather than (or in addition to) main-flash image data.
func (b *Block) IsFileContainer() bool {
	return b.Flags&FlagFileContainer != 0
}

// IsNotMainFlash reports the NOT_MAIN_FLASH flag.
func (b *Block) IsNotMainFlash() bool {
	return b.Flags&FlagNotMainFlash != 0
}

// IsFamilyIDPresent reports the FAMILY_ID_PRESENT flag.
func (b *Block) IsFamilyIDPresent() bool {
	return b.Flags&FlagFamilyIDPresent != 0
}

// IsMD5ChecksumPresent reports the MD5_CHECKSUM_PRESENT flag.
func (b *Block) IsMD5ChecksumPresent() bool {
	return b.Flags&FlagMD5ChecksumPresent != 0
}

// IsExtensionTagsPresent reports the EXTENSION_TAGS_PRESENT flag.
func (b *Block) IsExtensionTagsPresent() bool {
	return b.Flags&FlagExtensionTagsPresent != 0
}

// Filename returns the NUL-terminated filename embedded at Data[PayloadSize:]
// for a file-container block. Only valid when IsFileContainer() is true.
func (b *Block) Filename() (string, error) {
	if b.PayloadSize > dataSize {
		return "", errors.Wrap(ErrCorruptBlock, "payload size exceeds data region")
	}
	rest := b.Data[b.PayloadSize:]
	nul := bytes.IndexByte(rest, 0)
	if nul < 0 {
		return "", errors.Wrap(ErrCorruptBlock, "filename not NUL-terminated")
	}
	return string(rest[:nul]), nil
}

// Validate checks that both head magics and the tail magic match the
// expected UF2 constants.
func (b *Block) Validate() error {
	if b.MagicStart0 != MagicStart0 || b.MagicStart1 != MagicStart1 || b.MagicEnd != MagicEnd {
		return ErrBadMagic
	}
	return nil
}

// Decode parses exactly BlockSize bytes into a Block. It does not validate
// magics; call Validate separately (Archive parsing validates every block).
func Decode(raw []byte) (*Block, error) {
	if len(raw) != BlockSize {
		return nil, errors.Errorf("uf2: decode expects %d bytes, got %d", BlockSize, len(raw))
	}

	b := &Block{}
	b.MagicStart0 = binary.LittleEndian.Uint32(raw[0:4])
	b.MagicStart1 = binary.LittleEndian.Uint32(raw[4:8])
	b.Flags = binary.LittleEndian.Uint32(raw[8:12])
	b.TargetAddress = binary.LittleEndian.Uint32(raw[12:16])
	b.PayloadSize = binary.LittleEndian.Uint32(raw[16:20])
	b.BlockNumber = binary.LittleEndian.Uint32(raw[20:24])
	b.TotalBlocks = binary.LittleEndian.Uint32(raw[24:28])
	b.FileSizeOrFamilyID = binary.LittleEndian.Uint32(raw[28:32])
	copy(b.Data[:], raw[32:32+dataSize])
	b.MagicEnd = binary.LittleEndian.Uint32(raw[32+dataSize : BlockSize])

	if b.PayloadSize > dataSize {
		return nil, errors.Wrapf(ErrCorruptBlock, "payload size %d exceeds %d", b.PayloadSize, dataSize)
	}

	return b, nil
}

// Encode serializes a Block back to its 512-byte wire form.
func Encode(b *Block) []byte {
	out := make([]byte, BlockSize)
	binary.LittleEndian.PutUint32(out[0:4], b.MagicStart0)
	binary.LittleEndian.PutUint32(out[4:8], b.MagicStart1)
	binary.LittleEndian.PutUint32(out[8:12], b.Flags)
	binary.LittleEndian.PutUint32(out[12:16], b.TargetAddress)
	binary.LittleEndian.PutUint32(out[16:20], b.PayloadSize)
	binary.LittleEndian.PutUint32(out[20:24], b.BlockNumber)
	binary.LittleEndian.PutUint32(out[24:28], b.TotalBlocks)
	binary.LittleEndian.PutUint32(out[28:32], b.FileSizeOrFamilyID)
	copy(out[32:32+dataSize], b.Data[:])
	binary.LittleEndian.PutUint32(out[32+dataSize:BlockSize], b.MagicEnd)
	return out
}
