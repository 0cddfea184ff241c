// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// Unit tests for UF2 archive reassembly.

package uf2

import (
	"bytes"
	"testing"
)

func blockBytes(b *Block) []byte {
	return Encode(b)
}

func TestParseRejectsBadBlockSize(t *testing.T) {
	if _, err := Parse(make([]byte, 511)); err != ErrBadBlockSize {
		t.Fatalf("err = %v, want ErrBadBlockSize", err)
	}
}

func TestExtractBinaryConcatenatesSortedPayloads(t *testing.T) {
	second := &Block{
		MagicStart0: MagicStart0, MagicStart1: MagicStart1, MagicEnd: MagicEnd,
		BlockNumber: 1, TotalBlocks: 2, PayloadSize: 2,
	}
	copy(second.Data[:2], []byte("B2"))

	first := &Block{
		MagicStart0: MagicStart0, MagicStart1: MagicStart1, MagicEnd: MagicEnd,
		BlockNumber: 0, TotalBlocks: 2, PayloadSize: 2,
	}
	copy(first.Data[:2], []byte("A1"))

	// Deliberately write them out of order; Parse must sort by BlockNumber.
	raw := append(blockBytes(second), blockBytes(first)...)

	a, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := a.ExtractBinary()
	want := []byte("A1B2")
	if !bytes.Equal(got, want) {
		t.Fatalf("ExtractBinary = %q, want %q", got, want)
	}
}

func TestExtractFilesSplicesAtTargetAddress(t *testing.T) {
	full := []byte("hello world!")

	var blocks []*Block
	chunk := 4
	for i := 0; i*chunk < len(full); i++ {
		end := (i + 1) * chunk
		if end > len(full) {
			end = len(full)
		}
		b := &Block{
			MagicStart0:        MagicStart0,
			MagicStart1:        MagicStart1,
			MagicEnd:           MagicEnd,
			Flags:              FlagFileContainer,
			BlockNumber:        uint32(i),
			TotalBlocks:        3,
			TargetAddress:      uint32(i * chunk),
			PayloadSize:        uint32(end - i*chunk),
			FileSizeOrFamilyID: uint32(len(full)),
		}
		copy(b.Data[:end-i*chunk], full[i*chunk:end])
		// filename "out.txt" begins right after the payload.
		copy(b.Data[b.PayloadSize:], append([]byte("out.txt"), 0))
		blocks = append(blocks, b)
	}

	var raw []byte
	for _, b := range blocks {
		raw = append(raw, blockBytes(b)...)
	}

	a, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	files, err := a.ExtractFiles()
	if err != nil {
		t.Fatalf("ExtractFiles: %v", err)
	}

	got, ok := files["out.txt"]
	if !ok {
		t.Fatal("expected file \"out.txt\" in ExtractFiles result")
	}
	if len(got) != len(full) {
		t.Fatalf("len(file) = %d, want %d (file_size)", len(got), len(full))
	}
	if !bytes.Equal(got, full) {
		t.Fatalf("file contents = %q, want %q", got, full)
	}
}

func TestExtractFilesMissingFilenameIsCorrupt(t *testing.T) {
	b := &Block{
		MagicStart0: MagicStart0, MagicStart1: MagicStart1, MagicEnd: MagicEnd,
		Flags: FlagFileContainer, PayloadSize: uint32(len(b0Data)), FileSizeOrFamilyID: 4,
	}
	copy(b.Data[:], b0Data)
	for i := range b.Data {
		if i >= int(b.PayloadSize) {
			b.Data[i] = 'x' // no NUL anywhere after the payload
		}
	}

	a := &Archive{Blocks: []*Block{b}}
	if _, err := a.ExtractFiles(); err == nil {
		t.Fatal("expected error for missing filename NUL terminator")
	}
}

var b0Data = []byte("data")
