package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func buildAudioRef(guidType, assetRef uint64, count, flags uint32, extra []byte) []byte {
	data := make([]byte, 24+len(extra))
	binary.LittleEndian.PutUint64(data[0x00:0x08], guidType)
	binary.LittleEndian.PutUint64(data[0x08:0x10], assetRef)
	binary.LittleEndian.PutUint32(data[0x10:0x14], count)
	binary.LittleEndian.PutUint32(data[0x14:0x18], flags)
	copy(data[0x18:], extra)
	return data
}

func TestParseAudioReferenceBytes(t *testing.T) {
	extra := []byte{0xde, 0xad, 0xbe, 0xef}
	data := buildAudioRef(0x38ee951a26fb816a, 0xfeedface, 3, 1, extra)

	ref, err := ParseAudioReferenceBytes(data)
	if err != nil {
		t.Fatalf("ParseAudioReferenceBytes: %v", err)
	}
	if ref.GUIDType != 0x38ee951a26fb816a {
		t.Errorf("GUIDType = %016x", ref.GUIDType)
	}
	if ref.AssetReference != 0xfeedface {
		t.Errorf("AssetReference = %016x", ref.AssetReference)
	}
	if ref.Count != 3 || ref.Flags != 1 {
		t.Errorf("Count/Flags = %d/%d", ref.Count, ref.Flags)
	}
	if !bytes.Equal(ref.Reserved, extra) {
		t.Errorf("Reserved = %x, want %x", ref.Reserved, extra)
	}
}

func TestParseAudioReferenceBytesTooShort(t *testing.T) {
	if _, err := ParseAudioReferenceBytes(make([]byte, 10)); err == nil {
		t.Fatal("expected error for undersized audio reference")
	}
}

func TestParseAudioReferenceMatchesParseAudioReferenceBytes(t *testing.T) {
	data := buildAudioRef(1, 2, 3, 4, nil)
	fromBytes, err := ParseAudioReferenceBytes(data)
	if err != nil {
		t.Fatalf("ParseAudioReferenceBytes: %v", err)
	}
	fromReader, err := ParseAudioReference(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ParseAudioReference: %v", err)
	}
	if fromBytes.GUIDType != fromReader.GUIDType || fromBytes.AssetReference != fromReader.AssetReference {
		t.Errorf("ParseAudioReference and ParseAudioReferenceBytes disagree: %v vs %v", fromReader, fromBytes)
	}
}

func TestParseAudioIndexBytes(t *testing.T) {
	data := buildAudioRef(0x38ee951a26fb816a, 0x1234, 1, 0, nil)
	index, err := ParseAudioIndexBytes(data)
	if err != nil {
		t.Fatalf("ParseAudioIndexBytes: %v", err)
	}
	if len(index.References) != 1 {
		t.Fatalf("References = %d, want 1", len(index.References))
	}
	if index.References[0].AssetReference != 0x1234 {
		t.Errorf("AssetReference = %x", index.References[0].AssetReference)
	}
}

func TestAudioReferenceString(t *testing.T) {
	ref := &AudioReference{GUIDType: 1, AssetReference: 2, Count: 3, Flags: 4}
	s := ref.String()
	if !bytes.Contains([]byte(s), []byte("AudioRef[")) {
		t.Errorf("String() = %q, missing AudioRef[ prefix", s)
	}
}
