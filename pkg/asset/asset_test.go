package asset

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func buildRef(size int, refGUID, targetGUID uint64, flags uint32) []byte {
	data := make([]byte, size)
	binary.LittleEndian.PutUint64(data[0:8], refGUID)
	binary.LittleEndian.PutUint64(data[8:16], targetGUID)
	binary.LittleEndian.PutUint32(data[16:20], flags)
	return data
}

func TestParseReferenceBytesBySize(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		wantType ReferenceType
	}{
		{"material", 88, ReferenceTypeMaterial},
		{"tint", 96, ReferenceTypeTint},
		{"texture", 120, ReferenceTypeTexture},
		{"dual", 136, ReferenceTypeDual},
		{"complex200", 200, ReferenceTypeComplex},
		{"complex296", 296, ReferenceTypeComplex},
		{"generic", 64, ReferenceTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildRef(tt.size, 0x1122334455667788, 0x99aabbccddeeff00, 0x7)
			ref, err := ParseReferenceBytes(data)
			if err != nil {
				t.Fatalf("ParseReferenceBytes: %v", err)
			}
			if ref.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", ref.Type, tt.wantType)
			}
			if ref.ReferenceGUID != 0x1122334455667788 {
				t.Errorf("ReferenceGUID = %016x", ref.ReferenceGUID)
			}
			if ref.TargetGUID != 0x99aabbccddeeff00 {
				t.Errorf("TargetGUID = %016x", ref.TargetGUID)
			}
			if ref.Flags != 0x7 {
				t.Errorf("Flags = %x", ref.Flags)
			}
		})
	}
}

func TestParseReferenceBytesTooShort(t *testing.T) {
	if _, err := ParseReferenceBytes(make([]byte, 4)); err == nil {
		t.Fatal("expected error for undersized reference")
	}
}

func TestParseReferenceMatchesParseReferenceBytes(t *testing.T) {
	data := buildRef(88, 1, 2, 3)
	fromBytes, err := ParseReferenceBytes(data)
	if err != nil {
		t.Fatalf("ParseReferenceBytes: %v", err)
	}
	fromReader, err := ParseReference(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ParseReference: %v", err)
	}
	if fromBytes.ReferenceGUID != fromReader.ReferenceGUID || fromBytes.Type != fromReader.Type {
		t.Errorf("ParseReference and ParseReferenceBytes disagree: %v vs %v", fromReader, fromBytes)
	}
}

func TestReferenceTypeString(t *testing.T) {
	if ReferenceTypeMaterial.String() != "Material" {
		t.Errorf("got %s", ReferenceTypeMaterial.String())
	}
	if ReferenceTypeUnknown.String() != "Unknown" {
		t.Errorf("got %s", ReferenceTypeUnknown.String())
	}
}
