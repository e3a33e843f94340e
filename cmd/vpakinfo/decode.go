package main

import (
	"fmt"
	"os"

	"github.com/gamearchive/vpak/pkg/asset"
	"github.com/gamearchive/vpak/pkg/audio"
	"github.com/gamearchive/vpak/pkg/packfile"
	"github.com/gamearchive/vpak/pkg/tint"
)

// cmdDecode materializes one archive member and interprets it as one
// of the small fixed-layout reference structures that sit alongside
// Packfile/Peg containers: an asset reference, an audio reference, or
// raw tint color data.
func cmdDecode(archivePath, member, kind string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	pf, err := packfile.Parse(f)
	if err != nil {
		return fmt.Errorf("parse archive: %w", err)
	}

	entry := pf.GetEntryByFilename(member)
	if entry == nil {
		return fmt.Errorf("no such member: %s", member)
	}

	data, err := entry.Data()
	if err != nil {
		return fmt.Errorf("materialize %s: %w", member, err)
	}

	switch kind {
	case "asset":
		ref, err := asset.ParseReferenceBytes(data)
		if err != nil {
			return fmt.Errorf("parse asset reference: %w", err)
		}
		fmt.Println(ref)

	case "audio":
		ref, err := audio.ParseAudioReferenceBytes(data)
		if err != nil {
			return fmt.Errorf("parse audio reference: %w", err)
		}
		fmt.Println(ref)

	case "tint":
		entry := tint.TintEntryFromBytes(data)
		if entry == nil {
			return fmt.Errorf("data too short for tint entry: %d bytes", len(data))
		}
		fmt.Printf("%s (%s)\n", entry, entry.KnownName())
		for i, c := range entry.Colors {
			fmt.Printf("  color[%d] = %s\n", i, c.Hex())
		}

	default:
		return fmt.Errorf("unknown kind %q (want asset, audio, or tint)", kind)
	}

	return nil
}
