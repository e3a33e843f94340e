package main

import (
	"fmt"
	"os"

	"github.com/gamearchive/vpak/pkg/packfile"
)

func cmdExtract(archivePath, member, outPath string) error {
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
		return fmt.Errorf("no member named %q", member)
	}

	data, err := entry.Data()
	if err != nil {
		return fmt.Errorf("read member data: %w", err)
	}

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Printf("Extracted %s (%d bytes) -> %s\n", member, len(data), outPath)
	return nil
}
