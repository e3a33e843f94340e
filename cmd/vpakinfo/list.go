package main

import (
	"fmt"
	"os"

	"github.com/gamearchive/vpak/pkg/packfile"
)

func cmdList(archivePath string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	pf, err := packfile.Parse(f)
	if err != nil {
		return fmt.Errorf("parse archive: %w", err)
	}

	fmt.Printf("%s  (format v%d, %d entries)\n", archivePath, pf.Version, len(pf.Entries))
	for _, e := range pf.Entries {
		name := e.Filepath()
		marker := " "
		if e.Flags&packfile.EntryCompressed != 0 {
			marker = "c"
		}
		fmt.Printf("  %s %10s  %s\n", marker, formatSize(e.Size), name)
	}

	return nil
}
