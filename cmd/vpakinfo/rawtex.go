package main

import (
	"fmt"
	"os"

	"github.com/gamearchive/vpak/pkg/texture"
)

func cmdRawTex(rawPath, metaPath, outPath string) error {
	metaFile, err := os.Open(metaPath)
	if err != nil {
		return fmt.Errorf("open metadata: %w", err)
	}
	defer metaFile.Close()

	meta, err := texture.ParseMetadata(metaFile)
	if err != nil {
		return fmt.Errorf("parse metadata: %w", err)
	}

	rawData, err := os.ReadFile(rawPath)
	if err != nil {
		return fmt.Errorf("read raw payload: %w", err)
	}

	d, err := texture.ConvertRawBCToDDS(rawData, meta)
	if err != nil {
		return fmt.Errorf("reconstruct DDS: %w", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	if err := d.Write(out); err != nil {
		return fmt.Errorf("write DDS: %w", err)
	}

	fmt.Printf("Reconstructed %s (%s) -> %s\n", rawPath, meta, outPath)
	return nil
}
