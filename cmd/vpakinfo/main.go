// vpakinfo - inspection CLI for Packfile ("vpp") archives and Peg
// ("GEKV") texture bundles.
//
// Usage:
//   vpakinfo list <archive.vpp>                    # directory listing
//   vpakinfo extract <archive.vpp> <member> <out>  # dump a raw member
//   vpakinfo peg <header.gpu_pc> <data.gpu_pc> <entry> <out.dds|.tga|.png>
//   vpakinfo rawtex <raw.bin> <metadata.bin> <out.dds>
//   vpakinfo decode <archive.vpp> <member> <asset|audio|tint>
//
// peg converts a single bundle entry to DDS, TGA, or a lossy PNG
// rasterization; decode materializes a Packfile member and interprets
// it as one of the small fixed-layout sibling asset structures (asset
// reference, audio reference, or tint color data) that travel inside
// Packfile archives alongside Peg bundles.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "list":
		if len(os.Args) != 3 {
			fmt.Fprintln(os.Stderr, "Usage: vpakinfo list <archive.vpp>")
			os.Exit(1)
		}
		err = cmdList(os.Args[2])

	case "extract":
		if len(os.Args) != 5 {
			fmt.Fprintln(os.Stderr, "Usage: vpakinfo extract <archive.vpp> <member> <out>")
			os.Exit(1)
		}
		err = cmdExtract(os.Args[2], os.Args[3], os.Args[4])

	case "peg":
		if len(os.Args) != 6 {
			fmt.Fprintln(os.Stderr, "Usage: vpakinfo peg <header> <data> <entry> <out.dds|.tga|.png>")
			os.Exit(1)
		}
		err = cmdPeg(os.Args[2], os.Args[3], os.Args[4], os.Args[5])

	case "rawtex":
		if len(os.Args) != 5 {
			fmt.Fprintln(os.Stderr, "Usage: vpakinfo rawtex <raw.bin> <metadata.bin> <out.dds>")
			os.Exit(1)
		}
		err = cmdRawTex(os.Args[2], os.Args[3], os.Args[4])

	case "decode":
		if len(os.Args) != 5 {
			fmt.Fprintln(os.Stderr, "Usage: vpakinfo decode <archive.vpp> <member> <asset|audio|tint>")
			os.Exit(1)
		}
		err = cmdDecode(os.Args[2], os.Args[3], os.Args[4])

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("vpakinfo - Packfile/Peg inspection tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  vpakinfo list <archive.vpp>                    # directory listing")
	fmt.Println("  vpakinfo extract <archive.vpp> <member> <out>  # dump a raw member")
	fmt.Println("  vpakinfo peg <header> <data> <entry> <out>     # convert to .dds/.tga/.png")
	fmt.Println("  vpakinfo rawtex <raw> <meta> <out.dds>         # reassemble raw BC + metadata")
	fmt.Println("  vpakinfo decode <archive> <member> <kind>      # decode asset/audio/tint member")
}

// formatSize renders a byte count the way a terminal listing would.
func formatSize(n uint64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatUint(n, 10) + " B"
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func extOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
