// Command sectiondump decodes one chunk column's wire buffer from a file
// and writes a single section's exported block states to stdout (or a
// file), in the little-endian u32-per-block layout package column
// produces.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-mclib/voxelworld/wire"
	"github.com/go-mclib/voxelworld/world"
)

func main() {
	var (
		inPath   string
		outPath  string
		chunkX   int
		chunkZ   int
		sectionY int
		verbose  bool
	)

	flag.StringVar(&inPath, "in", "", "path to a raw chunk column wire buffer (required)")
	flag.StringVar(&outPath, "out", "", "output path for the exported section (defaults to stdout)")
	flag.IntVar(&chunkX, "chunk-x", 0, "chunk column X coordinate")
	flag.IntVar(&chunkZ, "chunk-z", 0, "chunk column Z coordinate")
	flag.IntVar(&sectionY, "section-y", 0, "section Y index to export")
	flag.BoolVar(&verbose, "v", false, "log parse diagnostics to stderr")
	flag.Parse()

	logger := log.New(os.Stderr, "sectiondump: ", log.LstdFlags)

	if inPath == "" {
		logger.Fatal("missing required -in flag")
	}

	data, err := os.ReadFile(inPath)
	if err != nil {
		logger.Fatalf("reading %s: %v", inPath, err)
	}

	col, err := wire.ParseColumn(data, int32(chunkX), int32(chunkZ), world.GlobalBlockBits, world.GlobalBiomeBits)
	if err != nil {
		logger.Fatalf("parsing column: %v", err)
	}

	if verbose {
		loaded := 0
		for _, s := range col.Sections {
			if s != nil {
				loaded++
			}
		}
		logger.Printf("parsed %d/%d sections from %s", loaded, len(col.Sections), inPath)
	}

	buf, ok := col.ExportSectionStates(sectionY)
	if !ok {
		logger.Fatalf("section y=%d is absent or out of range", sectionY)
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			logger.Fatalf("creating %s: %v", outPath, err)
		}
		defer f.Close()
		out = f
	}

	if _, err := out.Write(buf); err != nil {
		logger.Fatalf("writing output: %v", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "sectiondump: wrote %d bytes\n", len(buf))
	}
}
