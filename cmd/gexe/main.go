package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/wippyai/gpu-runtime/gexe"
)

func main() {
	var (
		pkgFile     = flag.String("pkg", "", "Path to executable package file")
		entry       = flag.Int("entry", -1, "Print a single entry point by index")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *pkgFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: gexe -pkg <file.gexe> [-entry N]")
		fmt.Fprintln(os.Stderr, "       gexe -pkg <file.gexe> -i  (interactive mode)")
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*pkgFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*pkgFile, *entry); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(pkgFile string, entry int) error {
	data, err := os.ReadFile(pkgFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	pkg, err := gexe.Decode(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	if entry >= 0 {
		if entry >= len(pkg.EntryPoints) {
			return fmt.Errorf("entry %d out of range [0, %d)", entry, len(pkg.EntryPoints))
		}
		printEntryPoint(entry, &pkg.EntryPoints[entry])
		return nil
	}

	fmt.Printf("Package: %s\n", pkgFile)
	fmt.Printf("Image: %d bytes\n", len(pkg.Image))
	fmt.Printf("Entry points: %d\n", len(pkg.EntryPoints))
	for i := range pkg.EntryPoints {
		fmt.Println()
		printEntryPoint(i, &pkg.EntryPoints[i])
	}
	return nil
}

func printEntryPoint(index int, ep *gexe.EntryPoint) {
	fmt.Printf("[%d] %s\n", index, ep.Name)
	fmt.Printf("    block size:    %dx%dx%d\n", ep.BlockSize[0], ep.BlockSize[1], ep.BlockSize[2])
	fmt.Printf("    shared memory: %d bytes\n", ep.SharedMemoryBytes)
	if d := ep.Diagnostics; d != nil {
		fmt.Printf("    source:        %s:%d (%s)\n", d.SourceFile, d.SourceLine, d.FunctionName)
	}
}
