// Package main provides a command-line utility to inspect MSB map files:
// entry counts per supertype, and optionally every entry's name and
// subtype, plus a validate subcommand for a quick parse-and-discard check.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mapstudio/msb"
)

var verbose bool
var useMmap bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "msbdump <file.msb>",
		Short: "Inspect a MapStudio Binary map file",
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "list every entry, not just per-supertype counts")
	rootCmd.PersistentFlags().BoolVar(&useMmap, "mmap", false, "read the file through a memory mapping instead of buffered I/O")

	rootCmd.AddCommand(dumpCmd(), validateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file.msb>",
		Short: "Print entry counts (and, with -v, every entry) in a map file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openFile(args[0])
			if err != nil {
				return err
			}
			printSummary(args[0], m)
			if verbose {
				printEntries(m)
			}
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.msb>",
		Short: "Parse a map file and report whether it loads cleanly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := openFile(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Printf("%s: ok\n", args[0])
			return nil
		},
	}
}

func openFile(path string) (*msb.MSB, error) {
	if useMmap {
		return msb.OpenMmap(path)
	}
	return msb.Open(path)
}

func printSummary(path string, m *msb.MSB) {
	fmt.Printf("%s: version %d, big-endian=%v\n", path, m.Version, m.BigEndian)
	fmt.Printf("  Models:  %d\n", m.Models().Len())
	fmt.Printf("  Events:  %d\n", m.Events().Len())
	fmt.Printf("  Parts:   %d\n", m.Parts().Len())
	fmt.Printf("  Regions: %d\n", m.Regions().Len())
	fmt.Printf("  Routes:  %d\n", m.Routes().Len())
}

func printEntries(m *msb.MSB) {
	fmt.Println("\nModels:")
	for _, e := range m.Models().Entries() {
		fmt.Printf("  [%d] %s (subtype %d)\n", e.SubtypeIndex(), e.Name(), e.Subtype())
	}
	fmt.Println("\nEvents:")
	for _, e := range m.Events().Entries() {
		fmt.Printf("  [%d] %s (subtype %d)\n", e.SubtypeIndex(), e.Name(), e.Subtype())
	}
	fmt.Println("\nParts:")
	for _, e := range m.Parts().Entries() {
		fmt.Printf("  [%d] %s (subtype %d)\n", e.SubtypeIndex(), e.Name(), e.Subtype())
	}
	fmt.Println("\nRegions:")
	for _, e := range m.Regions().Entries() {
		fmt.Printf("  [%d] %s (subtype %d)\n", e.SubtypeIndex(), e.Name(), e.Subtype())
	}
	fmt.Println("\nRoutes:")
	for _, e := range m.Routes().Entries() {
		fmt.Printf("  [%d] %s (subtype %d)\n", e.SubtypeIndex(), e.Name(), e.Subtype())
	}
}
