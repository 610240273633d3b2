package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	owner   string
	dataDir string
)

var rootCmd = &cobra.Command{
	Use:     "draftpad",
	Short:   "Personal markdown document engine",
	Version: version,
	Long: `draftpad manages folders, markdown documents, tags, versions, and
full-text search over a local data directory.

The --owner flag supplies the verified identity every record is scoped to;
in a deployed setup an auth layer provides it instead.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&owner, "owner", "", "owner identity (required)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.draftpad)")

	rootCmd.AddCommand(docCmd)
	rootCmd.AddCommand(folderCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(reconcileCmd)
}

// requireOwner guards every data-touching command.
func requireOwner() error {
	if owner == "" {
		return fmt.Errorf("--owner is required")
	}
	return nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
