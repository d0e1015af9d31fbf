// Command sightline-import walks <source>/journal and <source>/projects
// and produces a version=0 snapshot: journal entries dated from their
// filenames, project notes dated from filesystem mtimes, and a tag
// registry seeded with type:journal, project, type:project-note, and one
// tag per normalized project-relative directory path segment, nested
// under project (projects/acme/api/notes.md gets project:acme:api).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "sightline-import <source-dir> <snapshot-path>",
		Short: "Import a directory of Markdown journal/project files into a sightline snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(context.Background(), args[0], args[1])
		},
	}
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
