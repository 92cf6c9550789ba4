package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eringen/engblog"
	"github.com/eringen/engblog/content"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Load all content and print tag and author post counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		app := engblog.New(cfg, engblog.ViewFuncs{}, engblog.WithLogger(logger))
		if cfg.AdminEnabled() {
			store, err := engblog.NewStore(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer store.Close()
			app.Store = store
		}
		snap, err := app.Sources().Load(cmd.Context())
		if err != nil {
			return err
		}
		ix := content.NewIndex(snap)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TAG\tPOSTS")
		for _, tc := range content.SortTagCounts(ix.TagCounts()) {
			fmt.Fprintf(w, "%s\t%d\n", tc.Slug, tc.Count)
		}
		fmt.Fprintln(w, "\nAUTHOR\tNAME\tPOSTS")
		for _, ac := range content.SortAuthorCounts(ix.AuthorCounts()) {
			fmt.Fprintf(w, "%s\t%s\t%d\n", ac.Slug, ac.Name, ac.Count)
		}
		return w.Flush()
	},
}
