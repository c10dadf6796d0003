package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/alexjbarnes/noted/internal/config"
	"github.com/alexjbarnes/noted/internal/index"
	"github.com/alexjbarnes/noted/internal/notebook"
	"github.com/alexjbarnes/noted/internal/state"
	"github.com/spf13/cobra"
)

func newNotesCmd() *cobra.Command {
	var query, tag string

	cmd := &cobra.Command{
		Use:   "notes",
		Short: "List the notes of the current folder without opening it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			st, err := state.LoadAt(cfg.StatePath)
			if err != nil {
				return fmt.Errorf("loading state: %w", err)
			}
			defer st.Close()

			nf, err := currentFolder(cfg, st)
			if err != nil {
				return err
			}

			notes, err := searchFolder(nf.LocalPath, query, tag)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, n := range notes {
				tags := ""
				if len(n.Tags) > 0 {
					tags = fmt.Sprint(n.Tags)
				}

				fmt.Fprintf(w, "%s\t%s\t%s\n", n.FileName, n.Modified.Local().Format(time.DateTime), tags)
			}

			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive text matched against name and text")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "front matter tag")

	return cmd
}

// searchFolder loads every note file of dir into a throwaway index and
// searches it.
func searchFolder(dir, query, tag string) ([]*index.Note, error) {
	folder, err := notebook.NewFolder(dir)
	if err != nil {
		return nil, err
	}

	files, err := folder.List()
	if err != nil {
		return nil, err
	}

	store, err := index.Open(":memory:")
	if err != nil {
		return nil, err
	}
	defer store.Close()

	for _, f := range files {
		text, err := folder.ReadText(f.Name)
		if err != nil {
			continue
		}

		if err := store.Insert(index.NewNote(f.Name, text, f.Modified)); err != nil {
			return nil, err
		}
	}

	return store.Search(query, tag, index.ByModified)
}
