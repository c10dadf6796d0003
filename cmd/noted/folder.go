package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexjbarnes/noted/internal/config"
	"github.com/alexjbarnes/noted/internal/state"
	"github.com/spf13/cobra"
)

func newFolderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Manage note folders",
	}

	var name string

	add := &cobra.Command{
		Use:   "add <path>",
		Short: "Store a note folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			info, err := os.Stat(dir)
			if err != nil {
				return err
			}

			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}

			if name == "" {
				name = filepath.Base(dir)
			}

			return withState(func(st *state.State) error {
				nf, err := st.AddFolder(name, dir)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "added folder %d: %s (%s)\n", nf.ID, nf.Name, nf.LocalPath)

				return nil
			})
		},
	}
	add.Flags().StringVar(&name, "name", "", "folder name (defaults to the directory name)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored note folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withState(func(st *state.State) error {
				return printFolders(cmd, st)
			})
		},
	}

	use := &cobra.Command{
		Use:   "use <id>",
		Short: "Make a stored note folder current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid folder id %q", args[0])
			}

			return withState(func(st *state.State) error {
				nf, err := st.Folder(id)
				if err != nil {
					return err
				}

				if prev, err := st.CurrentFolder(); err == nil && prev.ID != id {
					if err := st.StoreRecentFolder(prev.LocalPath, nf.LocalPath); err != nil {
						return err
					}
				}

				if err := st.SetCurrentFolder(id); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "current folder: %s (%s)\n", nf.Name, nf.LocalPath)

				return nil
			})
		},
	}

	cmd.AddCommand(add, list, use)

	return cmd
}

func printFolders(cmd *cobra.Command, st *state.State) error {
	out := cmd.OutOrStdout()

	folders, err := st.AllFolders()
	if err != nil {
		return err
	}

	if len(folders) == 0 {
		fmt.Fprintln(out, "no folders")
		return nil
	}

	current, _ := st.CurrentFolder()

	for _, f := range folders {
		mark := " "
		if f.ID == current.ID {
			mark = "*"
		}

		fmt.Fprintf(out, "%s %d  %-16s %s\n", mark, f.ID, f.Name, f.LocalPath)
	}

	recent, err := st.RecentFolders()
	if err != nil {
		return err
	}

	if len(recent) > 0 {
		fmt.Fprintln(out, "recent:")

		for _, p := range recent {
			fmt.Fprintf(out, "  %s\n", p)
		}
	}

	return nil
}

// withState opens the configured state database for a single command.
func withState(fn func(st *state.State) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st, err := state.LoadAt(cfg.StatePath)
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	defer st.Close()

	return fn(st)
}
