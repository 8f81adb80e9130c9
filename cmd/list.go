package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spiffler33/quill/internal/model"
	"github.com/spiffler33/quill/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known drafts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStore(cmd)
		if err != nil {
			return err
		}

		entries, err := newRegistry(st).Load(cmd.Context())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("no drafts")
			return nil
		}
		for i, e := range entries {
			fmt.Printf("%2d. %s\n", i+1, e.ID.Filename())
		}
		return nil
	},
}

var listPostsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List published posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStore(cmd)
		if err != nil {
			return err
		}

		entries, err := st.List(cmd.Context(), model.PostsPrefix)
		if errors.Is(err, store.ErrNotFound) {
			fmt.Println("no posts")
			return nil
		}
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.ID.IsMarkdown() {
				fmt.Println(e.ID.Filename())
			}
		}
		return nil
	},
}

func init() {
	listCmd.AddCommand(listPostsCmd)
	rootCmd.AddCommand(listCmd)
}
