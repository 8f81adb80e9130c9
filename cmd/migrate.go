package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spiffler33/quill/internal/model"
	"github.com/spiffler33/quill/internal/store"
)

// migrateCmd copies every draft and post from the configured remote backend
// into the local SQLite backend, for working offline or keeping a backup.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy all drafts and posts into the local SQLite store",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := newStore(cmd)
		if err != nil {
			return err
		}

		dbPath, _ := cmd.Flags().GetString("db")
		dst, err := newSQLiteStore(dbPath)
		if err != nil {
			return err
		}

		var copied int
		for _, prefix := range []string{model.DraftsPrefix, model.PostsPrefix} {
			entries, err := src.List(cmd.Context(), prefix)
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			for _, e := range entries {
				if !e.ID.IsMarkdown() {
					continue
				}
				raw, _, err := src.Get(cmd.Context(), e.ID)
				if err != nil {
					return fmt.Errorf("read %s: %w", e.ID, err)
				}

				// Overwrite whatever the local copy holds.
				_, token, err := dst.Get(cmd.Context(), e.ID)
				if err != nil && !errors.Is(err, store.ErrNotFound) {
					return err
				}
				if _, err := dst.Put(cmd.Context(), e.ID, raw, token, "Migrated from remote"); err != nil {
					return fmt.Errorf("write %s: %w", e.ID, err)
				}
				copied++
			}
		}

		fmt.Printf("migrated %d items\n", copied)
		return nil
	},
}

func init() {
	migrateCmd.Flags().String("db", "./quill.db", "target SQLite database path")
	rootCmd.AddCommand(migrateCmd)
}
