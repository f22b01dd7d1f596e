package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/glean/internal/cli"
	"github.com/at-ishikawa/glean/internal/learning"
)

func newItemCommand() *cobra.Command {
	itemCommand := &cobra.Command{
		Use:   "item",
		Short: "Manage learning items",
	}

	itemCommand.AddCommand(newItemImportCommand())
	itemCommand.AddCommand(newItemShowCommand())
	itemCommand.AddCommand(newItemArchiveCommand())
	return itemCommand
}

func newItemImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <drafts file>",
		Short: "Create learning items from a YAML list of drafts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("os.Open(%s) > %w", args[0], err)
			}
			defer func() {
				_ = file.Close()
			}()

			env, err := newEnvironment()
			if err != nil {
				return err
			}
			defer func() {
				_ = env.Close()
			}()

			items, err := cli.ImportDrafts(cmd.Context(), env.repo, file, env.clock.Now())
			if err != nil {
				return fmt.Errorf("cli.ImportDrafts() > %w", err)
			}
			for _, item := range items {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tnext review on %s\n", item.ID, item.Content.Title, item.SpaceRep.NextReviewDate)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items\n", len(items))
			return nil
		},
	}
}

func newItemShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <item id>",
		Short: "Show an item with its review history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment()
			if err != nil {
				return err
			}
			defer func() {
				_ = env.Close()
			}()

			item, err := env.repo.FindByID(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("repo.FindByID(%s) > %w", args[0], err)
			}
			if item == nil {
				return fmt.Errorf("%w: %s", learning.ErrNotFound, args[0])
			}
			return cli.WriteItem(cmd.OutOrStdout(), *item)
		},
	}
}

func newItemArchiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <item id>",
		Short: "Archive an item so it is never scheduled again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment()
			if err != nil {
				return err
			}
			defer func() {
				_ = env.Close()
			}()

			item, err := cli.ArchiveItem(cmd.Context(), env.repo, args[0], env.clock.Now())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Archived %s\n", item.ID)
			return nil
		},
	}
}
