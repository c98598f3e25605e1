// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/agentdesk/internal/folders"
	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/util"
)

func newFoldersCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "folders",
		Aliases: []string{"folder"},
		Short:   "Manage conversation folders",
	}
	cmd.AddCommand(
		newFoldersListCmd(flags),
		newFoldersCreateCmd(flags),
		newFoldersRenameCmd(flags),
		newFoldersDeleteCmd(flags),
	)
	return cmd
}

func newFoldersListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			if _, err := e.requireUser(); err != nil {
				return err
			}
			list, err := e.client.ListFolders(ctx)
			if err != nil {
				return e.check(ctx, err)
			}
			list = folders.SortFolders(list, detectLang())

			return flags.emit(cmd, list, func(w io.Writer) {
				if len(list) == 0 {
					fmt.Fprintln(w, DimStyle.Render("No folders"))
					return
				}
				fmt.Fprintln(w, TitleStyle.Render(util.PadWidth("ID", 8)+util.PadWidth("NAME", 32)+"CONVERSATIONS"))
				for _, f := range list {
					fmt.Fprintln(w, util.PadWidth(strconv.FormatInt(f.ID, 10), 8)+
						util.PadWidth(util.TruncateWidth(f.Name, 30), 32)+
						strconv.Itoa(f.ConversationsCount))
				}
			})
		},
	}
}

func newFoldersCreateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a folder",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := model.NormalizeFolderName(strings.Join(args, " "))
			if err != nil {
				return err
			}
			e, err := openEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			if _, err := e.requireUser(); err != nil {
				return err
			}
			folder, err := e.client.CreateFolder(ctx, name)
			if err != nil {
				return e.check(ctx, err)
			}
			slog.Info("FOLDER_CREATED", "id", folder.ID)

			return flags.emit(cmd, folder, func(w io.Writer) {
				fmt.Fprintf(w, "%s Created folder %s (id %d)\n", RenderStatus("ok"), folder.Name, folder.ID)
			})
		},
	}
}

func newFoldersRenameCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a folder",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("folder", args[0])
			if err != nil {
				return err
			}
			name, err := model.NormalizeFolderName(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			e, err := openEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			if _, err := e.requireUser(); err != nil {
				return err
			}
			list, err := e.client.ListFolders(ctx)
			if err != nil {
				return e.check(ctx, err)
			}
			folder, ok := model.FindFolder(list, id)
			if !ok {
				return &NotFoundError{Resource: "folder", ID: args[0]}
			}
			renamed, err := e.client.RenameFolder(ctx, folder, name)
			if err != nil {
				return e.check(ctx, err)
			}
			slog.Info("FOLDER_RENAMED", "id", id)

			return flags.emit(cmd, renamed, func(w io.Writer) {
				fmt.Fprintf(w, "%s Renamed %s to %s\n", RenderStatus("ok"), folder.Name, renamed.Name)
			})
		},
	}
}

func newFoldersDeleteCmd(flags *rootFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a folder; its conversations become unfiled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("folder", args[0])
			if err != nil {
				return err
			}
			e, err := openEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			if _, err := e.requireUser(); err != nil {
				return err
			}
			if err := confirmDelete(cmd, flags, yes, fmt.Sprintf("Delete folder %d? Its conversations will be unfiled.", id)); err != nil {
				return err
			}
			if err := e.client.DeleteFolder(ctx, id); err != nil {
				return e.check(ctx, err)
			}
			slog.Info("FOLDER_DELETED", "id", id)

			return flags.emit(cmd, map[string]int64{"deleted": id}, func(w io.Writer) {
				fmt.Fprintf(w, "%s Deleted folder %d\n", RenderStatus("ok"), id)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
