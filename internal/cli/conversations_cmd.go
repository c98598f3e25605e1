// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jeranaias/agentdesk/internal/export"
	"github.com/jeranaias/agentdesk/internal/folders"
	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/util"
)

func newConversationsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"conv", "conversation"},
		Short:   "List and organize conversations",
	}
	cmd.AddCommand(
		newConversationsListCmd(flags),
		newConversationsShowCmd(flags),
		newConversationsDeleteCmd(flags),
		newConversationsMoveCmd(flags),
		newConversationsExportCmd(flags),
	)
	return cmd
}

func newConversationsListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List conversations grouped by folder",
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
			folderList, err := e.client.ListFolders(ctx)
			if err != nil {
				return e.check(ctx, err)
			}
			convs, err := e.client.ListConversations(ctx)
			if err != nil {
				return e.check(ctx, err)
			}
			groups := folders.Partition(folderList, convs, detectLang())

			data := make([]ConversationGroupData, 0, len(groups))
			for _, g := range groups {
				gd := ConversationGroupData{FolderID: g.Target(), Name: g.Name(), Conversations: []ConversationData{}}
				for _, c := range g.Conversations {
					gd.Conversations = append(gd.Conversations, ConversationData{
						ID:           c.ID,
						Title:        c.DisplayTitle(),
						Type:         string(c.Type),
						MessageCount: c.MessageCount,
						UpdatedAt:    c.UpdatedAt,
					})
				}
				data = append(data, gd)
			}

			return flags.emit(cmd, data, func(w io.Writer) {
				for i, g := range groups {
					if i > 0 {
						fmt.Fprintln(w)
					}
					fmt.Fprintf(w, "%s %s\n", TitleStyle.Render(g.Name()), DimStyle.Render(fmt.Sprintf("(%d)", len(g.Conversations))))
					if len(g.Conversations) == 0 {
						fmt.Fprintln(w, DimStyle.Render("  empty"))
						continue
					}
					for _, c := range g.Conversations {
						writeConversationRow(w, c)
					}
				}
			})
		},
	}
}

// titleWidth is the title column width for a terminal of the given width,
// leaving room for the id, count and time columns.
func titleWidth(termWidth int) int {
	w := termWidth - 32
	if w < 20 {
		return 20
	}
	if w > 60 {
		return 60
	}
	return w
}

func writeConversationRow(w io.Writer, c model.Conversation) {
	width := titleWidth(GetTerminalWidth())
	title := util.TruncateWidth(c.DisplayTitle(), width)
	if c.Type == model.ConversationTypeAuto {
		title = util.TruncateWidth(c.DisplayTitle(), width-len(" [AUTO]")) + " [AUTO]"
	}
	when := ""
	if !c.UpdatedAt.IsZero() {
		when = humanize.Time(c.UpdatedAt)
	}
	fmt.Fprintf(w, "  %s%s%s%s\n",
		util.PadWidth("#"+strconv.FormatInt(c.ID, 10), 8),
		util.PadWidth(title, width+2),
		util.PadWidth(fmt.Sprintf("%d msgs", c.MessageCount), 10),
		DimStyle.Render(when))
}

func newConversationsShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a conversation's messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("conversation", args[0])
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
			conv, err := e.client.GetConversation(ctx, id)
			if err != nil {
				return e.check(ctx, err)
			}

			return flags.emit(cmd, conv, func(w io.Writer) {
				fmt.Fprintln(w, TitleStyle.Render(conv.DisplayTitle()))
				if conv.FolderName != "" {
					fmt.Fprintln(w, DimStyle.Render("in "+conv.FolderName))
				}
				fmt.Fprintln(w, RenderSeparator())
				s := &chatSession{out: w}
				for _, m := range conv.Messages {
					s.printMessage(m)
				}
			})
		},
	}
}

func newConversationsDeleteCmd(flags *rootFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("conversation", args[0])
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
			if err := confirmDelete(cmd, flags, yes, fmt.Sprintf("Delete conversation %d?", id)); err != nil {
				return err
			}
			if err := e.client.DeleteConversation(ctx, id); err != nil {
				return e.check(ctx, err)
			}
			slog.Info("CONVERSATION_DELETED", "id", id)

			return flags.emit(cmd, map[string]int64{"deleted": id}, func(w io.Writer) {
				fmt.Fprintf(w, "%s Deleted conversation %d\n", RenderStatus("ok"), id)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newConversationsMoveCmd(flags *rootFlags) *cobra.Command {
	var unfiled bool

	cmd := &cobra.Command{
		Use:   "move <id> [folder-id]",
		Short: "File a conversation into a folder, or --unfiled to remove it from one",
		Example: `  agentdesk conversations move 42 7
  agentdesk conversations move 42 --unfiled`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("conversation", args[0])
			if err != nil {
				return err
			}
			switch {
			case unfiled && len(args) == 2:
				return &usageError{err: errors.New("give a folder id or --unfiled, not both")}
			case !unfiled && len(args) == 1:
				return &usageError{err: errors.New("a folder id or --unfiled is required")}
			}

			var target *int64
			if !unfiled {
				folderID, err := parseID("folder", args[1])
				if err != nil {
					return err
				}
				target = &folderID
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

			name := folders.UnfiledName
			if target != nil {
				list, err := e.client.ListFolders(ctx)
				if err != nil {
					return e.check(ctx, err)
				}
				folder, ok := model.FindFolder(list, *target)
				if !ok {
					return &NotFoundError{Resource: "folder", ID: strconv.FormatInt(*target, 10)}
				}
				name = folder.Name
			}

			if err := e.client.MoveConversation(ctx, id, target); err != nil {
				return e.check(ctx, err)
			}
			slog.Info("CONVERSATION_MOVED", "id", id, "folder", target)

			return flags.emit(cmd, map[string]interface{}{"conversation_id": id, "folder_id": target}, func(w io.Writer) {
				fmt.Fprintf(w, "%s Moved conversation %d to %s\n", RenderStatus("ok"), id, name)
			})
		},
	}
	cmd.Flags().BoolVar(&unfiled, "unfiled", false, "remove the conversation from its folder")
	return cmd
}

func newConversationsExportCmd(flags *rootFlags) *cobra.Command {
	var (
		format     string
		outputDir  string
		noMetadata bool
	)
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a conversation as Markdown or JSON",
		Long: `Export a conversation as Markdown or JSON.

Without --output the export is written to stdout. With --output it is saved
as a timestamped file in that directory and the path is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("conversation", args[0])
			if err != nil {
				return err
			}
			opts := export.DefaultOptions()
			opts.OutputDir = outputDir
			opts.IncludeMetadata = !noMetadata
			exporter, err := export.ForFormat(format, opts)
			if err != nil {
				return &ValidationError{Field: "format", Value: format, Reason: err.Error(), Example: "--format markdown"}
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
			conv, err := e.client.GetConversation(ctx, id)
			if err != nil {
				return e.check(ctx, err)
			}

			if outputDir == "" {
				data, err := exporter.Export(conv)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			path, err := export.ExportToFile(conv, exporter, opts)
			if err != nil {
				return err
			}
			slog.Info("CONVERSATION_EXPORTED", "id", conv.ID, "path", path)
			return flags.emit(cmd, ExportData{ConversationID: conv.ID, Format: exporter.MimeType(), Path: path}, func(w io.Writer) {
				fmt.Fprintf(w, "Exported %s to %s\n", conv.DisplayTitle(), path)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "export format: markdown or json")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory to save the export in (default: stdout)")
	cmd.Flags().BoolVar(&noMetadata, "no-metadata", false, "omit frontmatter and export details")
	return cmd
}
