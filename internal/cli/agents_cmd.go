// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/util"
)

func newAgentsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "agents",
		Aliases: []string{"agent"},
		Short:   "List and manage agents",
	}
	cmd.AddCommand(
		newAgentsListCmd(flags),
		newAgentsShowCmd(flags),
		newAgentsModelsCmd(flags),
		newAgentsDuplicateCmd(flags),
		newAgentsDeleteCmd(flags),
	)
	return cmd
}

func newAgentsListCmd(flags *rootFlags) *cobra.Command {
	var agentType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := model.AgentType(strings.ToLower(agentType))
			if t != "" && !t.Valid() {
				return &ValidationError{Field: "type", Value: agentType, Reason: "must be client or metier"}
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
			agents, err := e.client.ListAgents(ctx)
			if err != nil {
				return e.check(ctx, err)
			}
			if t != "" {
				agents = model.FilterAgents(agents, t)
			}

			return flags.emit(cmd, agents, func(w io.Writer) {
				writeAgentTable(w, agents)
			})
		},
	}
	cmd.Flags().StringVar(&agentType, "type", "", "only show agents of this type (client, metier)")
	return cmd
}

func writeAgentTable(w io.Writer, agents []model.Agent) {
	if len(agents) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No agents"))
		return
	}
	fmt.Fprintln(w, TitleStyle.Render(
		util.PadWidth("ID", 6)+util.PadWidth("NAME", 28)+util.PadWidth("TYPE", 8)+util.PadWidth("MODEL", 24)+"ACTIVE"))
	for _, a := range agents {
		active := "yes"
		if !a.IsActive {
			active = "no"
		}
		fmt.Fprintln(w,
			util.PadWidth(strconv.FormatInt(a.ID, 10), 6)+
				util.PadWidth(util.TruncateWidth(a.Name, 26), 28)+
				util.PadWidth(a.EffectiveType().DisplayName(), 8)+
				util.PadWidth(util.TruncateWidth(a.Model, 22), 24)+
				active)
	}
}

func newAgentsShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("agent", args[0])
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
			agent, err := e.client.GetAgent(ctx, id)
			if err != nil {
				return e.check(ctx, err)
			}

			return flags.emit(cmd, agent, func(w io.Writer) {
				fmt.Fprintln(w, TitleStyle.Render(agent.Name)+" "+RenderStatus(activeStatus(agent.IsActive)))
				fmt.Fprintln(w, RenderSeparator(40))
				fmt.Fprintln(w, RenderLabel("ID")+ValueStyle.Render(strconv.FormatInt(agent.ID, 10)))
				fmt.Fprintln(w, RenderLabel("Type")+ValueStyle.Render(agent.EffectiveType().DisplayName()))
				fmt.Fprintln(w, RenderLabel("Model")+ValueStyle.Render(agent.Model))
				fmt.Fprintln(w, RenderLabel("Temperature")+ValueStyle.Render(strconv.FormatFloat(agent.Temperature, 'g', -1, 64)))
				fmt.Fprintln(w, RenderLabel("Max tokens")+ValueStyle.Render(strconv.Itoa(agent.MaxTokens)))
				if len(agent.Categories) > 0 {
					fmt.Fprintln(w, RenderLabel("Categories")+ValueStyle.Render(strings.Join(agent.Categories, ", ")))
				}
				if agent.Description != "" {
					fmt.Fprintln(w, RenderLabel("Description")+ValueStyle.Render(agent.Description))
				}
				if agent.FirstPrompt != "" {
					fmt.Fprintln(w, RenderLabel("First prompt")+ValueStyle.Render(agent.FirstPrompt))
				}
			})
		},
	}
}

func activeStatus(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func newAgentsModelsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the LLM models agents can use",
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
			models, err := e.client.AvailableModels(ctx)
			if err != nil {
				return e.check(ctx, err)
			}

			return flags.emit(cmd, models, func(w io.Writer) {
				if len(models) == 0 {
					fmt.Fprintln(w, DimStyle.Render("No models available"))
					return
				}
				fmt.Fprintln(w, TitleStyle.Render(util.PadWidth("ID", 28)+util.PadWidth("NAME", 28)+"PROVIDER"))
				for _, m := range models {
					fmt.Fprintln(w, util.PadWidth(util.TruncateWidth(m.ID, 26), 28)+
						util.PadWidth(util.TruncateWidth(m.Label(), 26), 28)+m.Provider)
				}
			})
		},
	}
}

func newAgentsDuplicateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Copy an agent (administrators)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("agent", args[0])
			if err != nil {
				return err
			}
			e, err := openEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			if _, err := e.requireAdmin(); err != nil {
				return err
			}
			copied, err := e.client.DuplicateAgent(ctx, id)
			if err != nil {
				return e.check(ctx, err)
			}
			slog.Info("AGENT_DUPLICATED", "source", id, "id", copied.ID)

			return flags.emit(cmd, copied, func(w io.Writer) {
				fmt.Fprintf(w, "%s Created %s (id %d)\n", RenderStatus("ok"), copied.Name, copied.ID)
			})
		},
	}
}

func newAgentsDeleteCmd(flags *rootFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an agent (administrators)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("agent", args[0])
			if err != nil {
				return err
			}
			e, err := openEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			if _, err := e.requireAdmin(); err != nil {
				return err
			}
			if err := confirmDelete(cmd, flags, yes, fmt.Sprintf("Delete agent %d?", id)); err != nil {
				return err
			}
			if err := e.client.DeleteAgent(ctx, id); err != nil {
				return e.check(ctx, err)
			}
			slog.Info("AGENT_DELETED", "id", id)

			return flags.emit(cmd, map[string]int64{"deleted": id}, func(w io.Writer) {
				fmt.Fprintf(w, "%s Deleted agent %d\n", RenderStatus("ok"), id)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// confirmDelete asks before a destructive call. --json mode cannot prompt, so
// it requires --yes.
func confirmDelete(cmd *cobra.Command, flags *rootFlags, yes bool, question string) error {
	if yes {
		return nil
	}
	if flags.json {
		return &usageError{err: errors.New("--yes is required with --json")}
	}
	ok, err := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr()).Confirm(question)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}
