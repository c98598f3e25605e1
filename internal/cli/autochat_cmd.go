// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jeranaias/agentdesk/internal/model"
)

func newAutoChatCmd(flags *rootFlags) *cobra.Command {
	req := model.AutoChatRequest{Iterations: model.DefaultAutoChatIterations}

	cmd := &cobra.Command{
		Use:   "autochat",
		Short: "Launch an agent-to-agent conversation (administrators)",
		Long: `Launch an auto-chat: a metier agent opens with an initial message and a
client agent answers, for the given number of exchanges. The backend runs it in
the background; the conversation appears in "conversations list" as [AUTO].

The initial message defaults to the metier agent's first prompt.`,
		Example: `  agentdesk autochat --agent-a 2 --agent-b 3
  agentdesk autochat --agent-a 2 --agent-b 3 --message "Bonjour" --iterations 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Iterations < model.MinAutoChatIterations || req.Iterations > model.MaxAutoChatIterations {
				return &ValidationError{
					Field:  "iterations",
					Value:  strconv.Itoa(req.Iterations),
					Reason: fmt.Sprintf("must be between %d and %d", model.MinAutoChatIterations, model.MaxAutoChatIterations),
				}
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
			agents, err := e.client.ListAgents(ctx)
			if err != nil {
				return e.check(ctx, err)
			}

			agentA, ok := model.FindAgent(model.FilterAgents(agents, model.AgentTypeMetier), req.AgentAID)
			if !ok {
				return &ValidationError{Field: "agent-a", Value: strconv.FormatInt(req.AgentAID, 10), Reason: "must be a metier agent"}
			}
			if _, ok := model.FindAgent(model.FilterAgents(agents, model.AgentTypeClient), req.AgentBID); !ok {
				return &ValidationError{Field: "agent-b", Value: strconv.FormatInt(req.AgentBID, 10), Reason: "must be a client agent"}
			}
			if req.InitialMessage == "" {
				req.InitialMessage = agentA.FirstPrompt
			}
			if err := req.Validate(); err != nil {
				return err
			}

			started, err := e.client.AutoChat(ctx, req)
			if err != nil {
				return e.check(ctx, err)
			}
			slog.Info("AUTOCHAT_STARTED", "agent_a", req.AgentAID, "agent_b", req.AgentBID,
				"iterations", req.Iterations, "task", started.TaskID)

			return flags.emit(cmd, started, func(w io.Writer) {
				msg := started.Message
				if msg == "" {
					msg = "Auto-chat started"
				}
				fmt.Fprintf(w, "%s %s\n", RenderStatus("ok"), msg)
				if started.TaskID != "" {
					fmt.Fprintln(w, RenderLabel("Task")+DimStyle.Render(started.TaskID))
				}
			})
		},
	}
	f := cmd.Flags()
	f.Int64Var(&req.AgentAID, "agent-a", 0, "metier agent that opens the conversation")
	f.Int64Var(&req.AgentBID, "agent-b", 0, "client agent that answers")
	f.StringVarP(&req.InitialMessage, "message", "m", "", "opening message (default: agent A's first prompt)")
	f.IntVarP(&req.Iterations, "iterations", "n", model.DefaultAutoChatIterations, "number of exchanges (1-20)")
	_ = cmd.MarkFlagRequired("agent-a")
	_ = cmd.MarkFlagRequired("agent-b")
	return cmd
}
