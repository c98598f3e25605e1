// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode chat with an agent.
//
// Interactive commands:
//
//	/agent [id]     Show agents or switch agent
//	/new            Start a new conversation
//	/open <id>      Continue an existing conversation
//	/retry          Re-send the last failed message
//	/discard        Drop the last failed message
//	/history        Print the conversation so far
//	/help           Show commands
//	/quit           Exit (Ctrl+D also exits)

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/agentdesk/internal/config"
	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/optimistic"
	"github.com/jeranaias/agentdesk/internal/util"
)

// =============================================================================
// INPUT
// =============================================================================

// lineReader reads one line of user input per call. io.EOF ends the session.
type lineReader interface {
	ReadInput(prompt string) (string, error)
	Close()
}

// historyReader provides line editing and persistent history on a terminal.
type historyReader struct {
	line        *liner.State
	historyFile string
}

func newHistoryReader() *historyReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	r := &historyReader{line: line, historyFile: filepath.Join(configDir, "chat_history")}
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *historyReader) ReadInput(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history with owner-only permissions and restores the terminal.
func (r *historyReader) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			r.line.WriteHistory(f)
			f.Close()
		}
	}
	r.line.Close()
}

// plainReader reads piped input without prompts or history.
type plainReader struct {
	scanner *bufio.Scanner
}

func newPlainReader(in io.Reader) *plainReader {
	return &plainReader{scanner: bufio.NewScanner(in)}
}

func (r *plainReader) ReadInput(string) (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (r *plainReader) Close() {}

// =============================================================================
// COMMAND
// =============================================================================

func newChatCmd(flags *rootFlags) *cobra.Command {
	var agentID, conversationID int64

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with an agent in line mode",
		Long: `Chat with an agent one line at a time. Messages are shown as soon as they
are typed and confirmed when the agent replies; a failed send can be retried
with /retry or dropped with /discard.`,
		Example: `  agentdesk chat --agent 3
  agentdesk chat --conversation 42
  echo "Hello" | agentdesk chat --agent 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			user, err := e.requireUser()
			if err != nil {
				return err
			}

			var reader lineReader
			if f, ok := cmd.InOrStdin().(*os.File); ok && f == os.Stdin && IsTTY() {
				reader = newHistoryReader()
			} else {
				reader = newPlainReader(cmd.InOrStdin())
			}
			defer reader.Close()

			s := &chatSession{e: e, out: cmd.OutOrStdout(), now: time.Now}
			if err := s.start(ctx, agentID, conversationID); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "%s %s\n", TitleStyle.Render("agentdesk chat"),
				DimStyle.Render("signed in as "+user.DisplayName()+". Type /help for commands."))
			s.printAgent()

			err = s.run(ctx, reader)
			e.saveCookies(ctx)
			return err
		},
	}
	cmd.Flags().Int64VarP(&agentID, "agent", "a", 0, "agent to talk to")
	cmd.Flags().Int64VarP(&conversationID, "conversation", "c", 0, "continue this conversation")
	return cmd
}

// =============================================================================
// SESSION
// =============================================================================

// chatSession is the REPL state. It runs the same optimistic pipeline as the
// full-screen chat.
type chatSession struct {
	e   *env
	out io.Writer
	now func() time.Time

	agents         []model.Agent
	agentID        int64
	conversationID *int64
	messages       []model.Message
	pipe           optimistic.Pipeline
}

// start loads the agents and the optional conversation.
func (s *chatSession) start(ctx context.Context, agentID, conversationID int64) error {
	agents, err := s.e.client.ListAgents(ctx)
	if err != nil {
		return s.e.check(ctx, err)
	}
	s.agents = agents

	if conversationID != 0 {
		if err := s.open(ctx, conversationID); err != nil {
			return err
		}
	}
	if agentID != 0 {
		if _, ok := model.FindAgent(s.agents, agentID); !ok {
			return &NotFoundError{Resource: "agent", ID: strconv.FormatInt(agentID, 10)}
		}
		s.agentID = agentID
	}
	return nil
}

// open loads a conversation and selects its first agent.
func (s *chatSession) open(ctx context.Context, id int64) error {
	conv, err := s.e.client.GetConversation(ctx, id)
	if err != nil {
		return s.e.check(ctx, err)
	}
	s.conversationID = int64Ref(conv.ID)
	s.messages = conv.Messages
	s.pipe = optimistic.Pipeline{}
	if agent, ok := conv.PrimaryAgent(); ok {
		s.agentID = agent.ID
	}
	fmt.Fprintf(s.out, "%s %s (%d messages)\n", DimStyle.Render("Opened"), conv.DisplayTitle(), len(conv.Messages))
	return nil
}

// run reads lines until EOF or /quit. Only a dead session ends it with an error.
func (s *chatSession) run(ctx context.Context, reader lineReader) error {
	for {
		line, err := reader.ReadInput(PromptStyle.Render("> "))
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := s.command(ctx, line)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
			continue
		}
		if err := s.send(ctx, line); err != nil {
			return err
		}
	}
}

func (s *chatSession) command(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "/quit", "/q", "/exit":
		return true, nil
	case "/help", "/h":
		s.printHelp()
	case "/agent", "/agents":
		if len(args) == 0 {
			s.printAgents()
			return false, nil
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintln(s.out, WarningStyle.Render("Usage: /agent <id>"))
			return false, nil
		}
		if _, ok := model.FindAgent(s.agents, id); !ok {
			fmt.Fprintln(s.out, WarningStyle.Render(fmt.Sprintf("No agent with id %d", id)))
			return false, nil
		}
		s.agentID = id
		s.printAgent()
	case "/new":
		if s.pipe.Sending() {
			return false, nil
		}
		s.conversationID = nil
		s.messages = nil
		fmt.Fprintln(s.out, DimStyle.Render("New conversation"))
	case "/open":
		if len(args) != 1 {
			fmt.Fprintln(s.out, WarningStyle.Render("Usage: /open <conversation id>"))
			return false, nil
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintln(s.out, WarningStyle.Render("Usage: /open <conversation id>"))
			return false, nil
		}
		if err := s.open(ctx, id); err != nil {
			if errors.Is(err, ErrSessionExpired) {
				return false, err
			}
			fmt.Fprintln(s.out, ErrorStyle.Render(err.Error()))
		}
	case "/retry":
		return false, s.retry(ctx)
	case "/discard":
		localID, ok := optimistic.LastFailed(s.messages)
		if !ok {
			fmt.Fprintln(s.out, DimStyle.Render("Nothing to discard"))
			return false, nil
		}
		s.messages = optimistic.Discard(s.messages, localID)
		fmt.Fprintln(s.out, DimStyle.Render("Discarded the failed message"))
	case "/history":
		for _, m := range s.messages {
			s.printMessage(m)
		}
	default:
		fmt.Fprintln(s.out, WarningStyle.Render("Unknown command "+name+". Type /help."))
	}
	return false, nil
}

// send appends the pending message and delivers it.
func (s *chatSession) send(ctx context.Context, text string) error {
	in := optimistic.Input{Text: text, AgentID: s.agentID, ConversationID: s.conversationID}
	pipe, messages, send, err := s.pipe.Begin(s.messages, in, s.now())
	switch {
	case errors.Is(err, optimistic.ErrNoAgent):
		fmt.Fprintln(s.out, WarningStyle.Render("Select an agent first: /agent <id>"))
		s.printAgents()
		return nil
	case err != nil:
		fmt.Fprintln(s.out, WarningStyle.Render(err.Error()))
		return nil
	}
	s.pipe, s.messages = pipe, messages
	return s.deliver(ctx, send)
}

func (s *chatSession) retry(ctx context.Context) error {
	localID, ok := optimistic.LastFailed(s.messages)
	if !ok {
		fmt.Fprintln(s.out, DimStyle.Render("Nothing to retry"))
		return nil
	}
	in := optimistic.Input{AgentID: s.agentID, ConversationID: s.conversationID}
	pipe, messages, send, err := s.pipe.Retry(s.messages, localID, in)
	if err != nil {
		fmt.Fprintln(s.out, WarningStyle.Render(err.Error()))
		return nil
	}
	s.pipe, s.messages = pipe, messages
	return s.deliver(ctx, send)
}

// deliver performs the request and settles or fails the pending message.
func (s *chatSession) deliver(ctx context.Context, send optimistic.Send) error {
	fmt.Fprintln(s.out, DimStyle.Render("..."))

	resp, err := s.e.client.SendMessage(ctx, send.Request)
	if err != nil {
		s.pipe, s.messages = s.pipe.Fail(s.messages, send.LocalID)
		if err := s.e.check(ctx, err); errors.Is(err, ErrSessionExpired) {
			return err
		}
		fmt.Fprintln(s.out, ErrorStyle.Render("Send failed: "+err.Error()))
		fmt.Fprintln(s.out, DimStyle.Render("Type /retry to send it again or /discard to drop it."))
		return nil
	}

	s.pipe, s.messages = s.pipe.Settle(s.messages, send.LocalID, *resp)
	if send.NewConversation() {
		s.conversationID = int64Ref(resp.ConversationID)
		fmt.Fprintln(s.out, DimStyle.Render(fmt.Sprintf("Started conversation #%d", resp.ConversationID)))
	}
	s.printMessage(resp.AIMessage)
	return nil
}

// =============================================================================
// OUTPUT
// =============================================================================

func (s *chatSession) printMessage(m model.Message) {
	label := UserLabelStyle.Render(m.Author())
	if m.Role == model.RoleAI {
		label = AgentLabelStyle.Render(m.Author())
	}
	if m.IsAutoChat {
		label += " " + WarningStyle.Render("[AUTO]")
	}
	switch {
	case m.Failed:
		label += " " + ErrorStyle.Render("(failed)")
	case m.IsPending():
		label += " " + DimStyle.Render("(sending)")
	}
	fmt.Fprintln(s.out, label)
	fmt.Fprintln(s.out, m.Content)
	fmt.Fprintln(s.out)
}

func (s *chatSession) printAgent() {
	agent, ok := model.FindAgent(s.agents, s.agentID)
	if !ok {
		fmt.Fprintln(s.out, DimStyle.Render("No agent selected. Use /agent <id>."))
		return
	}
	fmt.Fprintln(s.out, DimStyle.Render("Talking to")+" "+AgentLabelStyle.Render(agent.Label()))
}

func (s *chatSession) printAgents() {
	if len(s.agents) == 0 {
		fmt.Fprintln(s.out, DimStyle.Render("No agents available"))
		return
	}
	for _, a := range s.agents {
		marker := "  "
		if a.ID == s.agentID {
			marker = "* "
		}
		fmt.Fprintf(s.out, "%s%s %s\n", marker, util.PadWidth(strconv.FormatInt(a.ID, 10), 5), a.Label())
	}
}

func (s *chatSession) printHelp() {
	fmt.Fprintln(s.out, TitleStyle.Render("Commands"))
	for _, c := range [][2]string{
		{"/agent [id]", "show agents or switch agent"},
		{"/new", "start a new conversation"},
		{"/open <id>", "continue an existing conversation"},
		{"/retry", "re-send the last failed message"},
		{"/discard", "drop the last failed message"},
		{"/history", "print the conversation"},
		{"/quit", "exit"},
	} {
		fmt.Fprintf(s.out, "  %s %s\n", util.PadWidth(c[0], 14), DimStyle.Render(c[1]))
	}
}

func int64Ref(v int64) *int64 {
	return &v
}
