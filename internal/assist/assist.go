// Package assist turns natural-language instructions into editor
// commands by running an external text-generation CLI as a subprocess
// and parsing the command blocks out of its reply.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

const systemPrompt = `You are a structural engineering assistant inside a 2D frame analysis application.
You receive the current model state and a user instruction, and you answer with explanatory text plus structured commands the application executes.

When you need to modify the model, output commands inside a JSON code block preceded by the marker <!--COMMANDS-->:

<!--COMMANDS-->
` + "```json" + `
[
  {"cmd": "command_name", "args": {"param": "value"}}
]
` + "```" + `

Available commands: clear_model, add_node (x, y in m), add_beam (node1_id, node2_id, profile_name), add_support (node_id, type: pinned|roller|fixed|roller_x), set_end_releases (beam_id, start_moment_released, end_moment_released), add_distributed_load (beam_id, qy_start in N/m, start_t, end_t, coord_system), add_point_load (node_id, fx, fy, mz), run_analysis, get_results, delete_element (element_type, id).

Units are N, m, Pa internally. Negative qy and fy point downward. Node and beam ids start at 1. Create nodes first, then beams, then supports, then loads.`

// Command is one proposed editor action.
type Command struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// Request is the chat payload: the instruction, a summary of the current
// model, and recent conversation turns.
type Request struct {
	Message             string           `json:"message"`
	ModelState          map[string]any   `json:"model_state,omitempty"`
	ConversationHistory []map[string]any `json:"conversation_history,omitempty"`
}

type Response struct {
	Response string    `json:"response,omitempty"`
	Commands []Command `json:"commands,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Runner invokes the generation CLI. CLI is the executable name; the
// prompt goes to stdin and the raw reply comes back on stdout.
type Runner struct {
	CLI     string
	Timeout time.Duration
}

func NewRunner(cli string) *Runner {
	if cli == "" {
		cli = "claude"
	}
	return &Runner{CLI: cli, Timeout: 120 * time.Second}
}

// Available reports whether the CLI can be invoked at all.
func (r *Runner) Available() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, r.CLI, "--version").Run() == nil
}

// Chat builds the prompt, runs the CLI and parses its reply.
func (r *Runner) Chat(ctx context.Context, req *Request) *Response {
	prompt := buildPrompt(req)

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.CLI, "-p", "--output-format", "text")
	cmd.Stdin = strings.NewReader(prompt)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &Response{Error: fmt.Sprintf("assistant CLI timed out after %s", r.Timeout)}
		}
		if errors.Is(err, exec.ErrNotFound) {
			return &Response{Error: fmt.Sprintf("assistant CLI %q not found", r.CLI)}
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return &Response{Error: "assistant CLI error: " + msg}
		}
		return &Response{Error: "assistant CLI error: " + err.Error()}
	}

	raw := strings.TrimSpace(stdout.String())
	if raw == "" {
		return &Response{Error: "assistant CLI returned an empty response"}
	}
	return parseReply(raw)
}

func buildPrompt(req *Request) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n---\n")

	if st := req.ModelState; st != nil {
		b.WriteString("## CURRENT MODEL STATE\n")
		for _, key := range []string{"node_count", "beam_count", "support_count", "load_case_count", "is_solved", "analysis_type"} {
			if v, ok := st[key]; ok {
				fmt.Fprintf(&b, "%s: %v\n", key, v)
			}
		}
		for _, key := range []string{"nodes", "beams", "load_cases"} {
			if v, ok := st[key]; ok {
				detail, err := json.Marshal(v)
				if err == nil {
					fmt.Fprintf(&b, "\n%s: %s\n", key, detail)
				}
			}
		}
		b.WriteString("\n")
	}

	if len(req.ConversationHistory) > 0 {
		b.WriteString("## CONVERSATION HISTORY\n")
		history := req.ConversationHistory
		// keep only the recent turns within context
		if len(history) > 10 {
			history = history[len(history)-10:]
		}
		for _, entry := range history {
			role, _ := entry["role"].(string)
			content, _ := entry["content"].(string)
			switch role {
			case "assistant":
				fmt.Fprintf(&b, "Assistant: %s\n", content)
			default:
				fmt.Fprintf(&b, "User: %s\n", content)
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## USER MESSAGE\n%s", req.Message)
	return b.String()
}

var (
	markedBlockRe = regexp.MustCompile("(?s)<!--COMMANDS-->\\s*```json\\s*\n?(.*?)```")
	bareBlockRe   = regexp.MustCompile("(?s)```json\\s*\n?(\\[.*?\\])```")
)

// parseReply splits the raw CLI output into explanatory text and the
// proposed commands. Command blocks that fail to parse are ignored.
func parseReply(raw string) *Response {
	var commands []Command
	for _, m := range markedBlockRe.FindAllStringSubmatch(raw, -1) {
		commands = append(commands, decodeCommands(m[1])...)
	}
	if len(commands) == 0 {
		// fallback: a JSON array without the marker
		for _, m := range bareBlockRe.FindAllStringSubmatch(raw, -1) {
			commands = append(commands, decodeCommands(m[1])...)
		}
	}

	text := strings.TrimSpace(markedBlockRe.ReplaceAllString(raw, ""))
	return &Response{Response: text, Commands: commands}
}

func decodeCommands(blob string) []Command {
	var items []map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(blob)), &items); err != nil {
		return nil
	}
	var out []Command
	for _, item := range items {
		name, ok := item["cmd"].(string)
		if !ok {
			continue
		}
		args, _ := item["args"].(map[string]any)
		out = append(out, Command{Tool: name, Args: args})
	}
	return out
}
