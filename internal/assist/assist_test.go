package assist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReplyMarkedBlock(t *testing.T) {
	raw := "I added a beam between the supports.\n\n" +
		"<!--COMMANDS-->\n```json\n" +
		`[{"cmd": "add_node", "args": {"x": 0, "y": 0}}, {"cmd": "run_analysis"}]` +
		"\n```\n"

	resp := parseReply(raw)
	require.Len(t, resp.Commands, 2)
	assert.Equal(t, "add_node", resp.Commands[0].Tool)
	assert.Equal(t, 0.0, resp.Commands[0].Args["x"])
	assert.Equal(t, "run_analysis", resp.Commands[1].Tool)
	assert.Nil(t, resp.Commands[1].Args)

	assert.Equal(t, "I added a beam between the supports.", resp.Response)
	assert.Empty(t, resp.Error)
}

func TestParseReplyBareBlockFallback(t *testing.T) {
	raw := "Here is the model:\n```json\n" +
		`[{"cmd": "clear_model"}]` +
		"```\nDone."

	resp := parseReply(raw)
	require.Len(t, resp.Commands, 1)
	assert.Equal(t, "clear_model", resp.Commands[0].Tool)
}

func TestParseReplyIgnoresBrokenBlocks(t *testing.T) {
	raw := "Sorry, that went wrong.\n<!--COMMANDS-->\n```json\nnot json at all\n```"

	resp := parseReply(raw)
	assert.Empty(t, resp.Commands)
	assert.Equal(t, "Sorry, that went wrong.", resp.Response)
}

func TestParseReplyTextOnly(t *testing.T) {
	resp := parseReply("A pinned support blocks both translations.")
	assert.Empty(t, resp.Commands)
	assert.Equal(t, "A pinned support blocks both translations.", resp.Response)
}

func TestDecodeCommandsSkipsEntriesWithoutName(t *testing.T) {
	cmds := decodeCommands(`[{"args": {"x": 1}}, {"cmd": "add_node", "args": {"x": 2}}]`)
	require.Len(t, cmds, 1)
	assert.Equal(t, "add_node", cmds[0].Tool)
}

func TestBuildPrompt(t *testing.T) {
	req := &Request{
		Message: "add a 6 m beam",
		ModelState: map[string]any{
			"node_count": 4,
			"is_solved":  false,
			"nodes":      []map[string]any{{"id": 1, "x": 0, "y": 0}},
		},
		ConversationHistory: []map[string]any{
			{"role": "user", "content": "clear the model"},
			{"role": "assistant", "content": "Cleared."},
		},
	}

	prompt := buildPrompt(req)
	assert.Contains(t, prompt, "structural engineering assistant")
	assert.Contains(t, prompt, "node_count: 4")
	assert.Contains(t, prompt, `"id":1`)
	assert.Contains(t, prompt, "User: clear the model")
	assert.Contains(t, prompt, "Assistant: Cleared.")
	assert.True(t, strings.HasSuffix(prompt, "add a 6 m beam"))
}

func TestBuildPromptTrimsHistory(t *testing.T) {
	req := &Request{Message: "hi"}
	for i := 0; i < 30; i++ {
		req.ConversationHistory = append(req.ConversationHistory,
			map[string]any{"role": "user", "content": "turn"})
	}
	prompt := buildPrompt(req)
	assert.Equal(t, 10, strings.Count(prompt, "User: turn"))
}

func TestChatReportsMissingCLI(t *testing.T) {
	r := &Runner{CLI: "definitely-not-a-real-binary-xyz", Timeout: 5 * time.Second}
	resp := r.Chat(context.Background(), &Request{Message: "hello"})
	require.NotEmpty(t, resp.Error)
	assert.Empty(t, resp.Commands)
}

func TestChatHandlerValidation(t *testing.T) {
	h := &Handler{Runner: NewRunner("definitely-not-a-real-binary-xyz")}

	rec := httptest.NewRecorder()
	h.Chat(rec, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{bad")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Chat(rec, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":""}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner("")
	assert.Equal(t, "claude", r.CLI)
	assert.NotZero(t, r.Timeout)

	assert.Equal(t, "mycli", NewRunner("mycli").CLI)
}
