package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bebetterst/lightAIchat/llm"
)

func newChatCommand(a *app) *cobra.Command {
	var (
		historyFile string
		noStream    bool
	)
	cmd := &cobra.Command{
		Use:   "chat [text...]",
		Short: "Send a message and print the reply",
		Long: `Send a message to the configured provider and print the reply.

The arguments are joined into one user message. With --history, the JSON array of
{"role","content"} messages in the file is sent before it. Use "-" to read the
message from stdin.

Examples:
  lightaichat chat "what is a goroutine?"
  lightaichat chat --history turns.json --no-stream "and a channel?"`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.ErrOrStderr()); err != nil {
				return err
			}

			conv, err := buildConversation(historyFile, args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if len(conv) == 0 {
				return errors.New("nothing to send: pass a message or --history")
			}

			settings, err := a.store.Current(cmd.Context())
			if err != nil {
				return err
			}
			if settings != nil && noStream {
				settings.Stream = false
			}

			out := cmd.OutOrStdout()
			p := newProgressPrinter(out)
			var onProgress llm.ProgressFunc
			if settings != nil && settings.Stream {
				onProgress = p.update
			}

			reply, err := a.service.Dispatch(cmd.Context(), settings, conv, onProgress)
			if err != nil {
				if p.started() {
					fmt.Fprintln(out)
				}
				return err
			}
			if !p.started() {
				p.update(reply)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&historyFile, "history", "", "JSON file with earlier messages")
	cmd.Flags().BoolVar(&noStream, "no-stream", false, "wait for the full reply instead of streaming")
	return cmd
}

func buildConversation(historyFile string, args []string, stdin io.Reader) (llm.Conversation, error) {
	var conv llm.Conversation
	if historyFile != "" {
		raw, err := os.ReadFile(historyFile)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &conv); err != nil {
			return nil, fmt.Errorf("history %s: %w", historyFile, err)
		}
		for i, m := range conv {
			if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
				return nil, fmt.Errorf("history %s: message %d has unknown role %q", historyFile, i, m.Role)
			}
		}
	}

	text := strings.Join(args, " ")
	if text == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		text = string(raw)
	}
	if text = strings.TrimSpace(text); text != "" {
		conv = append(conv, llm.User(text))
	}
	return conv, nil
}

// progressPrinter 把累计文本的增量写到终端，思考过程以暗色显示
type progressPrinter struct {
	w         io.Writer
	faint     *color.Color
	prev      string
	reasoning int
	answer    int
	answering bool
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{w: w, faint: color.New(color.Faint, color.Italic)}
}

func (p *progressPrinter) started() bool { return p.reasoning > 0 || p.answer > 0 }

func (p *progressPrinter) update(cumulative string) {
	r, ans := p.split(cumulative)
	p.prev = cumulative
	if !p.answering && len(r) > p.reasoning {
		p.faint.Fprint(p.w, r[p.reasoning:])
		p.reasoning = len(r)
	}
	if len(ans) > p.answer {
		if !p.answering && p.reasoning > 0 {
			fmt.Fprint(p.w, "\n\n")
		}
		p.answering = true
		fmt.Fprint(p.w, ans[p.answer:])
		p.answer = len(ans)
	}
}

// split 借助上一次的累计文本定位思考与回答的分界。
// 思考阶段的累计文本总以 "</div>\n\n" 结尾，之后只在末尾追加的部分才是回答，
// 因此思考内容里出现同样的分隔符也不会提前切开。
// 剩余的歧义：新增的思考片段恰好以分隔符开头时会被当作回答，
// 一次性输出的回复若回答本身以分隔符结尾则会被当作思考。
func (p *progressPrinter) split(s string) (reasoning, answer string) {
	rest, ok := strings.CutPrefix(s, llm.ReasoningOpen)
	if !ok {
		return "", s
	}
	if p.answering && strings.HasPrefix(rest[min(p.reasoning, len(rest)):], reasoningSep) {
		return rest[:p.reasoning], rest[p.reasoning+len(reasoningSep):]
	}
	if strings.HasSuffix(p.prev, reasoningSep) && strings.HasPrefix(s, p.prev) && len(s) > len(p.prev) {
		prevRest := strings.TrimPrefix(p.prev, llm.ReasoningOpen)
		return strings.TrimSuffix(prevRest, reasoningSep), s[len(p.prev):]
	}
	if r, ok := strings.CutSuffix(rest, reasoningSep); ok {
		return r, ""
	}
	return splitComposed(s)
}

var reasoningSep = llm.ReasoningClose + "\n\n"

// splitComposed 是 llm.ComposeReasoning 的逆操作，在第一个分隔符处切分。
// 没有上下文时无法区分思考内容中的分隔符，只用于非流式的完整回复。
func splitComposed(s string) (reasoning, answer string) {
	rest, ok := strings.CutPrefix(s, llm.ReasoningOpen)
	if !ok {
		return "", s
	}
	i := strings.Index(rest, reasoningSep)
	if i < 0 {
		return rest, ""
	}
	return rest[:i], rest[i+len(reasoningSep):]
}
