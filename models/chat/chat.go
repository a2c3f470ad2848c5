package chat

import (
	"context"
	"strings"
)

// Requester is the principal issuing a command.
type Requester struct {
	UserId   int64  `json:"userId" mapstructure:"userId"`
	ChatId   string `json:"chatId" mapstructure:"chatId"`
	Username string `json:"username,omitempty" mapstructure:"username"`
}

// Command is one inbound chat command, already split into name and arguments.
type Command struct {
	Id        string
	Name      string
	Args      []string
	Requester Requester
}

type Format string

const (
	FormatPlain    Format = "plain"
	FormatHtml     Format = "html"
	FormatMarkdown Format = "markdown"
)

type MediaType string

const (
	MediaNone      MediaType = ""
	MediaPhoto     MediaType = "photo"
	MediaAnimation MediaType = "animation"
)

type Reply struct {
	Text      string
	Format    Format
	Media     []byte
	MediaType MediaType
	Failed    bool
}

func TextReply(text string) *Reply {
	return &Reply{Text: text, Format: FormatPlain}
}

func HtmlReply(text string) *Reply {
	return &Reply{Text: text, Format: FormatHtml}
}

func FailureReply(text string) *Reply {
	return &Reply{Text: text, Format: FormatPlain, Failed: true}
}

// ReplySink delivers replies back to the requester's chat.
type ReplySink interface {
	Send(ctx context.Context, reply *Reply) error
}

type ReplySinkFunc func(ctx context.Context, reply *Reply) error

func (f ReplySinkFunc) Send(ctx context.Context, reply *Reply) error {
	return f(ctx, reply)
}

// ParseCommand splits "/getpic_cam_1@my_bot arg" into name "getpic_cam_1"
// and args ["arg"]. ok is false for text that is not a command.
func ParseCommand(text string) (name string, args []string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, false
	}
	name = strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return "", nil, false
	}
	return strings.ToLower(name), fields[1:], true
}
