package custff

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const defaultBinary = "ffmpeg"

var rtspInputArguments = ffmpeg.KwArgs{
	"rtsp_transport": "tcp",
	"fflags":         "+genpts+discardcorrupt",
	"timeout":        "5000000",
}

type ffmpegCommand struct {
	binPath         string
	sourceUrl       string
	destinationUrl  string
	inputArguments  ffmpeg.KwArgs
	outputArguments ffmpeg.KwArgs
	globalArguments []string
	overwrite       bool
}

func NewFFmpegCommand() *ffmpegCommand {
	return &ffmpegCommand{
		inputArguments:  ffmpeg.KwArgs{},
		outputArguments: ffmpeg.KwArgs{},
		globalArguments: []string{"-hide_banner", "-loglevel", "error"},
	}
}

func (c *ffmpegCommand) WithBinPath(path string) *ffmpegCommand {
	c.binPath = path
	return c
}

func (c *ffmpegCommand) WithSourceUrl(url string) *ffmpegCommand {
	c.sourceUrl = url
	return c
}

func (c *ffmpegCommand) WithDestinationUrl(url string) *ffmpegCommand {
	c.destinationUrl = url
	return c
}

func (c *ffmpegCommand) WithInputArguments(args ffmpeg.KwArgs) *ffmpegCommand {
	for k, v := range args {
		c.inputArguments[k] = v
	}
	return c
}

// WithOutputArguments merges args into the output section. Keys may be given
// with or without the leading dash.
func (c *ffmpegCommand) WithOutputArguments(args map[string]string) *ffmpegCommand {
	for k, v := range args {
		c.outputArguments[strings.TrimPrefix(k, "-")] = v
	}
	return c
}

func (c *ffmpegCommand) WithDuration(d time.Duration) *ffmpegCommand {
	if d > 0 {
		c.outputArguments["t"] = fmt.Sprintf("%.0f", d.Seconds())
	}
	return c
}

func (c *ffmpegCommand) WithOverwrite() *ffmpegCommand {
	c.overwrite = true
	return c
}

func (c *ffmpegCommand) Args() ([]string, error) {
	if c.sourceUrl == "" {
		return nil, fmt.Errorf("source URL is required")
	}
	if c.destinationUrl == "" {
		return nil, fmt.Errorf("destination URL is required")
	}
	stream := ffmpeg.Input(c.sourceUrl, c.inputArguments).
		Output(c.destinationUrl, c.outputArguments).
		GlobalArgs(c.globalArguments...)
	if c.overwrite {
		stream = stream.OverWriteOutput()
	}
	return stream.GetArgs(), nil
}

func (c *ffmpegCommand) Binary() string {
	if c.binPath != "" {
		return c.binPath
	}
	return defaultBinary
}

func (c *ffmpegCommand) String() (string, error) {
	args, err := c.Args()
	if err != nil {
		return "", err
	}
	return c.Binary() + " " + strings.Join(args, " "), nil
}

// Command builds a process that is killed when ctx ends.
func (c *ffmpegCommand) Command(ctx context.Context) (*exec.Cmd, error) {
	args, err := c.Args()
	if err != nil {
		return nil, err
	}
	return exec.CommandContext(ctx, c.Binary(), args...), nil
}

// Process builds a process that is only stopped by signals.
func (c *ffmpegCommand) Process() (*exec.Cmd, error) {
	args, err := c.Args()
	if err != nil {
		return nil, err
	}
	return exec.Command(c.Binary(), args...), nil
}
