package custff

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RecorderOptions struct {
	BinPath     string
	OutputDir   string
	MaxDuration time.Duration
	Scale       string
}

type clip struct {
	path string
	cmd  *exec.Cmd
	done chan error
}

// ClipRecorder records short mp4 clips, at most one per key at a time.
type ClipRecorder struct {
	mu    sync.Mutex
	clips map[string]*clip
	opts  RecorderOptions

	factory func(source string, output string) (*exec.Cmd, error)
}

func NewClipRecorder(opts RecorderOptions) *ClipRecorder {
	if opts.OutputDir == "" {
		opts.OutputDir = os.TempDir()
	}
	r := &ClipRecorder{
		clips: map[string]*clip{},
		opts:  opts,
	}
	r.factory = r.buildCommand
	return r
}

func (r *ClipRecorder) buildCommand(source string, output string) (*exec.Cmd, error) {
	outputArgs := map[string]string{
		"an":       "",
		"c:v":      "libx264",
		"preset":   "veryfast",
		"movflags": "+faststart",
		"f":        "mp4",
	}
	if r.opts.Scale != "" {
		outputArgs["vf"] = fmt.Sprintf("scale=%s", r.opts.Scale)
	}
	return NewFFmpegCommand().
		WithBinPath(r.opts.BinPath).
		WithSourceUrl(source).
		WithInputArguments(rtspInputArguments).
		WithOutputArguments(outputArgs).
		WithDuration(r.opts.MaxDuration).
		WithDestinationUrl(output).
		WithOverwrite().
		Process()
}

func (r *ClipRecorder) Start(key string, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.clips[key]; found {
		return custerror.FormatAlreadyExists("already recording %s", key)
	}
	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return custerror.FormatInternalError("unable to prepare clip directory: %s", err)
	}

	output := filepath.Join(r.opts.OutputDir, fmt.Sprintf("%s-%s.mp4", key, uuid.NewString()))
	cmd, err := r.factory(source, output)
	if err != nil {
		return custerror.FormatInternalError("unable to build recording command: %s", err)
	}
	logger.SDebug("starting clip recording",
		zap.String("key", key),
		zap.String("command", cmd.String()))

	if err := cmd.Start(); err != nil {
		return custerror.FormatUnavailable("unable to start recording: %s", err)
	}

	c := &clip{
		path: output,
		cmd:  cmd,
		done: make(chan error, 1),
	}
	go func() {
		c.done <- cmd.Wait()
	}()
	r.clips[key] = c
	return nil
}

// Stop asks the recording under key to finish, then returns the clip bytes.
// The file is removed once read.
func (r *ClipRecorder) Stop(ctx context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	c, found := r.clips[key]
	if found {
		delete(r.clips, key)
	}
	r.mu.Unlock()

	if !found {
		return nil, custerror.FormatNotFound("no recording in progress for %s", key)
	}
	defer os.Remove(c.path)

	if c.cmd.Process != nil {
		if err := c.cmd.Process.Signal(os.Interrupt); err != nil {
			logger.SDebug("recording already exited",
				zap.String("key", key),
				zap.Error(err))
		}
	}

	select {
	case err := <-c.done:
		if err != nil {
			logger.SDebug("recording exited with error",
				zap.String("key", key),
				zap.Error(err))
		}
	case <-ctx.Done():
		if c.cmd.Process != nil {
			c.cmd.Process.Kill()
		}
		return nil, custerror.FormatTimeout("recording %s did not finish in time", key)
	}

	b, err := os.ReadFile(c.path)
	if err != nil {
		return nil, custerror.FormatUpstream("recording produced no clip: %s", err)
	}
	if len(b) == 0 {
		return nil, custerror.FormatUpstream("recording produced an empty clip")
	}
	return b, nil
}

func (r *ClipRecorder) Recording(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, found := r.clips[key]
	return found
}

func (r *ClipRecorder) StopAll() {
	r.mu.Lock()
	clips := r.clips
	r.clips = map[string]*clip{}
	r.mu.Unlock()

	for key, c := range clips {
		if c.cmd.Process != nil {
			c.cmd.Process.Kill()
		}
		<-c.done
		os.Remove(c.path)
		logger.SDebug("discarded recording", zap.String("key", key))
	}
}
