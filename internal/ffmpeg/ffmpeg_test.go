package custff

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexOf(args []string, v string) int {
	for i, a := range args {
		if a == v {
			return i
		}
	}
	return -1
}

func TestCommandArgs(t *testing.T) {
	args, err := NewFFmpegCommand().
		WithSourceUrl("rtsp://cam/Streaming/channels/101").
		WithInputArguments(rtspInputArguments).
		WithOutputArguments(map[string]string{"-f": "flv", "c:v": "copy"}).
		WithDestinationUrl("rtmp://a.rtmp.youtube.com/live2/key").
		Args()
	require.NoError(t, err)

	i := indexOf(args, "-i")
	require.NotEqual(t, -1, i)
	assert.Equal(t, "rtsp://cam/Streaming/channels/101", args[i+1])

	transport := indexOf(args, "-rtsp_transport")
	require.NotEqual(t, -1, transport)
	assert.Less(t, transport, i)

	f := indexOf(args, "-f")
	require.NotEqual(t, -1, f)
	assert.Equal(t, "flv", args[f+1])
	assert.Greater(t, f, i)
	assert.Contains(t, args, "rtmp://a.rtmp.youtube.com/live2/key")
}

func TestCommandRequiresUrls(t *testing.T) {
	_, err := NewFFmpegCommand().WithDestinationUrl("out.mp4").Args()
	assert.Error(t, err)

	_, err = NewFFmpegCommand().WithSourceUrl("rtsp://cam").Args()
	assert.Error(t, err)
}

func TestCommandBinary(t *testing.T) {
	cmd := NewFFmpegCommand()
	assert.Equal(t, "ffmpeg", cmd.Binary())
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cmd.WithBinPath("/opt/ffmpeg/bin/ffmpeg").Binary())
}

func TestCommandDuration(t *testing.T) {
	args, err := NewFFmpegCommand().
		WithSourceUrl("rtsp://cam").
		WithDuration(5 * time.Second).
		WithDestinationUrl("out.mp4").
		WithOverwrite().
		Args()
	require.NoError(t, err)
	i := indexOf(args, "-t")
	require.NotEqual(t, -1, i)
	assert.Equal(t, "5", args[i+1])
	assert.Contains(t, args, "-y")
}

func newTestPool(t *testing.T) *ants.Pool {
	pool, err := ants.NewPool(4)
	require.NoError(t, err)
	t.Cleanup(pool.Release)
	return pool
}

func TestRelayStartStop(t *testing.T) {
	m := NewRelayManager(newTestPool(t), "",
		WithCommandFactory(func(ctx context.Context, source, destination string, args map[string]string) (*exec.Cmd, error) {
			return exec.CommandContext(ctx, "sleep", "30"), nil
		}))

	require.NoError(t, m.Start("front/youtube", "rtsp://front", "rtmp://yt", nil))
	assert.True(t, m.Running("front/youtube"))
	require.NoError(t, m.Start("front/youtube", "rtsp://front", "rtmp://yt", nil))
	assert.Len(t, m.List(), 1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Stop(ctx, "front/youtube"))
	assert.False(t, m.Running("front/youtube"))

	assert.NoError(t, m.Stop(ctx, "front/youtube"))
}

func TestRelayGivesUp(t *testing.T) {
	m := NewRelayManager(newTestPool(t), "",
		WithRestartPolicy(2, 10*time.Millisecond),
		WithCommandFactory(func(ctx context.Context, source, destination string, args map[string]string) (*exec.Cmd, error) {
			return exec.CommandContext(ctx, "false"), nil
		}))

	require.NoError(t, m.Start("back/icecast", "rtsp://back", "icecast://host", nil))
	assert.Eventually(t, func() bool {
		return !m.Running("back/icecast")
	}, 5*time.Second, 20*time.Millisecond)
}

func TestClipRecorder(t *testing.T) {
	dir := t.TempDir()
	r := NewClipRecorder(RecorderOptions{OutputDir: dir})
	r.factory = func(source string, output string) (*exec.Cmd, error) {
		return exec.Command("sh", "-c", "printf clip > "+output), nil
	}

	require.NoError(t, r.Start("front", "rtsp://front"))
	assert.True(t, r.Recording("front"))

	err := r.Start("front", "rtsp://front")
	assert.Equal(t, custerror.CodeAlreadyExists, custerror.CodeOf(err))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	b, err := r.Stop(ctx, "front")
	require.NoError(t, err)
	assert.Equal(t, []byte("clip"), b)

	leftovers, _ := filepath.Glob(filepath.Join(dir, "*.mp4"))
	assert.Empty(t, leftovers)
}

func TestClipRecorderStopUnknown(t *testing.T) {
	r := NewClipRecorder(RecorderOptions{OutputDir: t.TempDir()})
	_, err := r.Stop(context.Background(), "front")
	assert.Equal(t, custerror.CodeNotFound, custerror.CodeOf(err))
}

func TestClipRecorderEmptyClip(t *testing.T) {
	dir := t.TempDir()
	r := NewClipRecorder(RecorderOptions{OutputDir: dir})
	r.factory = func(source string, output string) (*exec.Cmd, error) {
		return exec.Command("sh", "-c", ": > "+output), nil
	}
	require.NoError(t, r.Start("front", "rtsp://front"))
	_, err := r.Stop(context.Background(), "front")
	assert.Equal(t, custerror.CodeUpstream, custerror.CodeOf(err))
	_, statErr := os.Stat(dir)
	assert.NoError(t, statErr)
}
