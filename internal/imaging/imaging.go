package custimg

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"

	"github.com/disintegration/imaging"
)

const (
	SnapshotWidth  = 1280
	SnapshotHeight = 724
	JpegQuality    = 90
)

type Resizer struct {
	Width   int
	Height  int
	Quality int
}

func NewResizer() *Resizer {
	return &Resizer{
		Width:   SnapshotWidth,
		Height:  SnapshotHeight,
		Quality: JpegQuality,
	}
}

// Resize decodes a snapshot, scales it to the configured frame and
// re-encodes it as JPEG.
func (r *Resizer) Resize(raw []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, custerror.FormatUpstream("camera returned an undecodable picture: %s", err)
	}

	dst := imaging.Resize(src, r.Width, r.Height, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, imaging.JPEG, imaging.JPEGQuality(r.Quality)); err != nil {
		return nil, custerror.FormatInternalError("unable to encode resized picture: %s", err)
	}
	return buf.Bytes(), nil
}
