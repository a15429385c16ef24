package banner

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"net/http"

	"github.com/sunshineplan/imgconv"
	"golang.org/x/sync/errgroup"
)

// Artifact is one rendered banner.
type Artifact struct {
	Size    Size   `json:"size"`
	HTML    string `json:"html"`
	Preview string `json:"preview"` // data:image/png;base64,...
	PNG     []byte `json:"-"`
}

// Background is an optional uploaded image shared by every size.
type Background struct {
	img     image.Image
	dataURL string
}

// DecodeBackground prepares raw image bytes for rendering. Undecodable
// input yields a nil Background, and the banners use the brand gradient.
func DecodeBackground(data []byte) *Background {
	if len(data) == 0 {
		return nil
	}
	img, err := imgconv.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	ct := http.DetectContentType(data)
	return &Background{
		img:     img,
		dataURL: "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(data),
	}
}

// Render builds the HTML and PNG preview for each size concurrently. The
// result keeps the order of sizes.
func Render(ctx context.Context, bg *Background, c Content, sizes []Size) ([]Artifact, error) {
	if len(sizes) == 0 {
		sizes = Sizes
	}
	out := make([]Artifact, len(sizes))
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range sizes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var (
				img image.Image
				url string
			)
			if bg != nil {
				img, url = bg.img, bg.dataURL
			}
			doc, err := HTML(ctx, s, url, c)
			if err != nil {
				return err
			}
			pngData, err := Preview(s, img, c)
			if err != nil {
				return err
			}
			out[i] = Artifact{
				Size:    s,
				HTML:    doc,
				Preview: "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData),
				PNG:     pngData,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
