package artwork

import (
	"bytes"
	"image"

	// Register decoders used by imaging.Decode via image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/errors"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/layout"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/sink"
)

// JPEGQuality is the quality used when re-encoding prepared artwork.
const JPEGQuality = 90

// Prepare decodes raw, honours EXIF orientation and crops the image to
// cover box at dpi without distortion. The crop is centred; the result is
// re-encoded as JPEG.
func Prepare(raw []byte, box layout.Rect, dpi int) (*sink.Artwork, error) {
	if len(raw) == 0 {
		return nil, errors.New(errors.ErrCodeArtwork, "empty image")
	}
	if dpi <= 0 {
		dpi = layout.TargetDPI
	}
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeArtwork, err, "decode image")
	}

	w, h := layout.Pixels(box.Width, dpi), layout.Pixels(box.Height, dpi)
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeArtwork, "empty image box %+v", box)
	}
	fitted := Cover(img, w, h)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeArtwork, err, "encode image")
	}
	b := fitted.Bounds()
	return &sink.Artwork{
		Data:      buf.Bytes(),
		MediaType: "image/jpeg",
		Width:     b.Dx(),
		Height:    b.Dy(),
	}, nil
}

// Cover scales img uniformly so it fills w x h and crops the overflow evenly
// from both sides.
func Cover(img image.Image, w, h int) *image.NRGBA {
	return imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
}
