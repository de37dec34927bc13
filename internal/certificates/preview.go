package certificates

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	previewWidth  = 1100
	previewHeight = 850
)

var (
	fontsOnce    sync.Once
	regularFont  *truetype.Font
	boldFont     *truetype.Font
	fontsLoadErr error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		regularFont, fontsLoadErr = truetype.Parse(goregular.TTF)
		if fontsLoadErr != nil {
			return
		}
		boldFont, fontsLoadErr = truetype.Parse(gobold.TTF)
	})
	return fontsLoadErr
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingNone})
}

// RenderPreview draws a PNG thumbnail of the certificate for listings and
// email. It mirrors the PDF layout loosely and is not a legal document.
func RenderPreview(d RenderData, tpl Template) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("load preview fonts: %w", err)
	}

	dc := gg.NewContext(previewWidth, previewHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB255(30, 60, 110)
	dc.SetLineWidth(8)
	dc.DrawRectangle(20, 20, previewWidth-40, previewHeight-40)
	dc.Stroke()
	dc.SetLineWidth(2)
	dc.DrawRectangle(36, 36, previewWidth-72, previewHeight-72)
	dc.Stroke()

	cx := float64(previewWidth) / 2
	text := func(f *truetype.Font, size, y float64, s string) {
		dc.SetFontFace(face(f, size))
		dc.DrawStringAnchored(s, cx, y, 0.5, 0.5)
	}

	text(boldFont, 52, 130, tpl.Title)
	dc.SetRGB255(60, 60, 60)
	text(regularFont, 22, 210, tpl.Subtitle)
	dc.SetRGB(0, 0, 0)
	text(boldFont, 46, 280, d.StudentName)
	text(regularFont, 22, 350, "has successfully completed")
	text(boldFont, 34, 410, d.CourseTitle)
	text(boldFont, 26, 475, "CE Credit: "+FormatHours(d.CEHours))
	text(regularFont, 20, 520, "Issued "+d.IssuedAt.UTC().Format(dateLayout))

	dc.SetFontFace(face(regularFont, 18))
	dc.DrawStringAnchored("Certificate No. "+d.CertificateNumber, 80, previewHeight-110, 0, 0.5)

	qr, err := qrImage(d)
	if err != nil {
		return nil, err
	}
	const qrSide = 180
	dst := image.NewRGBA(image.Rect(0, 0, qrSide, qrSide))
	draw.CatmullRom.Scale(dst, dst.Bounds(), qr, qr.Bounds(), draw.Over, nil)
	dc.DrawImage(dst, previewWidth-80-qrSide, previewHeight-80-qrSide)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode preview png: %w", err)
	}
	return buf.Bytes(), nil
}

func qrImage(d RenderData) (image.Image, error) {
	if d.VerificationURL != "" {
		q, err := qrcode.New(d.VerificationURL, qrcode.Medium)
		if err == nil {
			return q.Image(DefaultQRSize), nil
		}
	}
	img, _, err := image.Decode(bytes.NewReader(d.QRPNG))
	if err != nil {
		return nil, fmt.Errorf("decode qr png: %w", err)
	}
	return img, nil
}
