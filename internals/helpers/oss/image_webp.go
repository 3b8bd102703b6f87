// internals/helpers/oss/image_webp.go
package helper

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"quizku_backend/internals/configs"
)

var ErrUnsupportedImage = errors.New("format tidak didukung")

/* =======================================================================
   Konfigurasi WebP (ENV-Driven)
======================================================================= */

type WebPOptions struct {
	MaxW     int     // batas lebar (resize keep-aspect)
	MaxH     int     // batas tinggi
	TargetKB int     // 0 = non-aktif (pakai Quality saja)
	Quality  float32 // quality awal
	MinQ     float32 // quality minimum saat mengejar TargetKB
}

func DefaultWebPOptions() WebPOptions {
	return WebPOptions{
		MaxW:     configs.GetEnvInt("IMAGE_WEBP_MAX_W", 1280),
		MaxH:     configs.GetEnvInt("IMAGE_WEBP_MAX_H", 1280),
		TargetKB: configs.GetEnvInt("IMAGE_WEBP_TARGET_KB", 0),
		Quality:  float32(configs.GetEnvInt("IMAGE_WEBP_QUALITY", 80)),
		MinQ:     float32(configs.GetEnvInt("IMAGE_WEBP_MIN_Q", 45)),
	}
}

/* =======================================================================
   Decode gambar (jpeg/png/webp) dengan sniff MIME
======================================================================= */

func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	kind := ""
	switch {
	case strings.Contains(ct, "jpeg"):
		kind = "jpeg"
	case strings.Contains(ct, "png"):
		kind = "png"
	case strings.Contains(ct, "webp"):
		kind = "webp"
	default:
		// fallback by extension
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".jpg", ".jpeg":
			kind = "jpeg"
		case ".png":
			kind = "png"
		case ".webp":
			kind = "webp"
		}
	}

	r := bytes.NewReader(all)
	switch kind {
	case "jpeg":
		return jpeg.Decode(r)
	case "png":
		return png.Decode(r)
	case "webp":
		return webp.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, ct)
	}
}

// ConvertToWebP: baca → decode → fit ke MaxW x MaxH → encode webp.
// Kalau TargetKB diisi, quality diturunkan bertahap sampai muat atau mentok MinQ.
func ConvertToWebP(r io.Reader, filename string, opt WebPOptions) ([]byte, error) {
	all, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	img, err := decodeImage(all, filename)
	if err != nil {
		return nil, err
	}

	if opt.MaxW > 0 && opt.MaxH > 0 {
		b := img.Bounds()
		if b.Dx() > opt.MaxW || b.Dy() > opt.MaxH {
			img = imaging.Fit(img, opt.MaxW, opt.MaxH, imaging.Lanczos)
		}
	}

	q := opt.Quality
	if q <= 0 {
		q = 80
	}
	minQ := opt.MinQ
	if minQ <= 0 || minQ > q {
		minQ = q
	}

	var out []byte
	for {
		buf := new(bytes.Buffer)
		if err := webp.Encode(buf, img, &webp.Options{Quality: q}); err != nil {
			return nil, err
		}
		out = buf.Bytes()
		if opt.TargetKB <= 0 || len(out) <= opt.TargetKB*1024 || q <= minQ {
			return out, nil
		}
		q -= 10
		if q < minQ {
			q = minQ
		}
	}
}
