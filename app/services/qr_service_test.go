// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ratetap/ratetap/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestQRService() QRService {
	return NewQRService(config.CodesConfig{
		QRSize:           256,
		LogoFetchTimeout: time.Second,
	})
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	require.Greater(t, len(data), 8)
	require.Equal(t, "\x89PNG", string(data[:4]))
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestRender(t *testing.T) {
	qr := createTestQRService()

	t.Run("PlainCode", func(t *testing.T) {
		data, err := qr.Render("https://rate.example.com/r/abc12345", 256, nil)
		require.NoError(t, err)

		img := decodePNG(t, data)
		assert.Equal(t, 256, img.Bounds().Dx())
		assert.Equal(t, 256, img.Bounds().Dy())
	})

	t.Run("ZeroSizeFallsBackToConfig", func(t *testing.T) {
		data, err := qr.Render("https://rate.example.com/r/abc12345", 0, nil)
		require.NoError(t, err)

		img := decodePNG(t, data)
		assert.Equal(t, 256, img.Bounds().Dx())
	})

	t.Run("LogoIsComposited", func(t *testing.T) {
		logo := image.NewRGBA(image.Rect(0, 0, 32, 32))
		red := color.RGBA{R: 255, A: 255}
		for y := 0; y < 32; y++ {
			for x := 0; x < 32; x++ {
				logo.SetRGBA(x, y, red)
			}
		}

		data, err := qr.Render("https://rate.example.com/r/abc12345", 256, logo)
		require.NoError(t, err)

		img := decodePNG(t, data)
		assert.Equal(t, 256, img.Bounds().Dx())

		// The logo tile sits over the center modules.
		r, g, _, _ := img.At(128, 128).RGBA()
		assert.Greater(t, r, uint32(0xf000))
		assert.Less(t, g, uint32(0x0fff))

		plain, err := qr.Render("https://rate.example.com/r/abc12345", 256, nil)
		require.NoError(t, err)
		assert.NotEqual(t, plain, data)
	})

	t.Run("EmptyTarget", func(t *testing.T) {
		_, err := qr.Render("", 256, nil)
		assert.Error(t, err)
		_, err = qr.Render("   ", 256, nil)
		assert.Error(t, err)
	})
}

func TestFetchLogo(t *testing.T) {
	qr := createTestQRService()
	ctx := context.Background()

	t.Run("DecodesServedImage", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 16))))

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(buf.Bytes())
		}))
		defer server.Close()

		img, err := qr.FetchLogo(ctx, server.URL)
		require.NoError(t, err)
		assert.Equal(t, 16, img.Bounds().Dx())
	})

	t.Run("Non200Status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := qr.FetchLogo(ctx, server.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
	})

	t.Run("NonImagePayload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not an image"))
		}))
		defer server.Close()

		_, err := qr.FetchLogo(ctx, server.URL)
		assert.Error(t, err)
	})

	t.Run("RejectsNonHTTPSchemes", func(t *testing.T) {
		_, err := qr.FetchLogo(ctx, "ftp://cdn.example.com/logo.png")
		assert.Error(t, err)

		_, err = qr.FetchLogo(ctx, "")
		assert.Error(t, err)
	})
}
