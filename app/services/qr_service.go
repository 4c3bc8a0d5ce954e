package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/ratetap/ratetap/config"
	qrcode "github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"
)

const (
	// logoFraction is the QR edge divided by the logo tile edge. One fifth
	// stays within what high error correction can absorb.
	logoFraction = 5

	// maxLogoBytes bounds how much of a merchant logo response is read.
	maxLogoBytes = 2 << 20
)

// QRService renders scan-target QR codes as PNG, optionally with the
// merchant logo composited over the center.
type QRService interface {
	Render(target string, size int, logo image.Image) ([]byte, error)
	FetchLogo(ctx context.Context, logoURL string) (image.Image, error)
}

// QRServiceImpl implements QRService
type QRServiceImpl struct {
	config     config.CodesConfig
	httpClient *http.Client
}

// NewQRService creates a new QR service instance
func NewQRService(cfg config.CodesConfig) QRService {
	return &QRServiceImpl{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.LogoFetchTimeout,
		},
	}
}

// Render encodes target into a size x size PNG. A nil logo produces a plain
// code at medium error correction; with a logo the level is raised to high
// so the covered center modules stay recoverable.
func (s *QRServiceImpl) Render(target string, size int, logo image.Image) ([]byte, error) {
	if strings.TrimSpace(target) == "" {
		return nil, fmt.Errorf("qr target is required")
	}
	if size <= 0 {
		size = s.config.QRSize
	}

	level := qrcode.Medium
	if logo != nil {
		level = qrcode.High
	}
	code, err := qrcode.New(target, level)
	if err != nil {
		return nil, fmt.Errorf("failed to build qr code: %w", err)
	}

	if logo == nil {
		data, err := code.PNG(size)
		if err != nil {
			return nil, fmt.Errorf("failed to encode qr png: %w", err)
		}
		return data, nil
	}

	base := code.Image(size)
	canvas := image.NewRGBA(base.Bounds())
	xdraw.Draw(canvas, canvas.Bounds(), base, image.Point{}, xdraw.Src)
	overlayLogo(canvas, logo)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode qr png: %w", err)
	}
	return buf.Bytes(), nil
}

// overlayLogo scales the logo into a centered tile on a white backing so it
// reads cleanly over dark modules.
func overlayLogo(canvas *image.RGBA, logo image.Image) {
	bounds := canvas.Bounds()
	edge := bounds.Dx() / logoFraction
	if edge <= 0 {
		return
	}
	x0 := bounds.Min.X + (bounds.Dx()-edge)/2
	y0 := bounds.Min.Y + (bounds.Dy()-edge)/2
	tile := image.Rect(x0, y0, x0+edge, y0+edge)

	xdraw.Draw(canvas, tile, image.NewUniform(color.White), image.Point{}, xdraw.Src)
	inset := edge / 12
	xdraw.CatmullRom.Scale(canvas, tile.Inset(inset), logo, logo.Bounds(), xdraw.Over, nil)
}

// FetchLogo downloads and decodes a merchant logo. Callers treat failures as
// soft: a code without a logo is still a valid code.
func (s *QRServiceImpl) FetchLogo(ctx context.Context, logoURL string) (image.Image, error) {
	logoURL = strings.TrimSpace(logoURL)
	if logoURL == "" {
		return nil, fmt.Errorf("logo url is empty")
	}
	parsed, err := url.Parse(logoURL)
	if err != nil {
		return nil, fmt.Errorf("invalid logo url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("logo url must use http or https")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, logoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create logo request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("logo fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read logo body: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode logo image: %w", err)
	}
	return img, nil
}

// MockQRService implements QRService for testing
type MockQRService struct {
	mu            sync.Mutex
	RenderedItems []MockRenderedQR
	FetchedURLs   []string
	RenderErr     error
	FetchErr      error
}

// MockRenderedQR represents one Render call captured by the mock
type MockRenderedQR struct {
	Target  string
	Size    int
	HadLogo bool
}

// NewMockQRService creates a new mock QR service for testing
func NewMockQRService() *MockQRService {
	return &MockQRService{}
}

// Render records the call and returns a minimal valid PNG payload
func (m *MockQRService) Render(target string, size int, logo image.Image) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RenderErr != nil {
		return nil, m.RenderErr
	}
	m.RenderedItems = append(m.RenderedItems, MockRenderedQR{
		Target:  target,
		Size:    size,
		HadLogo: logo != nil,
	})
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FetchLogo records the URL and returns a solid placeholder image
func (m *MockQRService) FetchLogo(ctx context.Context, logoURL string) (image.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	m.FetchedURLs = append(m.FetchedURLs, logoURL)
	return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
}

// GetRenderedItems returns all captured Render calls (for testing)
func (m *MockQRService) GetRenderedItems() []MockRenderedQR {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockRenderedQR, len(m.RenderedItems))
	copy(out, m.RenderedItems)
	return out
}
