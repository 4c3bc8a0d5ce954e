// Package businessflow contains the core business logic and use cases for the public resolve path
package businessflow

import (
	"context"
	"encoding/json"
	"image"
	"strings"

	"github.com/ratetap/ratetap/app/dto"
	"github.com/ratetap/ratetap/app/services"
	"github.com/ratetap/ratetap/config"
	"github.com/ratetap/ratetap/repository"
	"github.com/redis/go-redis/v9"
)

// ResolveFlow turns a scanned short code into renderable merchant context.
// It is a pure read: no scan event is produced here, so "page loaded" and
// "page scanned" stay distinguishable for the caller.
type ResolveFlow interface {
	Resolve(ctx context.Context, shortCode string, metadata *ClientMetadata) (*dto.ResolveCodeResponse, error)
	QRImage(ctx context.Context, shortCode string) ([]byte, error)
}

// ResolveFlowImpl implements the resolve business flow
type ResolveFlowImpl struct {
	codeRepo     repository.IssuedCodeRepository
	merchantRepo repository.MerchantRepository
	qr           services.QRService
	rc           *redis.Client
	cacheConfig  *config.CacheConfig
	codesConfig  config.CodesConfig
	deployment   config.DeploymentConfig
}

// NewResolveFlow creates a new resolve flow instance
func NewResolveFlow(
	codeRepo repository.IssuedCodeRepository,
	merchantRepo repository.MerchantRepository,
	qr services.QRService,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
	codesConfig config.CodesConfig,
	deployment config.DeploymentConfig,
) ResolveFlow {
	return &ResolveFlowImpl{
		codeRepo:     codeRepo,
		merchantRepo: merchantRepo,
		qr:           qr,
		rc:           rc,
		cacheConfig:  cacheConfig,
		codesConfig:  codesConfig,
		deployment:   deployment,
	}
}

// Resolve looks up an active code and returns it with the owning merchant's
// branding. Archived and never-issued codes produce the same not-found
// response so the registry's structure cannot be probed.
func (f *ResolveFlowImpl) Resolve(ctx context.Context, shortCode string, metadata *ClientMetadata) (*dto.ResolveCodeResponse, error) {
	shortCode = strings.TrimSpace(shortCode)
	if shortCode == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", "short code is required", nil)
	}

	code, err := f.codeRepo.ByShortCode(ctx, shortCode)
	if err != nil {
		return nil, NewBusinessError("CODE_LOOKUP_FAILED", "Failed to lookup code", err)
	}
	if code == nil || !code.IsActive() {
		return nil, NewBusinessError("NOT_FOUND", "Link unavailable", ErrCodeNotFound)
	}

	branding, err := f.getBranding(ctx, code.MerchantID)
	if err != nil {
		return nil, NewBusinessError("BRANDING_LOOKUP_FAILED", "Failed to lookup branding", err)
	}

	target := publicScanURL(f.deployment.PublicBaseURL, code.ShortCode)
	return &dto.ResolveCodeResponse{
		Message:  "Code resolved",
		Code:     mapIssuedCodeDTO(*code, target, ""),
		Branding: branding,
	}, nil
}

// QRImage regenerates the scannable artifact for an active code on demand.
func (f *ResolveFlowImpl) QRImage(ctx context.Context, shortCode string) ([]byte, error) {
	shortCode = strings.TrimSpace(shortCode)
	if shortCode == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", "short code is required", nil)
	}

	code, err := f.codeRepo.ByShortCode(ctx, shortCode)
	if err != nil {
		return nil, NewBusinessError("CODE_LOOKUP_FAILED", "Failed to lookup code", err)
	}
	if code == nil || !code.IsActive() {
		return nil, NewBusinessError("NOT_FOUND", "Link unavailable", ErrCodeNotFound)
	}

	merchant, err := getMerchant(ctx, f.merchantRepo, code.MerchantID)
	if err != nil {
		return nil, NewBusinessError("MERCHANT_LOOKUP_FAILED", "Failed to lookup merchant", err)
	}

	var logo image.Image
	if merchant.Branding.LogoURL != nil {
		logo, _ = f.qr.FetchLogo(ctx, *merchant.Branding.LogoURL)
	}

	png, err := f.qr.Render(publicScanURL(f.deployment.PublicBaseURL, code.ShortCode), f.codesConfig.QRSize, logo)
	if err != nil {
		return nil, NewBusinessError("QR_RENDER_FAILED", "Failed to render QR image", err)
	}
	return png, nil
}

// getBranding serves branding from redis when possible; the resolve path is
// the hottest read in the system and the profile changes rarely.
func (f *ResolveFlowImpl) getBranding(ctx context.Context, merchantID uint) (dto.BrandingDTO, error) {
	cacheKey := redisKey(*f.cacheConfig, brandingCacheKey(merchantID))

	if f.rc != nil && f.cacheConfig.Enabled {
		if bs, err := f.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var out dto.BrandingDTO
			if err := json.Unmarshal(bs, &out); err == nil {
				return out, nil
			}
		}
	}

	merchant, err := getMerchant(ctx, f.merchantRepo, merchantID)
	if err != nil {
		return dto.BrandingDTO{}, err
	}
	out := mapBrandingDTO(merchant)

	if f.rc != nil && f.cacheConfig.Enabled {
		if bs, err := json.Marshal(out); err == nil {
			_ = f.rc.Set(ctx, cacheKey, bs, f.cacheConfig.BrandingTTL).Err()
		}
	}
	return out, nil
}
