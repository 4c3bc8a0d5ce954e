// Package businessflow contains the core business logic and use cases for code issuance workflows
package businessflow

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/ratetap/ratetap/app/dto"
	"github.com/ratetap/ratetap/app/services"
	"github.com/ratetap/ratetap/config"
	"github.com/ratetap/ratetap/models"
	"github.com/ratetap/ratetap/repository"
	"github.com/ratetap/ratetap/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Short codes are drawn from a 36-symbol alphabet at 8 symbols, so collision
// probability across the whole registry stays negligible. Uniqueness is
// enforced by the registry's unique index, never by application-level
// locking; colliding entries are regenerated and retried.
const (
	shortCodeLength   = 8
	shortCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	minBatchSize = 1
	maxBatchSize = 100
)

// CodeBatchFlow handles code issuance, listing, archival, and batch export
type CodeBatchFlow interface {
	IssueBatch(ctx context.Context, req *dto.IssueCodeBatchRequest, metadata *ClientMetadata) (*dto.IssueCodeBatchResponse, error)
	ListCodes(ctx context.Context, req *dto.ListIssuedCodesRequest, metadata *ClientMetadata) (*dto.ListIssuedCodesResponse, error)
	ArchiveCode(ctx context.Context, req *dto.ArchiveCodeRequest, metadata *ClientMetadata) (*dto.ArchiveCodeResponse, error)
	ExportBatch(ctx context.Context, merchantID uint, batchID uuid.UUID) (string, []byte, error)
}

// CodeBatchFlowImpl implements the code issuance business flow
type CodeBatchFlowImpl struct {
	codeRepo     repository.IssuedCodeRepository
	merchantRepo repository.MerchantRepository
	locationRepo repository.LocationRepository
	qr           services.QRService
	codesConfig  config.CodesConfig
	deployment   config.DeploymentConfig
}

// NewCodeBatchFlow creates a new code batch flow instance
func NewCodeBatchFlow(
	codeRepo repository.IssuedCodeRepository,
	merchantRepo repository.MerchantRepository,
	locationRepo repository.LocationRepository,
	qr services.QRService,
	codesConfig config.CodesConfig,
	deployment config.DeploymentConfig,
) CodeBatchFlow {
	return &CodeBatchFlowImpl{
		codeRepo:     codeRepo,
		merchantRepo: merchantRepo,
		locationRepo: locationRepo,
		qr:           qr,
		codesConfig:  codesConfig,
		deployment:   deployment,
	}
}

// batchEntry is one assembled candidate prior to insertion. Model rows are
// built fresh on every insert attempt so a rolled-back attempt can never
// leak primary keys into the next one.
type batchEntry struct {
	shortCode string
	label     string
}

// IssueBatch validates the whole batch, then inserts it with bounded
// collision retries. No partial batches are ever persisted: validation runs
// before the first write and the batch insert is a single transaction.
func (f *CodeBatchFlowImpl) IssueBatch(ctx context.Context, req *dto.IssueCodeBatchRequest, metadata *ClientMetadata) (*dto.IssueCodeBatchResponse, error) {
	if req == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Request is required", nil)
	}
	if req.Count < minBatchSize || req.Count > maxBatchSize {
		return nil, NewBusinessErrorf("VALIDATION_ERROR", "count must be between %d and %d", ErrBatchSizeOutOfRange, minBatchSize, maxBatchSize)
	}

	scheme := models.LabelScheme(req.LabelScheme)
	if !scheme.Valid() {
		return nil, NewBusinessError("VALIDATION_ERROR", "label_scheme must be one of sequential, location, merchant_timestamp", ErrLabelSchemeInvalid)
	}

	merchant, err := getMerchant(ctx, f.merchantRepo, req.MerchantID)
	if err != nil {
		return nil, NewBusinessError("MERCHANT_LOOKUP_FAILED", "Failed to lookup merchant", err)
	}

	location, berr := f.resolveLocation(ctx, req.LocationUUID, merchant.ID)
	if berr != nil {
		return nil, berr
	}
	if scheme == models.LabelSchemeLocation && location == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "label_scheme location requires location_uuid", ErrLocationNotFound)
	}

	batchID := uuid.New()
	if req.BatchID != nil {
		parsed, err := utils.ParseUUID(*req.BatchID)
		if err != nil {
			return nil, NewBusinessError("VALIDATION_ERROR", "batch_id must be a valid UUID", err)
		}
		batchID = parsed
	}

	labels, berr := buildLabels(req.Count, req.LabelPrefix, scheme, &merchant, location)
	if berr != nil {
		return nil, berr
	}

	entries, seen, err := assembleEntries(labels)
	if err != nil {
		return nil, NewBusinessError("CODE_GENERATION_FAILED", "Failed to generate short codes", err)
	}

	if err := f.validateEntries(entries); err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Batch validation failed", err)
	}

	rows, berr := f.insertWithRetry(ctx, entries, seen, &merchant, location, batchID)
	if berr != nil {
		return nil, berr
	}

	// Fetch the merchant logo once and reuse it for every artifact in the
	// batch. A missing or unreachable logo degrades to a plain QR.
	var logo image.Image
	if merchant.Branding.LogoURL != nil {
		logo, _ = f.qr.FetchLogo(ctx, *merchant.Branding.LogoURL)
	}

	items := make([]dto.IssuedCodeDTO, 0, len(rows))
	for _, row := range rows {
		target := publicScanURL(f.deployment.PublicBaseURL, row.ShortCode)
		png, err := f.qr.Render(target, f.codesConfig.QRSize, logo)
		if err != nil {
			return nil, NewBusinessError("QR_RENDER_FAILED", "Failed to render QR image", err)
		}
		row.Location = location
		items = append(items, mapIssuedCodeDTO(*row, target, base64.StdEncoding.EncodeToString(png)))
	}

	return &dto.IssueCodeBatchResponse{
		Message: "Codes issued",
		BatchID: batchID.String(),
		Codes:   items,
	}, nil
}

func (f *CodeBatchFlowImpl) resolveLocation(ctx context.Context, locationUUID *string, merchantID uint) (*models.Location, error) {
	if locationUUID == nil {
		return nil, nil
	}
	parsed, err := utils.ParseUUID(*locationUUID)
	if err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "location_uuid must be a valid UUID", err)
	}
	location, err := f.locationRepo.ByUUID(ctx, parsed)
	if err != nil {
		return nil, NewBusinessError("LOCATION_LOOKUP_FAILED", "Failed to lookup location", err)
	}
	if location == nil {
		return nil, NewBusinessError("NOT_FOUND", "Location not found", ErrLocationNotFound)
	}
	// A foreign location is reported exactly like a missing one.
	if location.MerchantID != merchantID {
		return nil, NewBusinessError("NOT_FOUND", "Location not found", ErrLocationNotOwned)
	}
	return location, nil
}

func buildLabels(count int, labelPrefix string, scheme models.LabelScheme, merchant *models.Merchant, location *models.Location) ([]string, error) {
	prefix := strings.TrimSpace(labelPrefix)
	if scheme == models.LabelSchemeSequential && prefix == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", "label_prefix is required for the sequential scheme", ErrLabelRequired)
	}

	issuedOn := utils.UTCNow().Format("20060102")
	labels := make([]string, count)
	for i := range labels {
		n := i + 1
		switch scheme {
		case models.LabelSchemeSequential:
			labels[i] = fmt.Sprintf("%s %02d", prefix, n)
		case models.LabelSchemeLocation:
			if prefix != "" {
				labels[i] = fmt.Sprintf("%s %s %02d", location.Name, prefix, n)
			} else {
				labels[i] = fmt.Sprintf("%s %02d", location.Name, n)
			}
		case models.LabelSchemeMerchantTimestamp:
			if prefix != "" {
				labels[i] = fmt.Sprintf("%s %s %s %02d", merchant.Name, prefix, issuedOn, n)
			} else {
				labels[i] = fmt.Sprintf("%s %s %02d", merchant.Name, issuedOn, n)
			}
		}
	}
	return labels, nil
}

func assembleEntries(labels []string) ([]batchEntry, map[string]struct{}, error) {
	entries := make([]batchEntry, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for i, label := range labels {
		sc, err := newShortCode(seen)
		if err != nil {
			return nil, nil, err
		}
		entries[i] = batchEntry{shortCode: sc, label: label}
	}
	return entries, seen, nil
}

// newShortCode draws codes until one is unused within the batch. The registry
// is consulted separately; this only guards in-batch uniqueness.
func newShortCode(seen map[string]struct{}) (string, error) {
	for {
		sc, err := utils.RandomString(shortCodeAlphabet, shortCodeLength)
		if err != nil {
			return "", err
		}
		if _, dup := seen[sc]; dup {
			continue
		}
		seen[sc] = struct{}{}
		return sc, nil
	}
}

// validateEntries rejects the whole batch when any single entry is bad:
// an in-batch duplicate short code, an empty or oversized label, or a scan
// URL that does not parse as an absolute http(s) URL.
func (f *CodeBatchFlowImpl) validateEntries(entries []batchEntry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.shortCode]; dup {
			return fmt.Errorf("duplicate short code %q in batch", e.shortCode)
		}
		seen[e.shortCode] = struct{}{}

		if strings.TrimSpace(e.label) == "" {
			return ErrLabelRequired
		}
		if len(e.label) > 128 {
			return fmt.Errorf("label %q exceeds 128 characters", e.label)
		}

		if err := validateScanURL(publicScanURL(f.deployment.PublicBaseURL, e.shortCode)); err != nil {
			return err
		}
	}
	return nil
}

func validateScanURL(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResolveURLInvalid, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s", ErrResolveURLInvalid, target)
	}
	return nil
}

// insertWithRetry persists the batch, treating a unique-constraint violation
// on short_code as recoverable: only the colliding entries are regenerated,
// then the whole batch is retried, up to the configured attempt budget.
func (f *CodeBatchFlowImpl) insertWithRetry(ctx context.Context, entries []batchEntry, seen map[string]struct{}, merchant *models.Merchant, location *models.Location, batchID uuid.UUID) ([]*models.IssuedCode, error) {
	var locationID *uint
	if location != nil {
		locationID = &location.ID
	}

	maxAttempts := f.codesConfig.CollisionRetries
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	for attempt := 1; ; attempt++ {
		candidates := make([]string, len(entries))
		for i := range entries {
			candidates[i] = entries[i].shortCode
		}

		// Cheap pre-check so known collisions do not burn an insert.
		existing, err := f.codeRepo.ExistingShortCodes(ctx, candidates)
		if err != nil {
			return nil, NewBusinessError("FETCH_EXISTING_CODES_FAILED", "Failed to check existing short codes", err)
		}

		if len(existing) == 0 {
			rows := make([]*models.IssuedCode, len(entries))
			for i, e := range entries {
				rows[i] = &models.IssuedCode{
					ShortCode:  e.shortCode,
					MerchantID: merchant.ID,
					LocationID: locationID,
					Label:      e.label,
					BatchID:    batchID,
					Status:     models.CodeStatusActive,
				}
			}

			err = f.codeRepo.SaveBatch(ctx, rows)
			if err == nil {
				return rows, nil
			}
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, NewBusinessError("CREATE_CODES_FAILED", "Failed to persist code batch", err)
			}

			// Lost a race with a concurrent batch between the pre-check and
			// the insert. Ask the registry which candidates landed first.
			existing, err = f.codeRepo.ExistingShortCodes(ctx, candidates)
			if err != nil {
				return nil, NewBusinessError("FETCH_EXISTING_CODES_FAILED", "Failed to check existing short codes", err)
			}
			if len(existing) == 0 {
				// Duplicate key on something other than short_code; not recoverable here.
				return nil, NewBusinessError("CREATE_CODES_FAILED", "Failed to persist code batch", err)
			}
		}

		if attempt >= maxAttempts {
			return nil, NewBusinessError("CODE_COLLISION", "Failed to find free short codes for the batch", ErrShortCodeExhausted)
		}

		// Regenerate only the losers; the rest of the batch keeps its codes.
		taken := make(map[string]struct{}, len(existing))
		for _, sc := range existing {
			taken[sc] = struct{}{}
		}
		for i := range entries {
			if _, collided := taken[entries[i].shortCode]; !collided {
				continue
			}
			sc, err := newShortCode(seen)
			if err != nil {
				return nil, NewBusinessError("CODE_GENERATION_FAILED", "Failed to generate short codes", err)
			}
			entries[i].shortCode = sc
		}
	}
}

// ListCodes returns a merchant's issued codes, newest first by default.
// Listings never include QR payloads; artifacts are regenerated on demand.
func (f *CodeBatchFlowImpl) ListCodes(ctx context.Context, req *dto.ListIssuedCodesRequest, metadata *ClientMetadata) (*dto.ListIssuedCodesResponse, error) {
	var err error
	defer func() {
		if err != nil {
			err = NewBusinessError("LIST_CODES_FAILED", "Failed to list codes", err)
		}
	}()

	_, err = getMerchant(ctx, f.merchantRepo, req.MerchantID)
	if err != nil {
		return nil, err
	}

	// Normalize pagination
	page := max(1, req.Page)
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	// Build filter
	filter := models.IssuedCodeFilter{MerchantID: &req.MerchantID}
	if req.Filter != nil {
		if req.Filter.Status != nil && *req.Filter.Status != "" {
			status := models.CodeStatus(*req.Filter.Status)
			if status.Valid() {
				filter.Status = &status
			}
		}
		if req.Filter.BatchID != nil && *req.Filter.BatchID != "" {
			batchID, perr := utils.ParseUUID(*req.Filter.BatchID)
			if perr != nil {
				err = perr
				return nil, err
			}
			filter.BatchID = &batchID
		}
		if req.Filter.LocationUUID != nil && *req.Filter.LocationUUID != "" {
			location, lerr := f.resolveLocation(ctx, req.Filter.LocationUUID, req.MerchantID)
			if lerr != nil {
				return nil, lerr
			}
			filter.LocationID = &location.ID
		}
		if req.Filter.ShortCode != nil && *req.Filter.ShortCode != "" {
			filter.ShortCode = req.Filter.ShortCode
		}
	}

	// Order by
	orderBy := "created_at DESC"
	switch req.OrderBy {
	case "oldest":
		orderBy = "created_at ASC"
	case "newest":
		orderBy = "created_at DESC"
	}

	// Count total
	total64, err := f.codeRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Fetch rows
	rows, err := f.codeRepo.ByFilter(ctx, filter, orderBy, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]dto.IssuedCodeDTO, 0, len(rows))
	for _, c := range rows {
		target := publicScanURL(f.deployment.PublicBaseURL, c.ShortCode)
		items = append(items, mapIssuedCodeDTO(*c, target, ""))
	}

	// Build pagination
	totalPages := int((total64 + int64(limit) - 1) / int64(limit))

	return &dto.ListIssuedCodesResponse{
		Message: "Codes retrieved successfully",
		Items:   items,
		Pagination: dto.PaginationInfo{
			Total:      total64,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}, nil
}

// ArchiveCode retires a code from public resolution while keeping the row,
// so historical scans and submissions stay attributable. Archiving an
// already-archived code is a no-op success.
func (f *CodeBatchFlowImpl) ArchiveCode(ctx context.Context, req *dto.ArchiveCodeRequest, metadata *ClientMetadata) (*dto.ArchiveCodeResponse, error) {
	codeUUID, err := utils.ParseUUID(req.UUID)
	if err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "uuid must be a valid UUID", err)
	}

	code, err := f.codeRepo.ByUUID(ctx, codeUUID)
	if err != nil {
		return nil, NewBusinessError("CODE_LOOKUP_FAILED", "Failed to lookup code", err)
	}
	if code == nil || code.MerchantID != req.MerchantID {
		return nil, NewBusinessError("NOT_FOUND", "Code not found", ErrCodeNotFound)
	}

	if code.Status == models.CodeStatusArchived {
		return &dto.ArchiveCodeResponse{
			Message: "Code already archived",
			Status:  models.CodeStatusArchived.String(),
		}, nil
	}

	if err := f.codeRepo.UpdateStatus(ctx, code.ID, models.CodeStatusArchived); err != nil {
		return nil, NewBusinessError("ARCHIVE_CODE_FAILED", "Failed to archive code", err)
	}

	return &dto.ArchiveCodeResponse{
		Message: "Code archived",
		Status:  models.CodeStatusArchived.String(),
	}, nil
}

// ExportBatch renders one batch as an Excel manifest for print shops: one
// row per code with its label, scan URL, and embedded QR image.
func (f *CodeBatchFlowImpl) ExportBatch(ctx context.Context, merchantID uint, batchID uuid.UUID) (string, []byte, error) {
	merchant, err := getMerchant(ctx, f.merchantRepo, merchantID)
	if err != nil {
		return "", nil, NewBusinessError("MERCHANT_LOOKUP_FAILED", "Failed to lookup merchant", err)
	}

	filter := models.IssuedCodeFilter{MerchantID: &merchantID, BatchID: &batchID}
	rows, err := f.codeRepo.ByFilter(ctx, filter, "id ASC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("FETCH_CODES_FAILED", "Failed to fetch batch codes", err)
	}
	if len(rows) == 0 {
		return "", nil, NewBusinessError("NOT_FOUND", "Batch not found", ErrBatchNotFound)
	}

	var logo image.Image
	if merchant.Branding.LogoURL != nil {
		logo, _ = f.qr.FetchLogo(ctx, *merchant.Branding.LogoURL)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := sanitizeSheetName(fmt.Sprintf("batch_%s", batchID.String()[:8]))
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"short_code", "label", "status", "scan_url", "created_at", "qr"}
	_ = xl.SetSheetRow(sheet, "A1", &header)
	_ = xl.SetColWidth(sheet, "D", "D", 48)
	_ = xl.SetColWidth(sheet, "F", "F", 18)

	for ri, r := range rows {
		target := publicScanURL(f.deployment.PublicBaseURL, r.ShortCode)
		record := []string{
			r.ShortCode,
			r.Label,
			r.Status.String(),
			target,
			r.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)

		png, err := f.qr.Render(target, f.codesConfig.QRSize, logo)
		if err != nil {
			return "", nil, NewBusinessError("QR_RENDER_FAILED", "Failed to render QR image", err)
		}
		picRef, _ := excelize.CoordinatesToCellName(6, ri+2)
		if err := xl.AddPictureFromBytes(sheet, picRef, &excelize.Picture{
			Extension: ".png",
			File:      png,
			Format:    &excelize.GraphicOptions{AutoFit: true},
		}); err != nil {
			return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to embed QR image", err)
		}
		_ = xl.SetRowHeight(sheet, ri+2, 96)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	filename := fmt.Sprintf("codes_batch_%s.xlsx", batchID.String()[:8])
	return filename, buf.Bytes(), nil
}

func sanitizeSheetName(name string) string {
	// Excel sheet names cannot contain: : \\ / ? * [ ] and must be <= 31 chars
	replacer := strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")
	safe := replacer.Replace(name)
	return truncateSheetName(strings.TrimSpace(safe))
}

func truncateSheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	if name == "" {
		return "Sheet"
	}
	return name
}
