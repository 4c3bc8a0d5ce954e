package dto

// IssueCodeBatchRequest represents the request to issue a batch of scannable codes
// label_scheme decides how per-code labels are generated from label_prefix
type IssueCodeBatchRequest struct {
	MerchantID   uint    `json:"-"`
	Count        int     `json:"count" validate:"required,gte=1,lte=100"`
	LabelScheme  string  `json:"label_scheme" validate:"required,oneof=sequential location merchant_timestamp"`
	LabelPrefix  string  `json:"label_prefix" validate:"omitempty,max=64"`
	LocationUUID *string `json:"location_uuid,omitempty" validate:"omitempty,uuid"`
	BatchID      *string `json:"batch_id,omitempty" validate:"omitempty,uuid"`
}

// IssuedCodeDTO represents one issued code in responses
type IssuedCodeDTO struct {
	UUID         string  `json:"uuid"`
	ShortCode    string  `json:"short_code"`
	Label        string  `json:"label"`
	BatchID      string  `json:"batch_id"`
	Status       string  `json:"status"`
	LocationUUID *string `json:"location_uuid,omitempty"`
	ScanURL      string  `json:"scan_url"`
	QRImage      string  `json:"qr_image,omitempty"` // base64-encoded PNG
	CreatedAt    string  `json:"created_at"`
}

// IssueCodeBatchResponse represents the response to a batch issuance request
type IssueCodeBatchResponse struct {
	Message string          `json:"message"`
	BatchID string          `json:"batch_id"`
	Codes   []IssuedCodeDTO `json:"codes"`
}

// ListIssuedCodesFilter represents filter criteria for listing issued codes
type ListIssuedCodesFilter struct {
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=active archived"`
	BatchID      *string `json:"batch_id,omitempty" validate:"omitempty,uuid"`
	LocationUUID *string `json:"location_uuid,omitempty" validate:"omitempty,uuid"`
	ShortCode    *string `json:"short_code,omitempty" validate:"omitempty,max=16"`
}

// ListIssuedCodesRequest represents a paginated list request for a merchant's codes
type ListIssuedCodesRequest struct {
	MerchantID uint                   `json:"-"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	OrderBy    string                 `json:"orderby"` // newest, oldest
	Filter     *ListIssuedCodesFilter `json:"filter,omitempty"`
}

// ListIssuedCodesResponse represents a paginated list of issued codes
type ListIssuedCodesResponse struct {
	Message    string          `json:"message"`
	Items      []IssuedCodeDTO `json:"items"`
	Pagination PaginationInfo  `json:"pagination"`
}

// ArchiveCodeRequest represents the request to archive an issued code
type ArchiveCodeRequest struct {
	UUID       string `json:"-" validate:"required,uuid"`
	MerchantID uint   `json:"-"`
}

// ArchiveCodeResponse represents the response to an archive request
type ArchiveCodeResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
