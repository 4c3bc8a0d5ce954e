package dto

// BrandingDTO represents the public branding a feedback page renders
type BrandingDTO struct {
	Name             string  `json:"name"`
	LogoURL          *string `json:"logo_url,omitempty"`
	PrimaryColor     *string `json:"primary_color,omitempty"`
	SecondaryColor   *string `json:"secondary_color,omitempty"`
	ReviewPlatformID *string `json:"review_platform_id,omitempty"`
	ContactEmail     *string `json:"contact_email,omitempty"`
	ContactPhone     *string `json:"contact_phone,omitempty"`
}

// ResolveCodeResponse represents the response to resolving a scanned short code
type ResolveCodeResponse struct {
	Message  string        `json:"message"`
	Code     IssuedCodeDTO `json:"code"`
	Branding BrandingDTO   `json:"branding"`
}

// RecordScanRequest represents the request to record a scan event
// The fingerprint is derived server-side from the client address, never bound from the body
type RecordScanRequest struct {
	CodeUUID      string  `json:"code_uuid" validate:"required,uuid"`
	SessionID     string  `json:"session_id" validate:"required,min=8,max=64"`
	UserAgent     *string `json:"-"`
	IPFingerprint string  `json:"-"`
}

// ScanEventDTO represents one recorded scan in responses
type ScanEventDTO struct {
	UUID      string `json:"uuid"`
	CodeUUID  string `json:"code_uuid"`
	SessionID string `json:"session_id"`
	CreatedAt string `json:"created_at"`
}

// RecordScanResponse represents the response to a scan recording request
type RecordScanResponse struct {
	Message string       `json:"message"`
	Scan    ScanEventDTO `json:"scan"`
}

// SubmitReviewRequest represents the request to submit a rating with an optional comment
type SubmitReviewRequest struct {
	CodeUUID  string  `json:"code_uuid" validate:"required,uuid"`
	SessionID string  `json:"session_id" validate:"required,min=8,max=64"`
	Rating    int     `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// ReviewSubmissionDTO represents one feedback submission in responses
type ReviewSubmissionDTO struct {
	UUID           string  `json:"uuid"`
	CodeUUID       string  `json:"code_uuid"`
	ScanUUID       *string `json:"scan_uuid,omitempty"`
	Rating         int     `json:"rating"`
	Comment        *string `json:"comment,omitempty"`
	GoogleClicked  bool    `json:"google_clicked"`
	ContactClicked bool    `json:"contact_clicked"`
	LastCTA        string  `json:"last_cta"`
	Outcome        string  `json:"outcome"`
	CreatedAt      string  `json:"created_at"`
}

// SubmitReviewResponse represents the response to a review submission
// Outcome tells the caller which CTA track to render
type SubmitReviewResponse struct {
	Message    string              `json:"message"`
	Submission ReviewSubmissionDTO `json:"submission"`
	Outcome    string              `json:"outcome"`
}

// RecordClickRequest represents the request to attribute a CTA click to a submission
type RecordClickRequest struct {
	SubmissionUUID string `json:"-"`
	CTAType        string `json:"cta_type" validate:"required,oneof=google_copy google_direct contact_email contact_phone"`
}

// CTAClickDTO represents one audited CTA click in responses
type CTAClickDTO struct {
	UUID           string `json:"uuid"`
	SubmissionUUID string `json:"submission_uuid"`
	CTAType        string `json:"cta_type"`
	ClickedAt      string `json:"clicked_at"`
}

// RecordClickResponse represents the response to a click attribution request
type RecordClickResponse struct {
	Message    string              `json:"message"`
	Click      CTAClickDTO         `json:"click"`
	Submission ReviewSubmissionDTO `json:"submission"`
}
