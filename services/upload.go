package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"resty.dev/v3"

	"inkwell/config"
)

const maxUploadBytes = 5 * 1024 * 1024

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// UploadService proxies cover-image uploads to the image CDN's unsigned
// upload endpoint so the upload preset never reaches the browser.
type UploadService struct {
	client    *resty.Client
	cloudName string
	preset    string
}

func NewUploadService(cfg config.AppConfig) *UploadService {
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetRetryCount(2)
	return &UploadService{
		client:    client,
		cloudName: cfg.CDNCloudName,
		preset:    cfg.CDNUploadPreset,
	}
}

type cdnUploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the image and returns its public HTTPS URL.
func (s *UploadService) Upload(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	if s.cloudName == "" || s.preset == "" {
		return "", fmt.Errorf("image cdn not configured")
	}
	if len(data) == 0 || len(data) > maxUploadBytes {
		return "", &ValidationError{Fields: map[string][]string{"file": {"file must be between 1 byte and 5 MB"}}}
	}
	if _, ok := allowedImageTypes[contentType]; !ok {
		return "", &ValidationError{Fields: map[string][]string{"file": {"unsupported image type"}}}
	}

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", s.cloudName)

	var out cdnUploadResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(data)).
		SetFormData(map[string]string{"upload_preset": s.preset}).
		SetResult(&out).
		SetError(&out).
		Post(endpoint)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		if out.Error.Message != "" {
			return "", fmt.Errorf("cdn upload failed: %s", out.Error.Message)
		}
		return "", fmt.Errorf("cdn upload failed: status %d", resp.StatusCode())
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("cdn upload returned no url")
	}
	return out.SecureURL, nil
}
