package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/konnectsl/wallet_backend/internal/apperrors"
	portssvc "github.com/konnectsl/wallet_backend/internal/core/ports/services"
)

// maxEvidenceSize bounds one uploaded payment screenshot.
const maxEvidenceSize = 5 << 20

type evidenceService struct {
	BaseService
	baseDir string
	baseURL string
}

// NewEvidenceService creates a disk-backed evidence store. Files are served
// back under baseURL by the static route.
func NewEvidenceService(baseDir, baseURL string) portssvc.EvidenceStoreSvc {
	return &evidenceService{baseDir: baseDir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

var _ portssvc.EvidenceStoreSvc = (*evidenceService)(nil)

// Store writes the uploaded evidence under a random name and returns the URL
// the core persists. The stored bytes are never interpreted.
func (s *evidenceService) Store(ctx context.Context, userID, filename string, content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("%w: evidence file is empty", apperrors.ErrValidation)
	}
	if len(content) > maxEvidenceSize {
		return "", fmt.Errorf("%w: evidence file exceeds %d bytes", apperrors.ErrValidation, maxEvidenceSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".pdf":
	default:
		return "", fmt.Errorf("%w: unsupported evidence file type %q", apperrors.ErrValidation, ext)
	}

	dir := filepath.Join(s.baseDir, userID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create evidence directory: %w", err)
	}

	name := uuid.NewString() + ext
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o640); err != nil {
		return "", fmt.Errorf("failed to write evidence file: %w", err)
	}

	s.LogInfo(ctx, "Evidence stored", "user_id", userID, "file", name)
	return fmt.Sprintf("%s/%s/%s", s.baseURL, userID, name), nil
}
