package upload

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/biz-onboarding-api/internal/domain"
	"github.com/biz-onboarding-api/internal/pkg/id"
)

// Service is the upload broker: it turns a manifest of files-by-category into
// one short-lived write credential per file.
type Service interface {
	IssueCredentials(ctx context.Context, req domain.UploadCredentialRequest) ([]domain.UploadCredential, error)
}

type presigner interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, time.Time, error)
}

type service struct {
	store presigner
	ttl   time.Duration
}

func NewService(store presigner, ttl time.Duration) Service {
	return &service{store: store, ttl: ttl}
}

// IssueCredentials issues one write credential per manifest entry. Every
// output entry is traceable to exactly one input entry via its
// (OriginalFileName, Category) pair; output order is not a contract.
// Duplicate (filename, category) pairs are rejected because they would make
// that join ambiguous.
func (s *service) IssueCredentials(ctx context.Context, req domain.UploadCredentialRequest) ([]domain.UploadCredential, error) {
	entries := req.Manifest()
	if len(entries) == 0 {
		return nil, fmt.Errorf("no files provided: %w", domain.ErrBadRequest)
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if !e.Category.Valid() {
			return nil, fmt.Errorf("invalid category %q: %w", e.Category, domain.ErrBadRequest)
		}
		k := string(e.Category) + "/" + e.Filename
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("duplicate file %q in category %q: %w", e.Filename, e.Category, domain.ErrBadRequest)
		}
		seen[k] = struct{}{}
	}

	creds := make([]domain.UploadCredential, 0, len(entries))
	for _, e := range entries {
		key := storageKey(e.Category, e.Filename)
		url, expiresAt, err := s.store.PresignPut(ctx, key, e.ContentType, s.ttl)
		if err != nil {
			return nil, fmt.Errorf("presign %s: %w", key, err)
		}
		creds = append(creds, domain.UploadCredential{
			UploadURL:        url,
			Key:              key,
			OriginalFileName: e.Filename,
			Category:         e.Category,
			ExpiresAt:        expiresAt,
		})
	}
	return creds, nil
}

// storageKey encodes the category, a collision-resistant unique id and the
// sanitized original filename into the object path.
func storageKey(category domain.ImageCategory, filename string) string {
	return fmt.Sprintf("uploads/%s-%s-%s", category, id.New(), sanitizeFilename(filename))
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) to prevent path traversal in S3 keys.
func sanitizeFilename(name string) string {
	name = path.Base(name) // drop any leading path components / traversal sequences
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." && result != ".." {
		return result
	}
	return "_"
}
