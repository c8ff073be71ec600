package domain

import "time"

// ImageCategory is the closed set of business image categories. It is
// validated once at ingress; everything downstream may assume a valid value.
type ImageCategory string

const (
	CategoryExterior ImageCategory = "exterior"
	CategoryInterior ImageCategory = "interior"
	CategoryProduct  ImageCategory = "product"
)

func (c ImageCategory) Valid() bool {
	switch c {
	case CategoryExterior, CategoryInterior, CategoryProduct:
		return true
	}
	return false
}

// FileDescriptor identifies one file a client intends to upload.
type FileDescriptor struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required"`
}

// UploadCredentialRequest is the broker's input: file descriptors grouped
// under the three fixed categories. The productImages wire name is kept for
// client compatibility; internally the category is "product".
type UploadCredentialRequest struct {
	Exterior      []FileDescriptor `json:"exterior" validate:"omitempty,dive"`
	Interior      []FileDescriptor `json:"interior" validate:"omitempty,dive"`
	ProductImages []FileDescriptor `json:"productImages" validate:"omitempty,dive"`
}

// Manifest flattens the request into category-tagged entries, in request order.
func (r UploadCredentialRequest) Manifest() []UploadManifestEntry {
	entries := make([]UploadManifestEntry, 0, len(r.Exterior)+len(r.Interior)+len(r.ProductImages))
	for _, f := range r.Exterior {
		entries = append(entries, UploadManifestEntry{Filename: f.Name, ContentType: f.Type, Category: CategoryExterior})
	}
	for _, f := range r.Interior {
		entries = append(entries, UploadManifestEntry{Filename: f.Name, ContentType: f.Type, Category: CategoryInterior})
	}
	for _, f := range r.ProductImages {
		entries = append(entries, UploadManifestEntry{Filename: f.Name, ContentType: f.Type, Category: CategoryProduct})
	}
	return entries
}

// UploadManifestEntry is one file the broker must issue a credential for.
type UploadManifestEntry struct {
	Filename    string
	ContentType string
	Category    ImageCategory
}

// UploadCredential is a short-lived write grant for exactly one object.
// Credentials are ephemeral: issued per request, never persisted, and matched
// back to files by the (OriginalFileName, Category) pair, never by position.
type UploadCredential struct {
	UploadURL        string        `json:"uploadUrl"`
	Key              string        `json:"key"`
	OriginalFileName string        `json:"originalFileName"`
	Category         ImageCategory `json:"category"`
	ExpiresAt        time.Time     `json:"expiresAt"`
}
