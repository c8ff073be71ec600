package upload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/biz-onboarding-api/internal/domain"
)

// LocalFile is one file the coordinator can upload, identified by the same
// (Name, Category) pair the broker echoes back in its credentials.
type LocalFile struct {
	Name        string
	Category    domain.ImageCategory
	ContentType string
	Body        io.Reader
}

// Failure records one write that did not complete.
type Failure struct {
	Key      string
	Category domain.ImageCategory
	Err      error
}

// Result holds the storage keys of successful writes grouped by category,
// plus the writes that failed. The caller decides whether an incomplete
// category blocks submission.
type Result struct {
	Keys     map[domain.ImageCategory][]string
	Failures []Failure
}

// Coordinator executes exactly one write per issued credential. Credentials
// are matched to local files by the (filename, category) pair, never by
// position, since the broker's output order is not a contract.
type Coordinator struct {
	client *http.Client
}

func NewCoordinator(client *http.Client) *Coordinator {
	if client == nil {
		client = http.DefaultClient
	}
	return &Coordinator{client: client}
}

type pairKey struct {
	name     string
	category domain.ImageCategory
}

// Execute fans the writes out with unconstrained concurrency: a failed write
// never blocks the others, and nothing is retried. A credential with no
// matching local file aborts before any byte is sent; silently skipping an
// issued grant would hide client bugs.
func (c *Coordinator) Execute(ctx context.Context, creds []domain.UploadCredential, files []LocalFile) (*Result, error) {
	byPair := make(map[pairKey]LocalFile, len(files))
	for _, f := range files {
		byPair[pairKey{f.Name, f.Category}] = f
	}
	matched := make([]LocalFile, len(creds))
	for i, cred := range creds {
		f, ok := byPair[pairKey{cred.OriginalFileName, cred.Category}]
		if !ok {
			return nil, fmt.Errorf("no local file for credential %s (%s): %w",
				cred.OriginalFileName, cred.Category, domain.ErrBadRequest)
		}
		matched[i] = f
	}

	res := &Result{Keys: make(map[domain.ImageCategory][]string)}
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i, cred := range creds {
		wg.Add(1)
		go func(cred domain.UploadCredential, f LocalFile) {
			defer wg.Done()
			err := c.put(ctx, cred, f)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failures = append(res.Failures, Failure{Key: cred.Key, Category: cred.Category, Err: err})
				return
			}
			res.Keys[cred.Category] = append(res.Keys[cred.Category], cred.Key)
		}(cred, matched[i])
	}
	wg.Wait()
	return res, nil
}

func (c *Coordinator) put(ctx context.Context, cred domain.UploadCredential, f LocalFile) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, cred.UploadURL, f.Body)
	if err != nil {
		return err
	}
	if f.ContentType != "" {
		req.Header.Set("Content-Type", f.ContentType)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("storage rejected write for %s: %s: %s", cred.Key, resp.Status, body)
	}
	return nil
}
