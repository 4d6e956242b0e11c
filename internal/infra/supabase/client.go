package supabase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"pptx-generator/internal/domain"

	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
)

const listPageSize = 1000

// SupabaseClient implements the domain.SupabaseClient interface
type SupabaseClient struct {
	client *supabase.Client
	config domain.Config
	logger domain.Logger
}

// storageError is the JSON body storage returns instead of object bytes.
type storageError struct {
	StatusCode string `json:"statusCode"`
	Code       string `json:"error"`
	Message    string `json:"message"`
}

func (e *storageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *storageError) notFound() bool {
	return e.StatusCode == strconv.Itoa(http.StatusNotFound) || isNotFound(e.Code)
}

// NewSupabaseClient creates a new Supabase client instance
func NewSupabaseClient(config domain.Config, logger domain.Logger) domain.SupabaseClient {
	return &SupabaseClient{
		config: config,
		logger: logger,
	}
}

// Initialize establishes a connection to Supabase
func (s *SupabaseClient) Initialize() error {
	supabaseURL := s.config.GetSupabaseURL()
	supabaseKey := s.config.GetSupabaseKey()

	if supabaseURL == "" || supabaseKey == "" {
		return fmt.Errorf("supabase URL and key must be provided")
	}

	client, err := supabase.NewClient(supabaseURL, supabaseKey, &supabase.ClientOptions{})
	if err != nil {
		return fmt.Errorf("failed to create Supabase client: %w", err)
	}

	s.client = client
	s.logger.Info("Supabase client initialized successfully", "url", supabaseURL)
	return nil
}

// DownloadObject fetches an object from a storage bucket. Missing objects are
// reported as domain.ErrTemplateNotFound.
func (s *SupabaseClient) DownloadObject(bucket, path string) ([]byte, error) {
	if s.client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, err := s.client.Storage.DownloadFile(bucket, path)
	if err != nil {
		if isNotFound(err.Error()) {
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrTemplateNotFound, bucket, path)
		}
		return nil, fmt.Errorf("failed to download %s/%s: %w", bucket, path, err)
	}

	if se := decodeStorageError(data); se != nil {
		if se.notFound() {
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrTemplateNotFound, bucket, path)
		}
		return nil, fmt.Errorf("failed to download %s/%s: %w", bucket, path, se)
	}
	return data, nil
}

// ListObjects returns the object names at the root of a bucket.
func (s *SupabaseClient) ListObjects(bucket string) ([]string, error) {
	if s.client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	files, err := s.client.Storage.ListFiles(bucket, "", storage_go.FileSearchOptions{Limit: listPageSize})
	if err != nil {
		return nil, fmt.Errorf("failed to list bucket %s: %w", bucket, err)
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		if f.Name != "" {
			names = append(names, f.Name)
		}
	}
	return names, nil
}

// decodeStorageError recognises an error document returned with a success
// status. Real objects are binary archives and never start with '{'.
func decodeStorageError(data []byte) *storageError {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var se storageError
	if err := json.Unmarshal(trimmed, &se); err != nil {
		return nil
	}
	if se.Code == "" && se.Message == "" {
		return nil
	}
	return &se
}

// isNotFound matches the not-found wording storage uses in error messages.
func isNotFound(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "not found") || strings.Contains(msg, "not_found")
}
