package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pptx-generator/internal/domain"
	apperrors "pptx-generator/pkg/errors"
)

var templateExtensions = map[string]bool{
	".pptx": true,
	".potx": true,
}

func isTemplateFile(name string) bool {
	return templateExtensions[strings.ToLower(filepath.Ext(name))]
}

func templateNotFound(name string) *apperrors.AppError {
	return apperrors.NewNotFoundError(fmt.Sprintf("template %q not found", name))
}

// LocalTemplateRepository serves templates from a directory on disk
type LocalTemplateRepository struct {
	dir    string
	logger domain.Logger
}

// NewLocalTemplateRepository creates a repository rooted at dir
func NewLocalTemplateRepository(dir string, logger domain.Logger) *LocalTemplateRepository {
	return &LocalTemplateRepository{dir: dir, logger: logger}
}

// Dir returns the directory templates are read from
func (r *LocalTemplateRepository) Dir() string {
	return r.dir
}

func (r *LocalTemplateRepository) Load(ctx context.Context, name string) ([]byte, error) {
	if err := domain.ValidateTemplateName(name); err != nil {
		return nil, apperrors.NewValidationError("invalid template name", err.Error())
	}

	path := filepath.Join(r.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		if err != nil && !os.IsNotExist(err) {
			r.logger.Warn("Failed to stat template", "path", path, "error", err)
		}
		return nil, templateNotFound(name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read template", err)
	}

	r.logger.Debug("Template loaded", "name", name, "source", "local", "bytes", len(data))
	return data, nil
}

// List returns the template files in the directory sorted by name. A missing
// directory yields an empty list.
func (r *LocalTemplateRepository) List(ctx context.Context) ([]domain.TemplateInfo, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.TemplateInfo{}, nil
		}
		return nil, apperrors.NewInternalError("failed to list templates", err)
	}

	templates := make([]domain.TemplateInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isTemplateFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		templates = append(templates, domain.TemplateInfo{
			Name:       entry.Name(),
			Size:       info.Size(),
			ModifiedAt: info.ModTime().UTC(),
		})
	}

	sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })
	return templates, nil
}

// SupabaseTemplateRepository downloads templates from a storage bucket
type SupabaseTemplateRepository struct {
	client domain.SupabaseClient
	bucket string
	logger domain.Logger
}

// NewSupabaseTemplateRepository creates a repository backed by a storage bucket
func NewSupabaseTemplateRepository(client domain.SupabaseClient, bucket string, logger domain.Logger) *SupabaseTemplateRepository {
	return &SupabaseTemplateRepository{client: client, bucket: bucket, logger: logger}
}

func (r *SupabaseTemplateRepository) Load(ctx context.Context, name string) ([]byte, error) {
	if err := domain.ValidateTemplateName(name); err != nil {
		return nil, apperrors.NewValidationError("invalid template name", err.Error())
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to download template", err)
	}

	data, err := r.client.DownloadObject(r.bucket, name)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			return nil, templateNotFound(name)
		}
		r.logger.Error("Failed to download template", err, "bucket", r.bucket, "name", name)
		return nil, apperrors.NewInternalError("failed to download template", err)
	}

	r.logger.Debug("Template loaded", "name", name, "source", "supabase", "bucket", r.bucket, "bytes", len(data))
	return data, nil
}

func (r *SupabaseTemplateRepository) List(ctx context.Context) ([]domain.TemplateInfo, error) {
	names, err := r.client.ListObjects(r.bucket)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list templates", err)
	}

	templates := make([]domain.TemplateInfo, 0, len(names))
	for _, name := range names {
		if isTemplateFile(name) {
			templates = append(templates, domain.TemplateInfo{Name: name})
		}
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })
	return templates, nil
}

// ChainTemplateRepository consults repositories in order; a name found in an
// earlier repository shadows later ones.
type ChainTemplateRepository struct {
	repos []domain.TemplateRepository
}

// NewChainTemplateRepository creates a chain over repos
func NewChainTemplateRepository(repos ...domain.TemplateRepository) *ChainTemplateRepository {
	return &ChainTemplateRepository{repos: repos}
}

func (c *ChainTemplateRepository) Load(ctx context.Context, name string) ([]byte, error) {
	for _, repo := range c.repos {
		data, err := repo.Load(ctx, name)
		if err == nil {
			return data, nil
		}
		if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, err
		}
	}
	return nil, templateNotFound(name)
}

func (c *ChainTemplateRepository) List(ctx context.Context) ([]domain.TemplateInfo, error) {
	seen := map[string]bool{}
	var templates []domain.TemplateInfo
	for _, repo := range c.repos {
		list, err := repo.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range list {
			if seen[t.Name] {
				continue
			}
			seen[t.Name] = true
			templates = append(templates, t)
		}
	}
	if templates == nil {
		templates = []domain.TemplateInfo{}
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })
	return templates, nil
}
