package config

import (
	"pptx-generator/internal/domain"
	"pptx-generator/internal/infra/supabase"
	"pptx-generator/internal/repository"
	"pptx-generator/internal/service"
	"pptx-generator/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config                domain.Config
	Logger                domain.Logger
	SupabaseClient        domain.SupabaseClient
	TemplateRepository    domain.TemplateRepository
	PresentationGenerator domain.PresentationGenerator
	DocumentExtractor     domain.DocumentExtractor
}

// NewContainer creates a new dependency injection container
func NewContainer(config domain.Config) *Container {
	appLogger := logger.NewLogger(config.GetLogLevel())
	return NewContainerWithLogger(config, appLogger)
}

// NewContainerWithLogger wires the application around an existing logger
func NewContainerWithLogger(config domain.Config, appLogger domain.Logger) *Container {
	var (
		supabaseClient domain.SupabaseClient
		templates      domain.TemplateRepository
	)

	local := repository.NewLocalTemplateRepository(config.GetTemplateDir(), appLogger)
	templates = local

	// Remote templates are optional; a misconfigured client only disables them.
	if config.GetSupabaseURL() != "" && config.GetSupabaseKey() != "" && config.GetTemplateBucket() != "" {
		client := supabase.NewSupabaseClient(config, appLogger)
		if err := client.Initialize(); err != nil {
			appLogger.Error("Remote templates disabled", err, "bucket", config.GetTemplateBucket())
		} else {
			supabaseClient = client
			templates = repository.NewChainTemplateRepository(
				local,
				repository.NewSupabaseTemplateRepository(client, config.GetTemplateBucket(), appLogger),
			)
		}
	}

	generator := service.NewPresentationService(templates, config.GetDefaultTemplate(), appLogger)
	extractor := service.NewExtractionService(
		config.GetUploadPath(),
		appLogger,
		service.NewPDFExtractorChain(config.GetPDFEngine(), appLogger),
		service.NewDOCXExtractor(),
	)

	return &Container{
		Config:                config,
		Logger:                appLogger,
		SupabaseClient:        supabaseClient,
		TemplateRepository:    templates,
		PresentationGenerator: generator,
		DocumentExtractor:     extractor,
	}
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

// GetSupabaseClient returns the Supabase client, nil when remote templates are off
func (c *Container) GetSupabaseClient() domain.SupabaseClient {
	return c.SupabaseClient
}

// GetTemplateRepository returns the template repository instance
func (c *Container) GetTemplateRepository() domain.TemplateRepository {
	return c.TemplateRepository
}

// Close flushes buffered log entries. Call it once the application stops
// using the container.
func (c *Container) Close() {
	if s, ok := c.Logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
}
