package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pptx-generator/internal/domain"
	"pptx-generator/internal/skeleton"

	"github.com/spf13/cobra"
)

func newInitTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-template [path]",
		Short: "Write the built-in default template",
		Long: `Write a minimal template with title, title-and-content, title-only and
blank layouts. The path defaults to TEMPLATE_DIR/DEFAULT_TEMPLATE.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInitTemplate,
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}

func runInitTemplate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.GetTemplateDir(), cfg.GetDefaultTemplate())
	if len(args) == 1 {
		path = args[0]
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	data, err := skeleton.Default()
	if err != nil {
		return fmt.Errorf("build template: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create template dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write template: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Fill a template from a JSON slide list",
		Long: `Append one slide per {"title","body"} record to a template and write the
result. --slides reads a JSON array from a file, or from stdin with "-".

Example:
  pptx-generator generate --template corp.pptx --slides slides.json --out deck.pptx
  echo '[{"title":"Hello"}]' | pptx-generator generate --slides -`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}
	cmd.Flags().StringP("template", "t", "", "Template name in the template directory (default: DEFAULT_TEMPLATE)")
	cmd.Flags().String("template-file", "", "Template file path, used instead of --template")
	cmd.Flags().StringP("slides", "s", "", `JSON slide list file, "-" for stdin`)
	cmd.Flags().StringP("out", "o", "presentation.pptx", "Output path")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	container, err := newContainer(cmd)
	if err != nil {
		return err
	}
	defer container.Close()

	req := &domain.GenerationRequest{}
	req.Template.Name, _ = cmd.Flags().GetString("template")
	if templateFile, _ := cmd.Flags().GetString("template-file"); templateFile != "" {
		data, err := os.ReadFile(templateFile)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
		req.Template = domain.TemplateSource{Name: filepath.Base(templateFile), Data: data}
	}

	slidesPath, _ := cmd.Flags().GetString("slides")
	raw, err := readInput(cmd, slidesPath)
	if err != nil {
		return err
	}
	if len(raw) > 0 && !json.Valid(raw) {
		return fmt.Errorf("slides: invalid JSON")
	}
	req.Slides, err = domain.ParseSlides(raw)
	if err != nil {
		return err
	}

	out, err := container.PresentationGenerator.Generate(cmd.Context(), req)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	if err := os.WriteFile(outPath, out.Data, 0o644); err != nil {
		return fmt.Errorf("write presentation: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d slides)\n", outPath, out.SlideCount)
	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	switch path {
	case "":
		return nil, nil
	case "-":
		return io.ReadAll(cmd.InOrStdin())
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read slides: %w", err)
		}
		return data, nil
	}
}

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file>",
		Short: "Print the plain text of a PDF or DOCX file",
		Args:  cobra.ExactArgs(1),
		RunE:  runExtract,
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	container, err := newContainer(cmd)
	if err != nil {
		return err
	}
	defer container.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	out, err := container.DocumentExtractor.ExtractUpload(cmd.Context(), filepath.Base(args[0]), f)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out.Text)
	return nil
}
