package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/chaitanya1705/mcqextract/config"
	"github.com/chaitanya1705/mcqextract/export"
	"github.com/chaitanya1705/mcqextract/extract"
	"github.com/chaitanya1705/mcqextract/ocr"
	"github.com/chaitanya1705/mcqextract/ocr/gemini"
	"github.com/chaitanya1705/mcqextract/ocr/tesseract"
	"github.com/chaitanya1705/mcqextract/ocr/vision"
	"github.com/chaitanya1705/mcqextract/reconcile"
	"github.com/chaitanya1705/mcqextract/textlayer"
)

var (
	flagConfig string
	flagHOCR   string
	flagPages  string
	flagFormat string
	flagOutput string
)

var extractCmd = &cobra.Command{
	Use:   "extract [regions-file]",
	Short: "Extract question and option text for selected regions",
	Long: `Extract resolves each region listed in the regions file against the
structured text layer (an hOCR sidecar) and, where the layer is sparse, a
configured image recognizer fed with crops of the rendered page images.`,
	Example: `  # Structured layer only
  mcqextract extract regions.json --hocr doc.hocr

  # With Tesseract fallback over rendered page images
  mcqextract extract regions.json --hocr doc.hocr --pages render/ -f markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "session config file (YAML)")
	extractCmd.Flags().StringVar(&flagHOCR, "hocr", "", "hOCR file carrying the structured text layer")
	extractCmd.Flags().StringVar(&flagPages, "pages", "", "directory of rendered page images (page-N.png)")
	extractCmd.Flags().StringVarP(&flagFormat, "format", "f", "json", "output format: json, markdown or html")
	extractCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file (default stdout)")
	_ = extractCmd.MarkFlagRequired("hocr")
}

// regionsFile is the on-disk shape of a selection set: the page geometry the
// raster was produced with plus the drawn rectangles.
type regionsFile struct {
	PageHeight float64          `json:"pageHeight"`
	Scale      float64          `json:"scale"`
	Regions    []extract.Region `json:"regions"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log)

	regions, page, err := loadRegions(args[0])
	if err != nil {
		return err
	}
	hocrData, err := os.ReadFile(flagHOCR)
	if err != nil {
		return fmt.Errorf("read hOCR: %w", err)
	}
	source, err := textlayer.ParseHOCR(hocrData)
	if err != nil {
		return err
	}

	var cropper extract.Cropper
	if flagPages != "" {
		cropper = &dirCropper{dir: flagPages}
	}
	recognizer, release, err := buildRecognizer(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer release()

	session, err := extract.NewSession(extract.Config{
		Source:     source,
		Cropper:    cropper,
		Recognizer: recognizer,
		Delay:      cfg.Delay(),
		Logger:     &logger,
	})
	if err != nil {
		return err
	}

	outcomes, err := session.ExtractAll(cmd.Context(), page, regions)
	if err != nil {
		return err
	}
	questions := extract.AssembleQuestions(regions, outcomes)
	logger.Info().Int("regions", len(regions)).Int("questions", len(questions)).Msg("extraction complete")

	rendered, err := render(questions, flagFormat)
	if err != nil {
		return err
	}
	return writeOutput(rendered)
}

func loadRegions(path string) ([]extract.Region, extract.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, extract.Page{}, fmt.Errorf("read regions: %w", err)
	}
	var rf regionsFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, extract.Page{}, fmt.Errorf("parse regions: %w", err)
	}
	if rf.PageHeight <= 0 || rf.Scale <= 0 {
		return nil, extract.Page{}, fmt.Errorf("regions file needs positive pageHeight and scale")
	}
	return rf.Regions, extract.Page{Height: rf.PageHeight, Scale: rf.Scale}, nil
}

// buildRecognizer constructs the configured engine behind a lazily-started
// managed handle so an unused recognizer never pays its startup cost.
func buildRecognizer(ctx context.Context, cfg config.Config) (reconcile.Recognizer, func(), error) {
	var factory func() (ocr.Engine, error)
	switch cfg.Engine {
	case config.EngineNone:
		return nil, func() {}, nil
	case config.EngineTesseract:
		factory = func() (ocr.Engine, error) { return tesseract.New(), nil }
	case config.EngineVision:
		factory = func() (ocr.Engine, error) { return vision.New(ctx) }
	case config.EngineGemini:
		factory = func() (ocr.Engine, error) {
			return gemini.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		}
	default:
		return nil, nil, fmt.Errorf("unknown engine %q", cfg.Engine)
	}

	managed := ocr.NewManaged(factory)
	release := func() { _ = managed.Release() }
	opts := []ocr.InputOption{ocr.WithLanguages(cfg.Languages...), ocr.WithDPI(cfg.DPI)}
	if cfg.Engine == config.EngineTesseract {
		opts = append(opts, ocr.WithTesseractPSM(6))
	}
	return extract.EngineRecognizer{Engine: managed, Options: opts}, release, nil
}

func render(questions []extract.Question, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		return export.JSON(questions)
	case "markdown", "md":
		return []byte(export.Markdown(questions)), nil
	case "html":
		html, err := export.HTML(questions)
		if err != nil {
			return nil, err
		}
		return []byte(html), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func writeOutput(data []byte) error {
	if flagOutput == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(flagOutput, data, 0o644)
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if cfg.Format == "json" {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger.Level(level).With().Timestamp().Logger()
}
