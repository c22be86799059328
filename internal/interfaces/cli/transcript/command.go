// Package transcript provides offline commands over the configured store:
// export, import and render.
package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/velorie/ticketarchive/internal/application/transcript/dto"
	"github.com/velorie/ticketarchive/internal/infrastructure/config"
	"github.com/velorie/ticketarchive/internal/infrastructure/persistence"
	"github.com/velorie/ticketarchive/internal/infrastructure/render"
	"github.com/velorie/ticketarchive/internal/shared/logger"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	env        string
	configPath string
	format     string
	output     string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcript",
		Short: "Inspect and move stored transcripts",
		Long:  `Export, import or render transcripts directly against the configured store, without going through the HTTP API.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")

	cmd.AddCommand(
		newExportCommand(),
		newImportCommand(),
		newRenderCommand(),
	)

	return cmd
}

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <transcript-id>",
		Short: "Print a stored transcript in submission format",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format (json, yaml)")
	return cmd
}

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Store a transcript from a JSON or YAML submission file",
		Long:  `Validate and store a transcript file, for example one produced by export, honouring the configured conflict policy.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}
}

func newRenderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render <transcript-id>",
		Short: "Render a stored transcript to HTML",
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}
}

type environment struct {
	cfg   *config.Config
	log   logger.Interface
	store *persistence.TranscriptStore
}

func initEnv(ctx context.Context) (*environment, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Command output goes to stdout, so logs are kept to warnings on stderr.
	cfg.Logger.OutputPath = "stderr"
	if cfg.Logger.Level == "" || cfg.Logger.Level == "info" || cfg.Logger.Level == "debug" {
		cfg.Logger.Level = "warn"
	}
	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	store, err := persistence.OpenTranscriptStore(ctx, cfg, persistence.StoreOptions{}, log)
	if err != nil {
		return nil, err
	}

	return &environment{cfg: cfg, log: log, store: store}, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := initEnv(ctx)
	if err != nil {
		return err
	}
	defer e.store.Close()

	t, err := e.store.Repository.Fetch(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch transcript %q: %w", args[0], err)
	}

	data, err := encode(dto.FromTranscript(t), format)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), data)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	req, err := decode(data, formatFromPath(args[0]))
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	t, err := req.ToTranscript()
	if err != nil {
		return err
	}

	e, err := initEnv(ctx)
	if err != nil {
		return err
	}
	defer e.store.Close()

	if err := e.store.Repository.Create(ctx, t); err != nil {
		return fmt.Errorf("failed to store transcript %q: %w", t.ID(), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", e.cfg.Server.TranscriptURL(t.ID()))
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := initEnv(ctx)
	if err != nil {
		return err
	}
	defer e.store.Close()

	renderer, err := render.NewFromConfig(e.cfg.Render, nil, e.log)
	if err != nil {
		return err
	}

	t, err := e.store.Repository.Fetch(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch transcript %q: %w", args[0], err)
	}

	doc, err := renderer.Render(t)
	if err != nil {
		return fmt.Errorf("failed to render transcript %q: %w", args[0], err)
	}
	return writeOutput(cmd.OutOrStdout(), []byte(doc))
}

func encode(req *dto.SubmitTranscriptRequest, format string) ([]byte, error) {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(req, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case formatYAML:
		return yaml.Marshal(req)
	default:
		return nil, fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

func decode(data []byte, format string) (*dto.SubmitTranscriptRequest, error) {
	if format == formatJSON {
		return dto.DecodeSubmitTranscriptRequest(data)
	}

	var req dto.SubmitTranscriptRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid YAML transcript: %w", err)
	}
	return &req, nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

func writeOutput(stdout io.Writer, data []byte) error {
	if output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	return nil
}
