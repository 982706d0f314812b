// Package cli implements claimsctl, the command line front end of the
// claims intake service.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/claims-intake/internal/config"
	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/claims-intake/pkg/client"
	"github.com/turtacn/claims-intake/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const defaultServerAddr = "http://localhost:8080"

type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Timeout      time.Duration
	ServerAddr   string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Options      *RootOptions
	Logger       logging.Logger
	OutputFormat string
}

// LoadConfig reads the service configuration named by --config, falling
// back to CLAIMS_* environment variables and defaults.
func (c *CLIContext) LoadConfig() (*config.Config, error) {
	return config.Load(c.Options.ConfigPath)
}

// Client builds an SDK client for --server.
func (c *CLIContext) Client() (*client.Client, error) {
	addr := c.Options.ServerAddr
	if addr == "" {
		addr = defaultServerAddr
	}
	return client.NewClient(addr, client.WithTimeout(c.Options.Timeout))
}

// NewRootCommand creates the root command with global flags and every
// subcommand attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "claimsctl",
		Short: "claimsctl runs and inspects the insurance claim intake pipeline",
		Long: "claimsctl extracts, classifies and routes insurance claim documents, either\n" +
			"locally (process) or against a running intake server (submit, queue).",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: CLAIMS_* environment)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json)")
	pf.DurationVar(&opts.Timeout, "timeout", 2*time.Minute, "operation timeout")
	pf.StringVar(&opts.ServerAddr, "server", "", "intake server address (default: "+defaultServerAddr+")")

	cmd.AddCommand(
		NewProcessCmd(),
		NewSubmitCmd(),
		NewQueueCmd(),
		NewVersionCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	switch strings.ToLower(opts.OutputFormat) {
	case "text", "json":
	default:
		return errors.Newf(errors.CodeInvalidParam, "unknown output format %q", opts.OutputFormat)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:            opts.LogLevel,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "logger initialization failed")
	}

	cliCtx := &CLIContext{
		Options:      opts,
		Logger:       logger,
		OutputFormat: strings.ToLower(opts.OutputFormat),
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

// GetCLIContext extracts CLIContext from a command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.CodeInternal, "command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.New(errors.CodeInternal, "CLIContext not found in command context")
	}
	return cliCtx, nil
}

// commandContext bounds a command by --timeout.
func commandContext(cmd *cobra.Command, cliCtx *CLIContext) (context.Context, context.CancelFunc) {
	if cliCtx.Options.Timeout > 0 {
		return context.WithTimeout(cmd.Context(), cliCtx.Options.Timeout)
	}
	return context.WithCancel(cmd.Context())
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return 1
	}
	return 0
}

// ---------------------------------------------------------------------------
// Output helpers
// ---------------------------------------------------------------------------

// textRenderer is implemented by results with a human readable form.
type textRenderer interface {
	RenderText() string
}

// PrintResult writes data in the selected output format.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil || cliCtx.OutputFormat == "json" {
		return printJSON(cmd, data)
	}
	if tr, ok := data.(textRenderer); ok {
		fmt.Fprint(cmd.OutOrStdout(), tr.RenderText())
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", data)
	return nil
}

func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintError writes a formatted error message to stderr. Server rejections
// show only the server's message.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	if apiErr, ok := client.AsAPIError(err); ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s (HTTP %d)\n", apiErr.Message, apiErr.StatusCode)
		return
	}
	if errors.IsClientError(err) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", errors.PublicMessage(err))
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
}

// FormatTable renders headers and rows as an aligned ASCII table.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(colWidths); i++ {
			if len(row[i]) > colWidths[i] {
				colWidths[i] = len(row[i])
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i := range headers {
			if i > 0 {
				sb.WriteString("  ")
			}
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			sb.WriteString(padRight(val, colWidths[i]))
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	sep := make([]string, len(headers))
	for i, w := range colWidths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep)
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

//Personal.AI order the ending
