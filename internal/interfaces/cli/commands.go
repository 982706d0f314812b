package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/claims-intake/internal/app"
	"github.com/turtacn/claims-intake/internal/application/intake"
	"github.com/turtacn/claims-intake/pkg/errors"
	claimtypes "github.com/turtacn/claims-intake/pkg/types/claim"
)

// ResultView renders a PipelineResult for the terminal.
type ResultView struct {
	*claimtypes.PipelineResult
}

func (v ResultView) RenderText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Claimant:       %s\n", orAbsent(v.ExtractedData.ClaimantName))
	fmt.Fprintf(&sb, "Date:           %s\n", orAbsent(v.ExtractedData.ClaimDate))
	fmt.Fprintf(&sb, "Amount:         %s\n", orAbsent(v.ExtractedData.ClaimAmount))
	fmt.Fprintf(&sb, "Type:           %s\n", v.ClaimType)
	fmt.Fprintf(&sb, "Priority:       %d\n", v.PriorityScore)
	fmt.Fprintf(&sb, "Routing:        %s\n", v.RoutingStatus)
	if v.Message != "" {
		fmt.Fprintf(&sb, "Message:        %s\n", v.Message)
	}
	return sb.String()
}

// QueueView renders the review queue as a table.
type QueueView struct {
	*claimtypes.ReviewQueueResponse
}

func (v QueueView) RenderText() string {
	if len(v.Entries) == 0 {
		return "Review queue is empty.\n"
	}
	rows := make([][]string, 0, len(v.Entries))
	for _, e := range v.Entries {
		rows = append(rows, []string{
			e.ClaimID,
			strconv.Itoa(e.PriorityScore),
			orAbsent(e.ClaimData.ClaimantName),
			orAbsent(e.ClaimData.ClaimAmount),
			e.EnqueuedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return FormatTable([]string{"CLAIM ID", "PRIORITY", "CLAIMANT", "AMOUNT", "ENQUEUED"}, rows)
}

func orAbsent(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

// detectContentType guesses a MIME type from the extension; "" lets the
// extractor fall back to the extension itself.
func detectContentType(path, explicit string) string {
	if explicit != "" {
		return explicit
	}
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return ct
}

// NewProcessCmd runs the pipeline in-process against a local file.
func NewProcessCmd() *cobra.Command {
	var contentType string
	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Run the intake pipeline locally on a claim document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg, err := cliCtx.LoadConfig()
			if err != nil {
				return errors.Wrap(err, errors.CodeInvalidParam, "config initialization failed")
			}

			content, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, errors.CodeInvalidParam, "cannot read document").WithDetail(args[0])
			}

			built, err := app.Build(cfg, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer built.Close()

			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			res, err := built.Pipeline.Process(ctx, intake.Document{
				Content:     content,
				ContentType: detectContentType(args[0], contentType),
				Filename:    filepath.Base(args[0]),
			})
			if err != nil {
				return err
			}
			return PrintResult(cmd, ResultView{res})
		},
	}
	cmd.Flags().StringVar(&contentType, "content-type", "", "declared MIME type (default: from extension)")
	return cmd
}

// NewSubmitCmd uploads a file to a running server.
func NewSubmitCmd() *cobra.Command {
	var contentType string
	cmd := &cobra.Command{
		Use:   "submit <file>",
		Short: "Upload a claim document to an intake server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			c, err := cliCtx.Client()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			res, err := c.ProcessClaimFile(ctx, args[0], detectContentType(args[0], contentType))
			if err != nil {
				return err
			}
			return PrintResult(cmd, ResultView{res})
		},
	}
	cmd.Flags().StringVar(&contentType, "content-type", "", "declared MIME type (default: from extension)")
	return cmd
}

// NewQueueCmd lists a server's review queue.
func NewQueueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "List the human review queue of an intake server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			c, err := cliCtx.Client()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			resp, err := c.ReviewQueue(ctx)
			if err != nil {
				return err
			}
			return PrintResult(cmd, QueueView{resp})
		},
	}
}

// BuildInfo is the version command's payload.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

func (b BuildInfo) RenderText() string {
	return fmt.Sprintf("claimsctl %s (commit: %s, built: %s)\n", b.Version, b.Commit, b.BuildDate)
}

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return PrintResult(cmd, BuildInfo{Version: Version, Commit: GitCommit, BuildDate: BuildDate})
		},
	}
}

//Personal.AI order the ending
