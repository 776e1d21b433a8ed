// Package export orchestrates the report and persistence steps:
// print the status code, the raw body and the parsed body to the
// output writer in that order, then write the pretty-printed JSON
// to the output file.
package export

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/aiden-perkins/codacy-repo-export/internal/codacy"
	"github.com/aiden-perkins/codacy-repo-export/internal/jsontext"
)

// outputFileIndent is the indentation unit for the persisted JSON.
const outputFileIndent = "    "

// RepositoryLister fetches the repository listing for an organization.
// Implemented by *codacy.Client.
type RepositoryLister interface {
	ListOrganizationRepositories(ctx context.Context, provider, organization string) (*codacy.Response, error)
}

// Runner executes one export run.
type Runner struct {
	lister     RepositoryLister
	out        io.Writer
	outputPath string
	logger     *zap.Logger
}

// NewRunner creates a new export runner
func NewRunner(lister RepositoryLister, out io.Writer, outputPath string, logger *zap.Logger) *Runner {
	return &Runner{
		lister:     lister,
		out:        out,
		outputPath: outputPath,
		logger:     logger,
	}
}

// Run performs the export. The ordering below is the program's contract:
//
//  1. request — a transport failure aborts here, before any output,
//     leaving any pre-existing output file untouched
//  2. print the integer status code
//  3. print the raw body text
//  4. decode — a decode failure aborts here, before the file write
//  5. print the parsed representation
//  6. write the 4-space-indented JSON to the output file
//
// Non-2xx responses take the same path as successes: the API's error
// payload is printed and persisted as-is.
func (r *Runner) Run(ctx context.Context, provider, organization string) error {
	resp, err := r.lister.ListOrganizationRepositories(ctx, provider, organization)
	if err != nil {
		return err
	}

	fmt.Fprintln(r.out, resp.StatusCode)
	fmt.Fprintln(r.out, resp.Text())

	parsed, err := jsontext.Decode(resp.Body)
	if err != nil {
		return codacy.NewClientError(codacy.ErrorKindDecode, "response body is not valid JSON", err)
	}

	fmt.Fprintln(r.out, parsed.String())

	return r.persist(parsed)
}

// persist serializes fully in memory before touching the file, so a
// failed run cannot leave a truncated file behind.
func (r *Runner) persist(v jsontext.Value) error {
	data := v.Indent(outputFileIndent)
	if err := os.WriteFile(r.outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.outputPath, err)
	}

	r.logger.Info("export written",
		zap.String("path", r.outputPath),
		zap.Int("bytes", len(data)),
	)
	return nil
}
