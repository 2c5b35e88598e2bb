// Command registry-check verifies the chemical registries against the
// built-in check set, compares them with the persisted snapshot when one
// exists, and optionally persists or archives a fresh snapshot.
//
// The snapshot store is selected through CHEMCORE_STORAGE_DRIVER and the blob
// destination through CHEMCORE_BLOB_DRIVER, matching the service defaults.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"chemcore/internal/blob"
	"chemcore/internal/core"
)

const (
	formatText = "text"
	formatJSON = "json"
)

var exitFunc = os.Exit

func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

// report is the rendered outcome of one verification run.
type report struct {
	Digest     string               `json:"digest"`
	Violations []core.Violation     `json:"violations,omitempty"`
	Blocking   bool                 `json:"blocking"`
	Saved      bool                 `json:"saved,omitempty"`
	Archive    *core.BundleManifest `json:"archive,omitempty"`
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("registry-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		format  string
		outPath string
		save    bool
		archive string
	)
	fs.StringVar(&format, "format", formatText, "report format: text or json")
	fs.StringVar(&outPath, "out", "", "write the report to this file instead of stdout")
	fs.BoolVar(&save, "save", false, "persist the snapshot to the configured store after a clean run")
	fs.StringVar(&archive, "archive", "", "export a bundle to the configured blob store under this key prefix")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if format != formatText && format != formatJSON {
		fmt.Fprintf(stderr, "unknown format %q\n", format)
		return 2
	}

	rep, runErr := run(context.Background(), save, archive)
	if rep == nil {
		fmt.Fprintf(stderr, "registry check failed: %v\n", runErr)
		return 1
	}

	out := stdout
	if outPath != "" {
		safePath, err := validatePath(outPath)
		if err != nil {
			fmt.Fprintf(stderr, "invalid -out path: %v\n", err)
			return 2
		}
		file, err := os.Create(safePath) // #nosec G304: path validated by validatePath
		if err != nil {
			fmt.Fprintf(stderr, "create report file: %v\n", err)
			return 1
		}
		defer func() { _ = file.Close() }()
		out = file
	}
	if err := rep.render(out, format); err != nil {
		fmt.Fprintf(stderr, "write report: %v\n", err)
		return 1
	}

	if runErr != nil {
		fmt.Fprintf(stderr, "registry check failed: %v\n", runErr)
		return 1
	}
	return 0
}

// run verifies the live registries and applies the requested follow-up
// actions. It returns a nil report only when verification could not complete.
func run(ctx context.Context, save bool, archivePrefix string) (*report, error) {
	store, err := core.OpenSnapshotStore()
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	defer func() { _ = store.Close() }()

	svc := core.NewService(store)
	result, verifyErr := svc.VerifyRegistry(ctx)
	digest, err := svc.Snapshot().Digest()
	if err != nil {
		return nil, fmt.Errorf("digest registry: %w", err)
	}
	rep := &report{
		Digest:     digest,
		Violations: result.Violations,
		Blocking:   result.HasBlocking(),
	}
	if verifyErr != nil {
		if !rep.Blocking {
			// Operational failure rather than a verification verdict.
			return nil, verifyErr
		}
		return rep, verifyErr
	}

	if save {
		if _, err := svc.SaveSnapshot(ctx); err != nil {
			return rep, fmt.Errorf("save snapshot: %w", err)
		}
		rep.Saved = true
	}
	if archivePrefix != "" {
		dest, err := blob.Open(ctx)
		if err != nil {
			return rep, fmt.Errorf("open blob store: %w", err)
		}
		manifest, err := svc.ExportBundle(ctx, dest, archivePrefix)
		if err != nil {
			return rep, fmt.Errorf("export bundle: %w", err)
		}
		rep.Archive = &manifest
	}
	return rep, nil
}

func (r *report) render(w io.Writer, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	if _, err := fmt.Fprintf(w, "registry digest: %s\n", r.Digest); err != nil {
		return err
	}
	blocking := 0
	for _, v := range r.Violations {
		if v.Severity == core.SeverityBlock {
			blocking++
		}
		if _, err := fmt.Fprintf(w, "[%s] %s %s: %s\n", v.Severity, v.Check, v.Subject, v.Message); err != nil {
			return err
		}
	}
	if r.Saved {
		if _, err := fmt.Fprintln(w, "snapshot saved."); err != nil {
			return err
		}
	}
	if r.Archive != nil {
		if _, err := fmt.Fprintf(w, "bundle archived as %s.\n", r.Archive.ManifestKey); err != nil {
			return err
		}
	}
	if r.Blocking {
		_, err := fmt.Fprintf(w, "registry verification failed: %d blocking violations.\n", blocking)
		return err
	}
	_, err := fmt.Fprintf(w, "registry verification passed (%d advisory findings).\n", len(r.Violations))
	return err
}

// validatePath rejects absolute and path-traversing report destinations so the
// command only writes inside the working tree.
func validatePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("empty path")
	}
	if filepath.IsAbs(p) {
		return "", fmt.Errorf("absolute paths not allowed: %s", p)
	}
	clean := filepath.Clean(p)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("path traversal not allowed: %s", p)
	}
	return clean, nil
}
