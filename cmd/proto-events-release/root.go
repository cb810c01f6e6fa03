package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/luciano-fiandesio/proto-events-release/config"
	"github.com/luciano-fiandesio/proto-events-release/diag"
	"github.com/luciano-fiandesio/proto-events-release/dispatch"
	"github.com/luciano-fiandesio/proto-events-release/executor"
	"github.com/luciano-fiandesio/proto-events-release/fsys"
	"github.com/luciano-fiandesio/proto-events-release/gitref"
	"github.com/luciano-fiandesio/proto-events-release/tag"
)

// tagShape selects which of the two tag grammars a subcommand validates.
type tagShape int

const (
	shapeDomain tagShape = iota
	shapeService
)

// app carries the CLI's dependencies. Tests substitute the filesystem, the
// runner, and the git tag resolver; production uses the zero substitutions.
type app struct {
	cfg     config.Config
	noColor bool

	out    io.Writer
	errOut io.Writer

	fs      *fsys.FS
	runner  executor.Runner
	headTag func(dir string) (string, error)
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		cfg:     config.Default(),
		out:     out,
		errOut:  errOut,
		fs:      fsys.NewOSFS("."),
		headTag: gitref.HeadTag,
	}
}

// printer builds the diagnostic printer for the current color settings.
func (a *app) printer() *diag.Printer {
	color := a.cfg.Color && !a.noColor && os.Getenv("NO_COLOR") == ""
	return diag.NewPrinter(a.errOut, color)
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proto-events-release",
		Short: "Validate a release tag and package its generated event sources",
		Long: `proto-events-release validates a slash-delimited release tag, runs the
schema compiler over the tagged service's interface definitions, and bundles
the generated sources into an archive named from the tag.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&a.cfg.Verbose, "verbose", "v", false, "echo external commands and enable debug logging")
	pf.BoolVar(&a.noColor, "no-color", false, "disable colored diagnostics")
	pf.StringVar(&a.cfg.ProtoRoot, "proto-root", a.cfg.ProtoRoot, "directory holding the per-service proto trees")
	pf.StringVar(&a.cfg.BuildDir, "build-dir", a.cfg.BuildDir, "directory receiving generated sources")
	pf.StringVar(&a.cfg.CompilerBin, "protoc", a.cfg.CompilerBin, "schema compiler program")
	pf.StringVar(&a.cfg.ArchiverBin, "jar", a.cfg.ArchiverBin, "archiver program")

	cmd.AddCommand(a.domainCmd(), a.serviceCmd())
	return cmd
}

func (a *app) domainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domain <category/service/release/version>",
		Short: "Release a service under a business category (four-field tag)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.release(cmd.Context(), shapeDomain, args[0])
		},
	}
	cmd.Flags().BoolVarP(&a.cfg.Debug, "debug", "d", false, "additionally allow the sandbox category")
	return cmd
}

func (a *app) serviceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "service <service/release/version>",
		Short: "Release a top-level service (three-field tag)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.release(cmd.Context(), shapeService, args[0])
		},
	}
}

// release is the shared pipeline behind both subcommands: resolve the tag,
// validate it against the shape's grammar, dispatch the compile-and-archive
// flow.
func (a *app) release(ctx context.Context, shape tagShape, raw string) error {
	a.cfg.Tag = raw
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	if raw == "@" {
		resolved, err := a.headTag(".")
		if err != nil {
			return err
		}
		raw = resolved
	}

	log := config.NewLogger(a.cfg.Verbose)
	defer func() { _ = log.Sync() }()

	validator := tag.NewValidator(a.fs, a.cfg.ProtoRoot, a.cfg.Debug)
	var (
		t   tag.Tag
		err error
	)
	switch shape {
	case shapeDomain:
		t, err = validator.ParseDomain(raw)
	case shapeService:
		t, err = validator.ParseService(raw)
	}
	if err != nil {
		return err
	}

	runner := a.runner
	if runner == nil {
		opts := []executor.Option{}
		if a.cfg.Verbose {
			opts = append(opts,
				executor.WithEcho(a.errOut),
				executor.WithConsoleRedirect(true))
		}
		runner = executor.NewRunner(opts...)
	}

	d := dispatch.New(a.fs,
		executor.NewTool(a.cfg.CompilerBin, runner),
		executor.NewTool(a.cfg.ArchiverBin, runner),
		log,
		a.cfg.ProtoRoot, a.cfg.BuildDir)

	if err := d.Run(ctx, t); err != nil {
		return err
	}

	a.printer().Infof("created %s", t.ArtifactName())
	return nil
}
