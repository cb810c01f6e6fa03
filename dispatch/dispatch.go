// Package dispatch turns a validated release tag into a packaged artifact.
// It creates the build directory, runs the schema compiler over every
// interface-definition file of the tagged service, and bundles the generated
// sources with the archiver. Execution is sequential and fail-fast: the first
// tool failure aborts the run and the build directory is removed so a failed
// run leaves no partial output behind.
package dispatch

import (
	"context"
	"path"

	"go.uber.org/zap"

	"github.com/luciano-fiandesio/proto-events-release/errors"
	"github.com/luciano-fiandesio/proto-events-release/executor"
	"github.com/luciano-fiandesio/proto-events-release/fsys"
	"github.com/luciano-fiandesio/proto-events-release/tag"
)

// SourceExt is the extension of the interface-definition files the compiler
// consumes.
const SourceExt = ".proto"

// Dispatcher packages a release. It is immutable after construction.
type Dispatcher struct {
	fs       *fsys.FS
	compiler *executor.Tool
	archiver *executor.Tool
	log      *zap.Logger

	protoRoot string
	buildDir  string
}

// New creates a Dispatcher. fs must be rooted where protoRoot and buildDir
// are resolved from (the repository root in production).
func New(fs *fsys.FS, compiler, archiver *executor.Tool, log *zap.Logger, protoRoot, buildDir string) *Dispatcher {
	return &Dispatcher{
		fs:        fs,
		compiler:  compiler,
		archiver:  archiver,
		log:       log,
		protoRoot: protoRoot,
		buildDir:  buildDir,
	}
}

// Run compiles every source file of the tagged service and archives the
// generated output under the tag's artifact name. On failure after the build
// directory was set up, the build directory is removed before returning.
func (d *Dispatcher) Run(ctx context.Context, t tag.Tag) error {
	if err := d.fs.MkdirAll(d.buildDir, 0o755); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "creating build directory")
	}

	if err := d.compileAll(ctx, t); err != nil {
		d.cleanup()
		return err
	}
	if err := d.archive(ctx, t); err != nil {
		d.cleanup()
		return err
	}

	d.log.Info("artifact packaged",
		zap.String("artifact", t.ArtifactName()),
		zap.String("service", t.Service()),
		zap.String("version", t.Version()))
	return nil
}

// compileAll invokes the schema compiler once per source file, in lexical
// order. Every matched file is compiled; a failure aborts the loop.
func (d *Dispatcher) compileAll(ctx context.Context, t tag.Tag) error {
	srcDir := path.Join(d.protoRoot, t.SourceRel())

	files, err := d.fs.ListWithExt(srcDir, SourceExt)
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeInternal,
			"enumerating source files", map[string]interface{}{"dir": srcDir})
	}
	d.log.Debug("discovered source files",
		zap.String("dir", srcDir), zap.Int("count", len(files)))

	for _, name := range files {
		file := path.Join(srcDir, name)
		d.log.Debug("compiling", zap.String("file", file))

		result, err := d.compiler.Run(ctx,
			"-I", d.protoRoot,
			"-I", srcDir,
			"--java_out="+d.buildDir,
			file,
		)
		if err != nil {
			ctxMap := map[string]interface{}{"file": file}
			addResult(ctxMap, result)
			return errors.WrapWithContext(err, errors.CodeToolFailed,
				"schema compiler failed", ctxMap)
		}
	}
	return nil
}

// archive bundles the build directory into the tag's artifact.
func (d *Dispatcher) archive(ctx context.Context, t tag.Tag) error {
	artifact := t.ArtifactName()
	d.log.Debug("archiving", zap.String("artifact", artifact))

	result, err := d.archiver.Run(ctx, "cf", artifact, "-C", d.buildDir, ".")
	if err != nil {
		ctxMap := map[string]interface{}{"artifact": artifact}
		addResult(ctxMap, result)
		return errors.WrapWithContext(err, errors.CodeToolFailed,
			"archiver failed", ctxMap)
	}
	return nil
}

// addResult folds exit status and captured stderr into an error context map.
func addResult(ctxMap map[string]interface{}, result *executor.Result) {
	if result == nil {
		return
	}
	ctxMap["exit"] = result.ExitCode
	if result.Stderr != "" {
		ctxMap["stderr"] = result.Stderr
	}
}

// cleanup removes the build directory after a failed run. Best effort: a
// cleanup failure is logged, not returned, so it never masks the original
// error.
func (d *Dispatcher) cleanup() {
	if err := d.fs.RemoveAll(d.buildDir); err != nil {
		d.log.Warn("could not remove build directory", zap.Error(err))
	}
}
