// Package config defines the immutable run configuration for
// proto-events-release. A Config is constructed once from command-line flags,
// validated, and passed by value to the validator and the dispatcher; nothing
// in the process mutates it afterwards.
package config

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/luciano-fiandesio/proto-events-release/errors"
)

// Defaults reproduce the paths and tool names the release pipeline has always
// used.
const (
	DefaultProtoRoot   = "proto"
	DefaultBuildDir    = "build/gen"
	DefaultCompilerBin = "protoc"
	DefaultArchiverBin = "jar"
)

// Config is the complete, immutable configuration of a single run.
type Config struct {
	// Tag is the raw tag argument, or "@" to resolve it from the git HEAD.
	Tag string

	// Verbose enables command echoing and debug-level logging.
	Verbose bool

	// Color enables styled diagnostics. Already false when the user passed
	// --no-color or set NO_COLOR.
	Color bool

	// Debug widens the category set with the sandbox category. Only
	// meaningful for the domain tag shape.
	Debug bool

	// ProtoRoot is the directory holding the per-service interface
	// definition trees.
	ProtoRoot string

	// BuildDir receives the compiler's generated sources and is the
	// directory the archiver bundles.
	BuildDir string

	// CompilerBin and ArchiverBin name the external tools.
	CompilerBin string
	ArchiverBin string
}

// Default returns a Config with the standard paths and tool names. Color is
// on; the caller flips it off for --no-color or NO_COLOR.
func Default() Config {
	return Config{
		Color:       true,
		ProtoRoot:   DefaultProtoRoot,
		BuildDir:    DefaultBuildDir,
		CompilerBin: DefaultCompilerBin,
		ArchiverBin: DefaultArchiverBin,
	}
}

// Validate checks the configuration for completeness.
func (c Config) Validate() error {
	if c.Tag == "" {
		return errors.New(errors.CodeInvalidInput, "a release tag argument is required")
	}
	if c.ProtoRoot == "" {
		return errors.New(errors.CodeInvalidInput, "proto root must not be empty")
	}
	if c.BuildDir == "" {
		return errors.New(errors.CodeInvalidInput, "build dir must not be empty")
	}
	if c.CompilerBin == "" || c.ArchiverBin == "" {
		return errors.New(errors.CodeInvalidInput, "compiler and archiver programs must not be empty")
	}
	return nil
}

// NewLogger builds the process logger: console encoding on stderr, debug
// level when verbose, info otherwise.
func NewLogger(verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core)
}
