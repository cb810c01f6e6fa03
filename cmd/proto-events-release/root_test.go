package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luciano-fiandesio/proto-events-release/errors"
	"github.com/luciano-fiandesio/proto-events-release/executor"
	"github.com/luciano-fiandesio/proto-events-release/fsys"
)

type call struct {
	program string
	args    []string
}

type fakeRunner struct {
	calls []call
}

func (f *fakeRunner) Run(_ context.Context, program string, args ...string) (*executor.Result, error) {
	f.calls = append(f.calls, call{program: program, args: args})
	return &executor.Result{ExitCode: 0}, nil
}

// testApp builds an app over an in-memory proto tree and a recording runner.
func testApp(t *testing.T) (*app, *fakeRunner, *bytes.Buffer) {
	t.Helper()

	fs := fsys.NewInMemoryFS()
	for _, p := range []string{
		"proto/product/my-service/events.proto",
		"proto/sandbox/my-service/events.proto",
		"proto/bogus/my-service/events.proto",
		"proto/my-service/events.proto",
	} {
		require.NoError(t, fs.WriteFile(p, []byte(`syntax = "proto3";`), 0o644))
	}

	var out, errOut bytes.Buffer
	a := newApp(&out, &errOut)
	a.fs = fs
	runner := &fakeRunner{}
	a.runner = runner
	return a, runner, &errOut
}

func execute(a *app, args ...string) error {
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)
	return cmd.ExecuteContext(context.Background())
}

func TestDomainRelease(t *testing.T) {
	a, runner, errOut := testApp(t)

	err := execute(a, "domain", "product/my-service/release/1.2.3")
	require.NoError(t, err)

	require.Len(t, runner.calls, 2)
	assert.Equal(t, "protoc", runner.calls[0].program)
	assert.Equal(t, "jar", runner.calls[1].program)
	assert.Contains(t, runner.calls[1].args, "product-my-service-events-1.2.3.jar")
	assert.Contains(t, errOut.String(), "created product-my-service-events-1.2.3.jar")
}

func TestServiceRelease(t *testing.T) {
	a, runner, _ := testApp(t)

	err := execute(a, "service", "my-service/release/2.0.0-beta")
	require.NoError(t, err)

	require.Len(t, runner.calls, 2)
	assert.Contains(t, runner.calls[1].args, "my-service-events-2.0.0-beta.jar")
}

func TestMissingTagArgument(t *testing.T) {
	a, _, _ := testApp(t)
	assert.Error(t, execute(a, "domain"))
	assert.Error(t, execute(a, "service"))
}

func TestTooManyArguments(t *testing.T) {
	a, _, _ := testApp(t)
	assert.Error(t, execute(a, "domain", "product/a/release/1.0.0", "extra"))
}

func TestUnknownFlag(t *testing.T) {
	a, _, _ := testApp(t)
	assert.Error(t, execute(a, "domain", "--bogus", "product/my-service/release/1.2.3"))
}

func TestDebugFlagOnlyOnDomain(t *testing.T) {
	a, _, _ := testApp(t)
	assert.Error(t, execute(a, "service", "--debug", "my-service/release/1.0.0"))
}

func TestSandboxCategoryRequiresDebug(t *testing.T) {
	a, runner, _ := testApp(t)

	err := execute(a, "domain", "sandbox/my-service/release/1.0.0")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidCategory, errors.GetCode(err))
	assert.Empty(t, runner.calls, "dispatch must not run after a validation failure")
}

func TestSandboxCategoryWithDebug(t *testing.T) {
	a, runner, _ := testApp(t)

	err := execute(a, "domain", "--debug", "sandbox/my-service/release/1.0.0")
	require.NoError(t, err)
	assert.Len(t, runner.calls, 2)
}

// A rejected tag must leave no trace on disk: the build directory is only
// created after validation passes.
func TestValidationFailureCreatesNothing(t *testing.T) {
	a, _, _ := testApp(t)

	err := execute(a, "domain", "bogus/my-service/release/1.0.0")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidCategory, errors.GetCode(err))

	ok, statErr := a.fs.Exists("build/gen")
	require.NoError(t, statErr)
	assert.False(t, ok)
}

func TestHeadTagResolution(t *testing.T) {
	a, runner, _ := testApp(t)
	a.headTag = func(string) (string, error) {
		return "product/my-service/release/1.2.3", nil
	}

	err := execute(a, "domain", "@")
	require.NoError(t, err)
	assert.Contains(t, runner.calls[1].args, "product-my-service-events-1.2.3.jar")
}

func TestHeadTagFailure(t *testing.T) {
	a, _, _ := testApp(t)
	a.headTag = func(string) (string, error) {
		return "", errors.New(errors.CodeGitFailed, "no tag points at HEAD")
	}

	err := execute(a, "domain", "@")
	require.Error(t, err)
	assert.Equal(t, errors.CodeGitFailed, errors.GetCode(err))
}

func TestCustomRoots(t *testing.T) {
	a, runner, _ := testApp(t)
	require.NoError(t, a.fs.WriteFile("idl/my-service/events.proto", nil, 0o644))

	err := execute(a, "service", "--proto-root", "idl", "--build-dir", "out", "my-service/release/1.0.0")
	require.NoError(t, err)

	require.Len(t, runner.calls, 2)
	assert.Contains(t, runner.calls[0].args, "--java_out=out")
	assert.Contains(t, runner.calls[0].args, "idl/my-service/events.proto")
}
