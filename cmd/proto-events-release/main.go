// Command proto-events-release validates a release tag, compiles the tagged
// service's interface definitions with the schema compiler, and packages the
// generated sources into a single archive named from the tag.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// An interrupt cancels the context, which kills any in-flight tool
	// invocation; the dispatcher's failure path then removes the partial
	// build output before the process exits.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		stop()
		os.Exit(1)
	}
}

// run executes the CLI and reports the outcome as an error instead of
// exiting, keeping the exit-code mapping in one place.
func run(ctx context.Context, out, errOut io.Writer, args []string) error {
	a := newApp(out, errOut)

	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	if err := cmd.ExecuteContext(ctx); err != nil {
		a.printer().Errorf("%v", err)
		return err
	}
	return nil
}
