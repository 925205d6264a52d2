package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	glog "github.com/magicsong/color-glog"
	"github.com/relm4-tools/winbundle/cmd/winbundle/bundler"
	"github.com/relm4-tools/winbundle/cmd/winbundle/cli"
	"github.com/relm4-tools/winbundle/cmd/winbundle/types"
)

var Version = "undefined"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	defer glog.Flush()
	buildFlags := types.BuildFlags{Version: Version}
	cliFlags, err := cli.ParseArgs(buildFlags, args)
	if errors.Is(err, cli.ErrVersionRequested) || errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		printError(os.Stderr, types.Fatal(err, "error parsing cli flags"))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := bundler.Run(ctx, cliFlags, buildFlags, bundler.DefaultDeps(cliFlags)); err != nil {
		var exitErr *types.ExitError
		if !errors.As(err, &exitErr) {
			exitErr = types.Fatal(err, "error running bundler")
		}
		printError(os.Stderr, exitErr)
		return exitErr.Code
	}
	return 0
}

func printError(w io.Writer, err *types.ExitError) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, color.RedString(err.Error()))
	for _, hint := range err.Hints {
		fmt.Fprintln(w)
		fmt.Fprintln(w, color.YellowString("- "+hint))
	}
	fmt.Fprintln(w)
}
