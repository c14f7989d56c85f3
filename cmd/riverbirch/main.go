package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nir0k/riverbirch/internal/app"
	"github.com/spf13/pflag"
)

var version = "dev"

type cliArgs struct {
	opts    app.Options
	help    bool
	version bool
}

func newFlagSet(args *cliArgs) *pflag.FlagSet {
	fs := pflag.NewFlagSet("riverbirch", pflag.ContinueOnError)
	fs.SortFlags = false

	fs.StringVarP(&args.opts.Source, "source", "s", "", "Source folder (contains the photos to be processed)")
	fs.StringVarP(&args.opts.Destination, "destination", "d", "", "Destination folder (where processed photos should be put)")
	fs.BoolVarP(&args.help, "help", "h", false, "Get help on how to use this utility")
	fs.BoolVar(&args.opts.Videos, "videos", true, "Also process QuickTime movies (*.mov)")
	fs.StringVarP(&args.opts.LogLevel, "log-level", "l", "info", "Logging level for both file and console outputs")
	fs.StringVar(&args.opts.LogFile, "log-file", "", "Optional log file path (defaults to a file next to the binary)")
	fs.BoolVar(&args.version, "version", false, "Print the version and exit")
	return fs
}

func parseArgs(argv []string, stderr io.Writer) (cliArgs, *pflag.FlagSet, error) {
	var args cliArgs
	fs := newFlagSet(&args)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage(fs)) }
	err := fs.Parse(argv)
	return args, fs, err
}

func usage(fs *pflag.FlagSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "River Birch v%s\n\n", version)
	b.WriteString("Usage: riverbirch --source /path/to/photos/to/process --destination /path/to/put/processed/photos\n\n")
	b.WriteString(fs.FlagUsages())
	return b.String()
}

func main() {
	args, fs, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "riverbirch: %v\n\n", err)
		fs.Usage()
		os.Exit(2)
	}
	if args.version {
		fmt.Println(version)
		return
	}
	// Help does not end the run; missing options are reported right after.
	if args.help {
		fmt.Print(usage(fs))
	}

	args.opts.PrintSummary = true

	ctx := context.Background()
	if _, err := app.Run(ctx, args.opts); err != nil {
		if app.IsConfigError(err) {
			return
		}
		fmt.Fprintf(os.Stderr, "riverbirch failed: %v\n", err)
		os.Exit(1)
	}
}
