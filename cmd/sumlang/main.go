package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/funvibe/sumlang/internal/config"
	"github.com/funvibe/sumlang/internal/diagnostics"
	"github.com/funvibe/sumlang/internal/evaluator"
	"github.com/funvibe/sumlang/internal/loader"
	"github.com/funvibe/sumlang/internal/pipeline"
	"github.com/funvibe/sumlang/internal/prettyprinter"
	"github.com/mattn/go-isatty"
)

const usage = `Usage: sumlang [-config sumlang.yaml] [-print] <program.sl.yaml>

Runs a serialised program. Without a file the program is read from stdin.

Options:
  -config <file>   read options from file (default: sumlang.yaml next to the program, if present)
  -print           print the decoded program as source instead of running it
  -help            show this message
`

const (
	colorRed   = "\x1b[31m"
	colorReset = "\x1b[0m"
)

type invocation struct {
	configPath string
	file       string
	printOnly  bool
}

func parseArgs(args []string) (*invocation, error) {
	inv := &invocation{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-config" || arg == "--config":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s needs a file", arg)
			}
			i++
			inv.configPath = args[i]
		case arg == "-print" || arg == "--print":
			inv.printOnly = true
		case strings.HasPrefix(arg, "-config="), strings.HasPrefix(arg, "--config="):
			inv.configPath = arg[strings.IndexByte(arg, '=')+1:]
		case strings.HasPrefix(arg, "-") && arg != "-":
			return nil, fmt.Errorf("unknown flag %s", arg)
		case inv.file == "":
			inv.file = arg
		default:
			return nil, fmt.Errorf("unexpected argument %s", arg)
		}
	}
	return inv, nil
}

// loadOptions reads the explicit config file, or sumlang.yaml beside the
// program when it exists.
func loadOptions(inv *invocation) (*config.Options, error) {
	if inv.configPath != "" {
		return config.LoadOptions(inv.configPath)
	}
	if inv.file != "" && inv.file != "-" {
		candidate := filepath.Join(filepath.Dir(inv.file), "sumlang.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return config.LoadOptions(candidate)
		}
	}
	return config.DefaultOptions(), nil
}

func useColor(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func reportErrors(w io.Writer, errs *diagnostics.ErrorList, color bool) {
	for _, err := range errs.Sorted() {
		if color {
			fmt.Fprintf(w, "%s%s%s\n", colorRed, err.Error(), colorReset)
			continue
		}
		fmt.Fprintln(w, err.Error())
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	for _, arg := range args {
		if arg == "-help" || arg == "--help" || arg == "-h" {
			fmt.Fprint(stdout, usage)
			return config.ExitSuccess
		}
	}
	inv, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n\n%s", err, usage)
		return config.ExitFailure
	}
	opts, err := loadOptions(inv)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return config.ExitFailure
	}

	ctx := pipeline.NewPipelineContext("")
	ctx.Options = opts
	ctx.Output = stdout
	if inv.file == "" || inv.file == "-" {
		source, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "Error reading input: %s\n", err)
			return config.ExitFailure
		}
		if len(source) == 0 {
			return config.ExitSuccess
		}
		ctx.SourceCode = source
		ctx.FilePath = "<stdin>"
	} else {
		ctx.FilePath = inv.file
	}

	var p *pipeline.Pipeline
	if inv.printOnly {
		p = pipeline.New(&loader.Processor{})
	} else {
		p = pipeline.New(
			&loader.Processor{},
			&evaluator.PreprocessProcessor{Host: evaluator.NewOSHost()},
			&evaluator.ExecuteProcessor{},
		)
	}
	result := p.Run(ctx)
	if inv.printOnly && result.Err == nil {
		fmt.Fprint(stdout, prettyprinter.Print(result.Program))
	}
	if result.Err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", result.Err)
	}
	reportErrors(stderr, result.Errors, useColor(opts.Color))
	return result.ExitCode
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(config.ExitFailure)
		}
	}()
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
