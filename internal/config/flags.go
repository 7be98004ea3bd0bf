package config

import (
	"flag"
	"fmt"
	"io"
)

// ParseFlags parses command-line flags followed by exactly one key
func ParseFlags(program string, args []string, defaultBinary string) (Config, error) {
	fs := flag.NewFlagSet(program, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		binary   = fs.String("bin", defaultBinary, "Query tool to run")
		chartDir = fs.String("chart-dir", "", "Also write a PNG bar chart of the values into this directory")
		debug    = fs.Bool("debug", false, "Log decoded records to stderr")
	)
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return Config{}, fmt.Errorf("%w: expected one key, got %d arguments", ErrUsage, fs.NArg())
	}

	return Config{
		Program:  program,
		Key:      fs.Arg(0),
		Binary:   *binary,
		ChartDir: *chartDir,
		Debug:    *debug,
	}, nil
}
