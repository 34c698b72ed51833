package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/viable-project/viable/internal/compiler"
	"github.com/viable-project/viable/internal/config"
	"github.com/viable-project/viable/internal/diagnostic"
)

// errReported marks failures already rendered to stderr, so main does
// not print them twice.
var errReported = errors.New("compilation failed")

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a Viable source file (stdin when omitted) to a regex",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.CheckVersion(version); err != nil {
			return err
		}

		if len(args) == 1 {
			return compileOne(args[0], flagOutput)
		}
		if len(cfg.Patterns) > 0 {
			for _, p := range cfg.Patterns {
				if err := compileOne(p.Source, p.Output); err != nil {
					return err
				}
			}
			return nil
		}

		source, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		return emit(string(source), "", flagOutput)
	},
}

// loadConfig reads the explicit config file, or viable.yml when one
// exists in the working directory. Absence of a config is not an error.
func loadConfig() (*config.Config, error) {
	path := flagConfig
	if path == "" {
		if _, err := os.Stat(config.DefaultFilename); err != nil {
			return &config.Config{}, nil
		}
		path = config.DefaultFilename
	}
	return config.Load(path)
}

func compileOne(sourcePath, outputPath string) error {
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return err
	}
	return emit(string(source), sourcePath, outputPath)
}

// emit compiles source and writes the pattern to outputPath, or stdout
// when outputPath is empty. Diagnostics go to stderr, styled.
func emit(source, sourcePath, outputPath string) error {
	result, err := compiler.CompileFile(source, sourcePath)
	if err != nil {
		printDiagnostic(err, source)
		return errReported
	}

	out := result.Pattern + "\n"
	if flagNames {
		for _, name := range result.CaptureNames {
			out += name + "\n"
		}
	}

	if outputPath == "" {
		fmt.Print(out)
		return nil
	}
	return os.WriteFile(outputPath, []byte(out), 0o644)
}

func printDiagnostic(err error, source string) {
	var diag *diagnostic.Diagnostic
	if errors.As(err, &diag) {
		fmt.Fprintln(os.Stderr, diag.RenderStyled(source))
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
