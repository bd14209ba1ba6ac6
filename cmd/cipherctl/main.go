package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RowanDark/cipherkit/internal/analysis"
	"github.com/RowanDark/cipherkit/internal/cipher"
	"github.com/RowanDark/cipherkit/internal/config"
	"github.com/RowanDark/cipherkit/internal/logging"
	"github.com/RowanDark/cipherkit/internal/textstrip"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(context.Background())
	if a.logger != nil {
		_ = a.logger.Close()
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// app holds what every subcommand shares once flags are parsed.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string

	cfg      config.Config
	logger   *logging.Logger
	analyzer *analysis.Analyzer
	registry *cipher.Registry
	recipes  *cipher.RecipeManager
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cipherctl",
		Short: "Encrypt, decrypt and break classical ciphers",
		Long: `cipherctl runs Vigenère, substitution and Caesar ciphers and the
frequency attacks that break them.

Input comes from --text, --file or stdin. Files ending in .html or .htm are
reduced to their visible text when --strip is set.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "configuration file (default: ~/.cipherkit/config.yaml, ./cipherkit.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level written to stderr (overrides config)")

	root.AddCommand(
		a.encryptCmd(),
		a.decryptCmd(),
		a.stripCmd(),
		a.freqCmd(),
		a.keyLengthCmd(),
		a.attackCmd(),
		a.detectCmd(),
		a.opsCmd(),
		a.recipeCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	level := a.cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	opts := []logging.Option{logging.WithoutStdout(), logging.WithWriter(a.stderr), logging.WithLevel(level)}
	if a.cfg.LogFile != "" {
		opts = append(opts, logging.WithFile(a.cfg.LogFile))
	}
	a.logger, err = logging.New(opts...)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	a.analyzer = analysis.New(a.cfg.Analysis.AnalyzerOptions(a.logger.Logger)...)
	a.registry, err = analysis.NewRegistry(a.analyzer)
	return err
}

// recipeStore opens the recipe directory lazily so commands that never touch
// recipes do not create it.
func (a *app) recipeStore() (*cipher.RecipeManager, error) {
	if a.recipes != nil {
		return a.recipes, nil
	}
	dir, err := a.cfg.RecipesPath()
	if err != nil {
		return nil, err
	}
	rm := cipher.NewRecipeManager(dir)
	if err := rm.LoadRecipes(); err != nil {
		return nil, err
	}
	a.recipes = rm
	return rm, nil
}

// inputFlags are shared by every command that reads text.
type inputFlags struct {
	text  string
	file  string
	strip bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.text, "text", "t", "", "input text")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read input from a file")
	cmd.Flags().BoolVar(&f.strip, "strip", false, "reduce input to lowercase letters first")
	cmd.MarkFlagsMutuallyExclusive("text", "file")
}

func (a *app) readInput(f *inputFlags) (string, error) {
	switch {
	case f.file != "" && f.strip:
		return textstrip.Load(f.file)
	case f.file != "":
		data, err := os.ReadFile(f.file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", f.file, err)
		}
		return string(data), nil
	}

	text := f.text
	if text == "" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimRight(string(data), "\r\n")
	}
	if text == "" {
		return "", errors.New("no input: use --text, --file or stdin")
	}
	if f.strip {
		text = textstrip.Strip(text)
	}
	return text, nil
}
