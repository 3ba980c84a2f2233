package main

import (
	"bufio"
	"io"
	"os"
	"sort"

	"github.com/andrewchambers/cxxpp/config"
	"github.com/andrewchambers/cxxpp/cpp"
	"github.com/andrewchambers/cxxpp/source"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const version = "0.02"

type options struct {
	configPath string
	encoding   string
	defines    []string
	output     string
	format     string
	debug      bool
	noColor    bool
}

// newCmdRoot creates the root command for cxxpp.
func newCmdRoot(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "cxxpp",
		Short: "A C++ preprocessing front end",
		Long: `cxxpp decodes C++ source, applies the early translation phases,
splits it into preprocessing tokens and expands macros.

Environment variables:
  CXXPP_DEBUG=true     enables debug logging.
  CXXPP_ENCODING=NAME  sets the source encoding.
  CXXPP_FORMAT=NAME    sets the output format.
  CXXPP_OUTPUT=FILE    sets the output file.
  NO_COLOR             disables colored diagnostics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: ~/.config/cxxpp/config.yml)")
	cmd.PersistentFlags().StringVar(&opts.encoding, "encoding", "", "source encoding, auto to detect (default: utf-8)")
	cmd.PersistentFlags().StringArrayVarP(&opts.defines, "define", "D", nil, "predefine macro NAME or NAME=VALUE")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "-", "file to write output to, - for stdout")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "", "output format: debug, text (default: debug)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(&cobra.Command{
		Use:   "tokenize FILE",
		Short: "Print the preprocessing tokens of FILE without macro expansion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0], tokenizeFile)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "preprocess FILE",
		Short: "Print the macro expanded preprocessing tokens of FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0], preprocessFile)
		},
	})

	return cmd
}

// loadConfig merges the config file, the environment and the flags,
// in increasing precedence.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("encoding") {
		cfg.Encoding = opts.encoding
	}
	if flags.Changed("output") || cfg.Output == "" {
		cfg.Output = opts.output
	}
	if flags.Changed("format") {
		cfg.Format = opts.format
	}
	if flags.Changed("debug") {
		cfg.Debug = opts.debug
	}
	if flags.Changed("no-color") {
		cfg.NoColor = opts.noColor
	}
	for _, def := range opts.defines {
		cfg.AddDefine(def)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

type stage func(path string, src []rune, cfg *config.Config, log logrus.FieldLogger, out cpp.Sink) error

// reportedError marks an error already printed to stderr.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

func run(cmd *cobra.Command, opts *options, path string, fn stage) (err error) {
	stderr := cmd.ErrOrStderr()
	var src []rune
	defer func() {
		if err != nil {
			reportError(stderr, err, path, src)
			err = reportedError{err}
		}
	}()

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	if cfg.NoColor {
		color.NoColor = true
	}

	log := logrus.New()
	log.SetOutput(stderr)
	log.SetLevel(logrus.WarnLevel)
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	content, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	src, err = source.Decode(content, cfg.Encoding)
	if err != nil {
		return errors.Wrapf(err, "failed to decode %s", path)
	}
	log.WithFields(logrus.Fields{"file": path, "chars": len(src)}).Debug("decoded source")

	var w io.Writer = cmd.OutOrStdout()
	if cfg.Output != "-" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return errors.Wrap(err, "failed to open output file")
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)
	sink, sinkErr := newSink(cfg.OutputFormat(), bw)

	err = fn(path, src, cfg, log, sink)
	if flushErr := bw.Flush(); err == nil {
		err = flushErr
	}
	if err == nil {
		err = sinkErr()
	}
	return err
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		return content, errors.Wrap(err, "failed to read stdin")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open source file %s", path)
	}
	return content, nil
}

func newSink(format string, w io.Writer) (cpp.Sink, func() error) {
	if format == config.FormatText {
		s := cpp.NewTextSink(w)
		return s, s.Err
	}
	s := cpp.NewDebugSink(w)
	return s, s.Err
}

func tokenizeFile(path string, src []rune, cfg *config.Config, log logrus.FieldLogger, out cpp.Sink) error {
	lexer := cpp.Lex(path, src)
	for {
		tok, err := lexer.Next()
		if err != nil {
			return err
		}
		cpp.Emit(out, tok)
		if tok.Kind == cpp.EOF {
			return nil
		}
	}
}

func preprocessFile(path string, src []rune, cfg *config.Config, log logrus.FieldLogger, out cpp.Sink) error {
	dropped := cpp.DirectiveFunc(func(g *cpp.Group) error {
		log.WithFields(logrus.Fields{
			"directive": g.Kind.String(),
			"pos":       g.Pos.String(),
		}).Info("directive not evaluated")
		return nil
	})
	pp := cpp.New(cpp.Lex(path, src), dropped, cpp.WithLogger(log))
	names := make([]string, 0, len(cfg.Defines))
	for name := range cfg.Defines {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := pp.Define(name, cfg.Defines[name]); err != nil {
			return errors.Wrapf(err, "bad definition of %s", name)
		}
	}
	return pp.Run(out)
}

func main() {
	if err := newCmdRoot(os.Stdout, os.Stderr).Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			reportError(os.Stderr, err, "", nil)
		}
		os.Exit(1)
	}
}
