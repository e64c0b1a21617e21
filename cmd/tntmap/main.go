package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/nickkkcc/cartridge-go/mapper"
)

const usage = `Usage: tntmap [-config file.toml] [-format base64|hex|raw] [-zstd] [-shape single|values|page] [-in file]
       tntmap -i  (interactive mode)`

var errUsage = errors.New("no input: pass -in or pipe an envelope on stdin")

func main() {
	if err := runMain(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runMain parses args and inspects one envelope. It never exits; failures
// are returned to main.
func runMain(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("tntmap", flag.ContinueOnError)
	var (
		configFile  = fs.String("config", "", "Path to TOML config file")
		inFile      = fs.String("in", "", "Captured envelope file (default stdin)")
		format      = fs.String("format", "", "Input encoding: base64, hex or raw")
		compressed  = fs.Bool("zstd", false, "Input is zstd compressed")
		shape       = fs.String("shape", "", "Result shape: single, values or page")
		logLevel    = fs.String("log", "", "Log level")
		interactive = fs.Bool("i", false, "Interactive mode with TUI")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := defaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = loadConfig(*configFile); err != nil {
			return err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Format = *format
		case "zstd":
			cfg.Zstd = *compressed
		case "shape":
			cfg.Shape = *shape
		case "log":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.validate(); err != nil {
		return err
	}

	log, err := cfg.logger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck
	mapper.SetLogger(log.Named("mapper"))

	if *interactive {
		if !isTerminal(stdin) {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		return runInteractive(cfg)
	}

	in := stdin
	if *inFile != "" {
		f, err := os.Open(*inFile)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	} else if isTerminal(stdin) {
		return errUsage
	}

	return run(in, stdout, cfg, log)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func run(in io.Reader, out io.Writer, cfg config, log *zap.Logger) error {
	reg, err := mapper.NewDefaultBuilder().Build()
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}

	env, err := readEnvelope(in, cfg.Format, cfg.Zstd)
	if err != nil {
		return err
	}
	log.Debug("envelope read", zap.Int("values", len(env)), zap.String("shape", cfg.Shape))

	fmt.Fprintf(out, "Envelope (%d values):\n%s\n", len(env), renderTree(reg, env))

	res, err := decodeResult(reg, env, cfg.Shape)
	if err != nil {
		return fmt.Errorf("decode %s: %w", cfg.Shape, err)
	}
	fmt.Fprintf(out, "\nResult (%s):\n%s\n", cfg.Shape, res)
	return nil
}
