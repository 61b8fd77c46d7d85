package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/zephyrtronium/calc"
)

var cli struct {
	Exprs    []string `arg:"" optional:"" help:"Expressions to evaluate."`
	In       string   `short:"i" help:"Input file with one expression per line, or - for stdin. Default stdin if no expressions are given."`
	Fmt      string   `default:"%g" help:"Result formatting verb."`
	Prec     uint     `short:"p" default:"0" help:"Precision of calculations in bits. 0 uses float64."`
	Echo     bool     `help:"Print the parsed form of each expression."`
	Tokens   bool     `help:"Dump the tokens of each expression."`
	Time     bool     `help:"Log parsing and evaluation times."`
	LogLevel string   `enum:"debug,info,warn,error" default:"warn" help:"Minimum log level (${enum})."`
	LogFile  string   `type:"path" help:"Also write JSON logs to this file."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("calc"),
		kong.Description("Evaluate arithmetic expressions."),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(checkFmt(cli.Fmt, cli.Prec))
	var level slog.Level
	kctx.FatalIfErrorf(level.UnmarshalText([]byte(cli.LogLevel)))
	if cli.Time && level > slog.LevelInfo {
		level = slog.LevelInfo
	}
	logger, closer, err := newLogger(os.Stderr, level, cli.LogFile)
	kctx.FatalIfErrorf(err)
	defer closer()

	srcs, err := inputs(cli.In, cli.Exprs)
	if err != nil {
		logger.Error("reading input", "in", cli.In, "error", err)
		closer()
		os.Exit(1)
	}
	logger.Debug("evaluating", "count", len(srcs), "prec", cli.Prec)

	failed := false
	for _, src := range srcs {
		if !run(logger, os.Stdout, src) {
			failed = true
		}
	}
	if failed {
		closer()
		os.Exit(1)
	}
}

// run evaluates a single expression and prints its result. It reports
// whether the expression was valid.
func run(logger *slog.Logger, w io.Writer, src string) bool {
	if cli.Tokens {
		toks, err := calc.Tokens(src)
		if err != nil {
			logger.Error("scanning", "expr", src, "error", err)
			return false
		}
		fmt.Fprintln(w, repr.String(toks, repr.Indent("  ")))
	}
	start := time.Now()
	e, err := calc.ParseString(src)
	parsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(w, "%s: %v\n", src, err)
		logger.Debug("parse failed", "expr", src, "error", err)
		return false
	}
	if cli.Echo {
		fmt.Fprintf(w, "%v = ", e)
	}
	start = time.Now()
	var r any
	if cli.Prec == 0 {
		v, err := e.Eval()
		if err != nil {
			fmt.Fprintln(w, err)
			return false
		}
		r = v
	} else {
		ctx := calc.NewContext(calc.Prec(cli.Prec))
		v := ctx.Eval(e)
		if v == nil {
			fmt.Fprintln(w, ctx.Err())
			return false
		}
		r = v
	}
	evaled := time.Since(start)
	fmt.Fprintf(w, cli.Fmt+"\n", r)
	if cli.Time {
		logger.Info("timing", "expr", src, "depth", e.Depth(), "parse", parsed, "eval", evaled)
	}
	return true
}

// checkFmt returns an error if format does not print exactly one result of
// the type evaluated at prec.
func checkFmt(format string, prec uint) error {
	var v any = 1.5
	if prec != 0 {
		v = new(big.Float).SetPrec(prec).SetFloat64(1.5)
	}
	if s := fmt.Sprintf(format, v); strings.Contains(s, "%!") {
		return fmt.Errorf("invalid result format %q: prints %s", format, s)
	}
	return nil
}

// inputs collects the expressions to evaluate from the input file and the
// command line arguments.
func inputs(in string, args []string) ([]string, error) {
	var f *os.File
	switch {
	case in != "" && in != "-":
		var err error
		f, err = os.Open(in)
		if err != nil {
			return nil, err
		}
		defer f.Close()
	case in == "-", len(args) == 0:
		f = os.Stdin
	}
	var srcs []string
	if f != nil {
		lines, err := readLines(f)
		if err != nil {
			return nil, err
		}
		srcs = append(srcs, lines...)
	}
	return append(srcs, args...), nil
}

// readLines reads the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		if line := strings.TrimSpace(s.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, s.Err()
}
