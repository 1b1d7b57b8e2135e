package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/takoeight0821/rill/config"
	"github.com/takoeight0821/rill/driver"
	"github.com/takoeight0821/rill/lexer"
	"github.com/takoeight0821/rill/parser"
	"github.com/takoeight0821/rill/token"
)

func main() {
	const (
		inputUsage  = "input file path"
		configUsage = "config file path (default: searched in XDG config dirs)"
	)
	var inputPath, configPath string
	flag.StringVar(&inputPath, "input", "", inputUsage)
	flag.StringVar(&inputPath, "i", "", inputUsage+" (shorthand)")
	flag.StringVar(&configPath, "config", "", configUsage)

	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if inputPath == "" {
		if err := RunPrompt(cfg); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	} else {
		if err := RunFile(cfg, inputPath, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func newRunner(cfg config.Config, out io.Writer) *driver.Runner {
	r := driver.NewRunner(out)
	r.Evaluator.MaxCallDepth = cfg.MaxCallDepth
	return r
}

func RunPrompt(cfg config.Config) error {
	line := liner.NewLiner()
	defer func() {
		if err := saveHistory(line, cfg.History); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		line.Close()
	}()
	line.SetCtrlCAborts(true)

	if f, err := os.Open(cfg.History); err == nil {
		defer f.Close()
		if _, err := line.ReadHistory(f); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	r := newRunner(cfg, os.Stdout)
	var pending strings.Builder
	for {
		prompt := cfg.Prompt
		if pending.Len() > 0 {
			prompt = strings.Repeat(".", len(strings.TrimRight(cfg.Prompt, " "))) + " "
		}
		input, err := line.Prompt(prompt)
		if err != nil {
			return err
		}
		line.AppendHistory(input)

		pending.WriteString(input)
		pending.WriteString("\n")
		source := pending.String()
		if incomplete(source) {
			continue
		}
		pending.Reset()

		if err := runLine(r, source, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}

// runLine executes one complete REPL entry. A bare expression prints its value,
// and :env dumps the current frame chain.
func runLine(r *driver.Runner, source string, out io.Writer) error {
	if strings.TrimSpace(source) == ":env" {
		_, err := fmt.Fprintln(out, r.Evaluator.EvEnv.String())
		return err
	}

	v, err := r.RunLine(source)
	if err != nil || v == nil {
		return err
	}
	_, err = fmt.Fprintln(out, v.String())
	return err
}

// incomplete reports whether source ends before a statement is finished,
// so the prompt should keep reading lines.
func incomplete(source string) bool {
	tokens, err := lexer.Lex(source)
	var unterminated lexer.UnterminatedStringError
	if errors.As(err, &unterminated) {
		return true
	}
	if err != nil {
		return false
	}

	_, err = parser.NewParser(tokens).ParseProgram()
	var perr *parser.ParseError
	if !errors.As(err, &perr) || perr.Found.Kind != token.EOF {
		return false
	}

	// a bare expression is complete as it is
	_, err = parser.NewParser(tokens).ParseExpr()
	return err != nil
}

func saveHistory(line *liner.State, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	_, werr := line.WriteHistory(f)
	return errors.Join(werr, f.Close())
}

func RunFile(cfg config.Config, path string, out io.Writer) error {
	return newRunner(cfg, out).RunFile(path)
}
