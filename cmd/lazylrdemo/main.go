/*
Lazylrdemo exercises the lazylr library end to end: it ships a handful
of grammar fixtures built directly with the construction API and lets a
caller either evaluate a token line against one or run the LALR(1)
verifier and print its conflict report.

Usage:

	lazylrdemo [flags] [token...]

The flags are:

	-g, --grammar NAME
		Which built-in fixture to run: arith, dangling-else, or json.
		Defaults to arith.

	--verify
		Run the LALR(1) verifier against the chosen fixture and print its
		report instead of parsing.

	-c, --config PATH
		Optional path to a TOML file overriding the default fixture and
		trace settings.

	-d, --direct
		Read a token line from stdin directly instead of the
		readline-backed interactive prompt.

	-v, --version
		Print the module version and exit.

If token arguments are given on the command line, they are parsed
directly and the session never reads from stdin.
*/
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/forax/lazylr/grammar"
	"github.com/forax/lazylr/internal/config"
	"github.com/forax/lazylr/internal/fixtures"
	"github.com/forax/lazylr/internal/lr"
	"github.com/forax/lazylr/internal/lrerrors"
	"github.com/forax/lazylr/internal/version"
)

var (
	flagGrammar = pflag.StringP("grammar", "g", "arith", "Which built-in fixture to run: "+strings.Join(fixtures.Names(), ", ")+".")
	flagVerify  = pflag.Bool("verify", false, "Run the LALR(1) verifier and print its report instead of parsing.")
	flagConfig  = pflag.StringP("config", "c", "", "Path to a TOML file overriding the default fixture and trace settings.")
	flagDirect  = pflag.BoolP("direct", "d", false, "Read a token line from stdin directly instead of the interactive prompt.")
	flagVersion = pflag.BoolP("version", "v", false, "Print the module version and exit.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("lazylrdemo %s\n", version.Current)
		return
	}

	fixtureName := *flagGrammar
	traceEnabled := false

	if *flagConfig != "" {
		cfg, err := config.Load(*flagConfig)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		if cfg.Grammar != "" {
			fixtureName = cfg.Grammar
		}
		traceEnabled = cfg.Trace
	}

	fx, ok := fixtures.Get(fixtureName)
	if !ok {
		log.Fatalf("unknown fixture %q; choose one of: %s", fixtureName, strings.Join(fixtures.Names(), ", "))
	}

	runID := uuid.New()
	logger := log.New(os.Stderr, fmt.Sprintf("[%s] ", runID), log.LstdFlags)

	var trace lr.TraceFunc
	if traceEnabled {
		trace = func(line string) { logger.Println(line) }
	}

	if *flagVerify {
		report := lr.Verify(fx.Grammar, fx.Precedence, lr.ConflictSinkFunc(func(c lr.Conflict) {
			logger.Printf("conflict: %s", c)
		}))
		fmt.Print(report.String())
		return
	}

	engine := lr.NewEngine(fx.Grammar, fx.Precedence, trace)
	parser := lr.NewParser(engine)

	words := pflag.Args()
	if len(words) == 0 {
		line, err := readTokenLine()
		if err != nil {
			log.Fatalf("read input: %v", err)
		}
		words = strings.Fields(line)
	}

	src := newWordSource(fx.Grammar, words)
	result, err := lr.ParseWithEvaluator[any](parser, context.Background(), src, fx.NewEvaluator())
	if err != nil {
		if ce, ok := lrerrors.IsConstruction(err); ok {
			fmt.Fprintf(os.Stderr, "construction error: %v\n", ce)
			os.Exit(1)
		}
		if se, ok := lrerrors.IsSyntax(err); ok {
			fmt.Fprintf(os.Stderr, "syntax error: %v\n", se)
			os.Exit(1)
		}
		if ie, ok := lrerrors.IsInternal(err); ok {
			logger.Panicf("internal engine error: %v", ie)
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%v\n", result)
}

// readTokenLine reads one line of whitespace-separated tokens, skipping
// blank lines, either directly from stdin (-direct, via a plain
// bufio.Scanner with no editing) or through a chzyer/readline-backed
// prompt that keeps history across token lines. Returns io.EOF once the
// input is exhausted without ever yielding a non-blank line.
func readTokenLine() (string, error) {
	if *flagDirect {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				return line, nil
			}
		}
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	rl, err := readline.NewEx(&readline.Config{Prompt: "lazylr> "})
	if err != nil {
		return "", fmt.Errorf("create readline config: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return "", err
		}
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}
}

// wordSource adapts a plain []string of whitespace-split words into a
// lr.TokenSource, mapping each word to the terminal the chosen
// fixture's grammar expects: a word matching a known terminal name is
// shifted as-is, and any other word is treated as a "num" literal, the
// one scalar terminal every fixture but json defines.
type wordSource struct {
	g     *grammar.Grammar
	words []string
	i     int
}

func newWordSource(g *grammar.Grammar, words []string) *wordSource {
	return &wordSource{g: g, words: words}
}

func (s *wordSource) Next(ctx context.Context) (grammar.Terminal, bool, error) {
	select {
	case <-ctx.Done():
		return grammar.Terminal{}, false, ctx.Err()
	default:
	}

	if s.i >= len(s.words) {
		return grammar.Terminal{}, false, nil
	}
	w := s.words[s.i]
	s.i++

	for _, t := range s.g.Terminals() {
		if t.Name() == w {
			return grammar.TermValue(w, w), true, nil
		}
	}
	return grammar.TermValue("num", w), true, nil
}
