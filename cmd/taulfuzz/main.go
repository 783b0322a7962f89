/*
Taulfuzz exercises the grammar compiler and LL(1) runtime end to end against
a small, hand-built example grammar. It is not a front end for the textual
grammar syntax (that surface stays out of scope, per the library's own
documentation) — it exists only to drive a real Grammar/Lexer/Parser chain
from the command line, the same way the teacher project keeps one thin demo
binary per engine rather than folding demo logic into the library itself.

Usage:

	taulfuzz [flags]

The flags are:

	-i, --input TEXT
		Parse the given text once and print the resulting tree.

	-r, --repl
		Drop into an interactive loop, parsing one line of input at a time.

	-f, --fixture FILE
		TOML file selecting which built-in example grammar to run and its
		start rule. Defaults to fixture.toml in the current directory;
		falls back to the "arithmetic" example with start rule "Expr" if the
		file cannot be read.
*/
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/TirousCoded/TAUL-sub003"
)

type fixture struct {
	Name         string `toml:"name"`
	Start        string `toml:"start"`
	IncludeSkips bool   `toml:"include_skips"`
}

var defaultFixture = fixture{Name: "arithmetic", Start: "Expr"}

var (
	flagInput   = pflag.StringP("input", "i", "", "Parse the given text once and print the resulting tree")
	flagRepl    = pflag.BoolP("repl", "r", false, "Drop into an interactive read-parse-print loop")
	flagFixture = pflag.StringP("fixture", "f", "fixture.toml", "TOML file selecting the example grammar and start rule")
)

func main() {
	pflag.Parse()
	log.SetFlags(0)
	log.Println("taulfuzz starting up")
	defer log.Println("taulfuzz shutting down")

	fx := loadFixture(*flagFixture)

	g, err := buildExampleGrammar(fx.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
	start, err := g.PPR(fx.Start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: start rule %q: %s\n", fx.Start, err)
		os.Exit(1)
	}

	if *flagRepl {
		runRepl(g, start, fx)
		return
	}

	input := *flagInput
	if input == "" && pflag.NArg() > 0 {
		input = pflag.Arg(0)
	}
	fmt.Print(parseOneLine(g, start, fx, input))
}

func loadFixture(path string) fixture {
	var fx fixture
	if _, err := toml.DecodeFile(path, &fx); err != nil {
		return defaultFixture
	}
	if fx.Start == "" {
		fx.Start = defaultFixture.Start
	}
	if fx.Name == "" {
		fx.Name = defaultFixture.Name
	}
	return fx
}

func parseOneLine(g *taul.Grammar, start taul.PPRRef, fx fixture, input string) string {
	reader := taul.NewStringGlyphReaderFromString(input)
	lx := taul.NewLexer(g)
	toks := lx.Tokenize(reader, taul.TokenizeOptions{IncludeSkips: fx.IncludeSkips})

	p := taul.NewParser(g)
	tree, ok := p.Parse(toks, start, taul.ParserOptions{ErrorHandler: taul.NewRegularHandler()})
	tree.SetSource([]byte(input))

	out := tree.Fmt()
	if !ok {
		out += "(parse aborted)\n"
	}
	return out
}

func runRepl(g *taul.Grammar, start taul.PPRRef, fx fixture) {
	rl, err := readline.New("taulfuzz> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not start readline: %s\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			break
		}
		if line == "" {
			continue
		}
		fmt.Print(parseOneLine(g, start, fx, line))
	}
}
