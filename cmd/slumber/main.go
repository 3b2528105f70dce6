package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"

	"slumber/config"
	"slumber/interp"
	"slumber/types"
	"slumber/vm"
)

const (
	historyFile = ".slumber_history"
	promptMain  = "slumber> "
	promptCont  = "    ...> "
	helpText    = `
REPL commands:
  :help            Show this help
  :quit / :exit    Exit the REPL
  :load <file>     Load a script file (found through script_paths)
  :unload <name>   Unload a script and the subs it bound
  :scripts         List loaded scripts
  :functions       List registered functions
  :stats           Show compiled block cache statistics
`
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Configuration file (YAML)")
	evalExpr := flag.String("e", "", "Evaluate an expression and exit")
	interactive := flag.Bool("i", false, "Start the REPL after loading script files")
	checkOnly := flag.Bool("check", false, "Compile script files without running them")
	debugNames := flag.String("debug", "", "Comma separated debug flags (errors, warnings, strict, trace, throw)")

	// Trace flags
	traceEnabled := flag.Bool("trace", false, "Enable call tracing")
	traceFilter := flag.String("trace-filter", "", "Trace filter pattern (glob, e.g., 'print*')")

	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		cfg = loaded
	}
	if *debugNames != "" {
		cfg.Debug = splitList(*debugNames)
	}
	if *traceEnabled {
		cfg.Trace.Enabled = true
	}
	if *traceFilter != "" {
		cfg.Trace.Filters = splitList(*traceFilter)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	in, err := interp.New(cfg, interp.WithLogger(logger), interp.WithOutput(os.Stdout))
	if err != nil {
		logger.Error().Err(err).Msg("cannot start interpreter")
		return 2
	}

	if *checkOnly {
		return checkFiles(in, flag.Args())
	}

	for _, path := range flag.Args() {
		if _, err := in.LoadFile(path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	if *evalExpr != "" {
		v, err := in.Eval(nil, *evalExpr)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(v.String())
		return 0
	}

	if flag.NArg() > 0 && !*interactive {
		return 0
	}
	return repl(in, logger)
}

func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return zerolog.Nop(), err
	}
	var w io.Writer = os.Stderr
	if cfg.Log.Pretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// checkFiles compiles each file and reports every error
func checkFiles(in *interp.Interpreter, paths []string) int {
	status := 0
	for _, path := range paths {
		found, err := in.Config().FindScript(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			status = 1
			continue
		}
		data, err := os.ReadFile(found)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			status = 1
			continue
		}
		if _, err := in.Compile(filepath.Base(found), string(data)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			status = 1
			continue
		}
		fmt.Printf("%s: ok\n", path)
	}
	return status
}

func repl(in *interp.Interpreter, logger zerolog.Logger) int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	s := in.NewScript("repl")
	fmt.Println("slumber REPL. Ctrl+C cancels input, Ctrl+D exits. Type :help for commands.")

	for {
		code, ok := readInput(in, ln)
		if !ok {
			fmt.Println()
			break
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if done := handleCommand(in, trimmed); done {
				break
			}
			continue
		}

		v, err := evalInput(in, s, trimmed)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if v != nil && !v.IsNull() && !vm.IsHalt(v) {
			fmt.Println(v.Describe())
		}
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	} else {
		logger.Debug().Err(err).Msg("history not saved")
	}
	return 0
}

// readInput keeps reading lines while the buffer has an unclosed construct
func readInput(in *interp.Interpreter, ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the partial input
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := in.Compile("repl", src); err != nil && strings.Contains(err.Error(), "never closed") {
			continue
		}
		return src, true
	}
}

// evalInput treats a single statement that compiles as an expression as
// one, so its value is printed. Anything else runs as statements.
func evalInput(in *interp.Interpreter, s *vm.ScriptInstance, code string) (*types.Scalar, error) {
	body := strings.TrimSuffix(code, ";")
	if !strings.Contains(body, ";") {
		if _, err := in.Compile("repl", "return "+body+";"); err == nil {
			return in.Eval(s, body)
		}
	}
	return in.Run(s, code)
}

func handleCommand(in *interp.Interpreter, line string) (exit bool) {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ":help":
		fmt.Print(helpText)

	case ":quit", ":exit":
		return true

	case ":load":
		if len(fields) < 2 {
			fmt.Println("usage: :load <file>")
			return false
		}
		s, err := in.LoadFile(fields[1])
		if err != nil {
			fmt.Println(err)
			return false
		}
		fmt.Printf("loaded %s\n", s.Name())

	case ":unload":
		if len(fields) < 2 {
			fmt.Println("usage: :unload <name>")
			return false
		}
		if !in.Unload(fields[1]) {
			fmt.Printf("%s is not loaded\n", fields[1])
		}

	case ":scripts":
		names := in.Scripts()
		sort.Strings(names)
		for _, name := range names {
			fmt.Println(name)
		}

	case ":functions":
		names := in.Registry().FunctionNames()
		sort.Strings(names)
		fmt.Println(strings.Join(names, " "))

	case ":stats":
		blocks := in.Blocks()
		if blocks == nil {
			fmt.Println("block cache disabled")
			return false
		}
		hits, misses := blocks.Stats()
		fmt.Printf("blocks: %d cached, %d hits, %d misses; patterns: %d cached\n",
			blocks.Len(), hits, misses, in.Patterns().Len())

	default:
		fmt.Printf("unknown command %s (try :help)\n", fields[0])
	}
	return false
}
