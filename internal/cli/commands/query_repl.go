package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapbench/internal/cli/output"
	"github.com/leapstack-labs/leapbench/internal/engine"
	"github.com/leapstack-labs/leapbench/internal/grid"
	"github.com/leapstack-labs/leapbench/internal/imports"
)

const (
	replPrompt     = "leapbench> "
	replContPrompt = "     ...> "
)

// repl holds the state of one interactive session.
type repl struct {
	eng      *engine.Engine
	r        *output.Renderer
	gridOpts []grid.Option
	format   string
	limit    int64
	pending  strings.Builder
}

func runQueryREPL(cmd *cobra.Command, cmdCtx *CommandContext, gridOpts []grid.Option, opts *QueryOptions) error {
	ctx := cmd.Context()
	s := &repl{
		eng:      cmdCtx.Engine,
		r:        cmdCtx.Renderer,
		gridOpts: gridOpts,
		format:   opts.Format,
		limit:    opts.Limit,
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile(),
		AutoComplete:    s.completer(ctx),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	s.r.Printf("LeapBench Query REPL (database: %s)\n", s.eng.DatabasePath())
	s.r.Println("Type .help for commands, .quit to exit")
	s.r.Println()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.pending.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		prompt, quit := s.handleLine(ctx, line)
		if quit {
			break
		}
		rl.SetPrompt(prompt)
		if prompt == replPrompt && strings.HasPrefix(strings.TrimSpace(line), ".import") {
			// New tables become completable.
			rl.Config.AutoComplete = s.completer(ctx)
		}
	}
	return nil
}

// historyFile is kept in the user cache directory; an empty path disables history.
func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "leapbench")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ""
	}
	return filepath.Join(dir, "query_history")
}

// handleLine processes one input line. SQL accumulates until a line ends
// with a semicolon. It returns the next prompt and whether to exit.
func (s *repl) handleLine(ctx context.Context, line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		if s.pending.Len() > 0 {
			return replContPrompt, false
		}
		return replPrompt, false
	}

	// Dot-commands only start a statement, never continue one
	if s.pending.Len() == 0 && strings.HasPrefix(line, ".") {
		return replPrompt, s.handleDotCommand(ctx, line)
	}

	s.pending.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		s.pending.WriteString("\n")
		return replContPrompt, false
	}

	query := strings.TrimSuffix(s.pending.String(), ";")
	s.pending.Reset()

	if err := executeAndRender(ctx, s.r, s.eng, s.gridOpts, query, s.format, s.limit); err != nil {
		s.r.Error(err.Error())
	}
	s.r.Println()
	return replPrompt, false
}

// handleDotCommand runs a dot-command and reports whether the REPL should exit.
func (s *repl) handleDotCommand(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.r.Writer())

	case ".tables":
		if err := listTables(ctx, s.r, s.eng, s.format); err != nil {
			s.r.Error(err.Error())
		}

	case ".schema":
		if len(parts) < 2 {
			s.r.Error("Usage: .schema <table>")
			return false
		}
		if err := showSchema(ctx, s.r, s.eng, s.gridOpts, parts[1], s.format); err != nil {
			s.r.Error(err.Error())
		}

	case ".import":
		if len(parts) < 2 {
			s.r.Error("Usage: .import <file> [file...]")
			return false
		}
		if _, err := importFiles(ctx, s.r, s.eng, parts[1:]); err != nil {
			s.r.Error(err.Error())
		}

	case ".stats":
		if err := renderStats(ctx, s.r, s.eng); err != nil {
			s.r.Error(err.Error())
		}

	case ".clear":
		s.r.Printf("\033[H\033[2J")

	default:
		s.r.Error(fmt.Sprintf("Unknown command: %s (type .help for commands)", command))
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help             Show this help message
  .tables           List registered tables
  .schema <name>    Show the columns of a table or view
  .import <file...> Register files as tables (csv, parquet, arrow, xlsx)
  .stats            Show memory and storage statistics
  .clear            Clear the screen
  .quit / .exit     Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for table names
`
	_, _ = fmt.Fprintln(w, help)
}

// completer builds a readline completer for dot-commands and table names.
func (s *repl) completer(ctx context.Context) *readline.PrefixCompleter {
	var names []string
	// Ignore errors: completion is best effort
	if tables, err := s.eng.Tables(ctx); err == nil {
		for _, t := range tables {
			names = append(names, t.Name)
		}
	}

	tableItems := func() []readline.PrefixCompleterInterface {
		items := make([]readline.PrefixCompleterInterface, len(names))
		for i, n := range names {
			items[i] = readline.PcItem(n)
		}
		return items
	}

	items := tableItems()
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".schema", tableItems()...),
		readline.PcItem(".import", readline.PcItemDynamic(listFiles)),
		readline.PcItem(".stats"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}

// listFiles offers importable files in the current directory.
func listFiles(string) []string {
	entries, err := os.ReadDir(".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if _, ok := imports.Detect(e.Name()); ok && !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}
