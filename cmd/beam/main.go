package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/asheshgoplani/beam/internal/config"
	"github.com/asheshgoplani/beam/internal/index"
	"github.com/asheshgoplani/beam/internal/logging"
	"github.com/asheshgoplani/beam/internal/printer"
	"github.com/asheshgoplani/beam/internal/shell"
)

const Version = "0.4.1"

func main() {
	cfg := initLogging()
	defer logging.Shutdown()

	args := os.Args[1:]
	if len(args) == 0 {
		printHelp()
		os.Exit(1)
	}

	// Handlers return instead of exiting so the store handle is always
	// closed before the process dies.
	var err error
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Printf("beam v%s\n", Version)
	case "help", "--help", "-h":
		printHelp()
	case "add":
		err = handleAdd(cfg, args[1:])
	case "jump":
		err = handleJump(cfg, args[1:])
	case "query":
		err = handleQuery(cfg, args[1:])
	case "list", "ls":
		err = handleList(cfg, args[1:])
	case "remove", "rm":
		err = handleRemove(cfg, args[1:])
	case "doctor":
		err = handleDoctor(cfg)
	case "init":
		err = handleInit(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "beam: unknown command %q\n\n", args[0])
		printHelp()
		os.Exit(1)
	}
	if err != nil {
		fatal(err)
	}
}

// initLogging loads the user config and wires the global logger. Config
// load failures are fatal only when the file exists and is malformed.
func initLogging() *config.UserConfig {
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	logCfg := logging.Config{
		Level:      cfg.Logs.Level,
		Format:     cfg.Logs.Format,
		MaxSizeMB:  cfg.Logs.MaxSizeMB,
		MaxBackups: cfg.Logs.MaxBackups,
		MaxAgeDays: cfg.Logs.MaxAgeDays,
		Compress:   true,
		Debug:      os.Getenv(config.EnvDebug) != "",
	}
	if logCfg.Debug {
		if base, err := config.BaseDir(); err == nil {
			logCfg.LogDir = base
		}
	}
	logging.Init(logCfg)
	return cfg
}

// openIndex resolves the data directory and opens the engine. The caller
// must Close the returned index on every path, error paths included.
func openIndex(cfg *config.UserConfig) (*index.Index, error) {
	dataDir, err := config.DataDir(cfg)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return index.Open(index.Options{DataDir: dataDir})
}

// closeIndex releases the store, preserving the handler's error when it
// already has one.
func closeIndex(ix *index.Index, err *error) {
	if cerr := ix.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

// handleAdd records a visit to a directory
func handleAdd(cfg *config.UserConfig, args []string) (err error) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Println("Usage: beam add [path]")
		fmt.Println()
		fmt.Println("Record a visit to a directory. Defaults to the current directory.")
		fmt.Println("The path must exist and is stored exactly as given, so pass it")
		fmt.Println("absolute (the shell hook passes \"$PWD\").")
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	path := fs.Arg(0)
	if path == "" {
		cwd, wdErr := os.Getwd()
		if wdErr != nil {
			return fmt.Errorf("get working directory: %w", wdErr)
		}
		path = cwd
	}

	ix, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer closeIndex(ix, &err)

	return ix.Add(path)
}

// handleJump resolves the best match for a pattern and prints it
func handleJump(cfg *config.UserConfig, args []string) (err error) {
	fs := flag.NewFlagSet("jump", flag.ExitOnError)
	exclude := fs.String("exclude", "", "Path to exclude from matching (usually $PWD)")
	fs.Usage = func() {
		fmt.Println("Usage: beam jump [--exclude <path>] <pattern>")
		fmt.Println()
		fmt.Println("Print the best-matching indexed directory for the pattern.")
		fmt.Println("Indexed paths that no longer exist are pruned along the way.")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.Arg(0) == "" {
		fs.Usage()
		os.Exit(1)
	}

	ix, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer closeIndex(ix, &err)

	path, err := ix.Jump(fs.Arg(0), *exclude)
	if err != nil {
		return err
	}
	return printer.Paths(os.Stdout, []string{path})
}

// handleQuery prints every match for a pattern, one per line
func handleQuery(cfg *config.UserConfig, args []string) (err error) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	exclude := fs.String("exclude", "", "Path to exclude from matching")
	fs.Usage = func() {
		fmt.Println("Usage: beam query [--exclude <path>] <pattern>")
		fmt.Println()
		fmt.Println("Print all indexed directories matching the pattern, unranked.")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.Arg(0) == "" {
		fs.Usage()
		os.Exit(1)
	}

	ix, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer closeIndex(ix, &err)

	paths, err := ix.FindAll(fs.Arg(0), *exclude)
	if err != nil {
		return err
	}
	return printer.Paths(os.Stdout, paths)
}

// handleList dumps the ledger
func handleList(cfg *config.UserConfig, args []string) (err error) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	jsonOutput := fs.Bool("json", false, "Output line-delimited JSON")
	fs.Usage = func() {
		fmt.Println("Usage: beam list [--json]")
		fmt.Println()
		fmt.Println("List every indexed directory with its last visit time.")
		fmt.Println("Renders a table on a terminal, tab-separated lines when piped.")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	ix, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer closeIndex(ix, &err)

	entries, err := ix.List()
	if err != nil {
		return err
	}

	switch {
	case *jsonOutput:
		return printer.JSON(os.Stdout, entries)
	case term.IsTerminal(int(os.Stdout.Fd())):
		return printer.Human(os.Stdout, entries)
	default:
		return printer.TSV(os.Stdout, entries)
	}
}

// handleRemove deletes a path from the index
func handleRemove(cfg *config.UserConfig, args []string) (err error) {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Println("Usage: beam remove <path>")
		fmt.Println()
		fmt.Println("Remove a path from the index. Succeeds whether or not the")
		fmt.Println("path was indexed.")
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.Arg(0) == "" {
		fs.Usage()
		os.Exit(1)
	}

	ix, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer closeIndex(ix, &err)

	return ix.Delete(fs.Arg(0))
}

// handleDoctor rebuilds the membership set from the ledger
func handleDoctor(cfg *config.UserConfig) (err error) {
	ix, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer closeIndex(ix, &err)

	if err := ix.RebuildMembership(); err != nil {
		return err
	}
	fmt.Println("Rebuilt search index from the path ledger.")
	return nil
}

// handleInit prints the shell integration script
func handleInit(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: beam init <bash|zsh>")
		os.Exit(1)
	}

	sh, err := shell.Parse(args[0])
	if err != nil {
		return err
	}
	script, err := shell.Script(sh)
	if err != nil {
		return err
	}
	fmt.Print(script)
	return nil
}

func printHelp() {
	fmt.Println("beam - jump to the directories you actually use")
	fmt.Println()
	fmt.Println("Usage: beam <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  add [path]                 Record a visit (defaults to current directory)")
	fmt.Println("  jump <pattern>             Print the best match for a pattern")
	fmt.Println("  query <pattern>            Print all matches, one per line")
	fmt.Println("  list, ls [--json]          List indexed directories")
	fmt.Println("  remove, rm <path>          Remove a path from the index")
	fmt.Println("  doctor                     Rebuild the search index from the ledger")
	fmt.Println("  init <bash|zsh>            Print the shell integration script")
	fmt.Println("  version                    Print version")
	fmt.Println("  help                       Show this help")
	fmt.Println()
	fmt.Println("Setup:")
	fmt.Println("  Add to your shell rc file:")
	fmt.Println("    eval \"$(beam init bash)\"   # ~/.bashrc")
	fmt.Println("    eval \"$(beam init zsh)\"    # ~/.zshrc")
	fmt.Println()
	fmt.Println("  Then use the b function:")
	fmt.Println("    b proj                     # jump to the best match for \"proj\"")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Printf("  %s    Override the data directory (default ~/%s/%s)\n",
		config.EnvDataDir, config.BaseDirName, config.IndexDirName)
	fmt.Printf("  %s       Write debug logs to ~/%s/debug.log\n",
		config.EnvDebug, config.BaseDirName)
}

// fatal prints the error and exits. Typed engine errors already carry a
// user-facing message.
func fatal(err error) {
	var noResults *index.NoResultsError
	if errors.As(err, &noResults) {
		fmt.Fprintln(os.Stderr, noResults.Error())
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	logging.Shutdown()
	os.Exit(1)
}
