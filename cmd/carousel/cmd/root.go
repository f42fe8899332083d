// Package cmd implements the carousel CLI commands.
//
// The root command dispatches to subcommands (view, run, inspect) after
// consuming global flags.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-drift/carousel/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name        string
	Short       string
	Long        string
	Usage       string
	Run         func(args []string) error
	SubCommands []*Command
}

var rootCmd = &Command{
	Name:  "carousel",
	Short: "Carousel - looping image carousel viewer",
	Long: `Carousel shows a looping, auto-advancing strip of images loaded from
local files and URLs. Animated GIFs play in place.

Use "carousel <command> --help" for more information about a command.`,
	Usage: "carousel <command> [flags]",
}

// Commands registered with the CLI.
var commands = make(map[string]*Command)

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	rootCmd.SubCommands = append(rootCmd.SubCommands, cmd)
}

// logger is the CLI logger configured by --log-level.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// Execute runs the CLI with the process arguments.
func Execute() error {
	return execute(os.Args[1:], os.Stderr)
}

func execute(args []string, stderr io.Writer) error {
	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	level := "warn"
	var filteredArgs []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-h", "--help", "help":
			if len(filteredArgs) == 0 {
				printHelp(rootCmd)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "-v", "--version", "version":
			if len(filteredArgs) == 0 {
				fmt.Printf("Carousel version %s (built %s)\n", Version, BuildTime)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "--log-level":
			if i+1 >= len(args) {
				return fmt.Errorf("--log-level requires a level")
			}
			level = args[i+1]
			i++
		default:
			if strings.HasPrefix(arg, "--log-level=") {
				level = strings.TrimPrefix(arg, "--log-level=")
				continue
			}
			filteredArgs = append(filteredArgs, arg)
		}
	}
	args = filteredArgs

	if err := setupLogging(level, stderr); err != nil {
		return err
	}

	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp(rootCmd)
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" || arg == "help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	return cmd.Run(cmdArgs)
}

// setupLogging installs the CLI logger and routes carousel errors to it.
func setupLogging(level string, w io.Writer) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid --log-level %q (use debug, info, warn or error)", level)
	}
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
	errors.SetHandler(&errors.LogHandler{Logger: logger, Verbose: l <= slog.LevelDebug})
	return nil
}

func printHelp(cmd *Command) {
	fmt.Println(cmd.Long)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s\n", cmd.Usage)
	fmt.Println()
	fmt.Println("Commands:")
	for _, sub := range cmd.SubCommands {
		fmt.Printf("  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -h, --help           Show help for a command")
	fmt.Println("  -v, --version        Show version information")
	fmt.Println("  --log-level LEVEL    Log level: debug, info, warn, error (default: warn)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  carousel view a.png https://example.com/b.gif")
	fmt.Println("  carousel view --config carousel.yaml --watch")
	fmt.Println("  carousel run --ticks 3 a.png b.png")
	fmt.Println("  carousel inspect spinner.gif")
}

func printCommandHelp(cmd *Command) {
	fmt.Println(cmd.Long)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s\n", cmd.Usage)
}
