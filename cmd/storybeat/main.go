// storybeat: narrative structure analysis for storyboards
//
// An MCP server that reads an ordered list of scenes and reports the
// three-act arc, tension curve, scene timings, coaching suggestions and
// a completeness score. The same analyses run one-shot from the CLI.
//
// Usage:
//
//	storybeat serve              # Start MCP server (stdio or http per config)
//	storybeat analyze story.json # Analyze a scene file and print JSON
//	storybeat config             # Print the effective configuration
package main

import (
	"fmt"
	"io"
	"os"

	sbserver "github.com/HendryAvila/storybeat/internal/server"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run dispatches a subcommand and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	switch args[0] {
	case "serve":
		if err := runServe(args[1:], stderr); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	case "analyze":
		return runAnalyze(args[1:], stdin, stdout, stderr)
	case "config":
		if err := runConfig(args[1:], stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	case "--help", "-h", "help":
		printUsage(stderr)
		return 0
	case "--version", "-v", "version":
		fmt.Fprintf(stdout, "storybeat v%s\n", sbserver.Version)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `storybeat v%s - narrative structure analysis

Usage:
  storybeat serve [--config FILE] [--transport stdio|http] [--addr HOST:PORT]
  storybeat analyze [--config FILE] [--action ACTION] [--format json|yaml] [FILE|-]
  storybeat config [--config FILE]
  storybeat version

Actions:
  analyze_arc, tension_curve, coaching, scene_durations,
  emotional_peaks, completeness, full_analysis (default)

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "storybeat": {
        "command": "storybeat",
        "args": ["serve"]
      }
    }
  }

  Settings are read from $STORYBEAT_CONFIG or ~/.config/storybeat/config.yaml.
`, sbserver.Version)
}
