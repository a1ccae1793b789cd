package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/HendryAvila/storybeat/internal/config"
	"github.com/HendryAvila/storybeat/internal/narrative"
)

// Exit codes for analyze.
const (
	exitOK      = 0
	exitFailure = 1
	exitInvalid = 2
)

func runAnalyze(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file path")
	action := fs.String("action", string(narrative.ActionFullAnalysis), "analysis action")
	format := fs.String("format", "json", "output format: json or yaml")
	if err := fs.Parse(args); err != nil {
		return exitInvalid
	}
	if *format != "json" && *format != "yaml" {
		fmt.Fprintf(stderr, "Error: unknown format %q (want json or yaml)\n", *format)
		return exitInvalid
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(stderr, "Error: analyze takes at most one input file")
		return exitInvalid
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	data, err := readInput(fs.Arg(0), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	out, err := analyze(data, *action, *format, cfg.Limits.MaxScenes)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, narrative.ErrInvalidInput) || errors.Is(err, narrative.ErrUnknownAction) {
			return exitInvalid
		}
		return exitFailure
	}
	if _, err := stdout.Write(out); err != nil {
		return exitFailure
	}
	return exitOK
}

// analyze runs one action over a JSON document holding either a scene
// array or an object with a "scenes" array.
func analyze(data []byte, action, format string, maxScenes int) ([]byte, error) {
	a, err := narrative.ParseAction(action)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &narrative.ValidationError{Field: "scenes", Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	if obj, ok := doc.(map[string]any); ok {
		if scenes, ok := obj["scenes"]; ok {
			doc = scenes
		}
	}

	scenes, err := narrative.IndexScenes(doc)
	if err != nil {
		return nil, err
	}
	if len(scenes) > maxScenes {
		return nil, &narrative.ValidationError{
			Field:  "scenes",
			Reason: fmt.Sprintf("%d scenes exceeds the limit of %d", len(scenes), maxScenes),
		}
	}

	result, err := narrative.Run(a, scenes)
	if err != nil {
		return nil, err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	if format == "yaml" {
		return jsonToYAML(out)
	}
	return append(out, '\n'), nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
