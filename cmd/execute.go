// Package cmd is the `glyphc` command-line driver: a thin wrapper that
// loads a project manifest and runs the resolve pipeline over it, reporting
// whatever the reporter accumulated along the way.
package cmd

import (
	"os"
	"strconv"

	"chai/common"
	"chai/depm"
	"chai/report"
	"chai/resolve"
	"chai/util"

	"github.com/ComedicChimera/olive"
)

// Execute is the main entry point for the `glyphc` CLI utility.
func Execute() {
	cli := olive.NewCLI("glyphc", "glyphc runs name-and-type resolution over a Glyph project", true)

	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the reporter's log level", false, logLevelNames())
	logLvlArg.SetDefaultValue("verbose")

	resolveCmd := cli.AddSubcommand("resolve", "resolve a project's constants and signatures", true)
	resolveCmd.AddPrimaryArg("project-path", "the path to the project directory", true)
	resolveCmd.AddStringArg("workers", "w", "number of pre-walk worker goroutines (0 runs synchronously)", false)
	resolveCmd.AddFlag("debug", "d", "run the SanityCheck pass after resolution")

	cli.AddSubcommand("version", "print the Glyph resolver version", false)

	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.Fatal(err.Error())
		return
	}

	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "resolve":
		execResolveCommand(subResult, logLevelFromName(result.Arguments["loglevel"].(string)))
	case "version":
		report.Fatal("version command not wired to a version constant in this build")
	}
}

// execResolveCommand loads the project at the given path and runs the
// pipeline over its files. Acquiring parsed Files for a real source tree is
// the parser's job, which is out of scope here (spec.md §1 Non-goals); this
// command's own job stops at wiring project config through to the pipeline.
func execResolveCommand(result *olive.ArgParseResult, level report.LogLevel) {
	report.Init(level)

	projectPath, _ := result.PrimaryArg()

	proj, err := depm.LoadProject(projectPath)
	if err != nil {
		report.Fatal(err.Error())
		return
	}

	workers := 0
	if w, ok := result.Arguments["workers"]; ok {
		if n, convErr := strconv.Atoi(w.(string)); convErr == nil {
			workers = n
		}
	}
	debug, _ := result.Arguments["debug"].(bool)

	table := common.NewSymbolTable()
	resolve.Run(table, proj, proj.Files, workers, debug)

	if report.AnyErrors() {
		os.Exit(1)
	}
}

func logLevelNames() []string {
	return util.Map([]report.LogLevel{
		report.LogLevelSilent, report.LogLevelError, report.LogLevelWarn, report.LogLevelVerbose,
	}, func(l report.LogLevel) string { return logLevelName(l) })
}

func logLevelName(level report.LogLevel) string {
	switch level {
	case report.LogLevelSilent:
		return "silent"
	case report.LogLevelError:
		return "error"
	case report.LogLevelWarn:
		return "warn"
	default:
		return "verbose"
	}
}

func logLevelFromName(name string) report.LogLevel {
	switch name {
	case "silent":
		return report.LogLevelSilent
	case "error":
		return report.LogLevelError
	case "warn":
		return report.LogLevelWarn
	default:
		return report.LogLevelVerbose
	}
}
