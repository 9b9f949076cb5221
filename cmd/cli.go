// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"thainame-scan/internal/config"
	"thainame-scan/internal/docreader"
	"thainame-scan/internal/engine"
	"thainame-scan/internal/formatters"
	"thainame-scan/internal/logger"
	"thainame-scan/internal/observability"
	"thainame-scan/internal/paths"
	"thainame-scan/internal/version"
	"thainame-scan/internal/view"
	"thainame-scan/internal/watch"
	"thainame-scan/internal/web"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	_ "thainame-scan/internal/formatters/csv"
	_ "thainame-scan/internal/formatters/json"
	_ "thainame-scan/internal/formatters/text"
	_ "thainame-scan/internal/formatters/xlsx"
	_ "thainame-scan/internal/formatters/yaml"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(stdout, stderr io.Writer) *cli.App {
	app := &cli.App{
		Name:      "thainame-scan",
		Usage:     "Extract and count Thai honorific names from numbered lists in documents",
		Version:   version.Get().Version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to configuration file (YAML)"},
			&cli.StringFlag{Name: "profile", Usage: "Profile name to use from config file"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Log progress and list every match with its offset"},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging of each processing step"},
			&cli.BoolFlag{Name: "no-color", Usage: "Disable colored output"},
		},
		Commands: []*cli.Command{
			extractCmd(stdout, stderr),
			watchCmd(stdout, stderr),
			serveCmd(stderr),
			formatsCmd(stdout),
			profilesCmd(stdout, stderr),
			versionCmd(stdout),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// exportFlags are shared by commands that write the name table to a file.
func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Export the name table to this file"},
		&cli.BoolFlag{Name: "export", Aliases: []string{"e"}, Usage: "Export to name_list_YYYYMMDD_HHMMSS.<ext> in the output directory"},
		&cli.StringFlag{Name: "output-dir", Usage: "Directory for exports without an explicit path"},
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Export format: csv, json, text, xlsx, yaml (default: from --output extension, else xlsx)"},
		&cli.StringFlag{Name: "export-order", Usage: "Rows to export: aggregated (every name in key order) or view (filtered and sorted)"},
	}
}

// env carries the resolved settings of one command invocation.
type env struct {
	cfg      *config.Config
	final    *finalConfiguration
	logger   *log.Logger
	observer *observability.StandardObserver
	debugObs *observability.DebugObserver
	stdout   io.Writer
	stderr   io.Writer
	now      func() time.Time
}

func newEnv(c *cli.Context, stdout, stderr io.Writer) (*env, error) {
	cfg := loadConfiguration(c.String("config"), stderr)
	profile, err := selectProfile(cfg, c.String("profile"))
	if err != nil {
		return nil, err
	}
	final, err := resolveConfiguration(cfg, profile, c)
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:    cfg,
		final:  final,
		logger: logger.NewWithWriter(stderr, "thainame-scan", logger.LevelFor(final.verbose, final.debug)),
		stdout: stdout,
		stderr: stderr,
		now:    time.Now,
	}

	if final.noColor || !isTerminal(stdout) {
		color.NoColor = true
	}

	if final.debug {
		e.debugObs = observability.NewDebugObserver(stderr)
		e.observer = e.debugObs.StandardObserver
		e.debugObs.LogDetail("main", fmt.Sprintf("Command line arguments: %v", os.Args))
		if profile != nil {
			e.debugObs.LogDetail("main", "Using profile: "+c.String("profile"))
		}
	}
	return e, nil
}

// step starts a debug step; it is a no-op outside debug mode
func (e *env) step(component, name, file string) func(success bool, details string) {
	if e.debugObs == nil {
		return func(bool, string) {}
	}
	return e.debugObs.StartStep(component, name, file)
}

// metric prints a debug metric; it is a no-op outside debug mode
func (e *env) metric(component, name string, value interface{}) {
	if e.debugObs != nil {
		e.debugObs.LogMetric(component, name, value)
	}
}

func (e *env) newEngine() *engine.Engine {
	return engine.New(engine.Options{Observer: e.observer})
}

func (e *env) newReader() *docreader.Reader {
	return docreader.NewReader(docreader.Options{
		MaxPDFPages: e.cfg.Reader.MaxPDFPages,
		Observer:    e.observer,
	})
}

func (e *env) formatterOptions(st engine.State) formatters.FormatterOptions {
	return formatters.FormatterOptions{
		NameHeader:  e.final.nameHeader,
		CountHeader: e.final.countHeader,
		SheetName:   e.final.sheetName,
		Source:      st.Source,
		NoColor:     e.final.noColor,
		View:        st.View,
	}
}

// warnNotices reports text the reader could not deliver; counts are low then
func (e *env) warnNotices(st engine.State, path string) {
	for _, notice := range st.Notices {
		e.logger.Warn(notice, "file", path)
	}
}

// printTable writes the visible list as a text table to stdout
func (e *env) printTable(st engine.State) error {
	out, err := formatters.Render("text", st.Visible(), e.formatterOptions(st))
	if err != nil {
		return err
	}
	_, err = e.stdout.Write(out)
	return err
}

// exportDestination returns the export path and format, or "" when the
// command was not asked to export.
func (e *env) exportDestination(c *cli.Context) (string, string, error) {
	output := c.String("output")
	if output == "" && !c.Bool("export") {
		return "", "", nil
	}

	format := e.final.format
	if output != "" && !c.IsSet("format") {
		if detected, ok := formatters.FormatForPath(output); ok {
			format = detected
		}
	}
	if _, ok := formatters.Get(format); !ok {
		return "", "", cli.Exit(fmt.Sprintf("unsupported format %q. Available formats: %v", format, formatters.List()), 2)
	}

	if output == "" {
		output = formatters.DefaultFileName(e.now(), formatters.GetFormatInfo(format).Extension)
	}
	return paths.ResolveOutputPath(e.final.outputDir, output), format, nil
}

// export writes st to dest. An empty list is a warning, not an error.
func (e *env) export(st engine.State, dest, format string) error {
	finish := e.step("export", format, dest)
	entries := st.ExportEntries(e.final.exportOrder)
	err := formatters.Export(format, entries, dest, e.formatterOptions(st))
	switch {
	case errors.Is(err, formatters.ErrNothingToExport):
		finish(false, "empty list")
		e.logger.Warn("no data to export", "file", dest)
		return nil
	case err != nil:
		finish(false, err.Error())
		return err
	}
	finish(true, fmt.Sprintf("%d rows", len(entries)))
	fmt.Fprintf(e.stderr, "Exported %d names to %s\n", len(entries), dest)
	return nil
}

func extractCmd(stdout, stderr io.Writer) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Show only names containing this text (case-insensitive)"},
		&cli.StringSliceFlag{Name: "sort", Usage: "Sort by name or count; repeat to toggle direction"},
	}
	return &cli.Command{
		Name:      "extract",
		Usage:     "Extract names from a .docx, .pdf or .txt document",
		ArgsUsage: "<document>",
		Flags:     append(flags, exportFlags()...),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("extract requires exactly one document path", 2)
			}
			path := c.Args().First()

			e, err := newEnv(c, stdout, stderr)
			if err != nil {
				return err
			}
			dest, format, err := e.exportDestination(c)
			if err != nil {
				return err
			}

			var columns []view.Column
			for _, s := range c.StringSlice("sort") {
				col, err := view.ParseColumn(s)
				if err != nil {
					return cli.Exit(err.Error(), 2)
				}
				columns = append(columns, col)
			}

			finish := e.step("docreader", "read", path)
			doc, err := e.newReader().ReadText(c.Context, path)
			if err != nil {
				finish(false, err.Error())
				return err
			}
			finish(true, fmt.Sprintf("%s, %d bytes", doc.Format, len(doc.Text)))

			eng := e.newEngine()
			if e.final.verbose {
				for _, m := range eng.Scan(doc.Text) {
					fmt.Fprintf(stderr, "  match at byte %d [%s]: %s\n", m.Offset, m.Honorific, m.Text)
				}
			}

			st, err := eng.ExtractDocument(engine.NewState(), doc)
			if errors.Is(err, engine.ErrNoMatches) {
				e.logger.Warn("no names found in file", "file", path)
			} else if err != nil {
				return err
			}
			e.warnNotices(st, path)
			e.metric("engine", "distinct_names", len(st.Result.Entries))
			e.metric("engine", "occurrences", st.Result.Total())

			if c.IsSet("search") {
				st, _ = engine.Filter(st, c.String("search"))
			}
			for _, col := range columns {
				st, _ = engine.Sort(st, col)
			}

			if err := e.printTable(st); err != nil {
				return err
			}
			if dest == "" {
				return nil
			}
			return e.export(st, dest, format)
		},
	}
}

func watchCmd(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Re-extract a document every time it is saved",
		ArgsUsage: "<document>",
		Flags: append([]cli.Flag{
			&cli.DurationFlag{Name: "debounce", Value: watch.DefaultDebounce, Usage: "Quiet period before re-reading a changed document"},
		}, exportFlags()...),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("watch requires exactly one document path", 2)
			}
			e, err := newEnv(c, stdout, stderr)
			if err != nil {
				return err
			}
			dest, format, err := e.exportDestination(c)
			if err != nil {
				return err
			}

			session := engine.NewSession(e.newEngine())
			w, err := watch.New(session, e.newReader(), c.Args().First(), watch.Options{
				Debounce: c.Duration("debounce"),
				Logger:   e.logger,
				OnResult: func(st engine.State, err error) {
					if err != nil && !errors.Is(err, engine.ErrNoMatches) {
						return
					}
					if err := e.printTable(st); err != nil {
						e.logger.Error("printing table failed", "err", err)
					}
					if dest != "" {
						if err := e.export(st, dest, format); err != nil {
							e.logger.Error("export failed", "err", err)
						}
					}
				},
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			e.logger.Info("watching", "file", w.Path())
			return w.Run(ctx)
		},
	}
}

func serveCmd(stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "Serve the extraction session over an HTTP JSON API",
		ArgsUsage: "[document]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port for the web server (default: from config, 8080)"},
		},
		Action: func(c *cli.Context) error {
			e, err := newEnv(c, io.Discard, stderr)
			if err != nil {
				return err
			}
			port := e.cfg.Web.Port
			if c.IsSet("port") {
				port = c.String("port")
			}

			session := engine.NewSession(e.newEngine())
			reader := e.newReader()
			if c.NArg() > 0 {
				path := c.Args().First()
				st, err := session.ExtractFile(c.Context, reader, path)
				if errors.Is(err, engine.ErrNoMatches) {
					e.logger.Warn("no names found in file", "file", path)
				} else if err != nil {
					return err
				}
				e.warnNotices(st, path)
			}

			ws := web.NewWebServer(port, session, reader, e.cfg, e.logger)
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return ws.Start(ctx)
		},
	}
}

func formatsCmd(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "formats",
		Usage: "List export formats",
		Action: func(c *cli.Context) error {
			for _, name := range formatters.List() {
				f, _ := formatters.Get(name)
				fmt.Fprintf(stdout, "%-6s %-6s %s\n", name, f.FileExtension(), f.Description())
			}
			return nil
		},
	}
}

func profilesCmd(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "profiles",
		Usage: "List profiles available in the config file",
		Action: func(c *cli.Context) error {
			cfg := loadConfiguration(c.String("config"), stderr)
			names := cfg.ListProfiles()
			if len(names) == 0 {
				fmt.Fprintln(stdout, "No profiles defined.")
				return nil
			}
			for _, name := range names {
				profile := cfg.GetProfile(name)
				fmt.Fprintf(stdout, "%s\t%s\n", name, profile.Description)
			}
			return nil
		},
	}
}

func versionCmd(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show detailed version information",
		Action: func(c *cli.Context) error {
			fmt.Fprintln(stdout, version.Get())
			return nil
		},
	}
}
