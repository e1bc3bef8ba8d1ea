package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"hiring/sourcing-service/internal/backend"
	"hiring/sourcing-service/internal/lifecycle"
	"hiring/sourcing-service/internal/model"
	"hiring/sourcing-service/internal/outreach"
	"hiring/sourcing-service/internal/search"
)

// api is the slice of the backend client the commands use.
type api interface {
	search.Searcher
	ListCandidates(ctx context.Context, status lifecycle.Status, limit int) ([]model.Candidate, error)
	ListTemplates(ctx context.Context) ([]model.OutreachTemplate, error)
}

type connector func(c *cli.Context) api

func connectBackend(c *cli.Context) api {
	return backend.NewClient(c.String("backend-url"), c.Duration("timeout"))
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(out io.Writer, connect connector) *cli.App {
	app := &cli.App{
		Name:    "sourcingctl",
		Usage:   "Candidate sourcing operator tool",
		Version: Version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "backend-url", Value: "http://localhost:8001", EnvVars: []string{"BACKEND_URL"}, Usage: "Recruiting backend base URL"},
			&cli.DurationFlag{Name: "timeout", Value: 30 * time.Second, Usage: "Per-request timeout"},
		},
		Commands: []*cli.Command{
			searchCmd(out, connect),
			candidatesCmd(out, connect),
			templatesCmd(out, connect),
			renderCmd(out, connect),
			catalogCmd(out),
		},
	}
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// searchCmd runs keywords one after another through the orchestrator.
func searchCmd(out io.Writer, connect connector) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search for candidates by keyword",
		ArgsUsage: "[keyword...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "defaults", Usage: "Search the catalogue's default active keywords"},
			&cli.StringFlag{Name: "catalog", Usage: "Keyword catalogue YAML file"},
		},
		Action: func(c *cli.Context) error {
			keywords := c.Args().Slice()
			if c.Bool("defaults") {
				cat, err := search.LoadCatalog(c.String("catalog"))
				if err != nil {
					return outputError(err)
				}
				keywords = append(keywords, cat.Active...)
			}
			keywords = search.NewKeywordSet(keywords...).List()
			if len(keywords) == 0 {
				return outputError(fmt.Errorf("at least one keyword or --defaults is required"))
			}

			rep := search.New(connect(c), nil, nil).RunBatchReport(c.Context, keywords)
			return outputJSON(out, rep)
		},
	}
}

func candidatesCmd(out io.Writer, connect connector) *cli.Command {
	return &cli.Command{
		Name:  "candidates",
		Usage: "List candidates",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "Status filter (discovered|outreach|contacted|responded|rejected)"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 100, Usage: "Maximum candidates"},
		},
		Action: func(c *cli.Context) error {
			var status lifecycle.Status
			if s := c.String("status"); s != "" {
				st, err := lifecycle.ParseStatus(s)
				if err != nil {
					return outputError(err)
				}
				status = st
			}
			list, err := connect(c).ListCandidates(c.Context, status, c.Int("limit"))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out, list)
		},
	}
}

func templatesCmd(out io.Writer, connect connector) *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "List outreach templates",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "language", Usage: "Only templates in this language (en|kr)"},
			&cli.BoolFlag{Name: "builtin", Usage: "Show the built-in templates instead of the backend's"},
		},
		Action: func(c *cli.Context) error {
			tpls, err := loadTemplates(c, connect)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out, filterLanguage(tpls, c.String("language")))
		},
	}
}

// renderCmd prints the message a template produces for one candidate.
func renderCmd(out io.Writer, connect connector) *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render an outreach template for a candidate",
		ArgsUsage: "<candidate-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Usage: "Template id (auto-selected when empty)"},
			&cli.StringFlag{Name: "language", Value: outreach.LangEN, Usage: "Language (en|kr)"},
			&cli.BoolFlag{Name: "builtin", Usage: "Use the built-in templates"},
			&cli.StringFlag{Name: "sender-name", EnvVars: []string{"SENDER_NAME"}},
			&cli.StringFlag{Name: "sender-title", Value: "Recruiter", EnvVars: []string{"SENDER_TITLE"}},
			&cli.StringFlag{Name: "sender-company", EnvVars: []string{"SENDER_COMPANY"}},
			&cli.StringFlag{Name: "sender-topic", EnvVars: []string{"SENDER_TOPIC"}},
		},
		Action: func(c *cli.Context) error {
			id, err := strconv.ParseInt(c.Args().First(), 10, 64)
			if err != nil {
				return outputError(fmt.Errorf("candidate id must be a number"))
			}
			list, err := connect(c).ListCandidates(c.Context, "", 1000)
			if err != nil {
				return outputError(err)
			}
			var cand *model.Candidate
			for i := range list {
				if list[i].ID == id {
					cand = &list[i]
					break
				}
			}
			if cand == nil {
				return outputError(fmt.Errorf("candidate %d not found", id))
			}

			tpls, err := loadTemplates(c, connect)
			if err != nil {
				return outputError(err)
			}
			sender := outreach.Sender{
				Name:    c.String("sender-name"),
				Title:   c.String("sender-title"),
				Company: c.String("sender-company"),
				Topic:   c.String("sender-topic"),
			}
			d, err := outreach.NewDraft(*cand, c.String("language"), tpls, sender)
			if err != nil {
				return outputError(err)
			}
			if t := c.String("template"); t != "" {
				if err := d.SelectTemplate(t); err != nil {
					return outputError(err)
				}
			}
			fmt.Fprintln(out, d.Message())
			return nil
		},
	}
}

func catalogCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Print the keyword catalogue",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Usage: "Catalogue YAML file (built-in when empty)"},
		},
		Action: func(c *cli.Context) error {
			cat, err := search.LoadCatalog(c.String("file"))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out, cat)
		},
	}
}

// loadTemplates returns the backend's templates, or the built-in set when
// --builtin is given or the backend has none.
func loadTemplates(c *cli.Context, connect connector) ([]model.OutreachTemplate, error) {
	if c.Bool("builtin") {
		return outreach.DefaultTemplates(), nil
	}
	tpls, err := connect(c).ListTemplates(c.Context)
	if err != nil {
		return nil, err
	}
	if len(tpls) == 0 {
		return outreach.DefaultTemplates(), nil
	}
	return tpls, nil
}

func filterLanguage(tpls []model.OutreachTemplate, lang string) []model.OutreachTemplate {
	if lang == "" {
		return tpls
	}
	out := make([]model.OutreachTemplate, 0, len(tpls))
	for _, t := range tpls {
		if t.Language == lang {
			out = append(out, t)
		}
	}
	return out
}

// outputJSON writes v as indented JSON.
func outputJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats err for the CLI.
func outputError(err error) error {
	return cli.Exit(err.Error(), 1)
}
