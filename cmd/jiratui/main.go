package main

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/whyisdifficult/jiratui/internal/config"
	"github.com/whyisdifficult/jiratui/internal/jira"
	"github.com/whyisdifficult/jiratui/internal/logging"
	"github.com/whyisdifficult/jiratui/internal/tui"
	"github.com/whyisdifficult/jiratui/internal/ui"
)

var version = "dev"

func init() {
	if version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
}

func main() {
	configPath := pflag.String("config", "", "Path to the configuration file")
	projectKey := pflag.StringP("project-key", "p", "", "Pre-select this project")
	workItemKey := pflag.StringP("work-item-key", "k", "", "Look up this work item on startup")
	assigneeID := pflag.StringP("assignee-account-id", "u", "", "Pre-select this assignee account id")
	jqlID := pflag.IntP("jql-expression-id", "j", 0, "Use this pre-defined JQL expression")
	theme := pflag.String("theme", "", "Colour theme")
	showVersion := pflag.Bool("version", false, "Print version and exit")
	pflag.Parse()

	if *showVersion {
		fmt.Println("jiratui", version)
		os.Exit(0)
	}

	path := config.Resolve(*configPath)
	if path == "" {
		fmt.Fprintf(os.Stderr, "Error: no configuration file (use --config or %s)\n", config.EnvConfigFile)
		os.Exit(1)
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *theme != "" {
		cfg.Theme = *theme
	}
	ui.ApplyTheme(cfg.Theme)

	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	client := jira.NewClient(jira.Options{
		BaseURL:    cfg.APIBaseURL,
		Username:   cfg.Username,
		Token:      cfg.Token,
		BearerAuth: cfg.BearerAuth,
	})

	app := tui.NewApp(cfg, client, logger, tui.Overrides{
		ProjectKey:      *projectKey,
		WorkItemKey:     *workItemKey,
		AssigneeID:      *assigneeID,
		JQLExpressionID: *jqlID,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
