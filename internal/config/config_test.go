package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/whyisdifficult/jiratui/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
jira_api_base_url: https://example.atlassian.net
jira_api_username: dev@example.com
jira_api_token: secret
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ResultsPerPage != 30 {
		t.Errorf("ResultsPerPage = %d, want 30", cfg.ResultsPerPage)
	}
	if cfg.DefaultDayWindow != 15 {
		t.Errorf("DefaultDayWindow = %d, want 15", cfg.DefaultDayWindow)
	}
	if !cfg.OnlyProjects {
		t.Error("OnlyProjects default = false, want true")
	}
	if cfg.DefaultSortOrder != model.SortCreatedDesc {
		t.Errorf("DefaultSortOrder = %q", cfg.DefaultSortOrder)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
jira_api_base_url: https://jira.internal.example.com
jira_api_token: pat
use_bearer_authentication: true
search_results_per_page: 50
on_start_up_only_fetch_projects: false
search_on_startup: true
focus_item_on_startup: 1
search_results_default_order: "key ASC"
pre_defined_jql_expressions:
  1:
    label: "My open items"
    expression: "assignee = currentUser() AND statusCategory != Done"
jql_expression_id_for_work_items_search: 1
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.ResultsPerPage != 50 {
		t.Errorf("ResultsPerPage = %d, want 50", cfg.ResultsPerPage)
	}
	if cfg.OnlyProjects {
		t.Error("OnlyProjects = true, want overridden to false")
	}
	if cfg.DefaultSortOrder != model.SortKeyAsc {
		t.Errorf("DefaultSortOrder = %q", cfg.DefaultSortOrder)
	}
	if got := cfg.ExpressionTexts()[1]; got != "assignee = currentUser() AND statusCategory != Done" {
		t.Errorf("ExpressionTexts()[1] = %q", got)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := Default()
		cfg.APIBaseURL = "https://example.atlassian.net"
		cfg.Username = "dev@example.com"
		cfg.Token = "secret"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing base url", mutate: func(c *Config) { c.APIBaseURL = "" }, wantErr: "jira_api_base_url"},
		{name: "missing token", mutate: func(c *Config) { c.Token = "" }, wantErr: "jira_api_token"},
		{name: "missing username", mutate: func(c *Config) { c.Username = "" }, wantErr: "jira_api_username"},
		{
			name:   "bearer auth needs no username",
			mutate: func(c *Config) { c.Username = ""; c.BearerAuth = true },
		},
		{
			name:    "focus without search",
			mutate:  func(c *Config) { c.FocusOnStartup = 2 },
			wantErr: "requires search_on_startup",
		},
		{
			name:    "negative focus",
			mutate:  func(c *Config) { c.SearchOnStartup = true; c.FocusOnStartup = -1 },
			wantErr: "positive",
		},
		{
			name:    "unknown sort order",
			mutate:  func(c *Config) { c.DefaultSortOrder = "summary DESC" },
			wantErr: "search_results_default_order",
		},
		{
			name:    "dangling expression id",
			mutate:  func(c *Config) { c.DefaultJQLExpressionID = 7 },
			wantErr: "jql_expression_id_for_work_items_search",
		},
		{
			name: "expression without text",
			mutate: func(c *Config) {
				c.JQLExpressions = map[int]JQLExpression{3: {Label: "empty"}}
			},
			wantErr: "no expression",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Setenv(EnvConfigFile, "/from/env.yaml")
	if got := Resolve("/from/flag.yaml"); got != "/from/flag.yaml" {
		t.Errorf("Resolve(flag) = %q", got)
	}
	if got := Resolve(""); got != "/from/env.yaml" {
		t.Errorf("Resolve(env) = %q", got)
	}
	t.Setenv(EnvConfigFile, "")
	if got := Resolve(""); got != "" {
		t.Errorf("Resolve(none) = %q", got)
	}
}
