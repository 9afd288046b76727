// Package config loads the YAML configuration file and applies
// defaults. The loaded value is immutable at runtime; every component
// receives the slice of it it needs at construction.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/whyisdifficult/jiratui/internal/model"
)

// EnvConfigFile overrides the configuration file location.
const EnvConfigFile = "JIRATUI_CONFIG_FILE"

// JQLExpression is one pre-defined query an operator can select by id.
type JQLExpression struct {
	Label      string `yaml:"label"`
	Expression string `yaml:"expression"`
}

type Config struct {
	APIBaseURL string `yaml:"jira_api_base_url"`
	Username   string `yaml:"jira_api_username"`
	Token      string `yaml:"jira_api_token"`
	// BearerAuth switches from basic auth to a personal access token.
	BearerAuth bool `yaml:"use_bearer_authentication"`
	// Cloud gates features only Jira Cloud offers, like advanced
	// full-text search.
	Cloud bool `yaml:"cloud"`

	// AccountID is the operator's own account id, used to seed the
	// assignee filter.
	AccountID string `yaml:"jira_account_id"`
	// UserGroupID resolves assignable users when no project is
	// selected.
	UserGroupID string `yaml:"jira_user_group_id"`

	DefaultProjectKey string `yaml:"default_project_key_or_id"`

	ResultsPerPage   int  `yaml:"search_results_per_page"`
	DefaultDayWindow int  `yaml:"search_issues_default_day_interval"`
	OnlyProjects     bool `yaml:"on_start_up_only_fetch_projects"`
	SearchOnStartup  bool `yaml:"search_on_startup"`
	FocusOnStartup   int  `yaml:"focus_item_on_startup"`

	PageFilterEnabled   bool `yaml:"search_results_page_filtering_enabled"`
	PageFilterMinLength int  `yaml:"search_results_page_filtering_minimum_term_length"`

	FullTextMinLength int  `yaml:"full_text_search_minimum_term_length"`
	AdvancedFullText  bool `yaml:"enable_advanced_full_text_search"`

	IgnoreUsersWithoutEmail bool `yaml:"ignore_users_without_email"`

	DefaultSortOrder model.SortOrder `yaml:"search_results_default_order"`

	JQLExpressions         map[int]JQLExpression `yaml:"pre_defined_jql_expressions"`
	DefaultJQLExpressionID int                   `yaml:"jql_expression_id_for_work_items_search"`

	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`
	Theme    string `yaml:"theme"`
}

// Default returns the configuration used before any file is read.
func Default() Config {
	return Config{
		ResultsPerPage:          30,
		DefaultDayWindow:        15,
		OnlyProjects:            true,
		PageFilterEnabled:       true,
		PageFilterMinLength:     3,
		FullTextMinLength:       3,
		AdvancedFullText:        true,
		IgnoreUsersWithoutEmail: true,
		DefaultSortOrder:        model.SortCreatedDesc,
		LogLevel:                "info",
	}
}

// Load reads the YAML file at path over the defaults. A missing file is
// an error; use Default directly to run without one.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve picks the configuration file: the explicit flag wins, then
// the environment variable. Empty means no file.
func Resolve(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	return os.Getenv(EnvConfigFile)
}

func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("jira_api_base_url is required")
	}
	if c.Token == "" {
		return fmt.Errorf("jira_api_token is required")
	}
	if !c.BearerAuth && c.Username == "" {
		return fmt.Errorf("jira_api_username is required unless use_bearer_authentication is set")
	}
	if c.ResultsPerPage <= 0 {
		return fmt.Errorf("search_results_per_page must be positive, got %d", c.ResultsPerPage)
	}
	if c.DefaultDayWindow <= 0 {
		return fmt.Errorf("search_issues_default_day_interval must be positive, got %d", c.DefaultDayWindow)
	}
	if c.FocusOnStartup < 0 {
		return fmt.Errorf("focus_item_on_startup must be a positive integer, got %d", c.FocusOnStartup)
	}
	if c.FocusOnStartup > 0 && !c.SearchOnStartup {
		return fmt.Errorf("focus_item_on_startup requires search_on_startup")
	}
	if !validSortOrder(c.DefaultSortOrder) {
		return fmt.Errorf("search_results_default_order %q is not a known order", c.DefaultSortOrder)
	}
	for id, expr := range c.JQLExpressions {
		if expr.Expression == "" {
			return fmt.Errorf("pre_defined_jql_expressions[%d] has no expression", id)
		}
	}
	if id := c.DefaultJQLExpressionID; id != 0 {
		if _, ok := c.JQLExpressions[id]; !ok {
			return fmt.Errorf("jql_expression_id_for_work_items_search %d is not a configured expression", id)
		}
	}
	return nil
}

// ExpressionTexts flattens the configured expressions to id -> JQL.
func (c Config) ExpressionTexts() map[int]string {
	out := make(map[int]string, len(c.JQLExpressions))
	for id, expr := range c.JQLExpressions {
		out[id] = expr.Expression
	}
	return out
}

func validSortOrder(s model.SortOrder) bool {
	for _, o := range model.SortOrders() {
		if s == o {
			return true
		}
	}
	return false
}
