package jira

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/whyisdifficult/jiratui/internal/model"
)

type projectSearchResponse struct {
	Values []model.Project `json:"values"`
	IsLast bool            `json:"isLast"`
	Total  int             `json:"total"`
}

// ListProjects returns every project visible to the authenticated user,
// following server-side pagination until the last page.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	for startAt := 0; ; {
		q := url.Values{}
		q.Set("startAt", strconv.Itoa(startAt))
		q.Set("maxResults", "50")
		var resp projectSearchResponse
		if err := c.get(ctx, "project/search", q, &resp); err != nil {
			return nil, err
		}
		projects = append(projects, resp.Values...)
		startAt += len(resp.Values)
		if resp.IsLast || len(resp.Values) == 0 {
			break
		}
	}
	return projects, nil
}

// GetProject fetches a single project by its case-sensitive key or id.
func (c *Client) GetProject(ctx context.Context, key string) (*model.Project, error) {
	var p model.Project
	if err := c.get(ctx, fmt.Sprintf("project/%s", url.PathEscape(key)), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
