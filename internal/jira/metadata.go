package jira

import (
	"context"
	"fmt"
	"net/url"

	"github.com/whyisdifficult/jiratui/internal/model"
)

type issueTypeRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Scope *struct {
		Project struct {
			Name string `json:"name"`
			Key  string `json:"key"`
		} `json:"project"`
	} `json:"scope"`
}

func (r issueTypeRecord) toModel() model.IssueType {
	t := model.IssueType{ID: r.ID, Name: r.Name}
	if r.Scope != nil {
		t.ScopeProjectName = r.Scope.Project.Name
	}
	return t
}

// ListProjectIssueTypes returns the work item types usable in one
// project.
func (c *Client) ListProjectIssueTypes(ctx context.Context, projectKey string) ([]model.IssueType, error) {
	var resp struct {
		IssueTypes []issueTypeRecord `json:"issueTypes"`
	}
	path := fmt.Sprintf("issue/createmeta/%s/issuetypes", url.PathEscape(projectKey))
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	types := make([]model.IssueType, 0, len(resp.IssueTypes))
	for _, r := range resp.IssueTypes {
		types = append(types, r.toModel())
	}
	return types, nil
}

// ListAllIssueTypes returns the work item types across every known
// project. Types scoped to different projects may repeat a display name
// under distinct ids.
func (c *Client) ListAllIssueTypes(ctx context.Context) ([]model.IssueType, error) {
	var records []issueTypeRecord
	if err := c.get(ctx, "issuetype", nil, &records); err != nil {
		return nil, err
	}
	types := make([]model.IssueType, 0, len(records))
	for _, r := range records {
		types = append(types, r.toModel())
	}
	return types, nil
}

type projectStatusesResponse []struct {
	ID       string         `json:"id"`   // issue type id
	Name     string         `json:"name"` // issue type name
	Statuses []model.Status `json:"statuses"`
}

// ListProjectStatuses returns the statuses reachable by the project's
// work item types, flattened across types. The same status id can back
// several types; callers dedupe by id.
func (c *Client) ListProjectStatuses(ctx context.Context, projectKey string) ([]model.Status, error) {
	var resp projectStatusesResponse
	path := fmt.Sprintf("project/%s/statuses", url.PathEscape(projectKey))
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	var statuses []model.Status
	for _, byType := range resp {
		statuses = append(statuses, byType.Statuses...)
	}
	return statuses, nil
}

// ListAllStatuses returns every status defined on the instance.
func (c *Client) ListAllStatuses(ctx context.Context) ([]model.Status, error) {
	var statuses []model.Status
	if err := c.get(ctx, "status", nil, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}
