package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/whyisdifficult/jiratui/internal/model"
)

// jiraTime handles Jira's timestamp format alongside RFC 3339.
const jiraTimeLayout = "2006-01-02T15:04:05.000-0700"

func parseTime(s string) time.Time {
	if t, err := time.Parse(jiraTimeLayout, s); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

type issueRecord struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields struct {
		Summary   string          `json:"summary"`
		Status    model.Status    `json:"status"`
		IssueType issueTypeRecord `json:"issuetype"`
		Assignee  *model.User     `json:"assignee"`
		Created   string          `json:"created"`
		// Description is an ADF document on API v3; only plain string
		// payloads (v2) are used, rich documents are not parsed.
		Description json.RawMessage `json:"description"`
	} `json:"fields"`
}

func (r issueRecord) toModel() model.WorkItem {
	item := model.WorkItem{
		ID:       r.ID,
		Key:      r.Key,
		Summary:  r.Fields.Summary,
		Status:   r.Fields.Status,
		Type:     r.Fields.IssueType.toModel(),
		Assignee: r.Fields.Assignee,
		Created:  parseTime(r.Fields.Created),
	}
	var text string
	if json.Unmarshal(r.Fields.Description, &text) == nil {
		item.Description = text
	}
	return item
}

var searchFields = []string{"id", "key", "status", "summary", "issuetype", "assignee", "created"}

// SearchWorkItems runs a JQL search and returns one page of results.
// startAt is the zero-based offset of the first item.
func (c *Client) SearchWorkItems(ctx context.Context, jql string, startAt, maxResults int) ([]model.WorkItem, error) {
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("startAt", strconv.Itoa(startAt))
	q.Set("maxResults", strconv.Itoa(maxResults))
	for _, f := range searchFields {
		q.Add("fields", f)
	}
	var resp struct {
		Issues []issueRecord `json:"issues"`
	}
	if err := c.get(ctx, "search", q, &resp); err != nil {
		return nil, err
	}
	items := make([]model.WorkItem, 0, len(resp.Issues))
	for _, issue := range resp.Issues {
		items = append(items, issue.toModel())
	}
	return items, nil
}

// ApproximateCount estimates how many work items a JQL search would
// yield in total.
func (c *Client) ApproximateCount(ctx context.Context, jql string) (int, error) {
	q := url.Values{}
	q.Set("jql", jql)
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.get(ctx, "search/approximate-count", q, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// GetWorkItem fetches a single work item by key, including its
// description for the detail pane.
func (c *Client) GetWorkItem(ctx context.Context, key string) (*model.WorkItem, error) {
	q := url.Values{}
	for _, f := range append(searchFields, "description") {
		q.Add("fields", f)
	}
	var record issueRecord
	if err := c.get(ctx, fmt.Sprintf("issue/%s", url.PathEscape(key)), q, &record); err != nil {
		return nil, err
	}
	item := record.toModel()
	return &item, nil
}
