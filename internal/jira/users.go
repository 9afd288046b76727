package jira

import (
	"context"
	"net/url"
	"strconv"

	"github.com/whyisdifficult/jiratui/internal/model"
)

// ListAssignableUsers returns the users that may be assigned work items
// in the given project.
func (c *Client) ListAssignableUsers(ctx context.Context, projectKey string) ([]model.User, error) {
	var users []model.User
	for startAt := 0; ; {
		q := url.Values{}
		q.Set("project", projectKey)
		q.Set("startAt", strconv.Itoa(startAt))
		q.Set("maxResults", "50")
		var page []model.User
		if err := c.get(ctx, "user/assignable/search", q, &page); err != nil {
			return nil, err
		}
		users = append(users, page...)
		if len(page) < 50 {
			break
		}
		startAt += len(page)
	}
	return users, nil
}

type groupMembersResponse struct {
	Values []model.User `json:"values"`
	IsLast bool         `json:"isLast"`
}

// ListUsersByGroup returns the active members of a user group. This is
// the fallback source of assignee options when no project is selected.
func (c *Client) ListUsersByGroup(ctx context.Context, groupID string) ([]model.User, error) {
	var users []model.User
	for startAt := 0; ; {
		q := url.Values{}
		q.Set("groupId", groupID)
		q.Set("includeInactiveUsers", "false")
		q.Set("startAt", strconv.Itoa(startAt))
		q.Set("maxResults", "50")
		var resp groupMembersResponse
		if err := c.get(ctx, "group/member", q, &resp); err != nil {
			return nil, err
		}
		users = append(users, resp.Values...)
		startAt += len(resp.Values)
		if resp.IsLast || len(resp.Values) == 0 {
			break
		}
	}
	return users, nil
}
