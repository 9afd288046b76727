package model

import "time"

type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

type IssueType struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ScopeProjectName string `json:"-"`
}

type Status struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type User struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"emailAddress"`
	Active      bool   `json:"active"`
}

type WorkItem struct {
	ID       string    `json:"id"`
	Key      string    `json:"key"`
	Summary  string    `json:"summary"`
	Status   Status    `json:"status"`
	Type     IssueType `json:"issuetype"`
	Assignee *User     `json:"assignee"`
	Created  time.Time `json:"created"`

	// Description is only populated when a single item is fetched for
	// the detail pane; search pages leave it empty.
	Description string `json:"description"`
}
