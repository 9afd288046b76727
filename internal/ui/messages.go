package ui

import (
	"github.com/whyisdifficult/jiratui/internal/fetch"
	"github.com/whyisdifficult/jiratui/internal/model"
)

// Data fetched messages. Every message carries the fetch.Request that
// produced it so the update loop can run the supersession check before
// committing anything.

type ProjectsLoadedMsg struct {
	Req      fetch.Request
	Projects []model.Project
	Err      error
}

type IssueTypesLoadedMsg struct {
	Req   fetch.Request
	Types []model.IssueType
	Err   error
}

type StatusesLoadedMsg struct {
	Req      fetch.Request
	Statuses []model.Status
	Err      error
}

type UsersLoadedMsg struct {
	Req   fetch.Request
	Users []model.User
	Err   error
}

type SearchLoadedMsg struct {
	Req   fetch.Request
	Items []model.WorkItem
	// Total is the approximate match count across all pages, or
	// engine.TotalUnknown when the count fetch failed.
	Total int
	Err   error
}

type ItemLoadedMsg struct {
	Req  fetch.Request
	Key  string
	Item *model.WorkItem
	Err  error
}

type StatusMsg struct {
	Text string
}
