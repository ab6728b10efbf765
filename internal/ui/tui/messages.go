package tui

import "github.com/mdjska/daylight-analysis/internal/domain"

type workspaceRefreshedMsg struct {
	cwd   string
	found bool
	root  string
	err   error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}

type workspaceLoadedMsg struct {
	root string
	cfg  domain.Config
	refs []domain.ModelRef
	err  error
}

type modelLoadedMsg struct {
	path  string
	model domain.Model
	err   error
}

type runDoneMsg struct {
	res domain.AnalysisResult
	err error
}

type plotSavedMsg struct {
	path string
	err  error
}
