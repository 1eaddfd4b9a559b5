package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"amalgam/internal/merge"
	"amalgam/internal/ui"
)

type mergeOutcome struct {
	result *merge.Result
	err    error
}

func runWithProgress(ctx context.Context, title string, files []string, opts merge.Options) (*merge.Result, error) {
	events := make(chan merge.Event, 256)
	outcomeCh := make(chan mergeOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = merge.ChannelSink{Ch: events}
		res, err := merge.Run(ctx, optsCopy)
		outcomeCh <- mergeOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// если UI упал раньше, merge не должен застрять на отправке
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
