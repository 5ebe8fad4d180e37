package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"swiftstyle/internal/driver"
	"swiftstyle/internal/ui"
)

type lintOutcome struct {
	result *driver.Result
	err    error
}

// runLintWithUI runs the lint on a goroutine while the progress model renders
// its events. The model exits once the event channel is closed.
func runLintWithUI(ctx context.Context, title string, files []string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan lintOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.LintFiles(ctx, files, opts)
		outcomeCh <- lintOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// модель больше не читает канал, освобождаем отправителей
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil && ctx.Err() == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
