package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/index"
)

// Run shows the search box until the user picks a location or quits. The
// program also stops when ctx is cancelled.
func Run(ctx context.Context, queries QueryInput, bridge *Bridge) (index.Location, bool, error) {
	p := tea.NewProgram(New(queries, bridge), tea.WithAltScreen())
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			p.Quit()
		case <-stop:
		}
	}()
	final, err := p.Run()
	if err != nil {
		return index.Location{}, false, fmt.Errorf("running search box: %w", err)
	}
	loc, ok := final.(*Model).Chosen()
	return loc, ok, nil
}
