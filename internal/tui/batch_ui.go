package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	batchStatusPending = "pending"
	batchStatusRunning = "running"
	batchStatusDone    = "done"
	batchStatusError   = "error"
)

// BatchRepoItem is one repository line in the batch view
type BatchRepoItem struct {
	Path     string
	Status   string
	CommitID string
	Error    error
}

// BatchTUIModel is the bubbletea model for batch commit progress
type BatchTUIModel struct {
	items    []BatchRepoItem
	spinner  spinner.Model
	done     bool
	quitting bool
	styles   batchStyles
	updates  <-chan ProgressUpdate
}

type batchStyles struct {
	spinnerStyle lipgloss.Style
	doneStyle    lipgloss.Style
	errorStyle   lipgloss.Style
	pathStyle    lipgloss.Style
	dimStyle     lipgloss.Style
}

// repoUpdateMsg carries one update from the reporter into the model
type repoUpdateMsg ProgressUpdate

// batchDoneMsg signals the reporter channel was closed
type batchDoneMsg struct{}

// NewBatchTUIModel creates a model showing every path as pending
func NewBatchTUIModel(paths []string, updates <-chan ProgressUpdate) BatchTUIModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	items := make([]BatchRepoItem, len(paths))
	for i, p := range paths {
		items[i] = BatchRepoItem{Path: p, Status: batchStatusPending}
	}

	return BatchTUIModel{
		items:   items,
		spinner: s,
		updates: updates,
		styles: batchStyles{
			spinnerStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
			doneStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			errorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
			pathStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
			dimStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		},
	}
}

// Init initializes the bubbletea model
func (m BatchTUIModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForUpdate())
}

func (m BatchTUIModel) waitForUpdate() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-m.updates
		if !ok {
			return batchDoneMsg{}
		}
		return repoUpdateMsg(update)
	}
}

// Update handles message updates for the bubbletea model
func (m BatchTUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case repoUpdateMsg:
		m = m.Apply(ProgressUpdate(msg))
		return m, m.waitForUpdate()

	case batchDoneMsg:
		m.done = true
		// Let the final frame render before exiting
		return m, tea.Tick(50*time.Millisecond, func(time.Time) tea.Msg { return tea.QuitMsg{} })

	case tea.QuitMsg:
		return m, tea.Quit
	}

	return m, nil
}

// Apply folds a progress update into the model
func (m BatchTUIModel) Apply(update ProgressUpdate) BatchTUIModel {
	if update.Index < 0 || update.Index >= len(m.items) {
		return m
	}
	item := &m.items[update.Index]
	switch update.Type {
	case "started":
		item.Status = batchStatusRunning
	case "completed":
		item.Status = batchStatusDone
		item.CommitID = update.CommitID
	case "failed":
		item.Status = batchStatusError
		item.Error = update.Error
	}
	return m
}

// Counts returns how many repositories committed and how many failed
func (m BatchTUIModel) Counts() (succeeded, failed int) {
	for _, item := range m.items {
		switch item.Status {
		case batchStatusDone:
			succeeded++
		case batchStatusError:
			failed++
		}
	}
	return succeeded, failed
}

// View renders the TUI
func (m BatchTUIModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\nBatch commit:\n\n")

	for i, item := range m.items {
		var icon, status string
		switch item.Status {
		case batchStatusPending:
			icon = m.styles.dimStyle.Render("○")
			status = m.styles.dimStyle.Render("pending")
		case batchStatusRunning:
			icon = m.spinner.View()
			status = m.styles.spinnerStyle.Render("committing...")
		case batchStatusDone:
			icon = m.styles.doneStyle.Render("✓")
			status = m.styles.doneStyle.Render(item.CommitID)
		case batchStatusError:
			icon = m.styles.errorStyle.Render("✗")
			status = m.styles.errorStyle.Render("failed")
			if item.Error != nil {
				status += " " + m.styles.errorStyle.Render("→ "+item.Error.Error())
			}
		}

		b.WriteString(fmt.Sprintf("  %s %s %s", icon, m.styles.pathStyle.Render(item.Path), status))
		if i < len(m.items)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if m.done {
		succeeded, failed := m.Counts()
		b.WriteString("\n")
		if failed > 0 {
			b.WriteString(m.styles.errorStyle.Render(fmt.Sprintf("Committed: %d, Failed: %d", succeeded, failed)))
		} else {
			b.WriteString(m.styles.doneStyle.Render(fmt.Sprintf("✓ All %d repositories committed", succeeded)))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RunBatchTUI renders progress until the reporter's channel closes
func RunBatchTUI(paths []string, updates <-chan ProgressUpdate) error {
	m := NewBatchTUIModel(paths, updates)
	program := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	_, err := program.Run()
	return err
}
