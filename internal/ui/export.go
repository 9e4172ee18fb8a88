package ui

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yourusername/console-landing/internal/model"
)

// ExportFormat represents the export file format
type ExportFormat int

const (
	ExportCSV ExportFormat = iota
	ExportJSON
)

// exportSuccessMsg is sent when export completes successfully
type exportSuccessMsg struct {
	filePath string
	count    int
}

// exportErrorMsg is sent when export fails
type exportErrorMsg struct {
	err error
}

// getExportDir returns the export directory path and ensures it exists
func getExportDir(override string) (string, error) {
	exportDir := override
	if exportDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".", nil
		}
		exportDir = filepath.Join(homeDir, ".config", "console-landing", "exports")
	}

	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create export directory %s: %w", exportDir, err)
	}
	return exportDir, nil
}

// exportSnapshot is what an export writes; it is taken on the UI goroutine
// because the controller must not be read from the export goroutine
type exportSnapshot struct {
	page    string
	columns []string
	cells   [][]string
	details []model.Item
}

// exportData exports every row matching the current filter, in the
// current sort order, not only the rendered window
func (m *Model) exportData(format ExportFormat) tea.Cmd {
	if m.session == nil {
		return nil
	}
	ctrl := m.session.Controller
	rows := model.SortItems(ctrl.Visible(), ctrl.Preference().SortBy)

	snap := exportSnapshot{page: m.session.Page.Name, columns: m.session.Columns()}
	for _, item := range rows {
		if format == ExportJSON {
			snap.details = append(snap.details, m.session.Detail(item))
			continue
		}
		row := make([]string, len(snap.columns))
		for i, c := range snap.columns {
			row[i] = m.session.Cell(item, c)
		}
		snap.cells = append(snap.cells, row)
	}
	dir := m.exportDir
	timestamp := m.now().Format("20060102-150405")

	return func() tea.Msg {
		exportDir, err := getExportDir(dir)
		if err != nil {
			return exportErrorMsg{err: err}
		}

		base := filepath.Join(exportDir, fmt.Sprintf("%s-%s", snap.page, timestamp))
		var fullPath string
		if format == ExportJSON {
			fullPath = base + ".json"
			err = writeJSON(fullPath, snap.details)
		} else {
			fullPath = base + ".csv"
			err = writeCSV(fullPath, snap.columns, snap.cells)
		}
		if err != nil {
			return exportErrorMsg{err: err}
		}

		return exportSuccessMsg{filePath: fullPath, count: len(rows)}
	}
}

func writeCSV(fullPath string, header []string, rows [][]string) error {
	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

func writeJSON(fullPath string, items []model.Item) error {
	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if items == nil {
		items = []model.Item{}
	}
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(items)
}
