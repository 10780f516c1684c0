package components

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/soundboard/internal/audio"
)

// DirEntry is a directory shown in the browser
type DirEntry struct {
	Name   string
	Path   string
	Sounds int // playable files directly inside
}

// DirBrowser navigates the filesystem to pick a directory of sounds to scan
type DirBrowser struct {
	Width       int
	Height      int
	CurrentPath string
	Entries     []DirEntry
	Here        int // playable files in CurrentPath
	Selected    int
	Offset      int
	Err         error

	DirStyle      lipgloss.Style
	SelectedStyle lipgloss.Style
	PathStyle     lipgloss.Style
	BorderStyle   lipgloss.Style
}

// NewDirBrowser creates a browser starting at the given path
func NewDirBrowser(startPath string, width, height int) DirBrowser {
	fb := DirBrowser{
		Width:  width,
		Height: height,
		DirStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true),
		SelectedStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("255")).
			Bold(true),
		PathStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true),
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2),
	}

	if startPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			startPath = "/"
		} else {
			startPath = home
		}
	}

	fb.Navigate(startPath)
	return fb
}

// Navigate changes to the specified directory
func (fb *DirBrowser) Navigate(path string) {
	fb.CurrentPath = path
	fb.Selected = 0
	fb.Offset = 0
	fb.Err = nil

	entries, err := os.ReadDir(path)
	if err != nil {
		fb.Err = err
		fb.Entries = nil
		fb.Here = 0
		return
	}

	fb.Entries = make([]DirEntry, 0)
	if parent := filepath.Dir(path); parent != path {
		fb.Entries = append(fb.Entries, DirEntry{Name: "..", Path: parent})
	}

	fb.Here = 0
	var dirs []DirEntry
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		full := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			dirs = append(dirs, DirEntry{Name: entry.Name(), Path: full, Sounds: countSounds(full)})
		} else if audio.IsSupported(entry.Name()) {
			fb.Here++
		}
	}

	sort.Slice(dirs, func(i, j int) bool {
		return strings.ToLower(dirs[i].Name) < strings.ToLower(dirs[j].Name)
	})
	fb.Entries = append(fb.Entries, dirs...)
}

func countSounds(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && audio.IsSupported(e.Name()) {
			n++
		}
	}
	return n
}

// Update handles input messages
func (fb DirBrowser) Update(msg tea.Msg) (DirBrowser, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if fb.Selected > 0 {
				fb.Selected--
				fb.ensureVisible()
			}
		case "down", "j":
			if fb.Selected < len(fb.Entries)-1 {
				fb.Selected++
				fb.ensureVisible()
			}
		case "home":
			fb.Selected = 0
			fb.ensureVisible()
		case "end":
			fb.Selected = len(fb.Entries) - 1
			fb.ensureVisible()
		case "backspace":
			fb.Navigate(filepath.Dir(fb.CurrentPath))
		case "~":
			if home, err := os.UserHomeDir(); err == nil {
				fb.Navigate(home)
			}
		}
	}
	return fb, nil
}

// SelectedEntry returns the currently selected entry, or nil if none
func (fb *DirBrowser) SelectedEntry() *DirEntry {
	if fb.Selected >= 0 && fb.Selected < len(fb.Entries) {
		return &fb.Entries[fb.Selected]
	}
	return nil
}

// EnterSelected descends into the selected directory
func (fb *DirBrowser) EnterSelected() {
	if entry := fb.SelectedEntry(); entry != nil {
		fb.Navigate(entry.Path)
	}
}

func (fb *DirBrowser) visibleHeight() int {
	h := fb.Height - 8 // border, path, footer
	if h < 1 {
		return 1
	}
	return h
}

func (fb *DirBrowser) ensureVisible() {
	visible := fb.visibleHeight()
	if fb.Selected < fb.Offset {
		fb.Offset = fb.Selected
	} else if fb.Selected >= fb.Offset+visible {
		fb.Offset = fb.Selected - visible + 1
	}
}

// View renders the browser
func (fb DirBrowser) View() string {
	var sb strings.Builder

	sb.WriteString(fb.PathStyle.Render("📁 " + fb.CurrentPath))
	sb.WriteString("\n\n")

	if fb.Err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		sb.WriteString(errorStyle.Render("Error: " + fb.Err.Error()))
		sb.WriteString("\n")
	}

	visible := fb.visibleHeight()
	end := fb.Offset + visible
	if end > len(fb.Entries) {
		end = len(fb.Entries)
	}

	for i := fb.Offset; i < end; i++ {
		entry := fb.Entries[i]
		line := "📂 " + entry.Name
		if entry.Sounds > 0 {
			line += fmt.Sprintf("  (%d)", entry.Sounds)
		}
		if maxWidth := fb.Width - 10; maxWidth > 3 && len(line) > maxWidth {
			line = line[:maxWidth-3] + "..."
		}

		if i == fb.Selected {
			sb.WriteString(fb.SelectedStyle.Render(line))
		} else {
			sb.WriteString(fb.DirStyle.Render(line))
		}
		sb.WriteString("\n")
	}

	for i := end - fb.Offset; i < visible; i++ {
		sb.WriteString("\n")
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	sb.WriteString(dim.Render(strings.Repeat("─", 20) + fmt.Sprintf("\nSounds here: %d", fb.Here)))
	sb.WriteString("\n\n")
	sb.WriteString(dim.Render("[Enter] Open  [s] Scan this folder  [Backspace] Up  [~] Home  [Esc] Cancel"))

	return fb.BorderStyle.Width(fb.Width - 4).Render(sb.String())
}
