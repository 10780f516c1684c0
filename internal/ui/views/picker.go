package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/soundboard/api"
	"github.com/jscyril/soundboard/internal/catalog"
	"github.com/jscyril/soundboard/internal/ui/components"
)

// AssignMsg asks the app to put a sound on a pad
type AssignMsg struct {
	Pad     int
	SoundID string
}

// ScanDirMsg asks the app to scan a directory into the catalog
type ScanDirMsg struct {
	Path string
}

// allCategories is the pseudo-category that disables filtering
const allCategories = "All"

// PickerView browses the catalog to choose a sound for a pad
type PickerView struct {
	Width      int
	Height     int
	Catalog    *catalog.Catalog
	SoundList  components.SoundList
	SearchBar  components.SearchInput
	DirBrowser components.DirBrowser
	Searching  bool
	Browsing   bool
	Categories []string
	Category   int
	Target     int // pad the chosen sound goes to

	SearchKey   string
	CategoryKey string

	BorderStyle   lipgloss.Style
	TitleStyle    lipgloss.Style
	CategoryStyle lipgloss.Style
	HelpStyle     lipgloss.Style
}

// NewPickerView creates a new sound picker over cat
func NewPickerView(cat *catalog.Catalog, width, height int) PickerView {
	v := PickerView{
		Width:       width,
		Height:      height,
		Catalog:     cat,
		SearchKey:   "/",
		CategoryKey: "]",
		SoundList:   components.NewSoundList(height-10, width-6),
		SearchBar:   components.NewSearchInput(width - 6),
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2),
		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		CategoryStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")),
		HelpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
	v.Refresh()
	return v
}

// Refresh reloads categories and the filtered list from the catalog
func (v *PickerView) Refresh() {
	current := v.category()
	v.Categories = append([]string{allCategories}, v.Catalog.Categories()...)
	v.Category = 0
	for i, c := range v.Categories {
		if c == current {
			v.Category = i
		}
	}
	v.applyFilter()
}

func (v PickerView) category() string {
	if v.Category < 0 || v.Category >= len(v.Categories) {
		return allCategories
	}
	return v.Categories[v.Category]
}

// Open shows the picker for pad target
func (v *PickerView) Open(target int) {
	v.Target = target
	v.Searching = false
	v.Browsing = false
	v.SearchBar.Blur()
}

// Capturing reports whether the picker wants every keystroke
func (v PickerView) Capturing() bool {
	return v.Searching || v.Browsing
}

func (v *PickerView) applyFilter() {
	var items []api.SoundItem
	if c := v.category(); c == allCategories {
		items = v.Catalog.All()
	} else {
		items = v.Catalog.Filter(c)
	}
	v.SoundList.SetItems(v.Catalog.Search(v.SearchBar.Value(), items))
}

// Update handles messages
func (v PickerView) Update(msg tea.Msg) (PickerView, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		if v.Searching {
			v.SearchBar, cmd = v.SearchBar.Update(msg)
		}
		return v, cmd
	}

	if v.Browsing {
		switch keyMsg.String() {
		case "esc":
			v.Browsing = false
		case "enter":
			v.DirBrowser.EnterSelected()
		case "s":
			v.Browsing = false
			path := v.DirBrowser.CurrentPath
			return v, func() tea.Msg { return ScanDirMsg{Path: path} }
		default:
			v.DirBrowser, _ = v.DirBrowser.Update(keyMsg)
		}
		return v, nil
	}

	if v.Searching {
		switch keyMsg.String() {
		case "enter", "esc":
			v.Searching = false
			v.SearchBar.Blur()
			return v, nil
		default:
			var cmd tea.Cmd
			v.SearchBar, cmd = v.SearchBar.Update(keyMsg)
			v.applyFilter()
			return v, cmd
		}
	}

	switch keyMsg.String() {
	case v.SearchKey:
		v.Searching = true
		return v, v.SearchBar.Focus()
	case v.CategoryKey, "]":
		v.Category = (v.Category + 1) % len(v.Categories)
		v.applyFilter()
	case "[":
		v.Category = (v.Category + len(v.Categories) - 1) % len(v.Categories)
		v.applyFilter()
	case "o":
		v.Browsing = true
		v.DirBrowser = components.NewDirBrowser("", v.Width, v.Height)
	case "enter":
		if item, ok := v.SoundList.SelectedItem(); ok {
			pad, id := v.Target, item.ID
			return v, func() tea.Msg { return AssignMsg{Pad: pad, SoundID: id} }
		}
	default:
		v.SoundList, _ = v.SoundList.Update(keyMsg)
	}
	return v, nil
}

// SelectedSound returns the highlighted sound
func (v *PickerView) SelectedSound() (api.SoundItem, bool) {
	return v.SoundList.SelectedItem()
}

// View renders the picker
func (v PickerView) View() string {
	if v.Browsing {
		return v.DirBrowser.View()
	}

	var sb strings.Builder

	sb.WriteString(v.TitleStyle.Render(fmt.Sprintf("Choose a sound for pad %d", v.Target+1)))
	sb.WriteString("  ")
	sb.WriteString(v.CategoryStyle.Render("◀ " + v.category() + " ▶"))
	sb.WriteString("\n")

	sb.WriteString(v.SearchBar.View())
	sb.WriteString("\n\n")

	v.SoundList.Height = v.Height - 10
	v.SoundList.Width = v.Width - 6
	sb.WriteString(v.SoundList.View())

	sb.WriteString("\n\n")
	if v.Searching {
		sb.WriteString(v.HelpStyle.Render("[Enter] Confirm  [Esc] Done"))
	} else {
		sb.WriteString(v.HelpStyle.Render(fmt.Sprintf("[Enter] Assign  [%s] Filter  [[ %s] Category  [o] Scan folder  [Esc] Back", v.SearchKey, v.CategoryKey)))
	}

	return v.BorderStyle.Width(v.Width - 4).Render(sb.String())
}
