// ABOUTME: Repository selection list shown when the TUI starts
// ABOUTME: Recently opened repositories are listed first; Enter opens the selection

package repolist

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/optifuse/optifuse-cli/internal/models"
	"github.com/optifuse/optifuse-cli/internal/tui/icons"
	"github.com/optifuse/optifuse-cli/internal/tui/styles"
)

// RepoSelectedMsg is sent when the user opens a repository
type RepoSelectedMsg struct {
	Ref models.RepositoryRef
}

// Item is one repository entry of the list
type Item struct {
	Repo   models.Repository
	Recent bool
}

// Title implements list.DefaultItem
func (i Item) Title() string {
	if i.Recent {
		return fmt.Sprintf("%s %s", icons.Refresh.String(), i.Repo.Ref())
	}
	return fmt.Sprintf("%s %s", icons.Repo.String(), i.Repo.Ref())
}

// Description implements list.DefaultItem
func (i Item) Description() string {
	return fmt.Sprintf("%s %s  %s",
		icons.Star.String(),
		humanize.Comma(int64(i.Repo.StargazersCount)),
		i.Repo.DescriptionOrDefault())
}

// FilterValue implements list.Item
func (i Item) FilterValue() string {
	return i.Repo.Ref().String()
}

// RankFunc returns the recency rank of a repository, or -1 when it was never opened
type RankFunc func(models.RepositoryRef) int

// List is the repository selection screen
type List struct {
	list list.Model
}

// New creates the list, ordering recently opened repositories first
func New(repos []models.Repository, rank RankFunc, width, height int) *List {
	l := list.New(Items(repos, rank), list.NewDefaultDelegate(), width, height)
	l.Title = "Repositories"
	l.Styles.Title = styles.Title
	l.SetShowHelp(false)
	l.SetStatusBarItemName("repository", "repositories")
	return &List{list: l}
}

// Items builds the list entries in display order
func Items(repos []models.Repository, rank RankFunc) []list.Item {
	sorted := append([]models.Repository(nil), repos...)
	if rank != nil {
		sort.SliceStable(sorted, func(i, j int) bool {
			ri, rj := rank(sorted[i].Ref()), rank(sorted[j].Ref())
			if ri < 0 {
				return false
			}
			return rj < 0 || ri < rj
		})
	}

	items := make([]list.Item, 0, len(sorted))
	for _, r := range sorted {
		items = append(items, Item{Repo: r, Recent: rank != nil && rank(r.Ref()) >= 0})
	}
	return items
}

// SetSize resizes the list
func (l *List) SetSize(width, height int) {
	l.list.SetSize(width, height)
}

// Filtering reports whether the user is typing a filter, so global keys must pass through
func (l *List) Filtering() bool {
	return l.list.FilterState() == list.Filtering
}

// Selected returns the highlighted repository
func (l *List) Selected() (models.Repository, bool) {
	item, ok := l.list.SelectedItem().(Item)
	if !ok {
		return models.Repository{}, false
	}
	return item.Repo, true
}

// Len returns the number of repositories listed
func (l *List) Len() int {
	return len(l.list.Items())
}

// Update implements tea.Model
func (l *List) Update(msg tea.Msg) (*List, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" && !l.Filtering() {
		repo, ok := l.Selected()
		if !ok {
			return l, nil
		}
		return l, func() tea.Msg { return RepoSelectedMsg{Ref: repo.Ref()} }
	}

	var cmd tea.Cmd
	l.list, cmd = l.list.Update(msg)
	return l, cmd
}

// View renders the list
func (l *List) View() string {
	if l.Len() == 0 {
		return styles.Subtitle.Render("No repositories found for this account.")
	}
	return l.list.View()
}
