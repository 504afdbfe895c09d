// ABOUTME: Tests for the repository selection list
// ABOUTME: Validates recency ordering and the selection message

package repolist

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/optifuse/optifuse-cli/internal/models"
)

func repo(name string, stars int) models.Repository {
	return models.Repository{
		Name:            name,
		StargazersCount: stars,
		Owner:           models.RepositoryOwner{Login: "octo"},
	}
}

func TestItems_RecentFirst(t *testing.T) {
	repos := []models.Repository{repo("alpha", 1), repo("beta", 2), repo("gamma", 3)}
	rank := func(ref models.RepositoryRef) int {
		switch ref.Name {
		case "gamma":
			return 0
		case "beta":
			return 1
		}
		return -1
	}

	items := Items(repos, rank)

	want := []string{"gamma", "beta", "alpha"}
	for i, name := range want {
		item := items[i].(Item)
		if item.Repo.Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, item.Repo.Name)
		}
	}
	if !items[0].(Item).Recent || items[2].(Item).Recent {
		t.Error("expected recent flag only on opened repositories")
	}
}

func TestItems_NoRankKeepsOrder(t *testing.T) {
	repos := []models.Repository{repo("b", 0), repo("a", 0)}

	items := Items(repos, nil)

	if items[0].(Item).Repo.Name != "b" || items[1].(Item).Repo.Name != "a" {
		t.Error("expected backend order to be kept")
	}
}

func TestItem_Rendering(t *testing.T) {
	item := Item{Repo: repo("alpha", 12345)}

	if !strings.Contains(item.Title(), "octo/alpha") {
		t.Errorf("expected title to contain ref, got %q", item.Title())
	}
	if !strings.Contains(item.Description(), "12,345") {
		t.Errorf("expected humanized stars, got %q", item.Description())
	}
	if !strings.Contains(item.Description(), "No description provided.") {
		t.Errorf("expected default description, got %q", item.Description())
	}
	if item.FilterValue() != "octo/alpha" {
		t.Errorf("expected filter value octo/alpha, got %q", item.FilterValue())
	}
}

func TestEnterSelectsRepository(t *testing.T) {
	l := New([]models.Repository{repo("alpha", 1), repo("beta", 2)}, nil, 80, 20)

	l, cmd := l.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command from enter")
	}

	msg, ok := cmd().(RepoSelectedMsg)
	if !ok {
		t.Fatalf("expected RepoSelectedMsg, got %T", cmd())
	}
	if msg.Ref.String() != "octo/alpha" {
		t.Errorf("expected octo/alpha, got %s", msg.Ref)
	}
	if l.Filtering() {
		t.Error("expected list not to be filtering")
	}
}

func TestEmptyList(t *testing.T) {
	l := New(nil, nil, 80, 20)

	if _, cmd := l.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("expected no command for an empty list")
	}
	if !strings.Contains(l.View(), "No repositories") {
		t.Errorf("expected empty message, got %q", l.View())
	}
}
