// ABOUTME: AWS integration settings screen with an embedded huh form
// ABOUTME: Shows the external ID and trust state and edits the IAM role ARN

package settings

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/optifuse/optifuse-cli/internal/awstrust"
	"github.com/optifuse/optifuse-cli/internal/models"
	"github.com/optifuse/optifuse-cli/internal/tui/icons"
	"github.com/optifuse/optifuse-cli/internal/tui/styles"
	"github.com/optifuse/optifuse-cli/internal/tui/widgets"
)

// SaveRequestedMsg is sent when the user submits a role ARN
type SaveRequestedMsg struct {
	RoleARN string
}

// CancelledMsg is sent when the user leaves the settings screen
type CancelledMsg struct{}

// CopyTarget names what the user wants on the clipboard
type CopyTarget int

const (
	CopyExternalID CopyTarget = iota
	CopyTemplate
)

// CopyRequestedMsg asks the app to copy to the clipboard
type CopyRequestedMsg struct {
	Target CopyTarget
}

// Settings is the AWS integration screen
type Settings struct {
	profile *models.Profile
	form    *huh.Form
	roleARN string
	saving  bool
	notice  string
	failure string
	width   int
}

// New creates the settings screen. profile is nil while it is loading.
func New(profile *models.Profile, width int) *Settings {
	s := &Settings{width: width}
	s.SetProfile(profile)
	return s
}

// createTheme returns a huh theme using the application palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(styles.Muted).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(styles.Danger).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(styles.Danger)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(styles.Text)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(styles.Muted)

	return t
}

func (s *Settings) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("IAM role ARN").
				Description(fmt.Sprintf("Create %s with the CloudFormation template, then paste its ARN", awstrust.RoleName)).
				Placeholder("arn:aws:iam::123456789012:role/"+awstrust.RoleName).
				Value(&s.roleARN),
		),
	).WithTheme(createTheme()).WithShowHelp(false)
}

// SetProfile updates the displayed profile and resets the form to its role ARN
func (s *Settings) SetProfile(profile *models.Profile) {
	s.profile = profile
	s.roleARN = ""
	if profile != nil {
		s.roleARN = profile.Integration().RoleARNOrEmpty()
	}
	s.form = s.createForm()
}

// Saving reports whether a save is in flight
func (s *Settings) Saving() bool {
	return s.saving
}

// SetResult records the outcome of a save and reopens the form
func (s *Settings) SetResult(message string, err error) tea.Cmd {
	s.saving = false
	s.notice, s.failure = "", ""
	if err != nil {
		s.failure = err.Error()
	} else {
		s.notice = message
	}
	s.form = s.createForm()
	return s.form.Init()
}

// SetNotice shows a transient message such as a clipboard confirmation
func (s *Settings) SetNotice(message string) {
	s.notice, s.failure = message, ""
}

// SetFailure shows an error message
func (s *Settings) SetFailure(message string) {
	s.notice, s.failure = "", message
}

// SetWidth sets the screen width
func (s *Settings) SetWidth(width int) {
	s.width = width
}

// Init implements tea.Model
func (s *Settings) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *Settings) Update(msg tea.Msg) (*Settings, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return s, func() tea.Msg { return CancelledMsg{} }
		case "ctrl+e":
			return s, func() tea.Msg { return CopyRequestedMsg{Target: CopyExternalID} }
		case "ctrl+t":
			return s, func() tea.Msg { return CopyRequestedMsg{Target: CopyTemplate} }
		}
	}

	if s.saving || s.profile == nil {
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.saving = true
		arn := strings.TrimSpace(s.roleARN)
		return s, func() tea.Msg { return SaveRequestedMsg{RoleARN: arn} }
	}

	return s, cmd
}

// View implements tea.Model
func (s *Settings) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s AWS Integration", icons.Settings.String())))
	sb.WriteString("\n")

	if s.profile == nil {
		sb.WriteString(styles.Subtitle.Render("Loading profile..."))
		return sb.String()
	}

	integration := s.profile.Integration()
	sb.WriteString(styles.Field("User", s.profile.Username) + "\n")
	sb.WriteString(styles.Field("Subscription", s.profile.Subscription) + "\n")
	sb.WriteString(styles.Field("External ID", integration.ExternalID) + "\n")
	if integration.Connected() {
		role := awstrust.DescribeRoleARN(integration.RoleARNOrEmpty())
		sb.WriteString(styles.Field("Status", widgets.Badge("connected", widgets.StatusOK)) + "\n")
		sb.WriteString(styles.Field("Role", role.Label()) + "\n")
	} else {
		sb.WriteString(styles.Field("Status", widgets.Badge("not connected", widgets.StatusWarning)) + "\n")
	}
	sb.WriteString("\n")

	if s.saving {
		sb.WriteString(styles.StatusInfo.Render("Saving role ARN..."))
	} else {
		sb.WriteString(s.form.View())
	}
	sb.WriteString("\n")

	if s.failure != "" {
		sb.WriteString(widgets.StatusText(s.failure, widgets.StatusCritical) + "\n")
	}
	if s.notice != "" {
		sb.WriteString(widgets.StatusText(s.notice, widgets.StatusOK) + "\n")
	}

	return lipgloss.NewStyle().Width(s.width).Render(sb.String())
}
