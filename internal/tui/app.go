// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state, drives repository workflows and routes keyboard input

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/optifuse/optifuse-cli/internal/apierr"
	"github.com/optifuse/optifuse-cli/internal/awstrust"
	"github.com/optifuse/optifuse-cli/internal/models"
	"github.com/optifuse/optifuse-cli/internal/tui/detail"
	"github.com/optifuse/optifuse-cli/internal/tui/icons"
	"github.com/optifuse/optifuse-cli/internal/tui/recent"
	"github.com/optifuse/optifuse-cli/internal/tui/repolist"
	"github.com/optifuse/optifuse-cli/internal/tui/results"
	"github.com/optifuse/optifuse-cli/internal/tui/settings"
	"github.com/optifuse/optifuse-cli/internal/tui/styles"
	"github.com/optifuse/optifuse-cli/internal/workflow"
	"golang.org/x/sync/errgroup"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenRepos Screen = iota
	ScreenDetail
	ScreenResults
	ScreenSettings
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before using single-column layout
	panelPadding     = 4  // Total horizontal padding from panel borders (2 each side)
)

// copyToClipboard is replaced in tests
var copyToClipboard = clipboard.WriteAll

// RepositoryLister lists the repositories of the signed-in user
type RepositoryLister interface {
	List(ctx context.Context) ([]models.Repository, error)
}

// TrustSettings reads and updates the AWS integration
type TrustSettings interface {
	FetchProfile(ctx context.Context) (models.AWSIntegration, error)
	Profile() (models.Profile, bool)
	SaveRoleARN(ctx context.Context, roleARN string) (string, error)
}

// Deps are the components the TUI drives
type Deps struct {
	Repositories RepositoryLister
	Fetcher      workflow.Fetcher
	Runner       workflow.Runner
	Trust        TrustSettings
	Recent       *recent.Repositories
	Timeout      time.Duration
}

// startupLoadedMsg is sent when the repository list and profile are loaded
type startupLoadedMsg struct {
	repos   []models.Repository
	profile *models.Profile
	err     error
}

// configFetchedMsg carries a configuration fetch result for a workflow
type configFetchedMsg struct {
	wf     *workflow.Controller
	ticket workflow.Ticket
	doc    *models.ConfigDocument
	err    error
}

// staticDoneMsg carries a static optimization result
type staticDoneMsg struct {
	wf     *workflow.Controller
	ticket workflow.Ticket
	report *models.OptimizationReport
	err    error
}

// liveDoneMsg carries a live simulation result
type liveDoneMsg struct {
	wf      *workflow.Controller
	ticket  workflow.Ticket
	results []models.CandidateResult
	err     error
}

// profileLoadedMsg is sent when the profile was fetched for the settings screen
type profileLoadedMsg struct {
	profile *models.Profile
	err     error
}

// roleSavedMsg is sent when a role ARN save completes
type roleSavedMsg struct {
	message string
	err     error
}

// App is the root model for the TUI
type App struct {
	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc

	screen     Screen
	width      int
	height     int
	loading    bool
	err        error
	lastUpdate time.Time
	spinner    spinner.Model

	repos   []models.Repository
	profile *models.Profile

	// The open repository and its workflow
	wf *workflow.Controller

	// Child models
	repoList       *repolist.List
	detail         *detail.Detail
	results        *results.Results
	settings       *settings.Settings
	settingsReturn Screen
}

// New creates a new TUI application
func New(ctx context.Context, deps Deps) *App {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
	)

	return &App{
		deps:    deps,
		ctx:     ctx,
		cancel:  cancel,
		screen:  ScreenRepos,
		loading: true,
		spinner: s,
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.loadStartup())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a.quit()
		}

		// Route to current screen
		switch a.screen {
		case ScreenRepos:
			return a.updateRepos(msg)
		case ScreenDetail:
			return a.updateDetail(msg)
		case ScreenResults:
			return a.updateResults(msg)
		case ScreenSettings:
			return a.updateSettings(msg)
		}

	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case startupLoadedMsg:
		return a.handleStartup(msg)

	case repolist.RepoSelectedMsg:
		return a, a.openRepository(msg.Ref)

	case configFetchedMsg:
		if !msg.wf.CompleteFetch(msg.ticket, msg.doc, msg.err) || msg.wf != a.wf {
			slog.Debug("Discarded configuration result", "repository", msg.ticket.Ref, "seq", msg.ticket.Seq)
			return a, nil
		}
		a.lastUpdate = time.Now()
		a.refreshDetail()
		return a, nil

	case staticDoneMsg:
		applied := msg.wf.CompleteStatic(msg.ticket, msg.report, msg.err)
		return a, a.handleOptimized(msg.wf, msg.ticket, applied)

	case liveDoneMsg:
		applied := msg.wf.CompleteLive(msg.ticket, msg.results, msg.err)
		return a, a.handleOptimized(msg.wf, msg.ticket, applied)

	case profileLoadedMsg:
		if msg.err != nil {
			if a.settings != nil {
				a.settings.SetFailure(errorText(msg.err))
			}
			return a, nil
		}
		a.profile = msg.profile
		if a.settings != nil {
			a.settings.SetProfile(a.profile)
			return a, a.settings.Init()
		}
		return a, nil

	case settings.SaveRequestedMsg:
		return a, a.saveRoleARN(msg.RoleARN)

	case roleSavedMsg:
		if msg.err == nil {
			if p, ok := a.deps.Trust.Profile(); ok {
				a.profile = &p
			}
		}
		if a.settings == nil {
			return a, nil
		}
		if msg.err != nil {
			return a, a.settings.SetResult("", errors.New(errorText(msg.err)))
		}
		a.settings.SetProfile(a.profile)
		return a, a.settings.SetResult(msg.message, nil)

	case settings.CopyRequestedMsg:
		a.copyForSettings(msg.Target)
		return a, nil

	case settings.CancelledMsg:
		a.screen = a.settingsReturn
		a.settings = nil
		return a, nil

	default:
		// Forward unknown messages to the settings form (needed for huh form internals)
		if a.screen == ScreenSettings && a.settings != nil {
			return a.updateSettings(msg)
		}
		if a.screen == ScreenRepos && a.repoList != nil {
			var cmd tea.Cmd
			a.repoList, cmd = a.repoList.Update(msg)
			return a, cmd
		}
	}

	return a, nil
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.closeRepository()
	a.cancel()
	return a, tea.Quit
}

func (a *App) updateRepos(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.repoList != nil && a.repoList.Filtering() {
		var cmd tea.Cmd
		a.repoList, cmd = a.repoList.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "q":
		return a.quit()
	case "r":
		if a.err != nil && !a.loading {
			a.err = nil
			a.loading = true
			return a, tea.Batch(a.spinner.Tick, a.loadStartup())
		}
	case "a":
		if !a.loading {
			return a, a.openSettings()
		}
	}

	if a.repoList == nil {
		return a, nil
	}
	var cmd tea.Cmd
	a.repoList, cmd = a.repoList.Update(msg)
	return a, cmd
}

func (a *App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a.quit()
	case "b":
		a.closeRepository()
		a.screen = ScreenRepos
		return a, nil
	case "s":
		return a, a.analyze(workflow.ModeStatic)
	case "l":
		return a, a.analyze(workflow.ModeLive)
	case "r":
		return a, a.retry()
	case "v", "enter":
		if a.results != nil && a.wf.State() == workflow.OptimizationReady {
			a.screen = ScreenResults
		}
		return a, nil
	case "a":
		return a, a.openSettings()
	}

	if a.detail == nil {
		return a, nil
	}
	return a, a.detail.Update(msg)
}

func (a *App) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a.quit()
	case "b":
		a.screen = ScreenDetail
		return a, nil
	case "s":
		return a, a.analyze(workflow.ModeStatic)
	case "l":
		return a, a.analyze(workflow.ModeLive)
	}

	if a.results == nil {
		return a, nil
	}
	return a, a.results.Update(msg)
}

func (a *App) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.settings == nil {
		return a, nil
	}
	var cmd tea.Cmd
	a.settings, cmd = a.settings.Update(msg)
	return a, cmd
}

func (a *App) handleStartup(msg startupLoadedMsg) (tea.Model, tea.Cmd) {
	a.loading = false
	if msg.profile != nil {
		a.profile = msg.profile
	}
	if msg.err != nil {
		slog.Warn("Failed to load repositories", "error", msg.err)
		a.err = msg.err
		return a, nil
	}

	a.err = nil
	a.repos = msg.repos
	a.lastUpdate = time.Now()

	var rank repolist.RankFunc
	if a.deps.Recent != nil {
		rank = a.deps.Recent.Rank
	}
	a.repoList = repolist.New(a.repos, rank, a.contentWidth(), a.contentHeight())
	return a, nil
}

// handleOptimized shows the outcome of an applied optimization result
func (a *App) handleOptimized(wf *workflow.Controller, t workflow.Ticket, applied bool) tea.Cmd {
	if !applied || wf != a.wf {
		slog.Debug("Discarded optimization result", "repository", t.Ref, "mode", t.Mode, "seq", t.Seq)
		return nil
	}

	a.lastUpdate = time.Now()
	a.refreshDetail()

	v := a.wf.Snapshot()
	slog.Info("Optimization finished", "repository", v.Ref, "mode", v.Mode, "state", v.State, "status", v.Status)
	if v.State == workflow.OptimizationReady {
		a.results = results.New(v, a.panelWidth(), a.contentHeight())
		a.screen = ScreenResults
	}
	return nil
}

// openRepository starts a new workflow for ref, closing the previous one
func (a *App) openRepository(ref models.RepositoryRef) tea.Cmd {
	a.closeRepository()

	if a.deps.Recent != nil {
		if err := a.deps.Recent.Add(ref); err != nil {
			slog.Warn("Failed to save recent repositories", "error", err)
		}
	}

	a.wf = workflow.New(ref, workflow.WithTimeout(a.deps.Timeout))
	a.detail = detail.New(a.detailWidth()-panelPadding, a.contentHeight())
	a.screen = ScreenDetail
	return a.fetchConfig()
}

// closeRepository tears down the open workflow so late responses are discarded
func (a *App) closeRepository() {
	if a.wf != nil {
		a.wf.Close()
	}
	a.wf = nil
	a.detail = nil
	a.results = nil
}

func (a *App) fetchConfig() tea.Cmd {
	wf := a.wf
	t, err := wf.BeginFetch(a.ctx)
	if err != nil {
		slog.Debug("Fetch not started", "error", err)
		return nil
	}
	a.refreshDetail()

	fetch := func() tea.Msg {
		doc, err := a.deps.Fetcher.Fetch(t.Ctx, t.Ref)
		return configFetchedMsg{wf: wf, ticket: t, doc: doc, err: err}
	}
	return tea.Batch(a.spinner.Tick, fetch)
}

// analyze starts an optimization, restoring the fetched configuration when a previous run finished
func (a *App) analyze(mode workflow.Mode) tea.Cmd {
	if a.wf == nil {
		return nil
	}

	v := a.wf.Snapshot()
	switch v.State {
	case workflow.ConfigReady:
	case workflow.OptimizationReady, workflow.OptimizationError:
		if !a.restoreConfig(v.Document) {
			return nil
		}
	default:
		return nil
	}
	return a.optimize(mode)
}

// retry repeats the step that failed
func (a *App) retry() tea.Cmd {
	if a.wf == nil {
		return nil
	}

	v := a.wf.Snapshot()
	switch v.State {
	case workflow.ConfigNotFound, workflow.ConfigError:
		a.wf.Reset()
		return a.fetchConfig()
	case workflow.OptimizationError:
		if !a.restoreConfig(v.Document) {
			return a.fetchConfig()
		}
		return a.optimize(v.Mode)
	}
	return nil
}

// restoreConfig returns the workflow to ConfigReady with an already fetched document
func (a *App) restoreConfig(doc *models.ConfigDocument) bool {
	a.wf.Reset()
	if doc == nil {
		return false
	}
	t, err := a.wf.BeginFetch(a.ctx)
	if err != nil {
		return false
	}
	return a.wf.CompleteFetch(t, doc, nil)
}

func (a *App) optimize(mode workflow.Mode) tea.Cmd {
	wf := a.wf
	t, err := wf.BeginOptimize(a.ctx, mode)
	if err != nil {
		slog.Debug("Optimization not started", "error", err)
		return nil
	}
	a.results = nil
	a.screen = ScreenDetail
	a.refreshDetail()
	slog.Info("Optimization started", "repository", t.Ref, "mode", mode)

	var run tea.Cmd
	switch mode {
	case workflow.ModeLive:
		run = func() tea.Msg {
			candidates, err := a.deps.Runner.RunLive(t.Ctx, t.Ref)
			return liveDoneMsg{wf: wf, ticket: t, results: candidates, err: err}
		}
	default:
		run = func() tea.Msg {
			report, err := a.deps.Runner.RunStatic(t.Ctx, t.Document)
			return staticDoneMsg{wf: wf, ticket: t, report: report, err: err}
		}
	}
	return tea.Batch(a.spinner.Tick, run)
}

func (a *App) refreshDetail() {
	if a.detail != nil && a.wf != nil {
		a.detail.SetView(a.wf.Snapshot())
	}
}

func (a *App) openSettings() tea.Cmd {
	a.settingsReturn = a.screen
	a.settings = settings.New(a.profile, a.panelWidth())
	a.screen = ScreenSettings

	if a.profile == nil {
		return a.loadProfile()
	}
	return a.settings.Init()
}

// loadStartup fetches the repository list and the profile concurrently
func (a *App) loadStartup() tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		var repos []models.Repository
		var profile *models.Profile

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			list, err := a.deps.Repositories.List(gctx)
			repos = list
			return err
		})
		g.Go(func() error {
			if _, err := a.deps.Trust.FetchProfile(gctx); err != nil {
				if apierr.IsKind(err, apierr.KindAuth) {
					return err
				}
				slog.Warn("Failed to load profile", "error", err)
				return nil
			}
			if p, ok := a.deps.Trust.Profile(); ok {
				profile = &p
			}
			return nil
		})

		err := g.Wait()
		return startupLoadedMsg{repos: repos, profile: profile, err: err}
	}
}

func (a *App) loadProfile() tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		if _, err := a.deps.Trust.FetchProfile(ctx); err != nil {
			return profileLoadedMsg{err: err}
		}
		p, _ := a.deps.Trust.Profile()
		return profileLoadedMsg{profile: &p}
	}
}

func (a *App) saveRoleARN(roleARN string) tea.Cmd {
	ctx := a.ctx
	save := func() tea.Msg {
		message, err := a.deps.Trust.SaveRoleARN(ctx, roleARN)
		return roleSavedMsg{message: message, err: err}
	}
	return tea.Batch(a.spinner.Tick, save)
}

func (a *App) copyForSettings(target settings.CopyTarget) {
	if a.settings == nil {
		return
	}
	if a.profile == nil {
		a.settings.SetFailure("profile not loaded")
		return
	}

	text, what := a.profile.AWSExternalID, "External ID"
	if target == settings.CopyTemplate {
		tmpl, err := awstrust.Template(a.profile.AWSExternalID)
		if err != nil {
			a.settings.SetFailure(err.Error())
			return
		}
		text, what = tmpl, "CloudFormation template"
	}

	if err := copyToClipboard(text); err != nil {
		slog.Warn("Clipboard copy failed", "error", err)
		a.settings.SetFailure("clipboard unavailable: " + err.Error())
		return
	}
	a.settings.SetNotice(what + " copied to clipboard")
}

// busy reports whether a request is outstanding
func (a *App) busy() bool {
	if a.loading {
		return true
	}
	if a.settings != nil && a.settings.Saving() {
		return true
	}
	return a.wf != nil && a.wf.State().InFlight()
}

// errorText renders an error for display, replacing auth failures with the login hint
func errorText(err error) string {
	if apierr.IsKind(err, apierr.KindAuth) {
		return detail.SessionExpired
	}
	return err.Error()
}

func (a *App) resize() {
	if a.repoList != nil {
		a.repoList.SetSize(a.contentWidth(), a.contentHeight())
	}
	if a.detail != nil {
		a.detail.SetSize(a.detailWidth()-panelPadding, a.contentHeight())
	}
	if a.settings != nil {
		a.settings.SetWidth(a.panelWidth())
	}
	if a.results != nil && a.wf != nil {
		a.results = results.New(a.wf.Snapshot(), a.panelWidth(), a.contentHeight())
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenRepos:
		content = a.viewRepos()
	case ScreenDetail:
		content = a.viewDetail()
	case ScreenResults:
		content = a.viewResults()
	case ScreenSettings:
		content = a.viewSettings()
	default:
		content = a.viewRepos()
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewRepos() string {
	if a.loading {
		return styles.Panel.Width(a.contentWidth()).Render(a.spinner.View() + " Loading repositories...")
	}
	if a.err != nil {
		return styles.Panel.Width(a.contentWidth()).Render(a.viewError(a.err))
	}
	if a.repoList == nil {
		return ""
	}
	return a.repoList.View()
}

func (a *App) viewError(err error) string {
	d := apierr.Describe(err)
	var sb strings.Builder
	sb.WriteString(styles.StatusCritical.Render(d.Title))
	sb.WriteString("\n\n")
	if d.Recovery == apierr.RecoveryLogin {
		sb.WriteString(detail.SessionExpired)
	} else {
		sb.WriteString(d.Message)
		sb.WriteString("\n")
		sb.WriteString(styles.Help.Render("Press r to retry"))
	}
	return sb.String()
}

// viewDetail renders the repository detail with the actions pane
func (a *App) viewDetail() string {
	if a.detail == nil || a.wf == nil {
		return ""
	}

	content := a.detail.View()
	if a.wf.State().InFlight() {
		content = a.spinner.View() + " Working...\n" + content
	}
	leftPane := styles.ActivePanel.Width(a.detailWidth()).Render(content)

	if a.width < minTerminalWidth {
		return leftPane
	}

	// Actions pane on the right - shows the actions valid in this state
	state := a.wf.State()
	rightContent := styles.Title.Render(icons.Settings.String()+" Actions") + "\n\n"
	if state == workflow.ConfigReady || state == workflow.OptimizationReady || state == workflow.OptimizationError {
		rightContent += icons.Optimize.String() + " Static optimize\n"
		rightContent += icons.Simulate.String() + " Live simulation\n"
	}
	if state == workflow.OptimizationReady {
		rightContent += icons.File.String() + " View results\n"
	}
	if state == workflow.ConfigNotFound || state == workflow.ConfigError || state == workflow.OptimizationError {
		rightContent += icons.Refresh.String() + " Retry\n"
	}
	rightContent += icons.Cloud.String() + " AWS settings\n"
	rightContent += icons.Back.String() + " Back to repositories\n"
	rightContent += icons.Quit.String() + " Quit application\n"
	rightPane := styles.Panel.Width(a.actionsWidth()).Render(rightContent)

	// Join panes side by side
	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
}

func (a *App) viewResults() string {
	if a.results == nil {
		return ""
	}
	return styles.ActivePanel.Width(a.contentWidth()).Render(a.results.View())
}

func (a *App) viewSettings() string {
	if a.settings == nil {
		return ""
	}
	content := a.settings.View()
	if a.settings.Saving() {
		content = a.spinner.View() + " Saving...\n" + content
	}
	return styles.Panel.Width(a.contentWidth()).Render(content)
}

// frameWidth is the terminal width less one column, clamped to the minimum
func (a *App) frameWidth() int {
	width := a.width - 1
	if width < minTerminalWidth {
		width = minTerminalWidth
	}
	return width
}

// contentWidth is the width for single-pane screens
func (a *App) contentWidth() int {
	return a.frameWidth() - panelPadding
}

// panelWidth is the inner width of a single full-width panel
func (a *App) panelWidth() int {
	return a.contentWidth() - panelPadding
}

// detailWidth calculates the width for the detail pane
func (a *App) detailWidth() int {
	if a.width < minTerminalWidth {
		return a.contentWidth()
	}
	return (a.frameWidth() - panelPadding) * 2 / 3
}

// actionsWidth calculates the width for the actions pane
func (a *App) actionsWidth() int {
	return a.frameWidth() - a.detailWidth() - 2*panelPadding
}

// contentHeight calculates the height available for screen content
func (a *App) contentHeight() int {
	// Total overhead:
	// - Header: 1 line
	// - Newline after header: 1 line
	// - ActivePanel border+padding: 4 lines (top border, top padding, bottom padding, bottom border)
	// - Newline before footer: 1 line
	// - Footer: 1 line
	// Total: 8 lines overhead
	h := a.height - 8
	if h < 5 {
		h = 5
	}
	return h
}

// headerContext returns the right side of the header for the current screen
func (a *App) headerContext() string {
	switch a.screen {
	case ScreenDetail, ScreenResults:
		if a.wf != nil {
			return a.wf.Ref().String()
		}
	case ScreenRepos, ScreenSettings:
		if a.profile != nil && a.profile.Username != "" {
			return a.profile.Username
		}
	}
	return ""
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftRendered := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("Optifuse"))

	rightRendered := ""
	if ctx := a.headerContext(); ctx != "" {
		rightRendered = " " + contextStyle.Render(ctx) + " "
	}

	// Calculate fill needed
	fillWidth := width - 4 - lipgloss.Width(leftRendered) - lipgloss.Width(rightRendered) // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := borderStyle.Render("╭─") + leftRendered +
		borderStyle.Render(strings.Repeat("─", fillWidth)) +
		rightRendered + borderStyle.Render("─╮")
	return header
}

// shortcuts returns the keyboard shortcuts for the current screen
func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenRepos:
		if a.err != nil {
			return []string{"r Retry", "q Quit"}
		}
		return []string{"↑↓ Navigate", "Enter Open", "/ Filter", "a AWS", "q Quit"}
	case ScreenDetail:
		return []string{"s Static", "l Live", "r Retry", "a AWS", "b Back", "q Quit"}
	case ScreenResults:
		return []string{"↑↓ Navigate", "s Static", "l Live", "b Back", "q Quit"}
	case ScreenSettings:
		return []string{"Enter Save", "^E Copy ID", "^T Copy template", "Esc Back"}
	}
	return nil
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	shortcuts := a.shortcuts()

	// Build styled shortcuts
	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ") + " "

	// Right side status (last update time)
	rightText := ""
	if !a.lastUpdate.IsZero() && (a.screen == ScreenDetail || a.screen == ScreenResults) {
		rightText = " " + statusStyle.Render("Updated "+formatTimeSince(a.lastUpdate)) + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText) // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := borderStyle.Render("╰─") + leftText +
		borderStyle.Render(strings.Repeat("─", fillWidth)) +
		rightText + borderStyle.Render("─╯")
	return footer
}

// formatTimeSince formats a duration since the given time in human-readable form
func formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}

	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI and blocks until the user quits
func Run(ctx context.Context, deps Deps) error {
	app := New(ctx, deps)
	defer app.cancel()

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
