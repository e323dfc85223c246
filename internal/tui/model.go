// Package tui provides the BubbleTea-based terminal user interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/localdrop/localdrop/internal/config"
	"github.com/localdrop/localdrop/internal/core"
	"github.com/localdrop/localdrop/internal/files"
	"github.com/localdrop/localdrop/internal/format"
	"github.com/localdrop/localdrop/internal/model"
	"github.com/localdrop/localdrop/internal/prefs"
	"github.com/localdrop/localdrop/internal/session"
	"github.com/localdrop/localdrop/internal/store"
	"github.com/localdrop/localdrop/internal/theme"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeMain Mode = iota
	ModeHistory
	ModeDetail
	ModeSearch
	ModeAddFile
	ModeHelp
)

type pane int

const (
	paneDevices pane = iota
	paneFiles
)

// HistorySource loads past transfers.
type HistorySource interface {
	Load() ([]model.TransferRecord, error)
}

// Options configures a Model. Only Session is required.
type Options struct {
	Config    *config.Config
	Session   *session.Session
	Prefs     prefs.Store
	Applier   *theme.Applier
	Loader    *theme.Loader
	History   HistorySource
	Inspector *files.Inspector
}

// Model is the main TUI model.
type Model struct {
	// Collaborators
	cfg       *config.Config
	session   *session.Session
	store     *store.Store
	prefs     prefs.Store
	applier   *theme.Applier
	loader    *theme.Loader
	history   HistorySource
	inspector *files.Inspector

	// Current mode; searchFrom is the mode a search filters.
	mode       Mode
	searchFrom Mode
	active     pane

	// Components
	devices     list.Model
	records     list.Model
	searchInput textinput.Model
	pathInput   textinput.Model
	detail      viewport.Model
	progress    progress.Model
	help        help.Model

	// State
	snap        store.Snapshot
	allRecords  []model.TransferRecord
	fileCursor  int
	searchQuery string
	themeName   string
	width       int
	height      int
	ready       bool

	keys   KeyMap
	styles Styles

	// Status message
	statusMsg string
	statusErr bool

	refreshCh <-chan store.ChangeEvent
}

// deviceItem wraps a device for the list component.
type deviceItem struct {
	device model.Device
}

func (i deviceItem) Title() string {
	return i.device.DisplayName()
}

func (i deviceItem) Description() string {
	return fmt.Sprintf("%s · %s · seen %s",
		i.device.Address(),
		model.OSFamily(i.device.OS),
		format.RelativeTime(i.device.LastSeenTime()))
}

func (i deviceItem) FilterValue() string {
	return i.device.Name + " " + i.device.Hostname + " " + i.device.IP
}

// recordItem wraps a history record for the list component.
type recordItem struct {
	record model.TransferRecord
}

func (i recordItem) Title() string {
	arrow := "↑"
	if i.record.Direction == model.DirectionIncoming {
		arrow = "↓"
	}
	return fmt.Sprintf("%s %s · %s", arrow, i.record.Peer, i.record.Outcome)
}

func (i recordItem) Description() string {
	desc := fmt.Sprintf("%d files (%s) · %s",
		i.record.FileCount(),
		format.SizeDefault(i.record.TotalSize),
		format.RelativeTime(i.record.Time()))
	if i.record.Error != "" {
		desc += " · " + i.record.Error
	}
	return desc
}

func (i recordItem) FilterValue() string {
	return i.record.Peer
}

// newDelegate returns a list delegate coloured from styles.
func newDelegate(styles Styles) list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	accent := lipgloss.Color(styles.accent)
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(accent).
		BorderLeftForeground(accent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.
		Foreground(accent).
		BorderLeftForeground(accent)
	d.Styles.NormalDesc = d.Styles.NormalDesc.Inherit(styles.Muted)
	return d
}

func newList(title string, styles Styles) list.Model {
	l := list.New(nil, newDelegate(styles), 0, 0)
	l.Title = title
	l.Styles.Title = styles.Title
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

// New creates a new TUI model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	p := opts.Prefs
	if p == nil {
		p = prefs.NewMemoryStore(nil)
	}
	inspector := opts.Inspector
	if inspector == nil {
		inspector = files.NewInspector(cfg.TUI.ShowPreviews, nil)
	}

	searchInput := textinput.New()
	searchInput.Placeholder = "Search... (or a filter like outcome=failed)"
	searchInput.CharLimit = 100

	pathInput := textinput.New()
	pathInput.Placeholder = "Path or glob, e.g. ~/Pictures/*.png"
	pathInput.CharLimit = 4096

	h := help.New()
	h.ShowAll = true

	m := Model{
		cfg:         cfg,
		session:     opts.Session,
		store:       opts.Session.Store(),
		prefs:       p,
		applier:     opts.Applier,
		loader:      opts.Loader,
		history:     opts.History,
		inspector:   inspector,
		mode:        ModeMain,
		searchInput: searchInput,
		pathInput:   pathInput,
		detail:      viewport.New(0, 0),
		help:        h,
		keys:        DefaultKeyMap(),
	}

	m.setPalette(theme.PaletteFor(""))
	m.applyTheme()
	m.syncSnapshot()

	m.refreshCh = m.store.Subscribe()
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadHistory,
		m.watchForChanges,
	)
}

type (
	refreshMsg        struct{}
	prefsChangedMsg   struct{}
	historyChangedMsg struct{}
	paletteMsg        struct{ palette *theme.Palette }
	historyMsg        struct {
		records []model.TransferRecord
		err     error
	}
	filesAddedMsg struct {
		files []model.SelectedFile
		err   error
	}
	copyResultMsg struct{ err error }
)

// watchForChanges waits for the next store change.
func (m Model) watchForChanges() tea.Msg {
	if m.refreshCh == nil {
		return nil
	}
	if _, ok := <-m.refreshCh; !ok {
		return nil
	}
	return refreshMsg{}
}

// loadHistory reads the transfer history.
func (m Model) loadHistory() tea.Msg {
	if m.history == nil {
		return historyMsg{}
	}
	records, err := m.history.Load()
	return historyMsg{records: records, err: err}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()

	case tea.FocusMsg:
		_ = m.store.SetFocused(true)

	case tea.BlurMsg:
		_ = m.store.SetFocused(false)

	case refreshMsg:
		m.syncSnapshot()
		return m, m.watchForChanges

	case historyChangedMsg:
		return m, m.loadHistory

	case historyMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("History unavailable: %v", msg.err), true)
			return m, nil
		}
		core.Sort(msg.records, core.DefaultSortOptions())
		m.allRecords = msg.records
		m.rebuildRecords()

	case prefsChangedMsg:
		m.applyTheme()

	case paletteMsg:
		m.setPalette(msg.palette)

	case filesAddedMsg:
		m.mode = ModeMain
		n, addErr := m.store.AddSelectedFiles(msg.files...)
		switch {
		case addErr != nil:
			m.setStatus(fmt.Sprintf("Add failed: %v", addErr), true)
		case msg.err != nil:
			m.setStatus(fmt.Sprintf("Added %d file(s); %v", n, msg.err), true)
		default:
			m.setStatus(fmt.Sprintf("Added %d file(s)", n), false)
		}
		m.syncSnapshot()

	case copyResultMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Copy failed: %v", msg.err), true)
		} else {
			m.setStatus("Copied to clipboard", false)
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModeAddFile:
		return m.handleAddFileKey(msg)
	case ModeDetail:
		return m.handleDetailKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Back) {
			m.mode = ModeMain
		} else if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	m.statusMsg = ""

	// Popups take the keyboard until answered or dismissed.
	switch {
	case m.snap.ShowFileTransferRequestPopup:
		switch {
		case key.Matches(msg, m.keys.Accept):
			_, err := m.session.Accept()
			m.setResult("Accepted transfer", err)
		case key.Matches(msg, m.keys.Reject), key.Matches(msg, m.keys.Back):
			_, err := m.session.Reject()
			m.setResult("Rejected transfer", err)
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		m.syncSnapshot()
		return m, nil

	case m.snap.ShowPopup:
		if msg.Type == tea.KeyEnter || key.Matches(msg, m.keys.Back) {
			_ = m.store.DismissMessage()
			m.syncSnapshot()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		_, err := m.session.Cancel()
		m.setResult("Transfer cancelled", err)
		m.syncSnapshot()
		return m, nil

	case key.Matches(msg, m.keys.ToggleSfx):
		v, err := prefs.Cycle(m.prefs, prefs.KeySfxEnabled)
		state := "off"
		if v == "true" {
			state = "on"
		}
		m.setResult("Sounds "+state, err)
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		return m.cyclePref(prefs.KeyTheme)

	case key.Matches(msg, m.keys.CycleColorScheme):
		return m.cyclePref(prefs.KeyColorScheme)

	case key.Matches(msg, m.keys.Refresh):
		_, err := m.session.Refresh()
		m.setResult("Refreshing devices...", err)
		m.syncSnapshot()
		return m, m.loadHistory

	case key.Matches(msg, m.keys.Search):
		m.searchFrom = m.mode
		m.mode = ModeSearch
		m.searchInput.SetValue(m.searchQuery)
		m.searchInput.Focus()
		return m, textinput.Blink
	}

	if m.mode == ModeHistory {
		return m.handleHistoryKey(msg)
	}
	return m.handleMainKey(msg)
}

func (m Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.History):
		m.mode = ModeHistory
		m.searchQuery = ""
		m.rebuildRecords()
		return m, m.loadHistory

	case key.Matches(msg, m.keys.SwitchPane):
		if m.active == paneDevices {
			m.active = paneFiles
		} else {
			m.active = paneDevices
		}
		return m, nil

	case key.Matches(msg, m.keys.AddFile):
		m.mode = ModeAddFile
		m.pathInput.SetValue("")
		m.pathInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.RemoveFile):
		if len(m.snap.SelectedFiles) == 0 {
			return m, nil
		}
		f := m.snap.SelectedFiles[m.fileCursor]
		err := m.store.RemoveSelectedFile(f.FileUUID)
		m.setResult("Removed "+f.Name, err)
		m.syncSnapshot()
		return m, nil

	case key.Matches(msg, m.keys.Send):
		d, ok := m.selectedDevice()
		if !ok {
			m.setStatus("No device selected", true)
			return m, nil
		}
		_, err := m.session.Send(d.ID)
		if errors.Is(err, store.ErrNoSelectedFiles) {
			m.setStatus("Add files with 'a' before sending", true)
			return m, nil
		}
		m.setResult("Waiting for "+d.DisplayName()+" to accept...", err)
		m.syncSnapshot()
		return m, nil

	case key.Matches(msg, m.keys.CopyID):
		if d, ok := m.selectedDevice(); ok {
			return m, m.copyToClipboard(d.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.searchQuery != "" {
			m.searchQuery = ""
			m.rebuildDevices()
		}
		return m, nil
	}

	if m.active == paneFiles {
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.fileCursor > 0 {
				m.fileCursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.fileCursor < len(m.snap.SelectedFiles)-1 {
				m.fileCursor++
			}
		case key.Matches(msg, m.keys.Home):
			m.fileCursor = 0
		case key.Matches(msg, m.keys.End):
			m.fileCursor = max(len(m.snap.SelectedFiles)-1, 0)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.devices, cmd = m.devices.Update(msg)
	return m, cmd
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back, m.keys.History):
		m.mode = ModeMain
		m.searchQuery = ""
		m.rebuildDevices()
		return m, nil

	case key.Matches(msg, m.keys.Send):
		item, ok := m.records.SelectedItem().(recordItem)
		if !ok {
			return m, nil
		}
		m.mode = ModeDetail
		m.detail.SetContent(renderMarkdown(recordMarkdown(item.record), m.themeName, m.detail.Width))
		m.detail.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.records, cmd = m.records.Update(msg)
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ModeHistory
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = m.searchFrom
		m.searchQuery = ""
		m.searchInput.Blur()
		m.rebuildDevices()
		m.rebuildRecords()
		return m, nil
	case tea.KeyEnter:
		m.mode = m.searchFrom
		m.searchInput.Blur()
		return m, nil
	case tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		if m.searchFrom == ModeHistory {
			m.records, cmd = m.records.Update(msg)
		} else {
			m.devices, cmd = m.devices.Update(msg)
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if q := m.searchInput.Value(); q != m.searchQuery {
		m.searchQuery = q
		if m.searchFrom == ModeHistory {
			m.rebuildRecords()
		} else {
			m.rebuildDevices()
		}
	}
	return m, cmd
}

func (m Model) handleAddFileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeMain
		m.pathInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.pathInput.Blur()
		paths := expandPaths(m.pathInput.Value())
		if len(paths) == 0 {
			m.mode = ModeMain
			m.setStatus("No matching files", true)
			return m, nil
		}
		return m, m.inspectFiles(paths)
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

// cyclePref advances a theme preference and re-applies the theme.
func (m Model) cyclePref(k prefs.Key) (tea.Model, tea.Cmd) {
	v, err := prefs.Cycle(m.prefs, k)
	if err != nil {
		m.setStatus(fmt.Sprintf("Failed to save %s: %v", k, err), true)
		return m, nil
	}
	m.applyTheme()
	m.setStatus(fmt.Sprintf("%s: %s (%s)", k, v, m.themeName), false)
	return m, nil
}

// applyTheme resolves the theme preferences and loads the matching palette.
func (m *Model) applyTheme() {
	if m.applier == nil {
		return
	}
	m.themeName = m.applier.Apply(context.Background())
	if m.loader != nil {
		m.setPalette(m.loader.Load(m.themeName))
	} else {
		m.setPalette(theme.PaletteFor(m.themeName))
	}
}

func (m *Model) setPalette(p *theme.Palette) {
	m.styles = NewStyles(p)

	devices, records := m.devices.Items(), m.records.Items()
	m.devices = newList("Devices", m.styles)
	m.records = newList("Transfer History", m.styles)
	m.devices.SetItems(devices)
	m.records.SetItems(records)
	m.progress = m.styles.NewProgress(m.progress.Width)
	m.resize()
}

// syncSnapshot copies the store state into the model.
func (m *Model) syncSnapshot() {
	m.snap = m.store.Snapshot()
	if m.fileCursor >= len(m.snap.SelectedFiles) {
		m.fileCursor = max(len(m.snap.SelectedFiles)-1, 0)
	}
	m.rebuildDevices()
}

func (m *Model) rebuildDevices() {
	devices := m.snap.Devices
	if m.searchFrom == ModeMain && m.searchQuery != "" {
		devices = core.SearchDevices(devices, m.searchQuery)
	}

	items := make([]list.Item, len(devices))
	for i, d := range devices {
		items[i] = deviceItem{device: d}
	}
	m.devices.SetItems(items)
}

func (m *Model) rebuildRecords() {
	records := m.allRecords
	if m.searchFrom == ModeHistory && m.searchQuery != "" {
		if isFilterExpression(m.searchQuery) {
			if expr, err := core.ParseFilter(m.searchQuery); err == nil {
				records = core.FilterWithExpr(records, expr)
			}
		} else {
			records = core.Search(records, m.searchQuery)
		}
	}

	items := make([]list.Item, len(records))
	for i, r := range records {
		items[i] = recordItem{record: r}
	}
	m.records.SetItems(items)
}

func (m *Model) resize() {
	if !m.ready {
		return
	}
	bodyHeight := max(m.height-4, 1)
	m.devices.SetSize(max(m.width*3/5-4, 10), bodyHeight)
	m.records.SetSize(max(m.width-2, 10), bodyHeight)
	m.detail.Width = m.width
	m.detail.Height = bodyHeight
	m.searchInput.Width = max(m.width-12, 10)
	m.pathInput.Width = max(m.width-12, 10)
	m.progress.Width = min(max(m.width/2, 20), 60)
	m.help.Width = m.width
}

func (m Model) selectedDevice() (model.Device, bool) {
	item, ok := m.devices.SelectedItem().(deviceItem)
	if !ok {
		return model.Device{}, false
	}
	return item.device, true
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusErr = isErr
}

// setResult reports the outcome of a user action.
func (m *Model) setResult(ok string, err error) {
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus(ok, false)
}

// inspectFiles stats and previews paths off the UI goroutine.
func (m Model) inspectFiles(paths []string) tea.Cmd {
	inspector := m.inspector
	return func() tea.Msg {
		selected, err := inspector.InspectAll(paths)
		return filesAddedMsg{files: selected, err: err}
	}
}

func (m Model) copyToClipboard(text string) tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		return copyResultMsg{err: copyText(text, cfg)}
	}
}

// expandPaths expands a leading ~ and any glob pattern in input.
// A pattern that matches nothing is returned as-is so the inspector can
// report why it is unusable.
func expandPaths(input string) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	if strings.HasPrefix(input, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			input = filepath.Join(home, input[2:])
		}
	}

	matches, err := filepath.Glob(input)
	if err != nil || len(matches) == 0 {
		return []string{input}
	}
	return matches
}
