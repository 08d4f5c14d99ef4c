package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/tally/internal/accountability"
	accountabilityStore "github.com/MrJamesThe3rd/tally/internal/accountability/store"
	"github.com/MrJamesThe3rd/tally/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/tally/internal/budget/store"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/friend"
	friendStore "github.com/MrJamesThe3rd/tally/internal/friend/store"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/leaderboard"
	"github.com/MrJamesThe3rd/tally/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/tally/internal/matching/store"
	"github.com/MrJamesThe3rd/tally/internal/overview"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	txStore "github.com/MrJamesThe3rd/tally/internal/transaction/store"
	"github.com/MrJamesThe3rd/tally/internal/user"
	userStore "github.com/MrJamesThe3rd/tally/internal/user/store"
)

type services struct {
	users        *user.Service
	budgets      *budget.Service
	transactions *transaction.Service
	friends      *friend.Service
	matching     *matching.Service
	importer     *importer.Service
	export       *export.Service
	overview     *overview.Service
	leaderboard  *leaderboard.Service
}

// screen is the subset of tea.Model every menu entry implements.
type screen interface {
	tea.Model
	Title() string
}

type menuEntry struct {
	key   string
	title string
	open  func(view.Session, services) screen
}

var menu = []menuEntry{
	{"1", "Budget", func(s view.Session, svc services) screen {
		return view.NewBudgetModel(s, svc.overview, svc.budgets, svc.users)
	}},
	{"2", "Transactions", func(s view.Session, svc services) screen {
		return view.NewTransactionsModel(s, svc.transactions, svc.matching)
	}},
	{"3", "Import Transactions", func(s view.Session, svc services) screen {
		return view.NewImportModel(s, svc.transactions, svc.importer, svc.matching)
	}},
	{"4", "Categorise Transactions", func(s view.Session, svc services) screen {
		return view.NewReviewModel(s, svc.transactions, svc.matching)
	}},
	{"5", "Leaderboard", func(s view.Session, svc services) screen {
		return view.NewLeaderboardModel(s, svc.leaderboard)
	}},
	{"6", "Friends", func(s view.Session, svc services) screen {
		return view.NewFriendsModel(s, svc.friends)
	}},
	{"7", "Export Transactions", func(s view.Session, svc services) screen {
		return view.NewExportModel(s, svc.export)
	}},
}

type model struct {
	svc     services
	session view.Session

	login *huh.Form
	email *string
	err   error

	current screen
	width   int
	height  int
}

func initialModel(svc services) model {
	email := new("")

	login := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title("Who's tallying?").
				Placeholder("you@example.com").
				Value(email).
				Validate(func(s string) error {
					if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("enter a valid email address")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	return model{
		svc:     svc,
		login:   login,
		email:   email,
		session: view.Session{Now: time.Now},
	}
}

func (m model) Init() tea.Cmd {
	return m.login.Init()
}

type signedInMsg struct {
	email string
	err   error
}

func (m model) signInCmd() tea.Cmd {
	email := strings.ToLower(strings.TrimSpace(*m.email))

	return func() tea.Msg {
		ctx, cancel := view.DbCtx()
		defer cancel()

		u, err := m.svc.users.Ensure(ctx, email)
		if err != nil {
			return signedInMsg{err: err}
		}

		return signedInMsg{email: u.Email}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.current == nil && m.session.Email != "" {
			return m.updateMenu(msg)
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case signedInMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}

		m.session.Email = msg.email
		slog.Debug("signed in", "email", msg.email)

		return m, nil

	case view.BackMsg:
		m.current = nil
		return m, nil
	}

	if m.session.Email == "" {
		return m.updateLogin(msg)
	}

	if m.current == nil {
		return m, nil
	}

	next, cmd := m.current.Update(msg)
	if s, ok := next.(screen); ok {
		m.current = s
	}

	return m, cmd
}

func (m model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.login.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.login = f
	}

	switch m.login.State {
	case huh.StateCompleted:
		return m, m.signInCmd()
	case huh.StateAborted:
		return m, tea.Quit
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		return m, tea.Quit
	}

	for _, entry := range menu {
		if entry.key != msg.String() {
			continue
		}

		m.current = entry.open(m.session, m.svc)

		cmds := []tea.Cmd{m.current.Init()}
		if m.width > 0 {
			size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
			cmds = append(cmds, func() tea.Msg { return size })
		}

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m model) View() string {
	if m.session.Email == "" {
		return lipgloss.NewStyle().Padding(2).Render("Tally\n\n" + m.login.View())
	}

	if m.current != nil {
		return m.current.View()
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Tally (%s)\n\n", m.session.Email)

	for _, entry := range menu {
		fmt.Fprintf(&b, "%s. %s\n", entry.key, entry.title)
	}

	b.WriteString("\nq. Quit")

	return lipgloss.NewStyle().Padding(2).Render(b.String())
}

func newServices(ctx context.Context, cfg *config.Config) (services, func(), error) {
	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return services{}, nil, fmt.Errorf("connecting to database: %w", err)
	}

	var (
		userService        = user.NewService(userStore.New(db))
		budgetService      = budget.NewService(budgetStore.New(db))
		transactionService = transaction.NewService(txStore.New(db))
		friendService      = friend.NewService(friendStore.New(db), userService)
		tracker            = accountability.NewTracker(accountabilityStore.New(db), accountability.LogNotifier{Logger: slog.Default()})
		overviewService    = overview.NewService(userService, budgetService, transactionService, tracker, nil)
		leaderboardService = leaderboard.NewService(friendService, userService, budgetService, transactionService, cfg.Leaderboard.Concurrency)
	)

	return services{
		users:        userService,
		budgets:      budgetService,
		transactions: transactionService,
		friends:      friendService,
		matching:     matching.NewService(matchingStore.New(db)),
		importer:     importer.NewService(),
		export:       export.NewService(transactionService),
		overview:     overviewService,
		leaderboard:  leaderboardService,
	}, func() { _ = db.Close() }, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI; logs only go to stderr when debugging.
	var logOut io.Writer = io.Discard
	if cfg.App.LogLevel <= slog.LevelDebug {
		logOut = os.Stderr
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: cfg.App.LogLevel})))

	if err := database.Migrate(cfg.ConnectionString()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate database: %v\n", err)
		os.Exit(1)
	}

	svc, closeDB, err := newServices(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer closeDB()

	final, err := tea.NewProgram(initialModel(svc), tea.WithAltScreen()).Run()
	if err != nil {
		slog.Error("failed to run TUI", "error", err)
		closeDB()
		os.Exit(1)
	}

	if m, ok := final.(model); ok && m.err != nil {
		fmt.Fprintf(os.Stderr, "sign in failed: %v\n", m.err)
	}
}
