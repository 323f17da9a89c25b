// Package tui is the interactive terminal front end.
//
// It has two screens. Disconnected shows a single Connect action.
// Connected shows the account, the network id, the amount and memo
// fields, Pay and Disconnect. Notices arrive on a channel and are shown as
// toasts that expire on their own. Pay is ignored while a payment is in
// flight.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tipjar/internal/domain"
)

type focus int

const (
	focusAmount focus = iota
	focusMemo
	focusPay
	focusCount
)

const defaultToastTTL = 4 * time.Second

// Options configure the model.
type Options struct {
	Ctx       context.Context
	Sessions  domain.SessionService
	Transfers domain.TransferService
	Notices   <-chan domain.Notice
	// Wallet is passed to Connect; empty uses the cached choice.
	Wallet string
	// AutoConnect starts connecting as soon as the program runs.
	AutoConnect         bool
	Title               string
	ResetDraftOnSuccess bool
	ToastTTL            time.Duration
}

type toast struct {
	id     int
	notice domain.Notice
}

// Model is the bubbletea model.
type Model struct {
	ctx       context.Context
	sessions  domain.SessionService
	transfers domain.TransferService
	notices   <-chan domain.Notice
	changes   chan struct{}
	stop      func()

	wallet     string
	title      string
	resetDraft bool
	toastTTL   time.Duration

	session    domain.Session
	connecting bool
	sending    bool
	lastTx     string

	amount  textinput.Model
	memo    textinput.Model
	focus   focus
	spinner spinner.Model

	toasts    []toast
	nextToast int
	width     int
}

// Messages
type (
	sessionChangedMsg struct{}
	noticeMsg         domain.Notice
	connectDoneMsg    struct{ err error }
	disconnectDoneMsg struct{ err error }
	payDoneMsg        struct {
		receipt domain.Receipt
		err     error
	}
	toastExpiredMsg struct{ id int }
)

func New(opts Options) Model {
	if opts.Ctx == nil {
		opts.Ctx = context.Background()
	}
	if opts.ToastTTL <= 0 {
		opts.ToastTTL = defaultToastTTL
	}

	amount := textinput.New()
	amount.Placeholder = "0"
	amount.CharLimit = 24
	amount.Width = 12
	amount.Prompt = ""

	memo := textinput.New()
	memo.Placeholder = "For: Web App, Speaking, etc."
	memo.CharLimit = 140
	memo.Width = 40
	memo.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	// One pending signal is enough: the handler re-reads the session.
	changes := make(chan struct{}, 1)
	stop := opts.Sessions.OnChange(func(domain.Session) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	return Model{
		connecting: opts.AutoConnect,
		ctx:        opts.Ctx,
		sessions:   opts.Sessions,
		transfers:  opts.Transfers,
		notices:    opts.Notices,
		changes:    changes,
		stop:       stop,
		wallet:     opts.Wallet,
		title:      opts.Title,
		resetDraft: opts.ResetDraftOnSuccess,
		toastTTL:   opts.ToastTTL,
		session:    opts.Sessions.Current(),
		amount:     amount,
		memo:       memo,
		spinner:    sp,
	}
}

// Close detaches the model from the session service.
func (m Model) Close() {
	if m.stop != nil {
		m.stop()
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitNotice(), m.waitSession(), m.spinner.Tick}
	if m.connecting {
		cmds = append(cmds, m.connect())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case sessionChangedMsg:
		m.session = m.sessions.Current()
		return m, m.waitSession()

	case noticeMsg:
		id := m.nextToast
		m.nextToast++
		m.toasts = append(m.toasts, toast{id: id, notice: domain.Notice(msg)})
		return m, tea.Batch(m.waitNotice(), expireToast(id, m.toastTTL))

	case toastExpiredMsg:
		for i, t := range m.toasts {
			if t.id == msg.id {
				m.toasts = append(m.toasts[:i:i], m.toasts[i+1:]...)
				break
			}
		}
		return m, nil

	case connectDoneMsg:
		m.connecting = false
		m.session = m.sessions.Current()
		var cmd tea.Cmd
		if m.session.Active() {
			cmd = m.setFocus(focusAmount)
		}
		return m, cmd

	case disconnectDoneMsg:
		m.session = m.sessions.Current()
		m.lastTx = ""
		return m, nil

	case payDoneMsg:
		m.sending = false
		if msg.err == nil {
			m.lastTx = msg.receipt.TxHash.Hex()
			if m.resetDraft {
				m.amount.SetValue("")
				m.memo.SetValue("")
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if !m.session.Active() {
		switch key {
		case "q", "esc":
			return m, tea.Quit
		case "enter", "c":
			if m.connecting {
				return m, nil
			}
			m.connecting = true
			return m, m.connect()
		}
		return m, nil
	}

	switch key {
	case "esc":
		return m, tea.Quit
	case "ctrl+d":
		return m, m.disconnect()
	case "tab", "down":
		cmd := m.setFocus((m.focus + 1) % focusCount)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, cmd
	case "ctrl+s":
		return m.pay()
	case "enter":
		if m.focus == focusPay {
			return m.pay()
		}
		cmd := m.setFocus(m.focus + 1)
		return m, cmd
	}
	return m.updateInputs(msg)
}

func (m Model) pay() (tea.Model, tea.Cmd) {
	if m.sending || m.transfers.Pending() {
		return m, nil
	}
	m.sending = true
	amount := m.amount.Value()
	if amount == "" {
		amount = "0"
	}
	draft := domain.TransferDraft{Amount: amount, Memo: m.memo.Value()}
	transfers, ctx := m.transfers, m.ctx
	return m, func() tea.Msg {
		r, err := transfers.Submit(ctx, draft)
		return payDoneMsg{receipt: r, err: err}
	}
}

func (m Model) connect() tea.Cmd {
	sessions, ctx, wallet := m.sessions, m.ctx, m.wallet
	return func() tea.Msg {
		_, err := sessions.Connect(ctx, wallet)
		return connectDoneMsg{err: err}
	}
}

func (m Model) disconnect() tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		return disconnectDoneMsg{err: sessions.Disconnect()}
	}
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.amount.Blur()
	m.memo.Blur()
	switch f {
	case focusAmount:
		return m.amount.Focus()
	case focusMemo:
		return m.memo.Focus()
	}
	return nil
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusAmount:
		m.amount, cmd = m.amount.Update(msg)
	case focusMemo:
		m.memo, cmd = m.memo.Update(msg)
	}
	return m, cmd
}

func (m Model) waitNotice() tea.Cmd {
	if m.notices == nil {
		return nil
	}
	ch := m.notices
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg(n)
	}
}

func (m Model) waitSession() tea.Cmd {
	ch := m.changes
	return func() tea.Msg {
		<-ch
		return sessionChangedMsg{}
	}
}

func expireToast(id int, ttl time.Duration) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}
