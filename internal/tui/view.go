package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tipjar/internal/domain"
)

func (m Model) View() string {
	var body string
	if m.session.Active() {
		body = m.connectedView()
	} else {
		body = m.disconnectedView()
	}
	if len(m.toasts) == 0 {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.toastView(), body)
}

func (m Model) disconnectedView() string {
	title := m.title
	if title == "" {
		title = "Tipping dApp"
	}

	button := buttonStyle.Render("Connect")
	if m.connecting {
		button = buttonIdleStyle.Render(m.spinner.View() + " Connecting...")
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(strings.ToUpper(title)),
		button,
		"",
		hintStyle.Render("enter connect • q quit"),
	))
}

func (m Model) connectedView() string {
	network := "No Network"
	if m.session.ChainID != 0 {
		network = fmt.Sprintf("%d", m.session.ChainID)
	}

	pay := buttonIdleStyle.Render("Pay")
	if m.focus == focusPay {
		pay = buttonStyle.Render("Pay")
	}
	if m.sending {
		pay = buttonIdleStyle.Render(m.spinner.View() + " Sending...")
	}

	lines := []string{
		titleStyle.Render("SEND A TIP"),
		labelStyle.Render("Connected Account: " + m.session.ShortAccount()),
		labelStyle.Render("Network ID: " + network),
		"",
		m.amount.View() + " ETH",
		m.memo.View(),
		"",
		pay,
	}
	if m.lastTx != "" {
		lines = append(lines, hintStyle.Render("last tx "+m.lastTx))
	}
	lines = append(lines,
		"",
		hintStyle.Render("Disconnect Wallet (ctrl+d)"),
		hintStyle.Render("tab move • enter/ctrl+s pay • esc quit"),
	)
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) toastView() string {
	out := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		style := toastSuccess
		if t.notice.Level == domain.LevelError {
			style = toastError
		}
		out = append(out, style.Render(t.notice.Message))
	}
	view := lipgloss.JoinVertical(lipgloss.Right, out...)
	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, view)
	}
	return view
}
