package domain

import "fmt"

// NoticeKind is one of the fixed notification categories.
type NoticeKind string

const (
	NoticeConnected     NoticeKind = "connected"
	NoticePaymentSent   NoticeKind = "payment_sent"
	NoticeConnectFailed NoticeKind = "connect_failed"
	NoticePaymentFailed NoticeKind = "payment_failed"
	NoticeWrongNetwork  NoticeKind = "wrong_network"
)

type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "success"
}

// Notice is a transient, non-interactive notification.
type Notice struct {
	Kind    NoticeKind
	Level   Level
	Message string
}

// Messages renders notices for a given recipient and expected network.
type Messages struct {
	RecipientLabel string
	NetworkName    string
}

func (m Messages) Notice(kind NoticeKind) Notice {
	switch kind {
	case NoticeConnected:
		return Notice{Kind: kind, Level: LevelSuccess, Message: "You are now connected."}
	case NoticePaymentSent:
		return Notice{Kind: kind, Level: LevelSuccess,
			Message: fmt.Sprintf("Your payment was successfully sent to %s's wallet.", m.recipient())}
	case NoticeConnectFailed:
		return Notice{Kind: kind, Level: LevelError,
			Message: "You weren't able to connect your wallet at this time. Please try again later."}
	case NoticePaymentFailed:
		return Notice{Kind: kind, Level: LevelError, Message: "Your payment wasn't sent. Please try again later."}
	case NoticeWrongNetwork:
		return Notice{Kind: kind, Level: LevelError,
			Message: fmt.Sprintf("Please update your network to the %s network or your transaction will not be sent.", m.network())}
	}
	return Notice{Kind: kind, Level: LevelError, Message: string(kind)}
}

func (m Messages) recipient() string {
	if m.RecipientLabel == "" {
		return "the recipient"
	}
	return m.RecipientLabel
}

func (m Messages) network() string {
	if m.NetworkName == "" {
		return "expected"
	}
	return m.NetworkName
}
