package domain

import "errors"

// User-facing failure categories. Every connector or signer failure
// collapses into one of the first two.
var (
	ErrConnectFailed = errors.New("could not connect")
	ErrPaymentFailed = errors.New("could not send payment")

	ErrNoSession      = errors.New("no active wallet session")
	ErrSessionEnded   = errors.New("wallet session ended")
	ErrSendPending    = errors.New("a payment is already being sent")
	ErrConnectPending = errors.New("a wallet connection is already in progress")
	ErrNoWallet       = errors.New("no wallet available")
	ErrNoAccounts     = errors.New("wallet exposed no accounts")
)

// Failure ties a failure category to its underlying cause so that
// errors.Is matches both.
type Failure struct {
	Category error
	Cause    error
}

func (f *Failure) Error() string {
	if f.Cause == nil {
		return f.Category.Error()
	}
	return f.Category.Error() + ": " + f.Cause.Error()
}

func (f *Failure) Unwrap() []error {
	if f.Cause == nil {
		return []error{f.Category}
	}
	return []error{f.Category, f.Cause}
}
