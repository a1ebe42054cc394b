package notify

import "context"

// SendResult is the normalized reply from the SMS provider.
type SendResult struct {
	OK        bool
	MessageID string
	Body      string
}

// Gateway abstracts the outbound SMS transport. Implementations signal
// failure either with OK=false and a body describing the cause, or with
// a transport-level error; the dispatcher folds both into the same
// per-recipient failure shape.
type Gateway interface {
	Send(ctx context.Context, mobile, body string) (*SendResult, error)
}
