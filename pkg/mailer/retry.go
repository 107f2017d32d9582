package mailer

import (
	"errors"
	"net/http"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Requeue reports whether a failed send should go back on the queue. Mailgun
// 4xx rejections other than 429 are permanent, and a message that already
// failed once is not requeued again.
func Requeue(err error, redelivered bool) bool {
	if err == nil || redelivered {
		return false
	}
	return !Permanent(err)
}

// Permanent reports whether resending the same message cannot succeed.
func Permanent(err error) bool {
	var resp *mg.UnexpectedResponseError
	if !errors.As(err, &resp) {
		return false
	}
	return resp.Actual >= 400 && resp.Actual < 500 && resp.Actual != http.StatusTooManyRequests
}
