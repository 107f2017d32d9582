package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	mg "github.com/mailgun/mailgun-go/v4"
	"github.com/stretchr/testify/assert"
)

func TestRequeue(t *testing.T) {
	rejected := &mg.UnexpectedResponseError{Expected: []int{http.StatusOK}, Actual: http.StatusBadRequest}
	throttled := &mg.UnexpectedResponseError{Expected: []int{http.StatusOK}, Actual: http.StatusTooManyRequests}
	unavailable := &mg.UnexpectedResponseError{Expected: []int{http.StatusOK}, Actual: http.StatusBadGateway}

	tests := []struct {
		name        string
		err         error
		redelivered bool
		want        bool
	}{
		{"no error", nil, false, false},
		{"network error", errors.New("dial tcp: i/o timeout"), false, true},
		{"timeout", context.DeadlineExceeded, false, true},
		{"bad request is permanent", rejected, false, false},
		{"wrapped rejection is permanent", fmt.Errorf("send: %w", rejected), false, false},
		{"throttled", throttled, false, true},
		{"server error", unavailable, false, true},
		{"second failure is dropped", unavailable, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Requeue(tt.err, tt.redelivered))
		})
	}
}
