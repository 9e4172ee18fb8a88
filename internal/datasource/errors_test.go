package datasource

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		storage   bool
		wantKind  FailureKind
		wantMsgIn string
	}{
		{"aborted", ErrAborted, false, FailureAborted, ""},
		{"context cancelled", fmt.Errorf("wrapped: %w", context.Canceled), false, FailureAborted, ""},
		{"403 not authorized is a denial", &FetchError{Status: 403, Message: "Not authorized"}, false, FailureGeneric, "Not authorized"},
		{"403 other means session expired", &FetchError{Status: 403, Message: "token expired"}, false, FailureSessionExpired, "token expired"},
		{"403 without message means session expired", &FetchError{Status: 403}, false, FailureSessionExpired, ""},
		{"400 on compute page is generic", &FetchError{Status: 400, Message: "bad"}, false, FailureGeneric, "bad"},
		{"400 on storage page is token expiry", &FetchError{Status: 400, Message: "ExpiredToken"}, true, FailureSessionExpired, "ExpiredToken"},
		{"400 on storage page not authorized", &FetchError{Status: 400, Message: "Not authorized to list"}, true, FailureGeneric, "Not authorized"},
		{"500", &FetchError{Status: 500, Message: "boom"}, false, FailureGeneric, "boom"},
		{"transport", errors.New("connection refused"), false, FailureGeneric, "connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, msg := Classify(tt.err, tt.storage)
			assert.Equal(t, tt.wantKind, kind)
			assert.Contains(t, msg, tt.wantMsgIn)
		})
	}
}

func TestFetchErrorMessage(t *testing.T) {
	assert.Equal(t, "/x: 500 boom", (&FetchError{Status: 500, Message: "boom", URL: "/x"}).Error())
	assert.Equal(t, "/x: 404 Not Found", (&FetchError{Status: 404, URL: "/x"}).Error())
}
