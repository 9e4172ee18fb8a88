package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrAborted is returned when a request was cancelled on the client side
// before any response arrived.
var ErrAborted = errors.New("request aborted")

// notAuthorizedMarker identifies a plain permission denial in a 403 message,
// as opposed to an expired session.
const notAuthorizedMarker = "Not authorized"

// FetchError is a non-2xx response from the console backend
type FetchError struct {
	Status  int
	Message string
	URL     string
}

func (e *FetchError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %d %s", e.URL, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %d %s", e.URL, e.Status, http.StatusText(e.Status))
}

// FailureKind is how a failed request is presented to the operator
type FailureKind int

const (
	// FailureAborted is silent
	FailureAborted FailureKind = iota
	// FailureSessionExpired prompts for re-authentication
	FailureSessionExpired
	// FailureGeneric shows a transient failure notification
	FailureGeneric
)

func (k FailureKind) String() string {
	switch k {
	case FailureAborted:
		return "aborted"
	case FailureSessionExpired:
		return "session_expired"
	default:
		return "generic"
	}
}

// Classify maps a request error onto a FailureKind and the message to show.
//
// A 403 whose message contains "Not authorized" is an ordinary denial; any
// other 403 means the session expired. When tokenExpiryOn400 is set (object
// storage pages) a 400 is treated like a 403.
func Classify(err error, tokenExpiryOn400 bool) (FailureKind, string) {
	if err == nil {
		return FailureGeneric, ""
	}
	if errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled) {
		return FailureAborted, ""
	}

	var fe *FetchError
	if !errors.As(err, &fe) {
		return FailureGeneric, err.Error()
	}

	authStatus := fe.Status == http.StatusForbidden ||
		(tokenExpiryOn400 && fe.Status == http.StatusBadRequest)
	if authStatus && !strings.Contains(fe.Message, notAuthorizedMarker) {
		return FailureSessionExpired, fe.Message
	}
	return FailureGeneric, fe.Message
}
