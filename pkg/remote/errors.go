package remote

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAuthFailed       = errors.New("authentication failed")
	ErrConnFailed       = errors.New("connection failed")
	ErrNotAuthenticated = errors.New("session is not authenticated")
	ErrUnknownProtocol  = errors.New("unknown protocol")
)

// IsAuthRejection reports whether err is the server refusing our credentials,
// as opposed to a transport fault. x/crypto/ssh folds the refusal into the
// handshake error, so the distinction has to be made from the message.
func IsAuthRejection(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAuthFailed) {
		return true
	}
	return strings.Contains(err.Error(), "unable to authenticate")
}

// WrapError adds protocol and operation context to an error
func WrapError(protocol, operation string, err error) error {
	return fmt.Errorf("%s (%s): %w", operation, protocol, err)
}
