package api

import (
	"io"
	"log"
)

// Credential-submission endpoints. A 401 from these means "wrong credentials",
// not "your session expired", so they never tear the session down.
var credentialPaths = []string{
	"/auth/login",
	"/auth/register",
	"/auth/forgot",
	"/auth/reset",
}

// Terminator is the part of the session store the interceptor needs
type Terminator interface {
	Logout() error
}

// SessionInterceptor clears the local session whenever a session-bearing call
// reports an authorization failure. The original error is always returned.
type SessionInterceptor struct {
	session Terminator
	exempt  map[string]bool
	logger  *log.Logger
}

// NewSessionInterceptor creates an interceptor that logs session out on 401.
// Credential-submission paths are exempt, as is any extra path given.
func NewSessionInterceptor(session Terminator, logger *log.Logger, extraExempt ...string) *SessionInterceptor {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	exempt := make(map[string]bool)
	for _, p := range credentialPaths {
		exempt[p] = true
	}
	for _, p := range extraExempt {
		exempt[p] = true
	}

	return &SessionInterceptor{session: session, exempt: exempt, logger: logger}
}

// Intercept implements Interceptor
func (i *SessionInterceptor) Intercept(call Call, err *Error) error {
	if err.Kind != KindAuth || i.exempt[call.Path] {
		return err
	}

	i.logger.Printf("session rejected by %s %s, signing out locally", call.Method, call.Path)
	if logoutErr := i.session.Logout(); logoutErr != nil {
		i.logger.Printf("failed to clear local session: %v", logoutErr)
	}

	return err
}
