package cli

import (
	"errors"

	"github.com/casebridge/casebridge/internal/cli/formatter"
	"github.com/casebridge/casebridge/internal/domain"
)

// ErrorLine renders err as the single red line printed before exiting.
func ErrorLine(err error) string {
	var authErr *domain.AuthenticationError
	if errors.As(err, &authErr) {
		if authErr.StatusCode == 0 {
			return formatter.Failure("Not logged in: run `casebridge login --token <token>`")
		}
		return formatter.Failure("Session rejected (" + authErr.Error() + "): log in again")
	}
	return formatter.Failure(err.Error())
}
