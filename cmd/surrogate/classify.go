// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/surrogate/surrogate/internal/checkout"
	"github.com/surrogate/surrogate/internal/command"
	"github.com/surrogate/surrogate/internal/config"
	"github.com/surrogate/surrogate/internal/environ"
	"github.com/surrogate/surrogate/internal/issue"
	"github.com/surrogate/surrogate/internal/platformapi"
	"github.com/surrogate/surrogate/internal/release"
	"github.com/surrogate/surrogate/internal/runtime"
	"github.com/surrogate/surrogate/pkg/types"
)

// errMissingToken is returned when no API token is configured.
var errMissingToken = errors.New("no API token configured")

// classifyError maps a failure to an issue catalog ID and returns a styled
// message for CLI rendering. Errors with no catalog entry get ID 0.
func classifyError(err error, verbose bool) (issueID issue.Id, styledMsg string) {
	var usageErr *command.UsageError

	switch {
	case errors.As(err, &usageErr):
		issueID = issue.MissingCommandId
	case errors.Is(err, environ.ErrInvalidOverride):
		issueID = issue.InvalidOverrideId
	case errors.Is(err, command.ErrTestSuite):
		issueID = issue.TestSuiteRefusedId
	case errors.Is(err, errMissingToken):
		issueID = issue.MissingTokenId
	case errors.Is(err, release.ErrNoApp), errors.Is(err, types.ErrInvalidAppName), errors.Is(err, checkout.ErrNoRemote), errors.Is(err, checkout.ErrUnknownRemote):
		issueID = issue.AppNotDetectedId
	case errors.Is(err, platformapi.ErrNotFound):
		issueID = issue.ReleaseNotFoundId
	case errors.Is(err, platformapi.ErrTransport):
		issueID = issue.APIUnreachableId
	case errors.Is(err, platformapi.ErrDecode), errors.Is(err, platformapi.ErrStatus):
		issueID = issue.APIResponseInvalidId
	case errors.Is(err, checkout.ErrCheckoutFailed), errors.Is(err, checkout.ErrNoCommit), errors.Is(err, checkout.ErrNoGitURL):
		issueID = issue.CheckoutFailedId
	case errors.Is(err, config.ErrInvalidConfig):
		issueID = issue.ConfigLoadFailedId
	default:
		var execErr *runtime.ExecError
		if errors.As(err, &execErr) {
			issueID = issue.ShellNotFoundId
		}
	}

	return issueID, fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
