package command

import (
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/falcon-speak/internal/core/domain"
	"github.com/yndnr/falcon-speak/internal/falcon"
	"github.com/yndnr/falcon-speak/internal/telemetry/logger"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// errNoAction is returned when neither a subcommand nor an action flag was
// given. Usage has already been printed.
var errNoAction = errors.New("no action given")

// usageError marks bad invocations, which exit with ExitUsage.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }

func (e usageError) Unwrap() error { return e.err }

// HandleError prints err to w and returns the exit code for it.
// An empty result is not a failure: it prints a notice and exits 0.
// Bearer credentials echoed back in messages are masked.
func HandleError(w io.Writer, err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		de     *domain.DomainError
		ue     usageError
		apiErr *falcon.APIError
		exit   cli.ExitCoder
	)

	switch {
	case errors.Is(err, domain.ErrEmptyResult):
		what := "records"
		if errors.As(err, &de) && de.Details != "" {
			what = de.Details
		}
		fmt.Fprintf(w, "no %s found\n", what)
		return ExitOK

	case errors.Is(err, errNoAction):
		return ExitUsage

	case errors.As(err, &ue):
		fmt.Fprintf(w, "error: %s\n", logger.RedactString(ue.err.Error()))
		fmt.Fprintln(w, "run 'falcon-speak --help' for usage")
		return ExitUsage

	case errors.As(err, &apiErr):
		fmt.Fprintf(w, "error: %s\n", logger.RedactString(err.Error()))
		fmt.Fprintf(w, "  response code: %d\n", apiErr.StatusCode)
		fmt.Fprintf(w, "  error message: %s\n", logger.RedactString(apiErr.Message))
		if apiErr.TraceID != "" {
			fmt.Fprintf(w, "  trace id: %s\n", apiErr.TraceID)
		}
		return ExitFailure

	case errors.As(err, &exit):
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(w, "error: %s\n", logger.RedactString(msg))
		}
		return exit.ExitCode()
	}

	fmt.Fprintf(w, "error: %s\n", logger.RedactString(err.Error()))
	return ExitFailure
}
