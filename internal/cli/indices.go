package cli

import (
	"errors"
	"strings"

	"github.com/planfit/planfit/internal/plan"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "indices [request.json]",
		Short: "Recalculate physiological indices for a profile",
		Args:  cobra.MaximumNArgs(1),
		Run:   runIndices,
	}

	RootCmd.AddCommand(cmd)
}

type indicesRequest struct {
	Profile      plan.Profile `json:"profile"`
	ScheduleDays int          `json:"schedule_days,omitempty"`
}

func runIndices(cmd *cobra.Command, args []string) {
	var req indicesRequest
	if err := readRequest(args, &req); err != nil {
		exitErr("read request", err)
	}

	svc, closeFn, err := openService(cmd.Context())
	if err != nil {
		exitErr("open service", err)
	}
	defer closeFn()

	result, err := svc.RecalcIndices(cmd.Context(), req.Profile, req.ScheduleDays)
	if err != nil {
		var validationErr *plan.ValidationError
		if errors.As(err, &validationErr) {
			exitErr("invalid request", errors.New("missing fields: "+strings.Join(validationErr.Missing, ", ")))
		}
		exitErr("recalc indices", err)
	}

	printJSON(result)
}
