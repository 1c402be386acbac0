package cli

import (
	"errors"
	"strings"

	"github.com/planfit/planfit/internal/plan"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "adapt [request.json]",
		Short: "Adapt an existing plan with readiness signals",
		Args:  cobra.MaximumNArgs(1),
		Run:   runAdapt,
	}

	RootCmd.AddCommand(cmd)
}

func runAdapt(cmd *cobra.Command, args []string) {
	var req plan.AdaptRequest
	if err := readRequest(args, &req); err != nil {
		exitErr("read request", err)
	}

	svc, closeFn, err := openService(cmd.Context())
	if err != nil {
		exitErr("open service", err)
	}
	defer closeFn()

	result, err := svc.AdaptPlan(cmd.Context(), req)
	if err != nil {
		var validationErr *plan.ValidationError
		if errors.As(err, &validationErr) {
			exitErr("invalid request", errors.New("missing fields: "+strings.Join(validationErr.Missing, ", ")))
		}
		exitErr("adapt plan", err)
	}

	printJSON(result)
}
