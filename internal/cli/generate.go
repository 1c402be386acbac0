package cli

import (
	"errors"
	"strings"

	"github.com/planfit/planfit/internal/plan"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "generate [request.json]",
		Short: "Generate a complete plan from a JSON request",
		Args:  cobra.MaximumNArgs(1),
		Run:   runGenerate,
	}

	RootCmd.AddCommand(cmd)
}

func runGenerate(cmd *cobra.Command, args []string) {
	var req plan.PlanRequest
	if err := readRequest(args, &req); err != nil {
		exitErr("read request", err)
	}

	svc, closeFn, err := openService(cmd.Context())
	if err != nil {
		exitErr("open service", err)
	}
	defer closeFn()

	generated, err := svc.GeneratePlan(cmd.Context(), req)
	if err != nil {
		var validationErr *plan.ValidationError
		if errors.As(err, &validationErr) {
			exitErr("invalid request", errors.New("missing fields: "+strings.Join(validationErr.Missing, ", ")))
		}
		exitErr("generate plan", err)
	}

	printJSON(generated)
}
