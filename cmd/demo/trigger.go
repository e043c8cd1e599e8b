package main

import (
	"disruption-replay-service/internal/adapters/backend"
	"disruption-replay-service/internal/dto"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var triggerCmd = &cobra.Command{
	Use:   "trigger [scenario]",
	Short: "Print the outcome the backend returns for a scenario",
	Long:  `Posts the scenario key to the backend. An empty or unknown key yields the default scenario.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTrigger,
}

var recommendCmd = &cobra.Command{
	Use:   "recommend <shipment-id>",
	Short: "Print the canned recommendation for a shipment",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecommend,
}

func runTrigger(cmd *cobra.Command, args []string) error {
	client, err := backend.NewClient(backendURL, nil)
	if err != nil {
		return err
	}

	scenario := ""
	if len(args) == 1 {
		scenario = args[0]
	}

	o, err := client.TriggerDisruption(cmd.Context(), scenario)
	if err != nil {
		return err
	}
	return printJSON(dto.FromOutcome(o))
}

func runRecommend(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || id <= 0 {
		return fmt.Errorf("recommend: invalid shipment id %q", args[0])
	}

	client, err := backend.NewClient(backendURL, nil)
	if err != nil {
		return err
	}

	res, err := client.SimulateRisk(cmd.Context(), id)
	if err != nil {
		var se *backend.HTTPStatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return fmt.Errorf("recommend: shipment %d not found", id)
		}
		return err
	}
	return printJSON(res)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
