package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/iho/bankledger/internal/adapter/http/dto"
)

// errNotReconciled makes the command exit non-zero when drift is found.
var errNotReconciled = errors.New("ledger is not reconciled")

func reconcileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile [ACCOUNT_ID]",
		Short: "Replay movements and compare with recorded balances",
		Long: `Without an argument, reconciles every active account.
Exits non-zero when any account does not reconcile.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(opts)

			if len(args) == 1 {
				path := fmt.Sprintf("/api/v1/accounts/%s/reconciliation", url.PathEscape(args[0]))
				body, err := client.do(cmd.Context(), http.MethodGet, path, nil, nil)
				if err != nil {
					return err
				}
				if err := printJSON(cmd.OutOrStdout(), body); err != nil {
					return err
				}

				var res dto.ReconciliationResponse
				if err := json.Unmarshal(body, &res); err != nil {
					return fmt.Errorf("decode response: %w", err)
				}
				if !res.IsReconciled {
					return errNotReconciled
				}
				return nil
			}

			body, err := client.do(cmd.Context(), http.MethodGet, "/api/v1/reconciliation", nil, nil)
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), body); err != nil {
				return err
			}

			var report dto.ReconciliationReportResponse
			if err := json.Unmarshal(body, &report); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			if len(report.Discrepancies) > 0 {
				return errNotReconciled
			}
			return nil
		},
	}
}
