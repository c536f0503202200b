package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/adapter/http/middleware"
)

func movementsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movements",
		Short: "Movement operations",
	}

	cmd.AddCommand(
		recordMovementCmd(opts),
		getMovementCmd(opts),
		deactivateMovementCmd(opts),
		listMovementsCmd(opts),
		statementCmd(opts),
	)

	return cmd
}

func recordMovementCmd(opts *options) *cobra.Command {
	var (
		req            dto.RecordMovementRequest
		idempotencyKey string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a deposit or withdrawal",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/movements", nil, req,
				middleware.IdempotencyKeyHeader, idempotencyKey)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}

	cmd.Flags().StringVar(&req.AccountID, "account", "", "Account ID")
	cmd.Flags().StringVar(&req.Kind, "kind", "", "Movement kind (Deposit or Withdrawal)")
	cmd.Flags().StringVar(&req.Amount, "amount", "", "Amount, positive")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func getMovementCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get MOVEMENT_ID",
		Short: "Show an active movement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/movements/"+url.PathEscape(args[0]), nil, nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
}

func deactivateMovementCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate MOVEMENT_ID",
		Short: "Deactivate (soft delete) a movement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := newAPIClient(opts).do(cmd.Context(), http.MethodDelete, "/api/v1/movements/"+url.PathEscape(args[0]), nil, nil); err != nil {
				return err
			}
			cmd.Printf("movement %s deactivated\n", args[0])
			return nil
		},
	}
}

func listMovementsCmd(opts *options) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list ACCOUNT_ID",
		Short: "List an account's active movements, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("limit", strconv.Itoa(limit))
			q.Set("offset", strconv.Itoa(offset))

			path := fmt.Sprintf("/api/v1/accounts/%s/movements", url.PathEscape(args[0]))
			body, err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, path, q, nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	return cmd
}

func statementCmd(opts *options) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "statement CUSTOMER_ID",
		Short: "Customer statement between two instants (RFC 3339)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, v := range []string{from, to} {
				if _, err := time.Parse(time.RFC3339, v); err != nil {
					return fmt.Errorf("invalid time %q: %w", v, err)
				}
			}

			q := url.Values{}
			q.Set("from", from)
			q.Set("to", to)

			path := fmt.Sprintf("/api/v1/customers/%s/movements", url.PathEscape(args[0]))
			body, err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, path, q, nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Window start, inclusive")
	cmd.Flags().StringVar(&to, "to", "", "Window end, inclusive")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
