package main

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iho/bankledger/internal/adapter/http/dto"
)

func accountsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	cmd.AddCommand(
		openAccountCmd(opts),
		checkOpeningCmd(opts),
		getAccountCmd(opts),
		findAccountCmd(opts),
		listAccountsCmd(opts),
		customerAccountsCmd(opts),
		updateAccountCmd(opts),
		closeAccountCmd(opts),
	)

	return cmd
}

func openAccountCmd(opts *options) *cobra.Command {
	var req dto.OpenAccountRequest

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/accounts", nil, req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}

	cmd.Flags().StringVar(&req.Number, "number", "", "Account number (6-20 digits)")
	cmd.Flags().StringVar(&req.Kind, "kind", "Savings", "Account kind (Savings or Checking)")
	cmd.Flags().StringVar(&req.OpeningBalance, "opening-balance", "", "Opening balance")
	cmd.Flags().StringVar(&req.CustomerID, "customer", "", "Customer reference")
	_ = cmd.MarkFlagRequired("number")
	_ = cmd.MarkFlagRequired("opening-balance")
	_ = cmd.MarkFlagRequired("customer")

	return cmd
}

func checkOpeningCmd(opts *options) *cobra.Command {
	var req dto.OpeningCheckRequest

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether an opening balance is allowed for a kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/accounts/opening-check", nil, req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}

	cmd.Flags().StringVar(&req.Kind, "kind", "Savings", "Account kind")
	cmd.Flags().StringVar(&req.OpeningBalance, "opening-balance", "", "Opening balance")
	_ = cmd.MarkFlagRequired("opening-balance")

	return cmd
}

func getAccountCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get ACCOUNT_ID",
		Short: "Show an active account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0]), nil, nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
}

func findAccountCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "find NUMBER",
		Short: "Show an active account by its number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/accounts/by-number/"+url.PathEscape(args[0]), nil, nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
}

func customerAccountsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "owned-by CUSTOMER_ID",
		Short: "List the active accounts of a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/customers/"+url.PathEscape(args[0])+"/accounts", nil, nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
}

func updateAccountCmd(opts *options) *cobra.Command {
	var req dto.UpdateAccountRequest

	cmd := &cobra.Command{
		Use:   "update ACCOUNT_ID",
		Short: "Edit an account's kind, opening balance or customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := newAPIClient(opts).do(cmd.Context(), http.MethodPut, "/api/v1/accounts/"+url.PathEscape(args[0]), nil, req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}

	cmd.Flags().StringVar(&req.Kind, "kind", "Savings", "Account kind (Savings or Checking)")
	cmd.Flags().StringVar(&req.OpeningBalance, "opening-balance", "", "Opening balance; fixed once the account has movements")
	cmd.Flags().StringVar(&req.CustomerID, "customer", "", "Customer reference")
	_ = cmd.MarkFlagRequired("opening-balance")
	_ = cmd.MarkFlagRequired("customer")

	return cmd
}

func listAccountsCmd(opts *options) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("limit", strconv.Itoa(limit))
			q.Set("offset", strconv.Itoa(offset))

			body, err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/accounts", q, nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	return cmd
}

func closeAccountCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "close ACCOUNT_ID",
		Short: "Close (soft delete) an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := newAPIClient(opts).do(cmd.Context(), http.MethodDelete, "/api/v1/accounts/"+url.PathEscape(args[0]), nil, nil); err != nil {
				return err
			}
			cmd.Printf("account %s closed\n", args[0])
			return nil
		},
	}
}
