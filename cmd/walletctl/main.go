package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "walletctl",
		Short: "Wallet ledger CLI tool",
		Long:  `A command line interface for interacting with the wallet ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the wallet ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Account commands
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	accountGetCmd := &cobra.Command{
		Use:   "get <account-id>",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/accounts/" + args[0])
		},
	}

	accountTransactionsCmd := &cobra.Command{
		Use:   "transactions <account-id>",
		Short: "List an account's transactions",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/accounts/" + args[0] + "/transactions")
		},
	}

	accountCmd.AddCommand(accountGetCmd, accountTransactionsCmd)
	rootCmd.AddCommand(accountCmd)

	// Booking commands
	bookingCmd := &cobra.Command{
		Use:   "booking",
		Short: "Booking operations",
	}

	bookingTransactionCmd := &cobra.Command{
		Use:   "transaction <booking-id>",
		Short: "Show the debit recorded for a booking",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/bookings/" + args[0] + "/transaction")
		},
	}

	bookingCmd.AddCommand(bookingTransactionCmd)
	rootCmd.AddCommand(bookingCmd)

	// Reconciliation command
	reconcileCmd := &cobra.Command{
		Use:   "reconcile [account-id]",
		Short: "Reconcile balances against the transaction log",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 1 {
				reconcileAccount(args[0])
				return
			}
			reconcileAll()
		},
	}
	rootCmd.AddCommand(reconcileCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func fetch(path string) ([]byte, int) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return body, resp.StatusCode
}

func getJSON(path string) {
	body, status := fetch(path)
	if status != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(out.String())
}

func reconcileAccount(accountID string) {
	body, status := fetch("/api/v1/accounts/" + accountID + "/reconciliation")
	if status != http.StatusOK {
		fmt.Printf("Reconciliation FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result struct {
		AccountID         string `json:"account_id"`
		RecordedBalance   string `json:"recorded_balance"`
		CalculatedBalance string `json:"calculated_balance"`
		Difference        string `json:"difference"`
		IsReconciled      bool   `json:"is_reconciled"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if result.IsReconciled {
		fmt.Printf("Account %s is reconciled (balance %s)\n", result.AccountID, result.RecordedBalance)
		return
	}

	fmt.Printf("Account %s has a DISCREPANCY\n", result.AccountID)
	fmt.Printf("Recorded:   %s\n", result.RecordedBalance)
	fmt.Printf("Calculated: %s\n", result.CalculatedBalance)
	fmt.Printf("Difference: %s\n", result.Difference)
	os.Exit(1)
}

func reconcileAll() {
	body, status := fetch("/api/v1/reconciliation")
	if status != http.StatusOK {
		fmt.Printf("Reconciliation FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var report struct {
		TotalAccounts      int `json:"total_accounts"`
		ReconciledAccounts int `json:"reconciled_accounts"`
		Discrepancies      []struct {
			AccountID  string `json:"account_id"`
			Difference string `json:"difference"`
		} `json:"discrepancies"`
	}
	if err := json.Unmarshal(body, &report); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Checked %d accounts, %d reconciled\n", report.TotalAccounts, report.ReconciledAccounts)
	if len(report.Discrepancies) == 0 {
		fmt.Println("All accounts reconciled")
		return
	}

	for _, d := range report.Discrepancies {
		fmt.Printf("DISCREPANCY account=%s difference=%s\n", d.AccountID, d.Difference)
	}
	os.Exit(1)
}
