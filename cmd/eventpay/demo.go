package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	sdkmath "cosmossdk.io/math"
	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"

	"github.com/eventpay-xyz/go-eventpay/auth"
	"github.com/eventpay-xyz/go-eventpay/journal"
	"github.com/eventpay-xyz/go-eventpay/ledger"
	"github.com/eventpay-xyz/go-eventpay/store"
	"github.com/eventpay-xyz/go-eventpay/token"
)

// demo walks one event through its whole life against in-memory
// collaborators: create, register, pay, deactivate, withdraw.
func demo(args []string) error {
	fs := pflag.NewFlagSet("demo", pflag.ExitOnError)
	feeRate := fs.Uint32("fee-rate", 500, "Fee rate in basis points")
	amount := fs.Int64("amount", 200, "Payment amount")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelWarn}))
	ctx := context.Background()

	bank := token.NewMemLedger()
	sink := journal.NewMemorySink()
	engine := ledger.New(engineAddress, store.NewMemoryStore(), bank, auth.AllowAll(),
		ledger.WithJournal(sink),
		ledger.WithLogger(logger),
	)

	if err := engine.Initialize(ctx, "admin", *feeRate, "native"); err != nil {
		return err
	}
	fmt.Printf("Initialized engine at %d bp default fee rate\n\n", *feeRate)

	eventID, err := engine.CreateEvent(ctx, "organizer", "Spring Concert", nil)
	if err != nil {
		return err
	}
	fmt.Printf("Event %d %q created by organizer\n", eventID, "Spring Concert")

	for _, wallet := range []string{"alice", "bob"} {
		if err := engine.RegisterWalletForEvent(ctx, eventID, wallet); err != nil {
			return err
		}
		fmt.Printf("  registered %s\n", wallet)
	}

	bank.Mint("alice", sdkmath.NewInt(1000))
	fmt.Printf("  minted 1000 to alice\n\n")

	pay := sdkmath.NewInt(*amount)
	if err := engine.EventPayment(ctx, eventID, "alice", "bob", pay); err != nil {
		return err
	}
	fmt.Printf("alice paid bob %s\n", pay)

	event, err := engine.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	fees, err := engine.GetEventFees(ctx, eventID)
	if err != nil {
		return err
	}
	printBalances(ctx, bank, "alice", "bob", "organizer", engineAddress)
	fmt.Printf("  event volume:     %s\n", event.TotalVolume)
	fmt.Printf("  accumulated fees: %s\n\n", fees)

	if err := engine.SetEventStatus(ctx, eventID, false); err != nil {
		return err
	}
	withdrawn, err := engine.WithdrawEventFees(ctx, eventID)
	if err != nil {
		return err
	}
	fmt.Printf("Event deactivated, organizer withdrew %s\n", withdrawn)
	printBalances(ctx, bank, "alice", "bob", "organizer", engineAddress)

	fmt.Println("\nJournal:")
	for _, entry := range sink.Entries() {
		fmt.Printf("  %-14s %s\n", entry.Kind, entry.Data)
	}
	return nil
}

func printBalances(ctx context.Context, bank *token.MemLedger, wallets ...string) {
	for _, wallet := range wallets {
		balance, err := bank.Balance(ctx, wallet)
		if err != nil {
			continue
		}
		fmt.Printf("  %-16s %s\n", wallet, balance)
	}
}
