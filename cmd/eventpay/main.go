package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "serve":
		if err := serve(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "demo":
		if err := demo(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("eventpay version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`eventpay - event payment accounting engine

Usage:
  eventpay <command> [options]

Commands:
  serve      Run the HTTP API against a SQLite or in-memory store
  demo       Run a scripted payment scenario and print the ledger state
  help       Show this help message
  version    Show version information

Examples:
  # Serve with a SQLite store and a JSONL journal
  eventpay serve --db eventpay.db --journal journal.jsonl --admin admin-wallet

  # Serve fully in-memory with seeded demo balances
  eventpay serve --admin admin-wallet --mint alice=1000 --mint bob=500

  # Walk through a payment end to end
  eventpay demo

For command-specific help, run:
  eventpay <command> --help`)
}
