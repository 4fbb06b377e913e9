package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"zapdash/internal/cli"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "zapdash",
	Short: "zapdash CLI - WhatsApp instance dashboard client",
	Long: `zapdash CLI talks to a running zapdash server to list instances,
create new ones and pair devices from the terminal.

Set ZAPDASH_API_URL and ZAPDASH_TOKEN before running.`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List connections visible to you",
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient()

		connections, err := client.ListConnections(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list connections: %v\n", err)
			os.Exit(1)
		}

		printConnections(connections)
	},
}

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new instance",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient()

		s := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
		s.Suffix = " Creating instance..."
		s.Start()
		conn, err := client.CreateConnection(cmd.Context(), args[0])
		s.Stop()

		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create instance: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Created instance %q (id %s)\n", conn.InstanceName, conn.ID)
	},
}

var connectCmd = &cobra.Command{
	Use:   "connect <name>",
	Short: "Pair a device with an instance",
	Long: `Request a QR code (or a pairing code with --phone) for the named
instance and poll until the device connects.

Example:
  zapdash connect sales1
  zapdash connect sales1 --phone +5511999999999`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient()
		phone, _ := cmd.Flags().GetString("phone")

		ctx, cancel := context.WithCancel(cmd.Context())
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		s := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
		s.Suffix = " Waiting for device to pair... (Ctrl+C to stop)"
		s.Start()
		defer s.Stop()

		session := cli.NewPairingSession(client, os.Stdout, args[0], phone)
		if err := session.Run(ctx); err != nil {
			s.Stop()
			if ctx.Err() != nil {
				fmt.Println("\nPairing cancelled.")
				return
			}
			fmt.Fprintf(os.Stderr, "Pairing failed: %v\n", err)
			os.Exit(1)
		}
		s.Stop()

		// Refresh the list so the new connection shows up with its status.
		connections, err := client.ListConnections(context.Background())
		if err != nil {
			return
		}
		printConnections(connections)
	},
}

func mustClient() *cli.Client {
	cfg, err := cli.LoadClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	return cli.NewClient(cfg)
}

func printConnections(connections []cli.Connection) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATUS\tOWNER\tTEAM\tREGISTERED")
	for _, conn := range connections {
		registered := "no"
		if conn.IsRegistered {
			registered = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", conn.InstanceName, conn.Status, conn.UserID, conn.TeamName, registered)
	}
	w.Flush()
}

func main() {
	connectCmd.Flags().String("phone", "", "Phone number for a numeric pairing code instead of a QR code")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(connectCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
