package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/obrastudio/site-backend/api"
	"github.com/obrastudio/site-backend/config"
	"github.com/obrastudio/site-backend/database"
	"github.com/obrastudio/site-backend/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() {
	fmt.Println("Initializing app...")

	c := config.New()

	uri := config.GetString(c, "MONGODB_URI", "")
	if uri == "" {
		fmt.Fprintln(os.Stderr, "MONGODB_URI is required. Exiting...")
		os.Exit(1)
	}
	secret := config.GetString(c, "JWT_SECRET", "")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required. Exiting...")
		os.Exit(1)
	}
	dbName := config.GetString(c, "MONGODB_DB", "site")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("Connecting to document store...")
	store, err := database.Connect(ctx, uri, dbName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to store: %v\n", err)
		os.Exit(1)
	}

	if err := store.EnsureIndexes(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error ensuring indexes: %v\n", err)
		os.Exit(1)
	}

	if err := bootstrapAdmin(ctx, store, c); err != nil {
		fmt.Fprintf(os.Stderr, "Error bootstrapping admin user: %v\n", err)
		os.Exit(1)
	}

	ttl := time.Duration(config.GetInt(c, "JWT_TTL_HOURS", 24)) * time.Hour
	auth := services.NewAuthService(store.AdminUserRepo(), secret, ttl)

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(store, auth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer closeCancel()
	if err := store.Close(closeCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing store: %v\n", err)
	}
}

// bootstrapAdmin creates the configured admin user when it does not exist.
func bootstrapAdmin(ctx context.Context, store *database.Store, c map[string]string) error {
	email := config.GetString(c, "ADMIN_EMAIL", "")
	password := config.GetString(c, "ADMIN_PASSWORD", "")
	if email == "" || password == "" {
		return nil
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		return err
	}

	created, err := store.AdminUserRepo().Bootstrap(ctx, email, hash)
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("Created admin user %s\n", email)
	}
	return nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
