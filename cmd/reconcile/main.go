// cmd/reconcile/main.go
// Repairs the user/post/comment reference lists and sweeps orphan comments
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/khaledtf19/Lposts2-Backend/internal/config"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/reconcile"
	"github.com/khaledtf19/Lposts2-Backend/internal/db/migrations"
	postgresRepo "github.com/khaledtf19/Lposts2-Backend/internal/db/postgres"
)

var (
	dryRun      bool
	databaseURL string
	jsonOutput  bool
)

var rootCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Sweep orphan comments and rebuild reference lists",
	Long: `Deletes comments whose post is gone, drops dangling ids from users.posts
and posts.comments, re-links owned records missing from those lists and
resets likes to the number of distinct likers. Safe to run repeatedly.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")
	rootCmd.Flags().StringVar(&databaseURL, "db", "", "Postgres DSN (defaults to DATABASE_URL)")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the report as JSON")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	config.LoadDotEnv()
	cfg := config.FromEnv()
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	if cfg.DatabaseURL == "" {
		return config.ErrMissingDatabaseURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Printf("Failed to close database: %v", closeErr)
		}
	}()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if err := migrations.Up(db); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	service := reconcile.NewService(
		postgresRepo.NewUserRepository(db),
		postgresRepo.NewPostRepository(db),
		postgresRepo.NewCommentRepository(db),
		postgresRepo.NewTransactor(db),
		reconcile.Options{DryRun: dryRun},
		logger,
	)

	report, err := service.Run(ctx)
	if err != nil {
		return fmt.Errorf("reconcile failed: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	out := cmd.OutOrStdout()
	if dryRun {
		fmt.Fprintln(out, "Dry run: no changes written")
	}
	fmt.Fprintf(out, "Orphan comments deleted: %d\n", report.OrphanCommentsDeleted)
	fmt.Fprintf(out, "Posts repaired:          %d\n", report.PostsRepaired)
	fmt.Fprintf(out, "Users repaired:          %d\n", report.UsersRepaired)
	fmt.Fprintf(out, "Comments repaired:       %d\n", report.CommentsRepaired)
	if !report.Changed() {
		fmt.Fprintln(out, "Everything is consistent")
	}
	return nil
}
