package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"perf-manage/internal/bot"
	"perf-manage/internal/config"
	"perf-manage/internal/dashboard"
	"perf-manage/internal/excel"
	"perf-manage/internal/model"
	"perf-manage/internal/repository"
	"perf-manage/internal/service"
	"perf-manage/internal/session"
	"perf-manage/internal/ui"
)

var (
	flagOutput string
	flagPage   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "perfmanage",
		Short: "Role-based performance dashboards, task approval and KPI management",
		Long: `PerfManage serves Employee, Project Head and Admin dashboards through a
Telegram bot, and renders the same dashboards and exports from the terminal.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(botCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func botCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if err := cfg.ValidateBot(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return runBot(ctx, cfg)
		},
	}
}

func runBot(ctx context.Context, cfg config.Config) error {
	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	tasks := service.NewTaskLog(repository.NewTaskRepository(db))
	approval := service.NewApproval(repository.NewSubmissionRepository(db))
	catalog := service.NewCatalog(repository.NewKPIRepository(db))

	telegramBot, err := bot.New(cfg, bot.Services{
		Users:      repository.NewUserRepository(db),
		Sessions:   session.NewManager(cfg.SessionTTL, cfg.Allows),
		Tasks:      tasks,
		Approval:   approval,
		Assignment: service.NewAssignment(repository.NewAssignmentRepository(db)),
		Catalog:    catalog,
		Digest:     service.NewDigestService(tasks, approval, catalog),
	})
	if err != nil {
		return fmt.Errorf("bot: %w", err)
	}

	scheduler := service.NewSchedulerService(time.Local)
	id, err := scheduler.Schedule(cfg.DigestTime, cfg.DigestInterval, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := telegramBot.SendDigests(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("digest: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule digest: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()
	log.Printf("[info] next digest at %s", scheduler.Next(id).Format(time.RFC3339))

	log.Println("PerfManage bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("bot stopped with error: %w", err)
	}
	log.Println("Shutdown complete.")
	return nil
}

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard <employee|head|admin>",
		Short: "Render a role dashboard in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, ok := model.ParseRole(args[0])
			if !ok {
				return fmt.Errorf("unknown role %q", args[0])
			}
			out := cmd.OutOrStdout()
			switch flagPage {
			case "", "dashboard":
				return ui.RenderDashboard(out, role)
			case "kpis":
				if role != model.RoleEmployee {
					return fmt.Errorf("the kpis page belongs to the employee role")
				}
				ui.RenderEmployeeKPIs(out)
			case "team":
				if role != model.RoleHead {
					return fmt.Errorf("the team page belongs to the head role")
				}
				ui.RenderTeamKPIs(out)
			default:
				return fmt.Errorf("unknown page %q", flagPage)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flagPage, "page", "", "Page to show: dashboard, kpis (employee) or team (head)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "export <kpis|team>",
		Short:     "Write the KPI catalog or the team KPI table to an xlsx file",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"kpis", "team"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flagOutput
			if path == "" {
				path = args[0] + ".xlsx"
			}
			switch args[0] {
			case "kpis":
				if err := exportCatalog(cmd.Context(), path); err != nil {
					return err
				}
			case "team":
				if err := excel.WriteTeam(dashboard.TeamKPIs(), path); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.BoldGreen("✓"), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file (default <what>.xlsx)")
	return cmd
}

// exportCatalog mounts a fresh catalog and writes it to path.
func exportCatalog(ctx context.Context, path string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	catalog := service.NewCatalog(repository.NewKPIRepository(db))
	if err := catalog.Mount(ctx, 0); err != nil {
		return err
	}
	kpis, err := catalog.List(ctx, 0)
	if err != nil {
		return err
	}
	return excel.WriteKPIs(kpis, path)
}
