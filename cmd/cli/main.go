package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/wealthsense/internal/analytics"
	"github.com/dvloznov/wealthsense/internal/app"
	"github.com/dvloznov/wealthsense/internal/charts"
	"github.com/dvloznov/wealthsense/internal/config"
	"github.com/dvloznov/wealthsense/internal/domain"
	"github.com/dvloznov/wealthsense/internal/format"
	"github.com/dvloznov/wealthsense/internal/logger"
	"github.com/dvloznov/wealthsense/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage()
		return
	}

	run, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		l := logger.New()
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.NewWithLevel(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.InsightTimeout+time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	if err := run(ctx, application.Tracker, os.Args[2:], os.Stdout); err != nil {
		application.Close()
		log.Fatal().Err(err).Str("command", cmd).Msg("Command failed")
	}
}

type command func(ctx context.Context, t *service.Tracker, args []string, out io.Writer) error

var commands = map[string]command{
	"add":       runAdd,
	"list":      runList,
	"delete":    runDelete,
	"clear":     runClear,
	"profile":   runProfile,
	"dashboard": runDashboard,
	"insight":   runInsight,
	"chart":     runChart,
}

func printUsage() {
	fmt.Println("WealthSense CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  add        Record an income or expense")
	fmt.Println("  list       Show transactions, newest first")
	fmt.Println("  delete     Delete a transaction by ID")
	fmt.Println("  clear      Delete every transaction")
	fmt.Println("  profile    Show or update the user profile")
	fmt.Println("  dashboard  Show totals and ratios")
	fmt.Println("  insight    Ask the AI coach for spending insight")
	fmt.Println("  chart      Render a PNG chart")
	fmt.Println("  help       Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runAdd(ctx context.Context, t *service.Tracker, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	desc := fs.String("desc", "", "Description (required)")
	amount := fs.Float64("amount", 0, "Positive amount (required)")
	category := fs.String("category", "", "Category from the active vocabulary (required)")
	txType := fs.String("type", string(domain.TypeExpense), "Income or Expense")
	mode := fs.String("mode", string(domain.ModeUPI), "UPI, Cash, Card or \"Bank Transfer\"")
	date := fs.String("date", "", "Date as YYYY-MM-DD (default today)")
	notes := fs.String("notes", "", "Optional notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pm, err := domain.ParsePaymentMode(*mode)
	if err != nil {
		return err
	}
	d := domain.Draft{
		Description: *desc,
		Amount:      *amount,
		Category:    domain.Category(*category),
		Type:        domain.TransactionType(*txType),
		PaymentMode: pm,
		Notes:       *notes,
	}
	if *date != "" {
		parsed, err := civil.ParseDate(*date)
		if err != nil {
			return fmt.Errorf("%w: %s", domain.ErrInvalidDate, *date)
		}
		d.Date = parsed
	}

	tx, err := t.AddTransaction(ctx, d)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCategory) {
			fmt.Fprintf(out, "Valid categories: %s\n", joinCategories(t.Categories().Names()))
		}
		return err
	}
	fmt.Fprintf(out, "Added %s (%s)\n", tx.ID, format.Amount(t.Profile().Currency, tx.Amount))
	return nil
}

func runList(ctx context.Context, t *service.Tracker, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	byDate := fs.Bool("by-date", false, "Group by date, newest date first")
	if err := fs.Parse(args); err != nil {
		return err
	}

	currency := t.Profile().Currency
	txs := t.Transactions()
	if len(txs) == 0 {
		fmt.Fprintln(out, "No transactions yet.")
		return nil
	}

	if *byDate {
		for _, day := range t.Ledger() {
			fmt.Fprintf(out, "%s\n", day.Date)
			for _, tx := range day.Transactions {
				fmt.Fprintf(out, "  %-8s %-30s %-18s %s\n", tx.Type, tx.Description, tx.Category, signed(currency, tx))
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTYPE\tDESCRIPTION\tCATEGORY\tMODE\tAMOUNT")
	for _, tx := range txs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Date, tx.Type, tx.Description, tx.Category, tx.PaymentMode, signed(currency, tx))
	}
	return w.Flush()
}

func runDelete(ctx context.Context, t *service.Tracker, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	id := fs.String("id", "", "Transaction ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}
	if err := t.DeleteTransaction(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %s\n", *id)
	return nil
}

func runClear(ctx context.Context, t *service.Tracker, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "Confirm deleting every transaction")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return errors.New("refusing to clear without -yes")
	}
	if err := t.ClearAll(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "All transactions cleared.")
	return nil
}

func runProfile(ctx context.Context, t *service.Tracker, args []string, out io.Writer) error {
	current := t.Profile()

	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	name := fs.String("name", current.Name, "Display name")
	email := fs.String("email", current.Email, "Email")
	photo := fs.String("photo", current.PhotoURL, "Photo URL")
	bio := fs.String("bio", current.Bio, "Short bio")
	currency := fs.String("currency", current.Currency, "ISO currency code")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NFlag() > 0 {
		updated, err := t.UpdateProfile(ctx, domain.UserProfile{
			Name:     *name,
			Email:    *email,
			PhotoURL: *photo,
			Bio:      *bio,
			Currency: strings.ToUpper(*currency),
		})
		if err != nil {
			return err
		}
		current = updated
	}

	fmt.Fprintf(out, "Name:     %s\n", current.Name)
	fmt.Fprintf(out, "Email:    %s\n", current.Email)
	fmt.Fprintf(out, "Photo:    %s\n", current.PhotoURL)
	fmt.Fprintf(out, "Bio:      %s\n", current.Bio)
	fmt.Fprintf(out, "Currency: %s\n", current.Currency)
	return nil
}

func runDashboard(ctx context.Context, t *service.Tracker, args []string, out io.Writer) error {
	currency := t.Profile().Currency
	s := t.Dashboard()

	fmt.Fprintf(out, "Income:        %s\n", format.Amount(currency, s.TotalIncome))
	fmt.Fprintf(out, "Expense:       %s\n", format.Amount(currency, s.TotalExpense))
	fmt.Fprintf(out, "Net balance:   %s\n", format.Amount(currency, s.NetBalance))
	fmt.Fprintf(out, "Retention:     %d%%\n", s.RetentionRate)
	fmt.Fprintf(out, "Burn rate:     %d%%\n", s.BurnRate)
	fmt.Fprintf(out, "Digital share: %d%% (%d UPI)\n", s.DigitalPaymentShare, s.UPICount)
	fmt.Fprintf(out, "Liquidity:     %.1f\n", s.LiquidityGauge)
	if s.TopIncomeCategory != "" {
		fmt.Fprintf(out, "Top income:    %s\n", s.TopIncomeCategory)
	}

	if len(s.Categories) > 0 {
		fmt.Fprintln(out, "\nSpending by category:")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, c := range s.Categories {
			fmt.Fprintf(w, "  %s\t%s\n", c.Category, format.Amount(currency, c.Amount))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func runInsight(ctx context.Context, t *service.Tracker, args []string, out io.Writer) error {
	held, err := t.FetchInsight(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Risk level: %s\n\n%s\n\n", held.Insight.RiskLevel, held.Insight.Summary)
	for i, s := range held.Insight.Suggestions {
		fmt.Fprintf(out, "%d. %s\n", i+1, s)
	}
	return nil
}

func runChart(ctx context.Context, t *service.Tracker, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("chart", flag.ContinueOnError)
	kind := fs.String("kind", "categories", "categories or daily")
	path := fs.String("out", "", "Output PNG path (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return errors.New("-out is required")
	}

	gen := charts.NewGenerator(t.Profile().Currency)
	var (
		img []byte
		err error
	)
	switch *kind {
	case "categories":
		img, err = gen.CategoryPie(analytics.CategoryBreakdown(t.Transactions()))
	case "daily":
		img, err = gen.DailyFlow(t.Ledger())
	default:
		return fmt.Errorf("unknown chart kind %q", *kind)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(*path, img, 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	fmt.Fprintf(out, "Wrote %s\n", *path)
	return nil
}

func signed(currency string, tx domain.Transaction) string {
	sign := "-"
	if tx.Type == domain.TypeIncome {
		sign = "+"
	}
	return sign + format.Amount(currency, tx.Amount)
}

func joinCategories(cs []domain.Category) string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
