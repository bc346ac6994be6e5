// reconcile_counters compares the qtd_plantoes / qtd_tentativas counters on
// lovable.pf_alunos with live counts and optionally rewrites them.
//
// Usage:
//   go run ./cmd/reconcile_counters          # report only
//   go run ./cmd/reconcile_counters -apply   # report and repair
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"

	"plantao-ops/internal/config"
	"plantao-ops/internal/db"
	"plantao-ops/internal/logging"
	"plantao-ops/internal/models"
)

func main() {
	apply := flag.Bool("apply", false, "Rewrite drifting counters")
	flag.Parse()

	cfg := config.Load()
	logger := logging.Must(cfg.Debug)
	defer logger.Sync()
	cfg.SetLogger(logger)

	ctx := context.Background()
	if err := db.Connect(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	drifts, err := models.NewRepository(db.DB).ReconcileCounters(ctx, *apply)
	if err != nil {
		logger.Fatal("reconcile failed", zap.Error(err))
	}

	if len(drifts) == 0 {
		fmt.Println("All counters match.")
		return
	}

	fmt.Println("=== COUNTER DRIFT ===")
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOME\tPLANTOES (ARMAZENADO/REAL)\tTENTATIVAS (ARMAZENADO/REAL)")
	for _, d := range drifts {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%d/%d\n", d.StudentID, d.Name,
			d.StoredShifts, d.ActualShifts, d.StoredAttempt, d.ActualAttempt)
	}
	tw.Flush()

	if *apply {
		fmt.Printf("\nRepaired %d student(s).\n", len(drifts))
	} else {
		fmt.Printf("\n%d student(s) drifting. Run with -apply to repair.\n", len(drifts))
	}
}
