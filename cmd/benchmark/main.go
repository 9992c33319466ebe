// Benchmark tool for testing ringwatch against PaySim-style labeled data.
//
// Usage:
//
//	go run cmd/benchmark/main.go -csv /path/to/paysim.csv
//	go run cmd/benchmark/main.go -dir /path/to/csv-directory -concurrency 4
//
// Reads a CSV with ringwatch's standard transaction_id/sender_id/receiver_id/
// amount/timestamp columns plus a PaySim-style isFraud column, runs the
// engine once in-process, and compares the suspicious_accounts output
// against the per-account ground truth (an account is "fraudulent" if it
// sent or received at least one row with isFraud=1).
//
// With -dir, every *.csv file in the directory is read as an independent
// labeled table and scored through internal/batch.Runner, which analyzes
// them concurrently up to -concurrency at a time. Results print one
// confusion matrix per file, in directory-listing order, followed by a
// combined total.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ringwatch/ringwatch/internal/batch"
	"github.com/ringwatch/ringwatch/internal/domain"
	"github.com/ringwatch/ringwatch/internal/engine"
)

type labeledRow struct {
	tx      domain.Transaction
	isFraud bool
}

type labeledFile struct {
	name string
	rows []labeledRow
}

func main() {
	csvPath := flag.String("csv", "", "path to a single labeled CSV file")
	dirPath := flag.String("dir", "", "path to a directory of labeled CSV files, analyzed concurrently")
	concurrency := flag.Int("concurrency", 4, "maximum concurrent analyses when -dir is set")
	limit := flag.Int("limit", 0, "maximum rows to read per file (0 = all)")
	flag.Parse()

	if *dirPath != "" {
		runDir(*dirPath, *limit, *concurrency)
		return
	}

	if *csvPath == "" {
		fmt.Println("Usage: benchmark -csv /path/to/labeled.csv")
		fmt.Println("   or: benchmark -dir /path/to/csv-directory")
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("ringwatch benchmark")
	fmt.Printf("CSV File: %s\n\n", *csvPath)

	rows, err := readLabeledCSV(*csvPath, *limit)
	if err != nil {
		fmt.Printf("ERROR: failed to read CSV: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("loaded %d rows\n", len(rows))

	table, groundTruth := buildTable(rows)

	eng := engine.New(domain.DefaultDetectorConfig())
	start := time.Now()
	report, err := eng.Analyze(context.Background(), table)
	if err != nil {
		fmt.Printf("ERROR: analysis failed: %v\n", err)
		os.Exit(1)
	}
	duration := time.Since(start)

	tp, fp, tn, fn := confusionMatrix(rows, groundTruth, report)
	printResults(tp, fp, tn, fn, report, duration)
}

// runDir walks dirPath for *.csv files, builds one batch.Job per file, and
// runs them through a batch.Runner bounded at concurrency simultaneous
// analyses, printing a confusion matrix per file plus a combined total.
func runDir(dirPath string, limit, concurrency int) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		fmt.Printf("ERROR: failed to read directory: %v\n", err)
		os.Exit(1)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if len(names) == 0 {
		fmt.Printf("no .csv files found in %s\n", dirPath)
		os.Exit(1)
	}

	fmt.Println("ringwatch benchmark")
	fmt.Printf("Directory: %s (%d files, concurrency %d)\n\n", dirPath, len(names), concurrency)

	var files []labeledFile
	var jobs []batch.Job
	for _, name := range names {
		rows, err := readLabeledCSV(filepath.Join(dirPath, name), limit)
		if err != nil {
			fmt.Printf("ERROR: failed to read %s: %v\n", name, err)
			os.Exit(1)
		}
		table, _ := buildTable(rows)
		files = append(files, labeledFile{name: name, rows: rows})
		jobs = append(jobs, batch.Job{Table: table, Cfg: domain.DefaultDetectorConfig()})
	}

	runner := batch.NewRunner(concurrency)
	start := time.Now()
	reports, errs := runner.Run(context.Background(), jobs)
	duration := time.Since(start)

	var totalTP, totalFP, totalTN, totalFN int
	for i, f := range files {
		fmt.Printf("=== %s ===\n", f.name)
		if errs[i] != nil {
			fmt.Printf("ERROR: analysis failed: %v\n\n", errs[i])
			continue
		}
		_, groundTruth := buildTable(f.rows)
		tp, fp, tn, fn := confusionMatrix(f.rows, groundTruth, reports[i])
		printResults(tp, fp, tn, fn, reports[i], 0)
		fmt.Println()
		totalTP += tp
		totalFP += fp
		totalTN += tn
		totalFN += fn
	}

	fmt.Println("=== combined ===")
	fmt.Printf("files analyzed: %d\n", len(files))
	fmt.Printf("wall time:      %v\n", duration.Round(time.Millisecond))
	printConfusionSummary(totalTP, totalFP, totalTN, totalFN)
}

func buildTable(rows []labeledRow) (domain.TransactionTable, map[string]bool) {
	table := domain.TransactionTable{Rows: make([]domain.Transaction, len(rows))}
	groundTruth := make(map[string]bool)
	for i, r := range rows {
		table.Rows[i] = r.tx
		if r.isFraud {
			groundTruth[r.tx.SenderID] = true
			groundTruth[r.tx.ReceiverID] = true
		}
	}
	return table, groundTruth
}

func confusionMatrix(rows []labeledRow, groundTruth map[string]bool, report *domain.Report) (tp, fp, tn, fn int) {
	predicted := make(map[string]bool, len(report.SuspiciousAccounts))
	for _, acc := range report.SuspiciousAccounts {
		predicted[acc.AccountID] = true
	}

	universe := make(map[string]bool)
	for _, r := range rows {
		universe[r.tx.SenderID] = true
		universe[r.tx.ReceiverID] = true
	}

	for acc := range universe {
		actual := groundTruth[acc]
		pred := predicted[acc]
		switch {
		case pred && actual:
			tp++
		case pred && !actual:
			fp++
		case !pred && actual:
			fn++
		default:
			tn++
		}
	}
	return tp, fp, tn, fn
}

func readLabeledCSV(path string, limit int) ([]labeledRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	required := []string{"transaction_id", "sender_id", "receiver_id", "amount", "timestamp"}
	for _, col := range required {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}
	fraudCol, hasFraudCol := colIndex["isfraud"]

	var rows []labeledRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		amount, _ := strconv.ParseFloat(record[colIndex["amount"]], 64)
		ts, err := time.Parse(time.RFC3339, record[colIndex["timestamp"]])
		if err != nil {
			ts = time.Time{}
		}

		isFraud := hasFraudCol && record[fraudCol] == "1"

		rows = append(rows, labeledRow{
			tx: domain.Transaction{
				TransactionID: record[colIndex["transaction_id"]],
				SenderID:      record[colIndex["sender_id"]],
				ReceiverID:    record[colIndex["receiver_id"]],
				Amount:        amount,
				Timestamp:     ts,
			},
			isFraud: isFraud,
		})

		if limit > 0 && len(rows) >= limit {
			break
		}
	}

	return rows, nil
}

func printResults(tp, fp, tn, fn int, report *domain.Report, duration time.Duration) {
	fmt.Println("\nCONFUSION MATRIX (per account)")
	fmt.Println("                    Predicted")
	fmt.Println("                Flagged   Clear")
	fmt.Printf("   Actual  F   | %6d | %6d |  (TP, FN)\n", tp, fn)
	fmt.Printf("           NF  | %6d | %6d |  (FP, TN)\n", fp, tn)

	printConfusionSummary(tp, fp, tn, fn)

	fmt.Println("\nREPORT SUMMARY")
	fmt.Printf("   Accounts analyzed:    %d\n", report.Summary.TotalAccountsAnalyzed)
	fmt.Printf("   Accounts flagged:     %d\n", report.Summary.SuspiciousAccountsFlagged)
	fmt.Printf("   Fraud rings detected: %d\n", report.Summary.FraudRingsDetected)
	fmt.Printf("   Engine time:          %.4fs\n", report.Summary.ProcessingTimeSeconds)
	if duration > 0 {
		fmt.Printf("   Wall time:            %v\n", duration.Round(time.Millisecond))
	}
}

// printConfusionSummary prints precision/recall/F1 derived from a
// confusion matrix. Shared by the single-file and combined-total paths.
func printConfusionSummary(tp, fp, tn, fn int) {
	precision := 0.0
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}
	recall := 0.0
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}
	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * (precision * recall) / (precision + recall)
	}

	fmt.Println("\nDETECTION METRICS")
	fmt.Printf("   Precision: %.4f\n", precision)
	fmt.Printf("   Recall:    %.4f\n", recall)
	fmt.Printf("   F1-Score:  %.4f\n", f1)
}
