package etl

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
)

// timingLog is appended to on every run, one row per step, so slow scrapes
// show up across runs.
const timingLog = "etl_timings.csv"

// printSummary logs the per-step run table.
func printSummary(reports []StepReport) {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tDURATION\tSOURCE\tRESULT")
	for _, rep := range reports {
		source := "live"
		if rep.FromCache {
			source = "cache"
		}
		result := rep.Detail
		if rep.Err != nil {
			result = "FAILED: " + rep.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rep.Name, rep.Duration.Round(time.Millisecond), source, result)
	}
	w.Flush()

	log.Println("[etl] run summary:")
	for _, line := range strings.Split(strings.TrimRight(b.String(), "\n"), "\n") {
		log.Println("[etl]   " + line)
	}
}

// appendTimings appends one CSV row per step to the timing log in the cache
// directory, creating the file with a header on first use.
func appendTimings(dir string, reports []StepReport) error {
	path := filepath.Join(dir, timingLog)
	_, statErr := os.Stat(path)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if os.IsNotExist(statErr) {
		if err := w.Write([]string{"timestamp", "step", "duration_ms", "source", "detail", "error"}); err != nil {
			return err
		}
	}
	now := time.Now().Format(time.RFC3339)
	for _, rep := range reports {
		source := "live"
		if rep.FromCache {
			source = "cache"
		}
		errText := ""
		if rep.Err != nil {
			errText = rep.Err.Error()
		}
		row := []string{now, rep.Name, strconv.FormatInt(rep.Duration.Milliseconds(), 10), source, rep.Detail, errText}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
