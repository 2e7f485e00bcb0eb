// crosswalk_import validates a raw ZIP->district CSV and installs it as the
// crosswalk the server loads at boot. Source files come from the Census
// ZCTA relationship exports and use varying column names; this normalizes
// them to zip,senate_district,house_district.
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/etl"
)

var (
	csvPath = flag.String("csv", "", "Path to the source CSV (required)")
	outPath = flag.String("out", etl.CrosswalkPath, "Destination crosswalk file")
	dryRun  = flag.Bool("dry-run", false, "Parse and validate only; no writes")
	confirm = flag.Bool("confirm", false, "Required to overwrite an existing crosswalk")
)

// District bounds for the Illinois General Assembly.
const (
	maxSenateDistrict = 59
	maxHouseDistrict  = 118
)

type row struct {
	ZIP    string
	Senate int
	House  int
}

func main() {
	flag.Parse()
	if *csvPath == "" {
		fatalf("--csv is required")
	}

	rows, skipped, err := loadCSV(*csvPath)
	if err != nil {
		fatalf("CSV error: %v", err)
	}
	if err := validateRows(rows); err != nil {
		fatalf("CSV validation failed: %v", err)
	}

	fmt.Printf("Loaded %d ZIP rows from %s (%d duplicate rows collapsed)\n", len(rows), *csvPath, skipped)

	if *dryRun {
		printPlan(rows)
		fmt.Println("Dry run complete. No changes made.")
		return
	}

	if _, err := os.Stat(*outPath); err == nil && !*confirm {
		fatalf("%s exists. Refusing to overwrite without --confirm. Add --dry-run to preview.", *outPath)
	}

	if err := writeCrosswalk(*outPath, rows); err != nil {
		fatalf("write: %v", err)
	}
	fmt.Printf("Installed crosswalk with %d ZIP codes at %s\n", len(rows), *outPath)
}

// loadCSV reads the source file, mapping whatever the export calls its
// columns onto zip/senate/house. A ZIP appearing twice keeps its first row;
// the later rows are counted, not errors.
func loadCSV(path string) ([]row, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	zipCol, senCol, houseCol, err := mapColumns(headers)
	if err != nil {
		return nil, 0, err
	}

	var out []row
	seen := map[string]struct{}{}
	skipped := 0
	line := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("csv read: %w", err)
		}
		line++

		zip := strings.TrimSpace(rec[zipCol])
		if _, dup := seen[zip]; dup {
			skipped++
			continue
		}
		seen[zip] = struct{}{}

		senate, err1 := strconv.Atoi(strings.TrimSpace(rec[senCol]))
		house, err2 := strconv.Atoi(strings.TrimSpace(rec[houseCol]))
		if err1 != nil || err2 != nil {
			return nil, 0, fmt.Errorf("row %d: bad district numbers %q %q", line, rec[senCol], rec[houseCol])
		}
		out = append(out, row{ZIP: zip, Senate: senate, House: house})
	}
	return out, skipped, nil
}

// mapColumns finds the three columns we need among the export's headers.
func mapColumns(headers []string) (zip, senate, house int, err error) {
	idx := map[string]int{}
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	find := func(names ...string) (int, bool) {
		for _, n := range names {
			if i, ok := idx[n]; ok {
				return i, true
			}
		}
		return 0, false
	}

	z, okZ := find("zip", "zcta", "zcta5", "zip_code")
	s, okS := find("senate_district", "senate", "sldu")
	h, okH := find("house_district", "house", "sldl")
	if !okZ || !okS || !okH {
		return 0, 0, 0, fmt.Errorf("missing required columns in header %v (need zip, senate_district, house_district)", headers)
	}
	return z, s, h, nil
}

func validateRows(rows []row) error {
	if len(rows) == 0 {
		return fmt.Errorf("CSV has no data rows")
	}
	for i, r := range rows {
		if len(r.ZIP) != 5 {
			return fmt.Errorf("row %d: ZIP %q is not five digits", i+2, r.ZIP)
		}
		for _, c := range r.ZIP {
			if c < '0' || c > '9' {
				return fmt.Errorf("row %d: ZIP %q is not numeric", i+2, r.ZIP)
			}
		}
		if r.Senate < 1 || r.Senate > maxSenateDistrict {
			return fmt.Errorf("row %d: senate district %d out of range 1..%d", i+2, r.Senate, maxSenateDistrict)
		}
		if r.House < 1 || r.House > maxHouseDistrict {
			return fmt.Errorf("row %d: house district %d out of range 1..%d", i+2, r.House, maxHouseDistrict)
		}
	}
	return nil
}

func printPlan(rows []row) {
	senates := map[int]struct{}{}
	houses := map[int]struct{}{}
	for _, r := range rows {
		senates[r.Senate] = struct{}{}
		houses[r.House] = struct{}{}
	}
	fmt.Println("Plan preview:")
	fmt.Printf("  ZIP codes:               %d\n", len(rows))
	fmt.Printf("  Senate districts covered: %d of %d\n", len(senates), maxSenateDistrict)
	fmt.Printf("  House districts covered:  %d of %d\n", len(houses), maxHouseDistrict)
	fmt.Printf("  Destination: %s\n", *outPath)
}

// writeCrosswalk renders the normalized table, sorted by ZIP, through a temp
// sibling so a crash never leaves a half-written crosswalk.
func writeCrosswalk(path string, rows []row) error {
	sort.Slice(rows, func(i, j int) bool { return rows[i].ZIP < rows[j].ZIP })

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-crosswalk-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write([]string{"zip", "senate_district", "house_district"}); err != nil {
		tmp.Close()
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{r.ZIP, strconv.Itoa(r.Senate), strconv.Itoa(r.House)}); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
