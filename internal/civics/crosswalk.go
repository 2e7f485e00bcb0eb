// Package civics maps constituents to their legislators: the ZIP->district
// crosswalk and the advocacy target selector built on top of it.
package civics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ErrZIPNotFound means the ZIP is well-formed but absent from the crosswalk.
var ErrZIPNotFound = errors.New("civics: zip not in crosswalk")

// ErrBadZIP means the input is not a five-digit ZIP.
var ErrBadZIP = errors.New("civics: zip must be five digits")

// Districts is the pair of state legislative districts covering a ZIP.
type Districts struct {
	Senate int `json:"senate_district"`
	House  int `json:"house_district"`
}

// Crosswalk resolves ZIP codes to districts from a preloaded table. Lookups
// never touch the network.
type Crosswalk struct {
	byZIP map[string]Districts
}

// Lookup resolves a five-digit ZIP.
func (c *Crosswalk) Lookup(zip string) (Districts, error) {
	if len(zip) != 5 {
		return Districts{}, ErrBadZIP
	}
	for _, r := range zip {
		if r < '0' || r > '9' {
			return Districts{}, ErrBadZIP
		}
	}
	d, ok := c.byZIP[zip]
	if !ok {
		return Districts{}, fmt.Errorf("%w: %s", ErrZIPNotFound, zip)
	}
	return d, nil
}

// Len reports how many ZIPs the crosswalk covers.
func (c *Crosswalk) Len() int { return len(c.byZIP) }

// NewCrosswalkFromCSV reads rows of zip,senate_district,house_district.
// A ZIP spanning multiple districts keeps its first row; ILGA advocacy
// targets the dominant district.
func NewCrosswalkFromCSV(r io.Reader) (*Crosswalk, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("civics: read crosswalk: %w", err)
	}
	c := &Crosswalk{byZIP: make(map[string]Districts, len(rows))}
	for i, row := range rows {
		if i == 0 && row[0] == "zip" {
			continue
		}
		senate, err1 := strconv.Atoi(row[1])
		house, err2 := strconv.Atoi(row[2])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("civics: crosswalk row %d: bad district numbers %v", i, row)
		}
		if _, dup := c.byZIP[row[0]]; dup {
			continue
		}
		c.byZIP[row[0]] = Districts{Senate: senate, House: house}
	}
	return c, nil
}

// LoadCrosswalk reads the bundled CSV, falling back to the dev seed table
// when the file is absent.
func LoadCrosswalk(path string) (*Crosswalk, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DevCrosswalk(), nil
		}
		return nil, fmt.Errorf("civics: open crosswalk: %w", err)
	}
	defer f.Close()
	return NewCrosswalkFromCSV(f)
}

// DevCrosswalk is a small hardcoded seed covering Chicago-area test ZIPs.
func DevCrosswalk() *Crosswalk {
	return &Crosswalk{byZIP: map[string]Districts{
		"60657": {Senate: 6, House: 12},
		"60614": {Senate: 6, House: 12},
		"60601": {Senate: 3, House: 5},
		"60622": {Senate: 2, House: 4},
		"62701": {Senate: 48, House: 96},
		"61801": {Senate: 52, House: 103},
		"60201": {Senate: 9, House: 18},
		"60605": {Senate: 3, House: 6},
		"62226": {Senate: 57, House: 113},
		"61101": {Senate: 34, House: 67},
	}}
}
