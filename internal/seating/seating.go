// Package seating applies the Senate seat chart to the graph: which
// senators sit next to each other, and how often a senator's bills pick up
// a seatmate as co-sponsor. House members carry no seating data.
package seating

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

// Seat is one chair on the chamber floor, keyed by Senate district. Left and
// Right are neighbor districts within the same block; zero means the seat
// borders an aisle on that side. Neighbors never cross an aisle.
type Seat struct {
	District int
	Block    string
	Ring     string // "inner" or "outer"
	Left     int
	Right    int
}

// Chart is a full floor assignment.
type Chart map[int]Seat

// blockWidth is how many seats sit between aisles in the default layout.
const blockWidth = 5

// DefaultChart lays the 59 Senate districts into contiguous five-seat
// blocks. It stands in for the real chart in dev; production loads a CSV.
func DefaultChart() Chart {
	chart := Chart{}
	for d := 1; d <= 59; d++ {
		idx := d - 1
		block := string(rune('A' + idx/blockWidth))
		ring := "outer"
		if (idx/blockWidth)%2 == 1 {
			ring = "inner"
		}
		seat := Seat{District: d, Block: block, Ring: ring}
		if idx%blockWidth != 0 {
			seat.Left = d - 1
		}
		if idx%blockWidth != blockWidth-1 && d < 59 {
			seat.Right = d + 1
		}
		chart[d] = seat
	}
	return chart
}

// ParseChartCSV reads a seat chart: district,block,ring,left,right.
func ParseChartCSV(r io.Reader) (Chart, error) {
	chart := Chart{}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 5
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("seating: read chart: %w", err)
	}
	for i, row := range rows {
		if i == 0 && row[0] == "district" {
			continue // header
		}
		district, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("seating: row %d: bad district %q", i, row[0])
		}
		left, _ := strconv.Atoi(row[3])
		right, _ := strconv.Atoi(row[4])
		chart[district] = Seat{District: district, Block: row[1], Ring: row[2], Left: left, Right: right}
	}
	if err := validate(chart); err != nil {
		return nil, err
	}
	return chart, nil
}

// validate enforces the Aisle Rule structurally: a neighbor must exist and
// share the seat's block.
func validate(chart Chart) error {
	for d, seat := range chart {
		for _, n := range []int{seat.Left, seat.Right} {
			if n == 0 {
				continue
			}
			other, ok := chart[n]
			if !ok {
				return fmt.Errorf("seating: district %d lists unknown neighbor %d", d, n)
			}
			if other.Block != seat.Block {
				return fmt.Errorf("seating: district %d neighbor %d crosses an aisle", d, n)
			}
		}
	}
	return nil
}

// Apply writes seat block, ring, seatmate names and seatmate affinity onto
// every senator in the graph. Affinity is the fraction of the senator's
// primary substantive bills co-sponsored by at least one seatmate, the
// "whisper network" signal.
func Apply(g *graph.Graph, chart Chart) {
	for _, m := range g.ChamberMembers(graph.ChamberSenate) {
		seat, ok := chart[m.District]
		if !ok {
			continue
		}
		m.SeatBlockID = seat.Block
		m.SeatRing = seat.Ring

		var seatmates []*graph.Member
		m.SeatmateNames = nil
		for _, d := range []int{seat.Left, seat.Right} {
			if d == 0 {
				continue
			}
			if neighbor, ok := g.MemberDistrict(graph.ChamberSenate, d); ok {
				seatmates = append(seatmates, neighbor)
				m.SeatmateNames = append(m.SeatmateNames, neighbor.Name)
			}
		}

		affinity := seatmateAffinity(g, m, seatmates)
		m.SeatmateAffinity = &affinity
	}
}

func seatmateAffinity(g *graph.Graph, m *graph.Member, seatmates []*graph.Member) float64 {
	mateIDs := map[string]bool{}
	for _, s := range seatmates {
		mateIDs[s.MemberID] = true
	}

	eligible, whispered := 0, 0
	for _, b := range g.PrimaryBillsOf(m.MemberID) {
		if !b.IsSubstantive() {
			continue
		}
		eligible++
		for _, id := range b.CoSponsorIDs() {
			if mateIDs[id] {
				whispered++
				break
			}
		}
	}
	if eligible == 0 {
		return 0
	}
	return float64(whispered) / float64(eligible)
}
