// Package cache persists scraped records as flat JSON files. Bills are
// stored exactly once, keyed by leg_id; every other file references them by
// ID. Writes are atomic (temp sibling, fsync, rename) so an interrupted
// scrape never leaves a half-written file behind.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

// Common errors
var (
	// ErrMissing means the cache file does not exist. Readers that can start
	// empty treat this as an empty collection.
	ErrMissing = errors.New("cache: file missing")
	// ErrCorrupt means the file exists but does not decode.
	ErrCorrupt = errors.New("cache: file corrupt")
)

// Cache file names. scrape_metadata.json also carries resume state for the
// vote/slip scraper.
const (
	FileMembers        = "members.json"
	FileBills          = "bills.json"
	FileCommittees     = "committees.json"
	FileRosters        = "committee_rosters.json"
	FileCommitteeBills = "committee_bills.json"
	FileVoteEvents     = "vote_events.json"
	FileWitnessSlips   = "witness_slips.json"
	FileScorecards     = "scorecards.json"
	FileMoneyball      = "moneyball.json"
	FileMetadata       = "scrape_metadata.json"
)

// Metadata records scrape bookkeeping and resume state.
type Metadata struct {
	LastBillScrapeAt   time.Time        `json:"last_bill_scrape_at"`
	LastMemberScrapeAt time.Time        `json:"last_member_scrape_at"`
	LastVoteScrapeAt   time.Time        `json:"last_vote_scrape_at"`
	BillIndexCount     int              `json:"bill_index_count"`
	FetchCounters      map[string]int64 `json:"fetch_counters,omitempty"`

	// Vote/slip scraper resume state.
	VoteScanStrategy string `json:"vote_scan_strategy,omitempty"` // "linear" or "sampling"
	VoteScanCursor   int    `json:"vote_scan_cursor,omitempty"`
	VoteScanStride   int    `json:"vote_scan_stride,omitempty"`
}

// Store reads and writes the cache directory. Safe for use from the single
// writer goroutine plus any number of readers of distinct files.
type Store struct {
	dir string
}

// New creates the cache directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the cache directory path.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(name string) string { return filepath.Join(s.dir, name) }

// writeJSON writes atomically: temp sibling file, fsync, rename.
func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("cache: temp for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("cache: write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("cache: fsync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache: close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("cache: rename %s: %w", name, err)
	}
	return nil
}

func (s *Store) readJSON(name string, v any) error {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrMissing, name)
		}
		return fmt.Errorf("cache: read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, name, err)
	}
	return nil
}

// Members

func (s *Store) SaveMembers(members []*graph.Member) error {
	return s.writeJSON(FileMembers, members)
}

// LoadMembers returns the cached members, or an empty slice when the file is
// missing.
func (s *Store) LoadMembers() ([]*graph.Member, error) {
	var members []*graph.Member
	if err := s.readJSON(FileMembers, &members); err != nil {
		if errors.Is(err, ErrMissing) {
			return []*graph.Member{}, nil
		}
		return nil, err
	}
	return members, nil
}

// Bills

func (s *Store) SaveBills(bills map[string]*graph.Bill) error {
	return s.writeJSON(FileBills, bills)
}

func (s *Store) LoadBills() (map[string]*graph.Bill, error) {
	bills := map[string]*graph.Bill{}
	if err := s.readJSON(FileBills, &bills); err != nil {
		if errors.Is(err, ErrMissing) {
			return map[string]*graph.Bill{}, nil
		}
		return nil, err
	}
	return bills, nil
}

// Committees

func (s *Store) SaveCommittees(committees []*graph.Committee) error {
	return s.writeJSON(FileCommittees, committees)
}

func (s *Store) LoadCommittees() ([]*graph.Committee, error) {
	var committees []*graph.Committee
	if err := s.readJSON(FileCommittees, &committees); err != nil {
		if errors.Is(err, ErrMissing) {
			return []*graph.Committee{}, nil
		}
		return nil, err
	}
	return committees, nil
}

func (s *Store) SaveRosters(rosters map[string][]graph.CommitteeMember) error {
	return s.writeJSON(FileRosters, rosters)
}

func (s *Store) LoadRosters() (map[string][]graph.CommitteeMember, error) {
	rosters := map[string][]graph.CommitteeMember{}
	if err := s.readJSON(FileRosters, &rosters); err != nil {
		if errors.Is(err, ErrMissing) {
			return map[string][]graph.CommitteeMember{}, nil
		}
		return nil, err
	}
	return rosters, nil
}

func (s *Store) SaveCommitteeBills(assignments map[string][]string) error {
	return s.writeJSON(FileCommitteeBills, assignments)
}

func (s *Store) LoadCommitteeBills() (map[string][]string, error) {
	assignments := map[string][]string{}
	if err := s.readJSON(FileCommitteeBills, &assignments); err != nil {
		if errors.Is(err, ErrMissing) {
			return map[string][]string{}, nil
		}
		return nil, err
	}
	return assignments, nil
}

// Votes and slips

func (s *Store) SaveVoteEvents(events []*graph.VoteEvent) error {
	return s.writeJSON(FileVoteEvents, events)
}

func (s *Store) LoadVoteEvents() ([]*graph.VoteEvent, error) {
	var events []*graph.VoteEvent
	if err := s.readJSON(FileVoteEvents, &events); err != nil {
		if errors.Is(err, ErrMissing) {
			return []*graph.VoteEvent{}, nil
		}
		return nil, err
	}
	return events, nil
}

func (s *Store) SaveWitnessSlips(slips []*graph.WitnessSlip) error {
	return s.writeJSON(FileWitnessSlips, slips)
}

func (s *Store) LoadWitnessSlips() ([]*graph.WitnessSlip, error) {
	var slips []*graph.WitnessSlip
	if err := s.readJSON(FileWitnessSlips, &slips); err != nil {
		if errors.Is(err, ErrMissing) {
			return []*graph.WitnessSlip{}, nil
		}
		return nil, err
	}
	return slips, nil
}

// Analytics

func (s *Store) SaveScorecards(cards map[string]*graph.Scorecard) error {
	return s.writeJSON(FileScorecards, cards)
}

func (s *Store) LoadScorecards() (map[string]*graph.Scorecard, error) {
	cards := map[string]*graph.Scorecard{}
	if err := s.readJSON(FileScorecards, &cards); err != nil {
		if errors.Is(err, ErrMissing) {
			return map[string]*graph.Scorecard{}, nil
		}
		return nil, err
	}
	return cards, nil
}

func (s *Store) SaveMoneyball(profiles map[string]*graph.MoneyballProfile) error {
	return s.writeJSON(FileMoneyball, profiles)
}

func (s *Store) LoadMoneyball() (map[string]*graph.MoneyballProfile, error) {
	profiles := map[string]*graph.MoneyballProfile{}
	if err := s.readJSON(FileMoneyball, &profiles); err != nil {
		if errors.Is(err, ErrMissing) {
			return map[string]*graph.MoneyballProfile{}, nil
		}
		return nil, err
	}
	return profiles, nil
}

// Metadata

func (s *Store) SaveMetadata(md Metadata) error {
	return s.writeJSON(FileMetadata, md)
}

func (s *Store) LoadMetadata() (Metadata, error) {
	var md Metadata
	if err := s.readJSON(FileMetadata, &md); err != nil {
		if errors.Is(err, ErrMissing) {
			return Metadata{}, nil
		}
		return Metadata{}, err
	}
	return md, nil
}

// IsAnalyticsFresh reports whether the analytics cache postdates the member
// data it was computed from. Missing files count as stale.
func (s *Store) IsAnalyticsFresh() bool {
	membersInfo, err := os.Stat(s.path(FileMembers))
	if err != nil {
		return false
	}
	for _, name := range []string{FileScorecards, FileMoneyball} {
		info, err := os.Stat(s.path(name))
		if err != nil || info.ModTime().Before(membersInfo.ModTime()) {
			return false
		}
	}
	return true
}

// HasMembers reports whether member data exists on disk at all; the server's
// readiness check and SEED_MODE fallback both key off this.
func (s *Store) HasMembers() bool {
	info, err := os.Stat(s.path(FileMembers))
	return err == nil && info.Size() > 2
}
