package snapshot

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/playlytics/kpiengine/pkg/model"
	"github.com/sirupsen/logrus"
)

// Expected file names inside the snapshot directory.
const (
	playersFile      = "players.csv"
	sessionsFile     = "sessions.csv"
	transactionsFile = "transactions.csv"
)

// CSVProvider loads a snapshot from a directory of CSV files with header
// rows. Rows missing an ID are dropped and counted; unparseable dates become
// zero times so the resolver can count them instead of the loader guessing.
type CSVProvider struct {
	dir string
}

// NewCSVProvider creates a provider reading from dir.
func NewCSVProvider(dir string) *CSVProvider {
	return &CSVProvider{dir: dir}
}

// Load reads the three collections. A missing sessions or transactions file
// is tolerated (empty collection); a missing players file is an error since
// nothing can join without it.
func (p *CSVProvider) Load(ctx context.Context) (*model.Snapshot, error) {
	snap := &model.Snapshot{}

	if err := p.loadPlayers(snap); err != nil {
		return nil, err
	}
	if err := p.loadSessions(snap); err != nil {
		return nil, err
	}
	if err := p.loadTransactions(snap); err != nil {
		return nil, err
	}

	logrus.Infof("loaded snapshot from %s: %d players, %d sessions, %d transactions",
		p.dir, len(snap.Players), len(snap.Sessions), len(snap.Transactions))

	return snap, nil
}

func (p *CSVProvider) loadPlayers(snap *model.Snapshot) error {
	rows, header, err := p.readFile(playersFile)
	if err != nil {
		return fmt.Errorf("failed to load players: %w", err)
	}

	dropped := 0
	for _, row := range rows {
		id := field(row, header, "player_id")
		if id == "" {
			dropped++
			continue
		}
		snap.Players = append(snap.Players, model.Player{
			ID:                id,
			InstalledAt:       parseDate(field(row, header, "install_date")),
			Platform:          field(row, header, "platform"),
			Country:           field(row, header, "country"),
			AcquisitionSource: field(row, header, "acquisition_source"),
		})
	}
	if dropped > 0 {
		logrus.Warnf("dropped %d player rows without an ID from %s", dropped, playersFile)
	}
	return nil
}

func (p *CSVProvider) loadSessions(snap *model.Snapshot) error {
	rows, header, err := p.readFile(sessionsFile)
	if os.IsNotExist(err) {
		logrus.Warnf("no %s in %s, continuing with zero sessions", sessionsFile, p.dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	dropped := 0
	for _, row := range rows {
		id := field(row, header, "session_id")
		playerID := field(row, header, "player_id")
		if id == "" || playerID == "" {
			dropped++
			continue
		}
		snap.Sessions = append(snap.Sessions, model.Session{
			ID:              id,
			PlayerID:        playerID,
			Date:            parseDate(field(row, header, "session_date")),
			DurationMinutes: parseInt(field(row, header, "duration_minutes")),
		})
	}
	if dropped > 0 {
		logrus.Warnf("dropped %d session rows without IDs from %s", dropped, sessionsFile)
	}
	return nil
}

func (p *CSVProvider) loadTransactions(snap *model.Snapshot) error {
	rows, header, err := p.readFile(transactionsFile)
	if os.IsNotExist(err) {
		logrus.Warnf("no %s in %s, continuing with zero transactions", transactionsFile, p.dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}

	dropped := 0
	for _, row := range rows {
		id := field(row, header, "transaction_id")
		playerID := field(row, header, "player_id")
		if id == "" || playerID == "" {
			dropped++
			continue
		}
		snap.Transactions = append(snap.Transactions, model.Transaction{
			ID:       id,
			PlayerID: playerID,
			Date:     parseDate(field(row, header, "transaction_date")),
			Amount:   parseFloat(field(row, header, "amount")),
		})
	}
	if dropped > 0 {
		logrus.Warnf("dropped %d transaction rows without IDs from %s", dropped, transactionsFile)
	}
	return nil
}

// readFile reads a whole CSV file and returns its data rows and a
// column-name → index map built from the header row.
func (p *CSVProvider) readFile(name string) ([][]string, map[string]int, error) {
	f, err := os.Open(filepath.Join(p.dir, name))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	headerRow, err := r.Read()
	if err == io.EOF {
		return nil, map[string]int{}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header of %s: %w", name, err)
	}

	header := make(map[string]int, len(headerRow))
	for i, col := range headerRow {
		header[strings.ToLower(strings.TrimSpace(col))] = i
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return rows, header, nil
}

// field returns the named column of a row, empty when absent.
func field(row []string, header map[string]int, name string) string {
	idx, ok := header[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// dateLayouts are tried in order when parsing date fields.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// parseDate parses a date field, returning the zero time for blank or
// unparseable values so downstream stages count them as anomalies.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	logrus.Debugf("unparseable date %q", s)
	return time.Time{}
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
