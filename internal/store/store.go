package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go-jobhunter/internal/models"
)

const (
	FoundFile    = "found_opportunities.json"
	ApprovedFile = "approved.json"
	RefusedFile  = "refused.json"
	SentFile     = "sent_emails.json"
)

var ErrNotFound = errors.New("opportunity not found")

// Observer is notified after an approval or refusal has been written.
type Observer interface {
	OnDecision(ctx context.Context, opp models.Opportunity, decision models.Decision) error
}

type Stats struct {
	Found    int `json:"found"`
	Refused  int `json:"refused"`
	Approved int `json:"approved"`
	Sent     int `json:"sent"`
}

// Store keeps the four collections as JSON arrays in one directory.
// Every mutation rewrites the whole file under a single mutex.
type Store struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(dir string, opts ...Option) *Store {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("⚠️ Failed to create data directory: %v", err)
	}
	s := &Store{
		dir: dir,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Dir() string {
	return s.dir
}

// Fingerprint identifies an opportunity by title, company and location,
// trimmed and lower-cased. The URL is deliberately not part of it.
func Fingerprint(opp models.Opportunity) string {
	raw := strings.ToLower(strings.TrimSpace(opp.Title)) + "|" +
		strings.ToLower(strings.TrimSpace(opp.Company)) + "|" +
		strings.ToLower(strings.TrimSpace(opp.Location))
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func (s *Store) LoadFound() []models.Opportunity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadOpps(FoundFile)
}

func (s *Store) LoadApproved() []models.Opportunity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadOpps(ApprovedFile)
}

func (s *Store) LoadRefused() []models.Opportunity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadOpps(RefusedFile)
}

func (s *Store) LoadSent() []models.SentEmail {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sent []models.SentEmail
	s.load(SentFile, &sent)
	if sent == nil {
		sent = []models.SentEmail{}
	}
	return sent
}

// SaveOpportunity stamps found_at and the fingerprint, then appends the
// record unless one with the same fingerprint or non-empty URL exists.
// It reports whether the record was new.
func (s *Store) SaveOpportunity(opp models.Opportunity) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := s.loadOpps(FoundFile)

	now := s.stamp()
	opp.FoundAt = &now
	opp.Fingerprint = Fingerprint(opp)

	for _, existing := range found {
		if existing.Fingerprint == opp.Fingerprint {
			return false, nil
		}
		if opp.URL != "" && existing.URL == opp.URL {
			return false, nil
		}
	}

	found = append(found, opp)
	if err := s.save(FoundFile, found); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateFound replaces the found collection.
func (s *Store) UpdateFound(opps []models.Opportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if opps == nil {
		opps = []models.Opportunity{}
	}
	return s.save(FoundFile, opps)
}

// MergeFound writes next as the found collection, reconciled against base,
// the snapshot next was derived from. Records removed from found since base
// was loaded stay removed and records added since then are kept.
func (s *Store) MergeFound(base, next []models.Opportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.loadOpps(FoundFile)

	inBase := make(map[string]bool, len(base))
	for _, opp := range base {
		inBase[foundKey(opp)] = true
	}
	inCurrent := make(map[string]bool, len(current))
	for _, opp := range current {
		inCurrent[foundKey(opp)] = true
	}

	out := make([]models.Opportunity, 0, len(next))
	for _, opp := range next {
		key := foundKey(opp)
		if inBase[key] && !inCurrent[key] {
			continue
		}
		out = append(out, opp)
	}
	for _, opp := range current {
		if !inBase[foundKey(opp)] {
			out = append(out, opp)
		}
	}
	return s.save(FoundFile, out)
}

func foundKey(opp models.Opportunity) string {
	if opp.Fingerprint != "" {
		return opp.Fingerprint
	}
	return Fingerprint(opp)
}

func (s *Store) FindFound(fingerprint string) (models.Opportunity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, opp := range s.loadOpps(FoundFile) {
		if opp.Fingerprint == fingerprint {
			return opp, nil
		}
	}
	return models.Opportunity{}, ErrNotFound
}

// RemoveFound deletes every found record carrying the fingerprint.
func (s *Store) RemoveFound(fingerprint string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeFound(fingerprint)
}

func (s *Store) removeFound(fingerprint string) (bool, error) {
	found := s.loadOpps(FoundFile)
	kept := found[:0]
	for _, opp := range found {
		if opp.Fingerprint != fingerprint {
			kept = append(kept, opp)
		}
	}
	if len(kept) == len(found) {
		return false, nil
	}
	return true, s.save(FoundFile, kept)
}

// AddApproved appends to the approved store and then notifies observers.
func (s *Store) AddApproved(ctx context.Context, opp models.Opportunity, observers ...Observer) (models.Opportunity, error) {
	return s.addDecision(ctx, opp, models.DecisionApproved, observers)
}

// AddRefused appends to the refused store and then notifies observers.
func (s *Store) AddRefused(ctx context.Context, opp models.Opportunity, observers ...Observer) (models.Opportunity, error) {
	return s.addDecision(ctx, opp, models.DecisionRefused, observers)
}

func (s *Store) addDecision(ctx context.Context, opp models.Opportunity, decision models.Decision, observers []Observer) (models.Opportunity, error) {
	s.mu.Lock()
	opp, err := s.appendDecision(opp, decision)
	s.mu.Unlock()
	if err != nil {
		return opp, err
	}
	notify(ctx, opp, decision, observers)
	return opp, nil
}

func (s *Store) appendDecision(opp models.Opportunity, decision models.Decision) (models.Opportunity, error) {
	file := ApprovedFile
	now := s.stamp()
	if decision == models.DecisionRefused {
		file = RefusedFile
		opp.RefusedAt = &now
	} else {
		opp.ApprovedAt = &now
	}
	if opp.Fingerprint == "" {
		opp.Fingerprint = Fingerprint(opp)
	}

	list := s.loadOpps(file)
	list = append(list, opp)
	return opp, s.save(file, list)
}

func notify(ctx context.Context, opp models.Opportunity, decision models.Decision, observers []Observer) {
	for _, o := range observers {
		if o == nil {
			continue
		}
		if err := o.OnDecision(ctx, opp, decision); err != nil {
			log.Printf("⚠️ Decision observer failed for %q: %v", opp.Title, err)
		}
	}
}

// AddSent logs an email sent for an opportunity.
func (s *Store) AddSent(opp models.Opportunity, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sent []models.SentEmail
	s.load(SentFile, &sent)
	sent = append(sent, models.SentEmail{Job: opp, Email: email, SentAt: s.stamp()})
	return s.save(SentFile, sent)
}

func (s *Store) ClearFound() error {
	return s.UpdateFound(nil)
}

// DropRefused removes found records whose fingerprint is in the refused
// store and returns how many were removed. Running it twice removes nothing
// the second time.
func (s *Store) DropRefused() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	refused := s.loadOpps(RefusedFile)
	if len(refused) == 0 {
		return 0, nil
	}
	blocked := make(map[string]struct{}, len(refused))
	for _, r := range refused {
		if r.Fingerprint != "" {
			blocked[r.Fingerprint] = struct{}{}
		}
	}

	found := s.loadOpps(FoundFile)
	kept := make([]models.Opportunity, 0, len(found))
	for _, opp := range found {
		if _, ok := blocked[opp.Fingerprint]; !ok {
			kept = append(kept, opp)
		}
	}

	removed := len(found) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.save(FoundFile, kept); err != nil {
		return 0, err
	}
	log.Printf("🧹 Removed %d refused opportunities, %d remaining", removed, len(kept))
	return removed, nil
}

// DropDuplicates keeps the first record per fingerprint. Records without a
// fingerprint are dropped too.
func (s *Store) DropDuplicates() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := s.loadOpps(FoundFile)
	seen := make(map[string]struct{}, len(found))
	unique := make([]models.Opportunity, 0, len(found))
	for _, opp := range found {
		if opp.Fingerprint == "" {
			continue
		}
		if _, ok := seen[opp.Fingerprint]; ok {
			continue
		}
		seen[opp.Fingerprint] = struct{}{}
		unique = append(unique, opp)
	}

	dupes := len(found) - len(unique)
	if dupes == 0 {
		return 0, nil
	}
	if err := s.save(FoundFile, unique); err != nil {
		return 0, err
	}
	log.Printf("🧹 Removed %d duplicate opportunities, %d unique remaining", dupes, len(unique))
	return dupes, nil
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sent []json.RawMessage
	s.load(SentFile, &sent)
	return Stats{
		Found:    len(s.loadOpps(FoundFile)),
		Refused:  len(s.loadOpps(RefusedFile)),
		Approved: len(s.loadOpps(ApprovedFile)),
		Sent:     len(sent),
	}
}

func (s *Store) stamp() time.Time {
	return s.now().UTC()
}

func (s *Store) loadOpps(name string) []models.Opportunity {
	var opps []models.Opportunity
	s.load(name, &opps)
	if opps == nil {
		opps = []models.Opportunity{}
	}
	return opps
}

// load decodes a JSON array. Missing files are empty; unreadable or corrupt
// files are logged and treated as empty.
func (s *Store) load(name string, v any) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read %s: %v", name, err)
		}
		return
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("⚠️ Could not parse %s, treating it as empty: %v", name, err)
	}
}

// save writes to a temp file and renames it over the target.
func (s *Store) save(name string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
