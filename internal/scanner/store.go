package scanner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/minhtn89/jshound/internal/shared/constants"
	sharedErrors "github.com/minhtn89/jshound/internal/shared/errors"
	"github.com/minhtn89/jshound/internal/shared/security"
)

// Store persists scan reports as JSON files under a results directory, one
// subdirectory per root domain, one timestamped file per scan. The newest
// file is the domain's current report.
type Store struct {
	mu   sync.Mutex
	root string
}

// NewStore creates a report store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: results directory", sharedErrors.ErrMissingRequired)
	}
	if err := os.MkdirAll(dir, constants.DefaultDirPerm); err != nil {
		return nil, fmt.Errorf("create results directory: %w", err)
	}
	return &Store{root: dir}, nil
}

// Save writes the report and returns the path it was written to.
func (s *Store) Save(report *Report) (string, error) {
	if report == nil || report.RootDomain == "" {
		return "", fmt.Errorf("%w: report with root domain", sharedErrors.ErrMissingRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Domain names come from caller input and become directory names.
	dir, err := security.ResolveWithin(s.root, report.RootDomain)
	if err != nil {
		return "", fmt.Errorf("%w: %v", sharedErrors.ErrInvalidDomain, err)
	}
	if err := os.MkdirAll(dir, constants.DefaultDirPerm); err != nil {
		return "", fmt.Errorf("%w: %v", sharedErrors.ErrRepositoryOperation, err)
	}

	stamp := report.CompletedAt
	if stamp.IsZero() {
		stamp = time.Now().UTC()
	}
	path := filepath.Join(dir, fmt.Sprintf("report-%s.json", stamp.Format("20060102T150405Z")))

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: %v", sharedErrors.ErrSerializationFailed, err)
	}
	if err := os.WriteFile(path, data, constants.DefaultFilePerm); err != nil {
		return "", fmt.Errorf("%w: %v", sharedErrors.ErrRepositoryOperation, err)
	}
	return path, nil
}

// LoadLatest returns the most recent report stored for rootDomain.
func (s *Store) LoadLatest(rootDomain string) (*Report, error) {
	rootDomain = NormalizeDomain(rootDomain)
	if rootDomain == "" {
		return nil, sharedErrors.ErrEmptyDomain
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := security.ResolveWithin(s.root, rootDomain)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sharedErrors.ErrInvalidDomain, err)
	}
	matches, err := filepath.Glob(filepath.Join(dir, "report-*.json"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sharedErrors.ErrRepositoryOperation, err)
	}
	if len(matches) == 0 {
		return nil, sharedErrors.ErrReportNotFound
	}

	// Timestamped names sort chronologically.
	sort.Strings(matches)
	path := matches[len(matches)-1]

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sharedErrors.ErrRepositoryOperation, err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", sharedErrors.ErrReportCorrupted, path, err)
	}
	return &report, nil
}

// ListDomains returns the root domains with at least one stored report.
func (s *Store) ListDomains() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sharedErrors.ErrRepositoryOperation, err)
	}

	domains := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(s.root, entry.Name(), "report-*.json"))
		if err != nil || len(matches) == 0 {
			continue
		}
		domains = append(domains, entry.Name())
	}
	sort.Strings(domains)
	return domains, nil
}
