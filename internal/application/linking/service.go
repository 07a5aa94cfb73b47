// Package linking runs the account matcher over stored accounts and
// exposes the results to the API and CLI layers.
package linking

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ledgerline/ledgerline-backend/internal/domain/accounts"
	"github.com/ledgerline/ledgerline-backend/internal/domain/matcher"
	"github.com/ledgerline/ledgerline-backend/internal/infrastructure/config"
	"github.com/ledgerline/ledgerline-backend/internal/infrastructure/storage"
	"github.com/ledgerline/ledgerline-backend/internal/observability"
)

const (
	// DefaultShardThreshold is the manual-account count above which a
	// matching run is split across goroutines.
	DefaultShardThreshold = 200

	// listPageSize is how many accounts are fetched per storage page
	// when loading a full side for matching.
	listPageSize = 500
)

// MatchOptions controls a matching run.
type MatchOptions struct {
	// ExcludeLinkedIDs drops matches whose linked account has already
	// been claimed by an earlier confirmation.
	ExcludeLinkedIDs []string
}

// Service loads both account sides from storage and runs the matcher.
type Service struct {
	storage        storage.Repository
	matcher        *matcher.Matcher
	metrics        *observability.Metrics
	logger         *slog.Logger
	shardThreshold int
}

// NewService creates a linking service. metrics may be nil.
func NewService(store storage.Repository, cfg config.MatchingConfig, metrics *observability.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	threshold := cfg.ShardThreshold
	if threshold <= 0 {
		threshold = DefaultShardThreshold
	}
	return &Service{
		storage:        store,
		matcher:        matcher.NewMatcher(MatcherConfig(cfg)),
		metrics:        metrics,
		logger:         logger,
		shardThreshold: threshold,
	}
}

// MatcherConfig converts the application matching config into matcher
// weights, falling back to the defaults when the section is absent.
func MatcherConfig(cfg config.MatchingConfig) matcher.Config {
	if cfg.IsZero() {
		return matcher.DefaultConfig()
	}
	return matcher.Config{
		InstitutionWeight:   cfg.InstitutionWeight,
		AccountNumberWeight: cfg.AccountNumberWeight,
		TypeWeight:          cfg.TypeWeight,
		MinScore:            cfg.MinScore,
	}
}

// Matches loads all manual and linked accounts and returns the proposed
// pairs, highest score first.
func (s *Service) Matches(ctx context.Context, opts MatchOptions) ([]matcher.AccountMatch, error) {
	manual, linked, err := s.loadSides()
	if err != nil {
		return nil, err
	}
	return s.run(ctx, manual, linked, opts.ExcludeLinkedIDs)
}

// BestMatch returns the highest-scoring candidate for one manual
// account, or nil when the ID is unknown or nothing qualifies.
func (s *Service) BestMatch(ctx context.Context, manualAccountID string, excludeLinkedIDs []string) (*matcher.AccountMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manual, linked, err := s.loadSides()
	if err != nil {
		return nil, err
	}

	if len(excludeLinkedIDs) == 0 {
		return s.matcher.BestMatchForAccount(manualAccountID, manual, linked), nil
	}

	candidates := s.matcher.FindAccountMatches(selectAccount(manual, manualAccountID), linked)
	candidates = matcher.FilterMatchedAccounts(candidates, excludeLinkedIDs)
	if len(candidates) == 0 {
		return nil, nil
	}
	return &candidates[0], nil
}

// Preview runs the matcher over caller-supplied accounts without
// touching storage. Used by the preview endpoint and the CLI when
// matching fixture files.
func (s *Service) Preview(ctx context.Context, manual, linked []*accounts.Account, excludeLinkedIDs []string) ([]matcher.AccountMatch, error) {
	return s.run(ctx, manual, linked, excludeLinkedIDs)
}

func (s *Service) run(ctx context.Context, manual, linked []*accounts.Account, excludeLinkedIDs []string) ([]matcher.AccountMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	var matches []matcher.AccountMatch
	if len(manual) >= s.shardThreshold {
		sharded, err := s.findSharded(ctx, manual, linked)
		if err != nil {
			return nil, err
		}
		matches = sharded
	} else {
		matches = s.matcher.FindAccountMatches(manual, linked)
	}

	matches = matcher.FilterMatchedAccounts(matches, excludeLinkedIDs)

	duration := time.Since(start)
	s.metrics.ObserveRun(len(matches), duration)
	for _, match := range matches {
		s.metrics.ObserveScore(match.Score)
	}

	s.logger.Debug("matching run completed",
		"manual", len(manual),
		"linked", len(linked),
		"matches", len(matches),
		"excluded", len(excludeLinkedIDs),
		"duration", duration,
	)

	return matches, nil
}

// findSharded splits the manual side across goroutines, scoring each
// shard against the full linked side. Concatenating shard results in
// shard order and stable-sorting by score reproduces the sequential
// output exactly, including tie order.
func (s *Service) findSharded(ctx context.Context, manual, linked []*accounts.Account) ([]matcher.AccountMatch, error) {
	shards := shardAccounts(manual, s.shardThreshold)
	results := make([][]matcher.AccountMatch, len(shards))

	g, ctx := errgroup.WithContext(ctx)
	for i, shard := range shards {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.matcher.FindAccountMatches(shard, linked)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []matcher.AccountMatch
	for _, shardMatches := range results {
		merged = append(merged, shardMatches...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	return merged, nil
}

// loadSides pages through storage to fetch every account on each side.
func (s *Service) loadSides() (manual, linked []*accounts.Account, err error) {
	manual, err = s.listSide(true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load manual accounts: %w", err)
	}
	linked, err = s.listSide(false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load linked accounts: %w", err)
	}
	return manual, linked, nil
}

func (s *Service) listSide(isManual bool) ([]*accounts.Account, error) {
	var all []*accounts.Account
	offset := 0
	for {
		page, err := s.storage.ListAccounts(storage.AccountFilters{
			IsManual: &isManual,
			Limit:    listPageSize,
			Offset:   offset,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, page.Accounts...)
		offset += len(page.Accounts)
		if len(page.Accounts) == 0 || offset >= page.TotalCount {
			return all, nil
		}
	}
}

func shardAccounts(accts []*accounts.Account, shardSize int) [][]*accounts.Account {
	var shards [][]*accounts.Account
	for start := 0; start < len(accts); start += shardSize {
		end := start + shardSize
		if end > len(accts) {
			end = len(accts)
		}
		shards = append(shards, accts[start:end])
	}
	return shards
}

func selectAccount(accts []*accounts.Account, id string) []*accounts.Account {
	for _, a := range accts {
		if a.ID == id {
			return []*accounts.Account{a}
		}
	}
	return nil
}
