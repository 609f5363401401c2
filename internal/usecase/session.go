// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/naka-gawa/top-repos/internal/console"
	"github.com/naka-gawa/top-repos/internal/domain"
	"github.com/naka-gawa/top-repos/internal/gateway"
	"github.com/naka-gawa/top-repos/internal/view"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	sincePrompt = "Enter the start date (YYYY-MM-DD):"
	untilPrompt = "Enter the end date (YYYY-MM-DD):"

	defaultConcurrency = 4
)

// DateRange is the since/until pair of an activity query. The values are
// sent to the server as given.
type DateRange struct {
	Since string
	Until string
}

// Session binds the repository list loader and the commit activity loader
// to one view model.
type Session struct {
	fetcher     gateway.Fetcher
	list        *view.List
	prompter    console.Prompter
	alerter     console.Alerter
	logger      *logrus.Entry
	inflight    singleflight.Group
	concurrency int

	// joined, when set, runs once a caller is registered with the in-flight
	// request for its key.
	joined func(id string)
}

// NewSession creates a new Session instance.
func NewSession(fetcher gateway.Fetcher, list *view.List, prompter console.Prompter, alerter console.Alerter, logger *logrus.Entry) *Session {
	return &Session{
		fetcher:     fetcher,
		list:        list,
		prompter:    prompter,
		alerter:     alerter,
		logger:      logger.WithField("component", "session"),
		concurrency: defaultConcurrency,
	}
}

// SetConcurrency bounds the number of activity requests LoadActivityAll
// keeps in flight. Values below one are ignored.
func (s *Session) SetConcurrency(n int) {
	if n > 0 {
		s.concurrency = n
	}
}

// List returns the view model the session renders into.
func (s *Session) List() *view.List {
	return s.list
}

// LoadRepositories clears the list and fills it from the top repositories
// endpoint. On failure the list stays empty and the error is alerted.
func (s *Session) LoadRepositories(ctx context.Context) error {
	s.logger.Debug("Usecase: Loading top repositories...")
	s.list.Reset()

	repos, err := s.fetcher.FetchTopRepositories(ctx)
	if err != nil {
		s.fail("Error fetching repositories", err)
		return err
	}
	for _, repo := range repos {
		s.list.Add(repo)
	}
	s.logger.Debugf("Usecase: Loaded %d repositories.", len(repos))
	return nil
}

// LoadActivity fetches commit activity for the identifier and appends it to
// the matching list item. When dates is nil both dates are prompted for.
// It reports whether a block was appended; a response for an identifier
// that is not listed is discarded without error.
//
// Identical calls that overlap share one request and append one block.
func (s *Session) LoadActivity(ctx context.Context, id string, dates *DateRange) (bool, error) {
	rng, err := s.resolveRange(ctx, dates)
	if err != nil {
		s.fail("Error reading date range", err)
		return false, err
	}

	key := id + "\x00" + rng.Since + "\x00" + rng.Until
	ch := s.inflight.DoChan(key, func() (interface{}, error) {
		return s.loadActivity(ctx, id, rng)
	})
	if s.joined != nil {
		s.joined(id)
	}

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-ch:
		if res.Shared {
			s.logger.WithField("repo", id).Debug("Usecase: Shared an in-flight activity request.")
		}
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	}
}

// LoadActivityAll loads activity for every listed repository with one shared
// date range. A failing repository is alerted on its own and does not stop
// the others; the joined errors are returned.
func (s *Session) LoadActivityAll(ctx context.Context, dates *DateRange) error {
	rng, err := s.resolveRange(ctx, dates)
	if err != nil {
		s.fail("Error reading date range", err)
		return err
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	eg := new(errgroup.Group)
	eg.SetLimit(s.concurrency)
	for _, id := range s.list.Identifiers() {
		eg.Go(func() error {
			if _, err := s.LoadActivity(ctx, id, &rng); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()
	return errors.Join(errs...)
}

func (s *Session) loadActivity(ctx context.Context, id string, rng DateRange) (bool, error) {
	log := s.logger.WithField("repo", id)

	owner, repo, err := domain.SplitIdentifier(id)
	if err != nil {
		s.fail("Error fetching commit activity", err)
		return false, err
	}

	entries, err := s.fetcher.FetchCommitActivity(ctx, owner, repo, rng.Since, rng.Until)
	if err != nil {
		s.fail("Error fetching commit activity", err)
		return false, err
	}

	block := view.ActivityBlock{Since: rng.Since, Until: rng.Until, Entries: entries}
	if summary, err := domain.Summarize(entries); err != nil {
		log.WithError(err).Warn("Usecase: Could not summarize activity.")
	} else {
		block.Summary = &summary
	}

	if !s.list.AppendActivity(id, block) {
		log.Debug("Usecase: No list item for repository, discarding activity.")
		return false, nil
	}
	log.Debugf("Usecase: Appended %d activity entries.", len(entries))
	return true, nil
}

func (s *Session) resolveRange(ctx context.Context, dates *DateRange) (DateRange, error) {
	if dates != nil {
		return *dates, nil
	}
	since, err := s.prompter.Prompt(ctx, sincePrompt)
	if err != nil {
		return DateRange{}, err
	}
	until, err := s.prompter.Prompt(ctx, untilPrompt)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Since: since, Until: until}, nil
}

// fail logs a diagnostic and alerts the user. HTTP failures also log the
// requested URL.
func (s *Session) fail(msg string, err error) {
	log := s.logger.WithError(err)
	var httpErr *gateway.HTTPError
	if errors.As(err, &httpErr) {
		log = log.WithFields(logrus.Fields{"status": httpErr.StatusCode, "url": httpErr.URL})
	}
	log.Error(msg)
	s.alerter.Alert(err)
}
