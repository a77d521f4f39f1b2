package session

import (
	"context"
	"fmt"

	"github.com/Lingikaushikreddy/nova-matches/internal/logger"
	"github.com/Lingikaushikreddy/nova-matches/internal/match"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the lifecycle of one match session.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Loader produces the full record set for a resume.
type Loader interface {
	Enrich(ctx context.Context, resumeID string) (*match.Records, error)
}

// Session owns one resume's match view: the loaded record set plus the
// current filter and sort selection. Filtering and sorting never touch
// the loaded set, so changing them is always recoverable.
type Session struct {
	id       string
	resumeID string
	loader   Loader
	logger   *zap.Logger

	state   State
	loadErr error
	all     *match.Records
	filters *match.Filters
	sort    match.SortMode
}

// View is a snapshot for presentation: the visible records after the
// session's filters and sort, plus the summary counters the header shows.
type View struct {
	State         State
	Err           error
	Matches       *match.Records
	Total         int
	ActiveFilters int
	MissingSkills []string
}

func New(resumeID string, loader Loader, log *zap.Logger) *Session {
	id := uuid.NewString()

	return &Session{
		id:       id,
		resumeID: resumeID,
		loader:   loader,
		logger:   logger.WithSessionFields(log, id, resumeID),
		state:    StateLoading,
		all:      &match.Records{},
		filters:  match.Defaults(),
		sort:     match.SortBestMatch,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) ResumeID() string {
	return s.resumeID
}

func (s *Session) State() State {
	return s.state
}

// Err returns the failure that put the session into the error state.
func (s *Session) Err() error {
	return s.loadErr
}

// Load fetches and enriches the session's matches. A failure leaves the
// previously loaded records untouched.
func (s *Session) Load(ctx context.Context) error {
	s.state = StateLoading
	s.loadErr = nil

	s.logger.Info("loading matches")

	records, err := s.loader.Enrich(ctx, s.resumeID)
	if err != nil {
		s.state = StateError
		s.loadErr = err
		s.logger.Error("loading matches failed", zap.Error(err))

		return err
	}

	s.state = StateReady
	s.all = records
	s.logger.Info("matches loaded", zap.Int("count", records.Len()))

	return nil
}

// Retry re-runs a failed load. It refuses to run in any other state so a
// ready session cannot be reloaded by accident.
func (s *Session) Retry(ctx context.Context) error {
	if s.state != StateError {
		return fmt.Errorf("retry is only available after a failed load, session is %s", s.state)
	}

	return s.Load(ctx)
}

func (s *Session) SetFilters(f *match.Filters) error {
	if f == nil {
		f = match.Defaults()
	}
	if err := f.Validate(); err != nil {
		return err
	}

	s.filters = f
	s.logger.Debug("filters updated", zap.Int("active", f.ActiveCount()))

	return nil
}

func (s *Session) Filters() *match.Filters {
	return s.filters
}

func (s *Session) SetSort(mode string) error {
	parsed, err := match.ParseSortMode(mode)
	if err != nil {
		return err
	}

	s.sort = parsed
	s.logger.Debug("sort updated", zap.String("sort", string(parsed)))

	return nil
}

func (s *Session) Sort() match.SortMode {
	return s.sort
}

// View applies the current filters and sort to the loaded records. The
// skill gap summary always covers the full loaded set, not the visible
// slice.
func (s *Session) View() *View {
	view := &View{
		State:         s.state,
		Err:           s.loadErr,
		Total:         s.all.Len(),
		ActiveFilters: s.filters.ActiveCount(),
		MissingSkills: s.all.MissingSkillSet(),
	}

	view.Matches = s.all.Filter(s.filters).Sorted(s.sort)

	return view
}
