// Package engine is the facade the CLI and TUI drive: free-text analysis
// and the single active questionnaire session.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/symcheck/internal/assessment"
	"github.com/abhisek/symcheck/internal/logger"
	"github.com/abhisek/symcheck/internal/store"
	"github.com/abhisek/symcheck/internal/symptom"
	"github.com/abhisek/symcheck/internal/triage"
)

// ErrInactiveSession indicates a mutating call on a session that is no
// longer the active one.
var ErrInactiveSession = errors.New("session is not the active session")

// Recorder receives finished results. store.ResultRepo satisfies it.
type Recorder interface {
	AppendResult(ctx context.Context, rec store.ResultRecord) error
}

// Options configures an Engine.
type Options struct {
	Matcher *symptom.Matcher
	Catalog *assessment.Catalog

	// Thresholds classifies questionnaire totals. Independent of the
	// matcher's urgency table.
	Thresholds triage.ThresholdTable
	Advice     assessment.AdviceSet // nil = assessment.DefaultAdvice()

	// Presentation pauses. Zero disables them.
	AnalysisDelay time.Duration
	SubmitDelay   time.Duration

	Logger   *logrus.Logger // nil = discard
	Recorder Recorder       // nil = results are not recorded
	NewID    func() string  // nil = uuid.NewString
}

// Engine runs analyses and owns at most one active assessment session.
type Engine struct {
	matcher       *symptom.Matcher
	catalog       *assessment.Catalog
	thresholds    triage.ThresholdTable
	advice        assessment.AdviceSet
	analysisDelay time.Duration
	submitDelay   time.Duration
	log           *logrus.Logger
	recorder      Recorder
	newID         func() string

	mu     sync.Mutex
	active *assessment.Session
}

// New validates opts and builds an Engine.
func New(opts Options) (*Engine, error) {
	var problems []string
	if opts.Matcher == nil {
		problems = append(problems, "matcher is required")
	}
	if opts.Catalog == nil || opts.Catalog.Len() == 0 {
		problems = append(problems, "catalog has no assessments")
	}
	if opts.Thresholds.Len() == 0 {
		problems = append(problems, "assessment thresholds are empty")
	}
	if opts.AnalysisDelay < 0 || opts.SubmitDelay < 0 {
		problems = append(problems, "delays must not be negative")
	}
	if len(problems) > 0 {
		return nil, &triage.ConfigError{Table: "engine options", Problems: problems}
	}

	e := &Engine{
		matcher:       opts.Matcher,
		catalog:       opts.Catalog,
		thresholds:    opts.Thresholds,
		advice:        opts.Advice,
		analysisDelay: opts.AnalysisDelay,
		submitDelay:   opts.SubmitDelay,
		log:           opts.Logger,
		recorder:      opts.Recorder,
		newID:         opts.NewID,
	}
	if e.advice == nil {
		e.advice = assessment.DefaultAdvice()
	}
	if e.log == nil {
		e.log = logger.Discard()
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	return e, nil
}

// Catalog returns the assessable diseases.
func (e *Engine) Catalog() *assessment.Catalog {
	return e.catalog
}

// Matcher returns the free-text matcher.
func (e *Engine) Matcher() *symptom.Matcher {
	return e.matcher
}

// AnalyzeText scores a free-text description. Text shorter than
// symptom.MinChars is rejected with symptom.ErrBelowMinimum. Ill-formed
// text yields *symptom.InvalidInput immediately; otherwise the analysis is
// returned after AnalysisDelay. A cancelled ctx only shortens the pause.
func (e *Engine) AnalyzeText(ctx context.Context, text string) (symptom.Result, error) {
	res, err := e.matcher.Analyze(text)
	if err != nil {
		return nil, err
	}

	a, ok := res.(*symptom.Analysis)
	if !ok {
		e.log.Debug("symptom text rejected as ill-formed")
		return res, nil
	}

	pause(ctx, e.analysisDelay)

	e.log.WithFields(logrus.Fields{
		"score":   a.Score,
		"tier":    a.Tier(),
		"matched": len(a.Matched),
	}).Info("symptom analysis complete")

	e.record(context.WithoutCancel(ctx), store.ResultRecord{
		Kind:      store.KindAnalysis,
		Reference: e.newID(),
		Score:     a.Score,
		Tier:      string(a.Tier()),
		Label:     a.Threshold.Label,
	})
	return a, nil
}

// StartAssessment begins a session for disease at its first question. Any
// previous session is discarded.
func (e *Engine) StartAssessment(disease string) (*assessment.Session, error) {
	def, err := e.catalog.Lookup(disease)
	if err != nil {
		return nil, err
	}
	s := assessment.NewSession(e.newID(), def)

	e.mu.Lock()
	prev := e.active
	e.active = s
	e.mu.Unlock()

	if prev != nil {
		// A submission in flight still completes but is no longer recorded.
		_ = prev.Abandon()
	}

	e.log.WithFields(logrus.Fields{
		"session_id": s.ID(),
		"disease":    disease,
		"questions":  len(def.Questions),
	}).Debug("assessment started")
	return s, nil
}

// SelectOption records option for the question under the cursor.
func (e *Engine) SelectOption(s *assessment.Session, question, option int) error {
	if err := e.checkActive(s); err != nil {
		return err
	}
	return s.Select(question, option)
}

// Advance moves to the next question. From the last question it submits,
// waits SubmitDelay and completes the session. Once submitted the session
// always completes, even if ctx is cancelled during the pause.
func (e *Engine) Advance(ctx context.Context, s *assessment.Session) error {
	if err := e.checkActive(s); err != nil {
		return err
	}
	if err := s.Next(); err != nil {
		return err
	}
	if s.Phase() != assessment.PhaseSubmitting {
		e.log.WithFields(logrus.Fields{
			"session_id": s.ID(),
			"question":   s.State().QuestionIndex,
		}).Debug("assessment advanced")
		return nil
	}

	pause(ctx, e.submitDelay)

	res, err := s.Complete(e.thresholds, e.advice)
	if err != nil {
		return fmt.Errorf("complete assessment: %w", err)
	}

	fields := logrus.Fields{
		"session_id": res.SessionID,
		"disease":    res.Disease,
		"score":      res.Score,
		"tier":       res.Tier(),
	}
	if !e.isActive(s) {
		e.log.WithFields(fields).Debug("discarded assessment completed; not recorded")
		return nil
	}
	e.log.WithFields(fields).Info("assessment complete")

	e.record(context.WithoutCancel(ctx), store.ResultRecord{
		Kind:      store.KindAssessment,
		Reference: res.SessionID,
		Disease:   res.Disease,
		Score:     res.Score,
		Tier:      string(res.Tier()),
		Label:     res.Threshold.Label,
	})
	return nil
}

// Retreat moves back one question, keeping every selection.
func (e *Engine) Retreat(s *assessment.Session) error {
	if err := e.checkActive(s); err != nil {
		return err
	}
	return s.Previous()
}

// Abandon clears the session and releases it as the active session.
// Rejected while a submission is in progress.
func (e *Engine) Abandon(s *assessment.Session) error {
	if err := s.Abandon(); err != nil {
		return err
	}

	e.mu.Lock()
	if e.active == s {
		e.active = nil
	}
	e.mu.Unlock()

	e.log.WithField("session_id", s.ID()).Debug("assessment abandoned")
	return nil
}

// CurrentState returns a snapshot of s.
func (e *Engine) CurrentState(s *assessment.Session) assessment.State {
	return s.State()
}

// Active returns the active session, or nil.
func (e *Engine) Active() *assessment.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

func (e *Engine) isActive(s *assessment.Session) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return s != nil && e.active == s
}

func (e *Engine) checkActive(s *assessment.Session) error {
	if !e.isActive(s) {
		return ErrInactiveSession
	}
	return nil
}

// record stores a finished result. Failures are logged, never returned.
func (e *Engine) record(ctx context.Context, rec store.ResultRecord) {
	if e.recorder == nil {
		return
	}
	rec.Timestamp = time.Now()
	if err := e.recorder.AppendResult(ctx, rec); err != nil {
		e.log.WithError(err).WithField("kind", rec.Kind).Warn("failed to record result")
	}
}

// pause waits d or until ctx is done, whichever comes first.
func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
