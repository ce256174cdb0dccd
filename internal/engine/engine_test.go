package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/symcheck/internal/assessment"
	"github.com/abhisek/symcheck/internal/store"
	"github.com/abhisek/symcheck/internal/symptom"
	"github.com/abhisek/symcheck/internal/triage"
)

type fakeRecorder struct {
	mu      sync.Mutex
	records []store.ResultRecord
	err     error
}

func (f *fakeRecorder) AppendResult(_ context.Context, rec store.ResultRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeRecorder) all() []store.ResultRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.ResultRecord(nil), f.records...)
}

func testMatcher(t *testing.T) *symptom.Matcher {
	t.Helper()
	kw, err := symptom.NewKeywordTable(map[string]int{"fever": 3, "headache": 2, "chest pain": 10})
	require.NoError(t, err)
	th := triage.MustThresholdTable("urgency",
		triage.Threshold{MinScore: 0, Tier: triage.TierLow, Label: "Low"},
		triage.Threshold{MinScore: 5, Tier: triage.TierModerate, Label: "Moderate"},
		triage.Threshold{MinScore: 10, Tier: triage.TierHigh, Label: "High"},
	)
	m, err := symptom.NewMatcher(kw, th, symptom.SuggestionSet{
		triage.TierHigh: {{Name: "Cardiac Event"}},
	})
	require.NoError(t, err)
	return m
}

func fluCatalog(t *testing.T) *assessment.Catalog {
	t.Helper()
	c, err := assessment.NewCatalog([]assessment.Definition{
		{
			Disease:  "Flu",
			Category: "Infectious",
			Questions: []assessment.Question{
				{Text: "Fever?", Options: []assessment.Option{{Text: "No", Score: 0}, {Text: "Yes", Score: 5}}},
				{Text: "Aches?", Options: []assessment.Option{{Text: "No", Score: 0}, {Text: "Yes", Score: 8}}},
			},
		},
		{
			Disease:  "Asthma",
			Category: "Respiratory",
			Questions: []assessment.Question{
				{Text: "Wheeze?", Options: []assessment.Option{{Text: "No", Score: 0}, {Text: "Yes", Score: 40}}},
			},
		},
	})
	require.NoError(t, err)
	return c
}

func newTestEngine(t *testing.T, mutate func(*Options)) *Engine {
	t.Helper()
	opts := Options{
		Matcher: testMatcher(t),
		Catalog: fluCatalog(t),
		Thresholds: triage.MustThresholdTable("risk",
			triage.Threshold{MinScore: 0, Tier: triage.TierLow, Label: "LOW RISK"},
			triage.Threshold{MinScore: 10, Tier: triage.TierModerate, Label: "MODERATE RISK"},
		),
	}
	if mutate != nil {
		mutate(&opts)
	}
	e, err := New(opts)
	require.NoError(t, err)
	return e
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(Options{})
	require.ErrorIs(t, err, triage.ErrMisconfigured)

	var cfgErr *triage.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Len(t, cfgErr.Problems, 3)

	_, err = New(Options{
		Matcher:     testMatcher(t),
		Catalog:     fluCatalog(t),
		Thresholds:  assessment.DefaultThresholds(),
		SubmitDelay: -time.Second,
	})
	assert.ErrorIs(t, err, triage.ErrMisconfigured)
}

func TestAnalyzeText(t *testing.T) {
	rec := &fakeRecorder{}
	e := newTestEngine(t, func(o *Options) { o.Recorder = rec })
	ctx := context.Background()

	res, err := e.AnalyzeText(ctx, "sudden chest pain and a mild fever today")
	require.NoError(t, err)
	a, ok := res.(*symptom.Analysis)
	require.True(t, ok, "want *Analysis, got %T", res)
	assert.Equal(t, 13, a.Score)
	assert.Equal(t, triage.TierHigh, a.Tier())
	assert.Equal(t, []string{"chest pain", "fever"}, a.Matched)

	records := rec.all()
	require.Len(t, records, 1)
	assert.Equal(t, store.KindAnalysis, records[0].Kind)
	assert.Equal(t, "high", records[0].Tier)
	assert.NotEmpty(t, records[0].Reference)
}

func TestAnalyzeText_InvalidAndShort(t *testing.T) {
	rec := &fakeRecorder{}
	e := newTestEngine(t, func(o *Options) { o.Recorder = rec })
	ctx := context.Background()

	res, err := e.AnalyzeText(ctx, "1234567890 1234567890 1234567890")
	require.NoError(t, err)
	inv, ok := res.(*symptom.InvalidInput)
	require.True(t, ok, "want *InvalidInput, got %T", res)
	assert.Equal(t, symptom.InvalidInputMessage, inv.Message)

	_, err = e.AnalyzeText(ctx, "fever")
	assert.ErrorIs(t, err, symptom.ErrBelowMinimum)

	assert.Empty(t, rec.all(), "only scored analyses are recorded")
}

func TestAnalyzeText_DelayShortenedByCancel(t *testing.T) {
	e := newTestEngine(t, func(o *Options) { o.AnalysisDelay = time.Hour })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	res, err := e.AnalyzeText(ctx, "i have a fever and a bad headache today")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.IsType(t, &symptom.Analysis{}, res)
}

func TestAnalyzeText_Delay(t *testing.T) {
	e := newTestEngine(t, func(o *Options) { o.AnalysisDelay = 20 * time.Millisecond })

	start := time.Now()
	_, err := e.AnalyzeText(context.Background(), "i have a fever and a bad headache today")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestFluEndToEnd(t *testing.T) {
	rec := &fakeRecorder{}
	e := newTestEngine(t, func(o *Options) { o.Recorder = rec })
	ctx := context.Background()

	s, err := e.StartAssessment("Flu")
	require.NoError(t, err)

	require.NoError(t, e.SelectOption(s, 0, 1))
	require.NoError(t, e.Advance(ctx, s))
	require.NoError(t, e.SelectOption(s, 1, 1))
	require.NoError(t, e.Advance(ctx, s))

	st := e.CurrentState(s)
	assert.Equal(t, assessment.PhaseCompleted, st.Phase)
	assert.True(t, st.Complete)
	require.NotNil(t, st.Result)
	assert.Equal(t, 13, st.Result.Score)
	assert.Equal(t, triage.TierModerate, st.Result.Tier())
	assert.Equal(t, "MODERATE RISK", st.Result.Threshold.Label)
	assert.NotEmpty(t, st.Result.Advice.NextStep)

	records := rec.all()
	require.Len(t, records, 1)
	assert.Equal(t, store.KindAssessment, records[0].Kind)
	assert.Equal(t, "Flu", records[0].Disease)
	assert.Equal(t, 13, records[0].Score)
	assert.Equal(t, s.ID(), records[0].Reference)
}

func TestAdvance_RequiresSelection(t *testing.T) {
	e := newTestEngine(t, nil)
	s, err := e.StartAssessment("Flu")
	require.NoError(t, err)

	err = e.Advance(context.Background(), s)
	assert.ErrorIs(t, err, assessment.ErrNoSelection)
	assert.Equal(t, 0, e.CurrentState(s).QuestionIndex)
}

func TestRetreat(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()
	s, err := e.StartAssessment("Flu")
	require.NoError(t, err)

	assert.ErrorIs(t, e.Retreat(s), assessment.ErrFirstQuestion)

	require.NoError(t, e.SelectOption(s, 0, 1))
	require.NoError(t, e.Advance(ctx, s))
	require.NoError(t, e.Retreat(s))

	st := e.CurrentState(s)
	assert.Equal(t, 0, st.QuestionIndex)
	assert.Equal(t, 1, st.Selected)
}

func TestStartAssessment_NotFound(t *testing.T) {
	e := newTestEngine(t, nil)
	_, err := e.StartAssessment("Scurvy")
	assert.ErrorIs(t, err, assessment.ErrNotFound)
	assert.Nil(t, e.Active())
}

func TestSessionIsolationAfterAbandon(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	s1, err := e.StartAssessment("Flu")
	require.NoError(t, err)
	require.NoError(t, e.SelectOption(s1, 0, 1))
	require.NoError(t, e.Advance(ctx, s1))
	require.NoError(t, e.Abandon(s1))
	assert.Nil(t, e.Active())
	assert.Equal(t, assessment.PhaseAbandoned, e.CurrentState(s1).Phase)

	s2, err := e.StartAssessment("Flu")
	require.NoError(t, err)
	st := e.CurrentState(s2)
	assert.Equal(t, assessment.PhaseAnswering, st.Phase)
	assert.Equal(t, 0, st.QuestionIndex)
	assert.Equal(t, 0, st.Answered)
	assert.NotEqual(t, s1.ID(), s2.ID())
}

func TestStartAssessment_DiscardsPrevious(t *testing.T) {
	e := newTestEngine(t, nil)

	s1, err := e.StartAssessment("Flu")
	require.NoError(t, err)
	require.NoError(t, e.SelectOption(s1, 0, 1))

	s2, err := e.StartAssessment("Asthma")
	require.NoError(t, err)
	assert.Same(t, s2, e.Active())
	assert.Equal(t, assessment.PhaseAbandoned, s1.Phase())

	assert.ErrorIs(t, e.SelectOption(s1, 0, 0), ErrInactiveSession)
	assert.ErrorIs(t, e.Advance(context.Background(), s1), ErrInactiveSession)
	assert.ErrorIs(t, e.Retreat(s1), ErrInactiveSession)
}

func TestAdvance_SubmitCompletesDespiteCancel(t *testing.T) {
	rec := &fakeRecorder{}
	e := newTestEngine(t, func(o *Options) {
		o.SubmitDelay = time.Hour
		o.Recorder = rec
	})
	s, err := e.StartAssessment("Asthma")
	require.NoError(t, err)
	require.NoError(t, e.SelectOption(s, 0, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, e.Advance(ctx, s))

	st := e.CurrentState(s)
	assert.Equal(t, assessment.PhaseCompleted, st.Phase)
	assert.Equal(t, 40, st.Result.Score)
	assert.Len(t, rec.all(), 1, "recording ignores the cancelled context")
}

func TestAbandon_AfterCompleted(t *testing.T) {
	e := newTestEngine(t, nil)
	s, err := e.StartAssessment("Asthma")
	require.NoError(t, err)
	require.NoError(t, e.SelectOption(s, 0, 0))
	require.NoError(t, e.Advance(context.Background(), s))
	assert.Equal(t, assessment.PhaseCompleted, e.CurrentState(s).Phase)

	require.NoError(t, e.Abandon(s))
	st := e.CurrentState(s)
	assert.Equal(t, assessment.PhaseAbandoned, st.Phase)
	assert.Nil(t, st.Result)
	assert.Nil(t, e.Active())

	// Abandoning twice is a no-op.
	assert.NoError(t, e.Abandon(s))
}

func TestRecorderFailureIsNotFatal(t *testing.T) {
	rec := &fakeRecorder{err: fmt.Errorf("disk full")}
	e := newTestEngine(t, func(o *Options) { o.Recorder = rec })

	res, err := e.AnalyzeText(context.Background(), "i have a fever and a bad headache today")
	require.NoError(t, err)
	assert.IsType(t, &symptom.Analysis{}, res)

	s, err := e.StartAssessment("Asthma")
	require.NoError(t, err)
	require.NoError(t, e.SelectOption(s, 0, 1))
	require.NoError(t, e.Advance(context.Background(), s))
	assert.True(t, e.CurrentState(s).Complete)
}

func TestNewID(t *testing.T) {
	n := 0
	e := newTestEngine(t, func(o *Options) {
		o.NewID = func() string { n++; return fmt.Sprintf("id-%d", n) }
	})
	s, err := e.StartAssessment("Flu")
	require.NoError(t, err)
	assert.Equal(t, "id-1", s.ID())
}
