package dispatcher

import (
	"context"
	"errors"
	"sync"

	"dtrplay/internal/classifier"
	"dtrplay/internal/models"
	"dtrplay/internal/providers"
)

var (
	ErrNoRecords = errors.New("No recorded times to process.")
	// ErrSuperseded is returned for a response that arrived after a newer
	// dispatch. Such a response never changes state.
	ErrSuperseded = errors.New("response superseded by a newer dispatch")
)

// State is a read-only copy of the dispatcher. Response is nil while
// Inactive or while the activation is still in flight.
type State struct {
	Logic    classifier.Logic
	Response classifier.LabelResponse
	Seq      uint64
}

func (s State) Active() bool {
	return s.Logic != classifier.LogicNone
}

func (s State) NeedsReview() bool {
	return s.Response != nil && s.Response.NeedsReview()
}

// Review returns the logic3 response behind the review banner.
func (s State) Review() (*classifier.Logic3Response, bool) {
	if !s.NeedsReview() {
		return nil, false
	}
	l3, ok := s.Response.(*classifier.Logic3Response)
	return l3, ok
}

// Dispatcher enforces that at most one logic is active. Every dispatch
// takes a new sequence number and a response is applied only when its
// number is still the latest.
type Dispatcher struct {
	mu       sync.Mutex
	seq      uint64
	logic    classifier.Logic
	response classifier.LabelResponse

	client  classifier.ClassifierInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewDispatcher(client classifier.ClassifierInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Dispatcher {
	return &Dispatcher{client: client, logger: logger, metrics: metrics}
}

func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return State{Logic: d.logic, Response: d.response, Seq: d.seq}
}

// begin strips the current labels and returns the new sequence number.
// Callers hold d.mu.
func (d *Dispatcher) begin(logic classifier.Logic) uint64 {
	d.seq++
	d.logic = logic
	d.response = nil
	return d.seq
}

// Activate switches to logic and labels records with it. On failure the
// dispatcher is back to Inactive.
func (d *Dispatcher) Activate(ctx context.Context, logic classifier.Logic, records []string, schedules []models.Schedule) (classifier.LabelResponse, error) {
	if logic == classifier.LogicNone {
		d.Deactivate()
		return nil, nil
	}

	d.mu.Lock()
	if len(records) == 0 {
		d.begin(classifier.LogicNone)
		d.mu.Unlock()
		return nil, ErrNoRecords
	}
	seq := d.begin(logic)
	d.mu.Unlock()

	resp, err := d.client.Classify(ctx, classifier.Request{Logic: logic, Records: records, Schedules: schedules})

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq {
		d.metrics.IncSupersededResponses()
		d.logger.Debugf(providers.TypeClassifier, "%s response #%d superseded by #%d", logic, seq, d.seq)
		return nil, ErrSuperseded
	}
	if err != nil {
		d.logic = classifier.LogicNone
		return nil, err
	}
	d.response = resp
	return resp, nil
}

// Deactivate drops the labels and the review banner.
func (d *Dispatcher) Deactivate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.begin(classifier.LogicNone)
}

// Reset is Deactivate for callers that changed the inputs underneath
// the active logic.
func (d *Dispatcher) Reset() {
	d.Deactivate()
}

// Resubmit sends reviewed records back to logic3. The user's labels win
// over the returned ones. commit runs under the dispatcher lock only when
// the response is applied, so the caller can swap its records atomically
// with the labels. On failure the previous state is kept.
func (d *Dispatcher) Resubmit(ctx context.Context, labeled []models.LabeledRecord, schedules []models.Schedule, commit func(*classifier.Logic3Response)) (*classifier.Logic3Response, error) {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	d.mu.Unlock()

	resp, err := d.client.Classify(ctx, classifier.Request{Logic: classifier.Logic3, Labeled: labeled, Schedules: schedules})

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq {
		d.metrics.IncSupersededResponses()
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	l3, ok := resp.(*classifier.Logic3Response)
	if !ok {
		return nil, errors.New("unexpected response shape from logic3")
	}
	l3.OverlayLabels(labeled)
	d.logic = classifier.Logic3
	d.response = l3
	if commit != nil {
		commit(l3)
	}
	return l3, nil
}

// AlertMessage renders an activation failure the way the page shows it.
func AlertMessage(logic classifier.Logic, err error) string {
	if errors.Is(err, ErrNoRecords) {
		return err.Error()
	}
	if logic == classifier.Logic3 {
		return "Error: " + err.Error()
	}
	return "Error executing logic: " + err.Error()
}
