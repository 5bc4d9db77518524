package notifications

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/yatrafest/reghub/internal/domain/registration"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls int
	res   Result
	err   error
	panic bool
}

func (f *fakeNotifier) SendRegistrationConfirmation(ctx context.Context, reg registration.Registration) (Result, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.panic {
		panic("boom")
	}
	return f.res, f.err
}

func (f *fakeNotifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeLedger struct {
	mu       sync.Mutex
	started  []string
	sent     []string
	disabled []string
	failed   map[string]string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{failed: make(map[string]string)}
}

func (f *fakeLedger) Start(ctx context.Context, id, recipient string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, id)
	return nil
}

func (f *fakeLedger) MarkSent(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeLedger) MarkDisabled(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disabled = append(f.disabled, id)
	return nil
}

func (f *fakeLedger) MarkFailed(ctx context.Context, id, msg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed[id] = msg
	return nil
}

type fakeMetrics struct {
	mu       sync.Mutex
	results  []string
	inFlight int
	started  int
}

func (f *fakeMetrics) ObserveMailDispatch(result string, elapsed time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, result)
}

func (f *fakeMetrics) MailDispatchStarted() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight++
	f.started++
}

func (f *fakeMetrics) MailDispatchFinished() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
}

func (f *fakeMetrics) snapshot() (inFlight, started int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight, f.started
}

func testReg() registration.Registration {
	return registration.Registration{
		ID:    "reg-1",
		Name:  "Asha Kumar",
		Email: "asha@ritchennai.edu.in",
	}
}

func TestDispatchRecordsSent(t *testing.T) {
	n := &fakeNotifier{res: Result{Delivered: true}}
	ledger := newFakeLedger()
	metrics := &fakeMetrics{}

	d := NewDispatcher(n, ledger, metrics, discardLogger())
	d.Dispatch(testReg())
	d.Wait()

	if n.callCount() != 1 {
		t.Fatalf("notifier calls = %d, want 1", n.callCount())
	}
	if len(ledger.sent) != 1 || ledger.sent[0] != "reg-1" {
		t.Fatalf("ledger sent = %v", ledger.sent)
	}
	if len(metrics.results) != 1 || metrics.results[0] != "sent" {
		t.Fatalf("metrics = %v", metrics.results)
	}
}

func TestDispatchTracksInFlight(t *testing.T) {
	n := &fakeNotifier{res: Result{Delivered: true}}
	metrics := &fakeMetrics{}

	d := NewDispatcher(n, nil, metrics, discardLogger())
	d.Dispatch(testReg())
	d.Dispatch(testReg())
	d.Wait()

	inFlight, started := metrics.snapshot()
	if started != 2 {
		t.Fatalf("started = %d, want 2", started)
	}
	if inFlight != 0 {
		t.Fatalf("in-flight gauge left at %d after Wait", inFlight)
	}
}

func TestDispatchFailureIsContained(t *testing.T) {
	n := &fakeNotifier{err: errors.New("relay down")}
	ledger := newFakeLedger()
	metrics := &fakeMetrics{}

	d := NewDispatcher(n, ledger, metrics, discardLogger())

	// must not block or propagate the failure
	d.Dispatch(testReg())
	d.Wait()

	if msg, ok := ledger.failed["reg-1"]; !ok || msg != "relay down" {
		t.Fatalf("ledger failed = %v", ledger.failed)
	}
	if len(metrics.results) != 1 || metrics.results[0] != "failed" {
		t.Fatalf("metrics = %v", metrics.results)
	}
}

func TestDispatchDisabledBranch(t *testing.T) {
	n := &fakeNotifier{res: Result{Disabled: true}}
	ledger := newFakeLedger()
	metrics := &fakeMetrics{}

	d := NewDispatcher(n, ledger, metrics, discardLogger())
	d.Dispatch(testReg())
	d.Wait()

	if len(ledger.disabled) != 1 {
		t.Fatalf("ledger disabled = %v", ledger.disabled)
	}
	if len(metrics.results) != 1 || metrics.results[0] != "disabled" {
		t.Fatalf("metrics = %v", metrics.results)
	}
}

func TestDispatchSurvivesPanic(t *testing.T) {
	n := &fakeNotifier{panic: true}
	d := NewDispatcher(n, nil, nil, discardLogger())

	d.Dispatch(testReg())
	d.Wait()
	// reaching here without the test process dying is the assertion
}

func TestDispatchWithoutLedgerOrMetrics(t *testing.T) {
	n := &fakeNotifier{res: Result{Delivered: true}}
	d := NewDispatcher(n, nil, nil, discardLogger())

	d.Dispatch(testReg())
	d.Wait()

	if n.callCount() != 1 {
		t.Fatalf("notifier calls = %d, want 1", n.callCount())
	}
}
