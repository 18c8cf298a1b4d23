package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ymayank97/EduGenix/internal/metrics"
	"github.com/ymayank97/EduGenix/internal/models"
)

type mockFetcher struct {
	data []byte
	err  error
	urls []string
}

func (f *mockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type mockStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newMockStore() *mockStore {
	return &mockStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (s *mockStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.objects[key] = data
	s.types[key] = contentType
	return nil
}

func (s *mockStore) Location(key string) string {
	return "mock://bucket/" + key
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type mockMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *mockMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type mockStatusRepo struct {
	mu       sync.Mutex
	statuses []models.NotificationStatus
	err      error
}

func (r *mockStatusRepo) Create(ctx context.Context, status *models.NotificationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.statuses = append(r.statuses, *status)
	return nil
}

type workerFixture struct {
	fetcher    *mockFetcher
	store      *mockStore
	mailer     *mockMailer
	statusRepo *mockStatusRepo
	worker     NotificationWorker
}

func newWorkerFixture() *workerFixture {
	f := &workerFixture{
		fetcher:    &mockFetcher{data: []byte("zip-bytes")},
		store:      newMockStore(),
		mailer:     &mockMailer{},
		statusRepo: &mockStatusRepo{},
	}
	f.worker = NewNotificationWorker(
		nil, // pool unused by ProcessEvent
		nil, // consumer unused by ProcessEvent
		f.fetcher,
		f.store,
		f.mailer,
		f.statusRepo,
		metrics.NewNoopSink(),
		"submissions",
		zerolog.Nop(),
	)
	return f
}

func testEvent() []byte {
	body, _ := json.Marshal(models.SubmissionAcceptedEvent{
		SubmissionURL: "https://example.com/files/homework.zip",
		Email:         "student@example.com",
		Path:          "student@example.com/a1/HW1/2",
	})
	return body
}

func TestProcessEventHappyPath(t *testing.T) {
	f := newWorkerFixture()

	if err := f.worker.ProcessEvent(context.Background(), testEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantKey := "student@example.com/a1/HW1/2/homework.zip"
	data, ok := f.store.objects[wantKey]
	if !ok {
		t.Fatalf("artifact not stored at %q, stored keys: %v", wantKey, keysOf(f.store.objects))
	}
	if string(data) != "zip-bytes" {
		t.Error("stored bytes do not match fetched bytes")
	}
	if f.store.types[wantKey] != "application/zip" {
		t.Errorf("expected application/zip content type, got %s", f.store.types[wantKey])
	}

	if len(f.mailer.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(f.mailer.sent))
	}
	mail := f.mailer.sent[0]
	if mail.To != "student@example.com" {
		t.Errorf("unexpected recipient: %s", mail.To)
	}
	if mail.Subject != "Submission Received" {
		t.Errorf("unexpected subject: %s", mail.Subject)
	}
	if !strings.Contains(mail.Body, "submission number : 2") {
		t.Errorf("mail body missing attempt number: %q", mail.Body)
	}
	if !strings.Contains(mail.Body, "assignment : HW1") {
		t.Errorf("mail body missing assignment name: %q", mail.Body)
	}
	if !strings.Contains(mail.Body, wantKey) {
		t.Errorf("mail body missing storage key: %q", mail.Body)
	}

	if len(f.statusRepo.statuses) != 1 {
		t.Fatalf("expected 1 status row, got %d", len(f.statusRepo.statuses))
	}
	status := f.statusRepo.statuses[0]
	if status.DeliveryStatus != models.DeliveryStatusSent {
		t.Errorf("expected Sent status, got %s", status.DeliveryStatus)
	}
	if status.InvocationID == "" {
		t.Error("invocation_id must be set")
	}
	if status.StorageKey != wantKey {
		t.Errorf("expected storage key %q, got %q", wantKey, status.StorageKey)
	}
}

func TestProcessEventMalformedJSON(t *testing.T) {
	f := newWorkerFixture()

	err := f.worker.ProcessEvent(context.Background(), []byte("{not json"))
	if err == nil {
		t.Fatal("expected error for malformed event")
	}
	if !isPermanentError(err) {
		t.Fatal("malformed event must be a permanent failure")
	}
	if len(f.statusRepo.statuses) != 0 {
		t.Error("no status row expected for undecodable event")
	}
}

func TestProcessEventMissingEmail(t *testing.T) {
	f := newWorkerFixture()

	body, _ := json.Marshal(models.SubmissionAcceptedEvent{
		SubmissionURL: "https://example.com/a.zip",
		Path:          "x/a1/HW1/1",
	})

	err := f.worker.ProcessEvent(context.Background(), body)
	if !isPermanentError(err) {
		t.Fatalf("missing email must be permanent, got %v", err)
	}
	if len(f.mailer.sent) != 0 {
		t.Error("no mail expected without a recipient")
	}
	if len(f.statusRepo.statuses) != 0 {
		t.Error("no status row expected without a recipient")
	}
}

func TestProcessEventMissingURL(t *testing.T) {
	f := newWorkerFixture()

	body, _ := json.Marshal(models.SubmissionAcceptedEvent{
		Email: "student@example.com",
		Path:  "student@example.com/a1/HW1/1",
	})

	err := f.worker.ProcessEvent(context.Background(), body)
	if !isPermanentError(err) {
		t.Fatalf("missing URL must be permanent, got %v", err)
	}

	if len(f.mailer.sent) != 1 || f.mailer.sent[0].Subject != "Submission Failed" {
		t.Fatal("expected a failure mail to the known recipient")
	}
	if len(f.statusRepo.statuses) != 1 {
		t.Fatalf("expected 1 status row, got %d", len(f.statusRepo.statuses))
	}
	if f.statusRepo.statuses[0].DeliveryStatus != models.DeliveryStatusFailed {
		t.Errorf("expected Failed status, got %s", f.statusRepo.statuses[0].DeliveryStatus)
	}
}

func TestProcessEventFetchFailure(t *testing.T) {
	f := newWorkerFixture()
	f.fetcher.err = errors.New("connection refused")

	err := f.worker.ProcessEvent(context.Background(), testEvent())
	if err == nil {
		t.Fatal("expected error when fetch fails")
	}
	if isPermanentError(err) {
		t.Fatal("fetch failure must be transient for redelivery")
	}

	if len(f.store.objects) != 0 {
		t.Error("nothing should be stored when fetch fails")
	}
	if len(f.mailer.sent) != 1 || f.mailer.sent[0].Subject != "Submission Failed" {
		t.Fatal("expected a failure mail")
	}
	if len(f.statusRepo.statuses) != 1 || f.statusRepo.statuses[0].DeliveryStatus != models.DeliveryStatusFailed {
		t.Fatal("expected a Failed status row")
	}
}

func TestProcessEventUploadFailure(t *testing.T) {
	f := newWorkerFixture()
	f.store.err = errors.New("storage unavailable")

	err := f.worker.ProcessEvent(context.Background(), testEvent())
	if err == nil {
		t.Fatal("expected error when upload fails")
	}
	if isPermanentError(err) {
		t.Fatal("upload failure must be transient for redelivery")
	}
}

func TestProcessEventMailFailureStillRecords(t *testing.T) {
	f := newWorkerFixture()
	f.mailer.err = errors.New("smtp timeout")

	if err := f.worker.ProcessEvent(context.Background(), testEvent()); err != nil {
		t.Fatalf("mail failure must not fail the invocation: %v", err)
	}

	if len(f.statusRepo.statuses) != 1 {
		t.Fatalf("expected 1 status row, got %d", len(f.statusRepo.statuses))
	}
	if f.statusRepo.statuses[0].DeliveryStatus != models.DeliveryStatusFailed {
		t.Errorf("expected Failed delivery status, got %s", f.statusRepo.statuses[0].DeliveryStatus)
	}
}

func TestProcessEventStatusWriteFailure(t *testing.T) {
	f := newWorkerFixture()
	f.statusRepo.err = errors.New("database down")

	err := f.worker.ProcessEvent(context.Background(), testEvent())
	if err == nil {
		t.Fatal("expected error when status write fails")
	}
	if isPermanentError(err) {
		t.Fatal("status write failure must be transient for redelivery")
	}
}

// Redelivering the same event overwrites the same storage key and appends a
// second audit row with a fresh invocation id.
func TestProcessEventRedeliveryIsIdempotent(t *testing.T) {
	f := newWorkerFixture()

	for i := 0; i < 2; i++ {
		if err := f.worker.ProcessEvent(context.Background(), testEvent()); err != nil {
			t.Fatalf("run %d failed: %v", i+1, err)
		}
	}

	if len(f.store.objects) != 1 {
		t.Errorf("expected 1 stored object, got %d", len(f.store.objects))
	}
	if len(f.statusRepo.statuses) != 2 {
		t.Fatalf("expected 2 status rows, got %d", len(f.statusRepo.statuses))
	}
	if f.statusRepo.statuses[0].InvocationID == f.statusRepo.statuses[1].InvocationID {
		t.Error("each run must get its own invocation id")
	}
}

func keysOf(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
