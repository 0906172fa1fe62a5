package usecase

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/kirillkom/paperless-archiver/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is an in-memory DocumentStore with per-call knobs.
type fakeStore struct {
	correspondents map[string]int
	documentTypes  map[string]int
	tags           map[string]int
	customFields   map[string]int

	correspondentErr error
	documentTypeErr  error
	tagsErr          error
	customFieldErr   error
	uploadErr        error
	applyErr         error

	uploadTaskID string
	uploaded     []domain.UploadPayload

	appliedDoc  int
	applied     []domain.CustomFieldAssignment
	applyCalls  int
	resolveLog  []string
	findResults []findResult
	findCalls   int
}

type findResult struct {
	task *domain.UploadTask
	err  error
}

func (f *fakeStore) ResolveCorrespondent(_ context.Context, name string) (int, error) {
	f.resolveLog = append(f.resolveLog, "correspondent:"+name)
	if f.correspondentErr != nil {
		return 0, f.correspondentErr
	}
	return f.correspondents[name], nil
}

func (f *fakeStore) ResolveDocumentType(_ context.Context, name string) (int, error) {
	f.resolveLog = append(f.resolveLog, "document_type:"+name)
	if f.documentTypeErr != nil {
		return 0, f.documentTypeErr
	}
	return f.documentTypes[name], nil
}

func (f *fakeStore) ResolveTags(_ context.Context, names []string) ([]int, error) {
	if f.tagsErr != nil {
		return nil, f.tagsErr
	}
	ids := make([]int, 0, len(names))
	for _, name := range names {
		ids = append(ids, f.tags[name])
	}
	return ids, nil
}

func (f *fakeStore) ResolveCustomField(_ context.Context, name, _ string) (int, error) {
	f.resolveLog = append(f.resolveLog, "custom_field:"+name)
	if f.customFieldErr != nil {
		return 0, f.customFieldErr
	}
	id, ok := f.customFields[name]
	if !ok {
		return 0, domain.NewError(domain.ErrNotFound, "test", name)
	}
	return id, nil
}

func (f *fakeStore) Upload(_ context.Context, payload domain.UploadPayload) (string, error) {
	f.uploaded = append(f.uploaded, payload)
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return f.uploadTaskID, nil
}

func (f *fakeStore) ApplyCustomFields(_ context.Context, documentID int, assignments []domain.CustomFieldAssignment) error {
	f.applyCalls++
	f.appliedDoc = documentID
	f.applied = assignments
	return f.applyErr
}

func (f *fakeStore) FindTask(_ context.Context, _ string) (*domain.UploadTask, error) {
	f.findCalls++
	if len(f.findResults) == 0 {
		return nil, domain.NewError(domain.ErrNotFound, "test", "no task")
	}
	res := f.findResults[0]
	if len(f.findResults) > 1 {
		f.findResults = f.findResults[1:]
	}
	return res.task, res.err
}

// fakeFiles serves fixed content for any path.
type fakeFiles struct {
	content []byte
	err     error
}

func (f *fakeFiles) Open(_ context.Context, _ string) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(bytes.NewReader(f.content)), nil
}

// fakeJournal records state transitions in order.
type fakeJournal struct {
	created    []*domain.ArchiveAttempt
	uploaded   []string
	verified   map[string]int
	failed     map[string]string
	createErr  error
	transition []string
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{verified: map[string]int{}, failed: map[string]string{}}
}

func (f *fakeJournal) Create(_ context.Context, attempt *domain.ArchiveAttempt) error {
	f.created = append(f.created, attempt)
	f.transition = append(f.transition, "create")
	return f.createErr
}

func (f *fakeJournal) MarkUploaded(_ context.Context, id, taskID string) error {
	f.uploaded = append(f.uploaded, id+"/"+taskID)
	f.transition = append(f.transition, "uploaded")
	return nil
}

func (f *fakeJournal) MarkVerified(_ context.Context, id string, documentID int) error {
	f.verified[id] = documentID
	f.transition = append(f.transition, "verified")
	return nil
}

func (f *fakeJournal) MarkFailed(_ context.Context, id, reason string) error {
	f.failed[id] = reason
	f.transition = append(f.transition, "failed")
	return nil
}

func (f *fakeJournal) GetByJobID(_ context.Context, _ string) (*domain.ArchiveAttempt, error) {
	return nil, domain.NewError(domain.ErrNotFound, "test", "no attempt")
}

// fakeArchiver and friends drive the pipeline use case directly.
type fakeArchiver struct {
	result domain.ArchiveResult
	err    error
}

func (f *fakeArchiver) Archive(_ context.Context, _ domain.ArchiveRequest) (domain.ArchiveResult, error) {
	return f.result, f.err
}

type fakeVerifier struct {
	docID    int
	verified bool
	err      error
	taskID   string
}

func (f *fakeVerifier) Verify(_ context.Context, taskID string, _, _ time.Duration) (int, bool, error) {
	f.taskID = taskID
	return f.docID, f.verified, f.err
}

type fakeApplier struct {
	ok     bool
	calls  int
	docID  int
	record domain.MetadataRecord
}

func (f *fakeApplier) Apply(_ context.Context, documentID int, record domain.MetadataRecord) bool {
	f.calls++
	f.docID = documentID
	f.record = record
	return f.ok
}
