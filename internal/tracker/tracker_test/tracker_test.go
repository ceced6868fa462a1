package tracker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akolanti/DocGateway/internal/apperror"
	"github.com/akolanti/DocGateway/internal/config"
	"github.com/akolanti/DocGateway/internal/data/store"
	"github.com/akolanti/DocGateway/internal/domain/docModel"
	"github.com/akolanti/DocGateway/internal/tracker"
)

type fixture struct {
	docs      *store.InMemoryDocumentStore
	jobs      *store.InMemoryJobStore
	engine    *MockEngine
	objects   *MockObjectStore
	scheduler *MockScheduler
	service   *tracker.Service
}

func newFixture() *fixture {
	docs := store.InitInMemoryDocumentStore()
	jobs := store.InitInMemoryJobStore()
	eng := &MockEngine{}
	objects := &MockObjectStore{}
	scheduler := &MockScheduler{}
	return &fixture{
		docs:      docs,
		jobs:      jobs,
		engine:    eng,
		objects:   objects,
		scheduler: scheduler,
		service:   tracker.NewService(docs, jobs, eng, objects, scheduler),
	}
}

func testContext() context.Context {
	return context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
}

func seedDocument(t *testing.T, f *fixture, doc docModel.Document) {
	t.Helper()
	if err := f.docs.SaveDocument(testContext(), doc); err != nil {
		t.Fatalf("seeding document failed: %v", err)
	}
}

func seedRunningJob(t *testing.T, f *fixture, jobId string, docIds []string, startedAt time.Time) {
	t.Helper()
	err := f.jobs.SaveJob(testContext(), docModel.IngestionJob{
		JobId:       jobId,
		DocumentIds: docIds,
		StartedAt:   startedAt,
		Status:      docModel.JobStatusRunning,
	})
	if err != nil {
		t.Fatalf("seeding job failed: %v", err)
	}
}

func TestPoll_Reconciliation(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(f *fixture)
		wantDocStatus  docModel.DocumentStatus
		wantJobStatus  docModel.JobStatus
		wantIndexedSet bool
		wantDetail     string
	}{
		{
			name: "Succeeded_Job_Marks_Documents_Indexed",
			setupMocks: func(f *fixture) {
				f.engine.OnGetIngestionJob = func(ctx context.Context, jobId string) (docModel.IngestionJob, error) {
					return docModel.IngestionJob{
						JobId:       jobId,
						DocumentIds: []string{"doc-1"},
						Status:      docModel.JobStatusSucceeded,
					}, nil
				}
			},
			wantDocStatus:  docModel.StatusIndexed,
			wantJobStatus:  docModel.JobStatusSucceeded,
			wantIndexedSet: true,
		},
		{
			name: "Failed_Job_Marks_Documents_Failed",
			setupMocks: func(f *fixture) {
				f.engine.OnGetIngestionJob = func(ctx context.Context, jobId string) (docModel.IngestionJob, error) {
					return docModel.IngestionJob{
						JobId:       jobId,
						DocumentIds: []string{"doc-1"},
						Status:      docModel.JobStatusFailed,
						ErrorDetail: "extraction blew up",
					}, nil
				}
			},
			wantDocStatus: docModel.StatusFailed,
			wantJobStatus: docModel.JobStatusFailed,
			wantDetail:    "extraction blew up",
		},
		{
			name: "Failed_Job_Without_Detail_Gets_Default",
			setupMocks: func(f *fixture) {
				f.engine.OnGetIngestionJob = func(ctx context.Context, jobId string) (docModel.IngestionJob, error) {
					return docModel.IngestionJob{
						JobId:       jobId,
						DocumentIds: []string{"doc-1"},
						Status:      docModel.JobStatusFailed,
					}, nil
				}
			},
			wantDocStatus: docModel.StatusFailed,
			wantJobStatus: docModel.JobStatusFailed,
			wantDetail:    "ingestion failed",
		},
		{
			name: "Lost_Job_Settles_Documents_Failed",
			setupMocks: func(f *fixture) {
				f.engine.OnGetIngestionJob = func(ctx context.Context, jobId string) (docModel.IngestionJob, error) {
					return docModel.IngestionJob{}, apperror.NotFound("unknown ingestion job")
				}
			},
			wantDocStatus: docModel.StatusFailed,
			wantJobStatus: docModel.JobStatusFailed,
			wantDetail:    "ingestion job lost by the engine",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			seedDocument(t, f, docModel.Document{Id: "doc-1", Status: docModel.StatusProcessing})
			seedRunningJob(t, f, "job-1", []string{"doc-1"}, time.Now().UTC())
			tt.setupMocks(f)

			f.service.Poll(testContext())

			doc, _ := f.docs.GetDocument(testContext(), "doc-1")
			if doc.Status != tt.wantDocStatus {
				t.Errorf("document status got %s, want %s", doc.Status, tt.wantDocStatus)
			}
			if tt.wantIndexedSet && doc.IndexedAt.IsZero() {
				t.Error("IndexedAt not set on indexed document")
			}
			if tt.wantDetail != "" && doc.ErrorDetail != tt.wantDetail {
				t.Errorf("ErrorDetail got %q, want %q", doc.ErrorDetail, tt.wantDetail)
			}

			job, _ := f.jobs.GetJob(testContext(), "job-1")
			if job.Status != tt.wantJobStatus {
				t.Errorf("job status got %s, want %s", job.Status, tt.wantJobStatus)
			}

			running, _ := f.jobs.ListRunningJobs(testContext())
			if len(running) != 0 {
				t.Errorf("settled job still listed as running")
			}
		})
	}
}

func TestPoll_RunningJobLeftAlone(t *testing.T) {
	f := newFixture()
	seedDocument(t, f, docModel.Document{Id: "doc-1", Status: docModel.StatusProcessing})
	seedRunningJob(t, f, "job-1", []string{"doc-1"}, time.Now().UTC())

	f.service.Poll(testContext())

	doc, _ := f.docs.GetDocument(testContext(), "doc-1")
	if doc.Status != docModel.StatusProcessing {
		t.Errorf("healthy running job must not settle documents, status %s", doc.Status)
	}
}

func TestPoll_StuckJobTimesOut(t *testing.T) {
	f := newFixture()
	seedDocument(t, f, docModel.Document{Id: "doc-1", Status: docModel.StatusProcessing})
	seedRunningJob(t, f, "job-1", []string{"doc-1"}, time.Now().UTC().Add(-config.MaxIngestWait-time.Minute))

	f.service.Poll(testContext())

	doc, _ := f.docs.GetDocument(testContext(), "doc-1")
	if doc.Status != docModel.StatusFailed {
		t.Fatalf("stuck job document status got %s, want %s", doc.Status, docModel.StatusFailed)
	}

	job, _ := f.jobs.GetJob(testContext(), "job-1")
	if job.Status != docModel.JobStatusFailed {
		t.Errorf("stuck job status got %s, want %s", job.Status, docModel.JobStatusFailed)
	}
}

// A full task buffer can drop the start task for an upload. The document
// then sits in uploaded with no running job until a poll re-enqueues it.
func TestPoll_RecoversStrandedUploads(t *testing.T) {
	t.Run("Stranded Upload Is Re-Enqueued", func(t *testing.T) {
		f := newFixture()
		seedDocument(t, f, docModel.Document{Id: "doc-1", Status: docModel.StatusUploaded})
		seedDocument(t, f, docModel.Document{Id: "doc-2", Status: docModel.StatusIndexed})

		f.service.Poll(testContext())

		if len(f.scheduler.ScheduledBatches) != 1 {
			t.Fatalf("scheduled %d batches, want 1", len(f.scheduler.ScheduledBatches))
		}
		batch := f.scheduler.ScheduledBatches[0]
		if len(batch) != 1 || batch[0] != "doc-1" {
			t.Errorf("scheduled batch %v, want only the uploaded document", batch)
		}
	})

	t.Run("Running Job Suppresses Recovery", func(t *testing.T) {
		f := newFixture()
		seedDocument(t, f, docModel.Document{Id: "doc-1", Status: docModel.StatusUploaded})
		seedDocument(t, f, docModel.Document{Id: "doc-2", Status: docModel.StatusProcessing})
		seedRunningJob(t, f, "job-1", []string{"doc-2"}, time.Now().UTC())

		f.service.Poll(testContext())

		if len(f.scheduler.ScheduledBatches) != 0 {
			t.Errorf("scheduled %d batches while a job is running, want 0", len(f.scheduler.ScheduledBatches))
		}
	})

	t.Run("Nothing Uploaded Schedules Nothing", func(t *testing.T) {
		f := newFixture()
		seedDocument(t, f, docModel.Document{Id: "doc-1", Status: docModel.StatusIndexed})

		f.service.Poll(testContext())

		if len(f.scheduler.ScheduledBatches) != 0 {
			t.Errorf("scheduled %d batches with no uploaded documents, want 0", len(f.scheduler.ScheduledBatches))
		}
	})
}

func TestListDocuments(t *testing.T) {
	f := newFixture()
	now := time.Now().UTC()
	seedDocument(t, f, docModel.Document{Id: "old", Status: docModel.StatusIndexed, UploadedAt: now.Add(-2 * time.Hour)})
	seedDocument(t, f, docModel.Document{Id: "new", Status: docModel.StatusPending, UploadedAt: now})
	seedDocument(t, f, docModel.Document{Id: "mid", Status: docModel.StatusIndexed, UploadedAt: now.Add(-time.Hour)})

	t.Run("Newest First", func(t *testing.T) {
		docs, err := f.service.ListDocuments(testContext(), "")
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		want := []string{"new", "mid", "old"}
		if len(docs) != len(want) {
			t.Fatalf("got %d documents, want %d", len(docs), len(want))
		}
		for i, id := range want {
			if docs[i].Id != id {
				t.Fatalf("order got %v at %d, want %s", docs[i].Id, i, id)
			}
		}
	})

	t.Run("Status Filter", func(t *testing.T) {
		docs, err := f.service.ListDocuments(testContext(), "indexed")
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(docs) != 2 {
			t.Errorf("filter got %d documents, want 2", len(docs))
		}
	})

	t.Run("Invalid Filter", func(t *testing.T) {
		_, err := f.service.ListDocuments(testContext(), "bogus")
		if !apperror.IsKind(err, apperror.KindValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestDeleteDocument(t *testing.T) {
	t.Run("Removes Record Object And Vectors", func(t *testing.T) {
		f := newFixture()
		seedDocument(t, f, docModel.Document{Id: "doc-1", StorageKey: "documents/doc-1.pdf", Status: docModel.StatusIndexed})

		if err := f.service.DeleteDocument(testContext(), "doc-1"); err != nil {
			t.Fatalf("DeleteDocument failed: %v", err)
		}

		if _, found := f.docs.GetDocument(testContext(), "doc-1"); found {
			t.Error("record still present after delete")
		}
		if len(f.objects.RemovedKeys) != 1 || f.objects.RemovedKeys[0] != "documents/doc-1.pdf" {
			t.Errorf("object removal got %v", f.objects.RemovedKeys)
		}
	})

	t.Run("Unknown Document", func(t *testing.T) {
		f := newFixture()
		err := f.service.DeleteDocument(testContext(), "ghost")
		if !apperror.IsKind(err, apperror.KindNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("Backend Failures Are Best Effort", func(t *testing.T) {
		f := newFixture()
		seedDocument(t, f, docModel.Document{Id: "doc-1", StorageKey: "documents/doc-1.pdf", Status: docModel.StatusIndexed})
		f.objects.OnRemove = func(ctx context.Context, key string) error {
			return errors.New("minio unreachable")
		}
		f.engine.OnDeleteDocument = func(ctx context.Context, documentId string) error {
			return errors.New("qdrant unreachable")
		}

		if err := f.service.DeleteDocument(testContext(), "doc-1"); err != nil {
			t.Fatalf("cleanup failures must not fail the delete: %v", err)
		}
		if _, found := f.docs.GetDocument(testContext(), "doc-1"); found {
			t.Error("record survived the delete")
		}
	})
}

func TestGetStats(t *testing.T) {
	f := newFixture()
	seedDocument(t, f, docModel.Document{Id: "a", OriginalFilename: "a.pdf", SizeBytes: 100, Status: docModel.StatusIndexed})
	seedDocument(t, f, docModel.Document{Id: "b", OriginalFilename: "b.PDF", SizeBytes: 200, Status: docModel.StatusIndexed})
	seedDocument(t, f, docModel.Document{Id: "c", OriginalFilename: "c.txt", SizeBytes: 50, Status: docModel.StatusFailed})

	stats, err := f.service.GetStats(testContext())
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}

	if stats.TotalDocuments != 3 {
		t.Errorf("TotalDocuments got %d, want 3", stats.TotalDocuments)
	}
	if stats.IndexedDocuments != 2 {
		t.Errorf("IndexedDocuments got %d, want 2", stats.IndexedDocuments)
	}
	if stats.TotalSizeBytes != 350 {
		t.Errorf("TotalSizeBytes got %d, want 350", stats.TotalSizeBytes)
	}
	if stats.ByFileType[".pdf"] != 2 || stats.ByFileType[".txt"] != 1 {
		t.Errorf("ByFileType got %v", stats.ByFileType)
	}
	if stats.ByStatus[docModel.StatusFailed] != 1 {
		t.Errorf("ByStatus got %v", stats.ByStatus)
	}
}
