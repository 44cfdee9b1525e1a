package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"study-backend/internal/artifacts"
	"study-backend/internal/documents"
	"study-backend/internal/extract"
	"study-backend/internal/shared/metrics"
	"study-backend/internal/shared/storage/object"
	"study-backend/internal/shared/telemetry"
	"study-backend/internal/studygen"
)

// Publisher hands runs to an external queue. When nil, runs execute on
// an in-process goroutine.
type Publisher interface {
	Publish(ctx context.Context, documentID string) error
}

// Service executes the document pipeline: extract text, fan out the
// four generators, persist artifacts, then apply exactly one status
// transition on the document.
type Service struct {
	Docs      documents.Repo
	Artifacts artifacts.Repo
	Jobs      JobsRepo
	Gen       *studygen.Generator
	Store     object.ObjectStore
	Publisher Publisher
	Timeout   time.Duration

	// extractFn is replaceable in tests.
	extractFn func(ctx context.Context, store object.ObjectStore, storageKey, kind string) (string, error)
}

// Enqueue satisfies documents.Queue. The upload response never waits
// for the run.
func (s *Service) Enqueue(ctx context.Context, documentID string) error {
	if s.Publisher != nil {
		return s.Publisher.Publish(ctx, documentID)
	}
	go func() {
		// Detached from the request context on purpose: the run must
		// outlive the upload request.
		if err := s.Run(context.Background(), documentID); err != nil {
			telemetry.Error("pipeline.run_failed", map[string]any{
				"documentId": documentID,
				"error":      err.Error(),
			})
		}
	}()
	return nil
}

// Run processes one document end to end. It is safe to call for a
// document in any state; only documents still in processing are
// touched.
func (s *Service) Run(ctx context.Context, documentID string) error {
	doc, err := s.Docs.GetAnyByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("pipeline load document %s: %w", documentID, err)
	}
	if doc.Status != documents.StatusProcessing {
		telemetry.Info("pipeline.skip_terminal", map[string]any{
			"documentId": doc.ID,
			"status":     doc.Status,
		})
		return nil
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	job, err := s.startJob(ctx, doc.ID)
	if err != nil {
		return err
	}
	metrics.IncPipelineStarted()
	started := time.Now()

	runErr := s.process(runCtx, doc)
	metrics.ObservePipelineDurationMs(float64(time.Since(started).Milliseconds()))

	if runErr != nil {
		code := failureCode(runErr)
		s.finish(ctx, doc.ID, job.ID, documents.StatusFailed, code, runErr.Error())
		metrics.IncPipelineFailed()
		telemetry.Error("pipeline.failed", map[string]any{
			"documentId": doc.ID,
			"errorCode":  code,
			"error":      runErr.Error(),
			"durationMs": time.Since(started).Milliseconds(),
		})
		return nil
	}

	s.finish(ctx, doc.ID, job.ID, documents.StatusCompleted, "", "")
	metrics.IncPipelineCompleted()
	telemetry.Info("pipeline.completed", map[string]any{
		"documentId": doc.ID,
		"durationMs": time.Since(started).Milliseconds(),
	})
	return nil
}

func (s *Service) process(ctx context.Context, doc documents.Document) error {
	text, err := s.sourceText(ctx, doc)
	if err != nil {
		return err
	}

	var (
		summary artifacts.Summary
		note    artifacts.Note
		cards   []artifacts.Flashcard
		quiz    []artifacts.QuizQuestion
	)

	// Summary and notes are required; flashcards and quiz self-catch
	// inside the generator and come back empty on failure.
	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.Gen.Summary(groupCtx, doc.UserID, doc.ID, text)
		return err
	})
	g.Go(func() error {
		var err error
		note, err = s.Gen.Notes(groupCtx, doc.UserID, doc.ID, text)
		return err
	})
	g.Go(func() error {
		cards = s.Gen.Flashcards(groupCtx, doc.UserID, doc.ID, text)
		return nil
	})
	g.Go(func() error {
		quiz = s.Gen.Quiz(groupCtx, doc.UserID, doc.ID, text)
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("generate artifacts: %w", err)
	}

	if err := s.Artifacts.SaveSummary(ctx, summary); err != nil {
		return fmt.Errorf("persist summary: %w", err)
	}
	if err := s.Artifacts.SaveNote(ctx, note); err != nil {
		return fmt.Errorf("persist notes: %w", err)
	}
	if err := s.Artifacts.ReplaceFlashcards(ctx, doc.ID, cards); err != nil {
		return fmt.Errorf("persist flashcards: %w", err)
	}
	if err := s.Artifacts.ReplaceQuizQuestions(ctx, doc.ID, quiz); err != nil {
		return fmt.Errorf("persist quiz: %w", err)
	}
	return nil
}

// sourceText produces the generator input. Files are extracted; videos
// get a synthetic context naming the video, since no transcript is
// fetched.
func (s *Service) sourceText(ctx context.Context, doc documents.Document) (string, error) {
	if doc.Kind == documents.KindYouTube {
		return fmt.Sprintf(
			"The study material is the YouTube video %q (%s). No transcript is available. "+
				"Base the study material on the topics a video with this title most likely covers.",
			doc.Name, doc.VideoURL,
		), nil
	}
	extractText := s.extractFn
	if extractText == nil {
		extractText = extract.Text
	}
	text, err := extractText(ctx, s.Store, doc.StorageKey, doc.Kind)
	if err != nil {
		return "", fmt.Errorf("%w: %s", errExtraction, err.Error())
	}
	return text, nil
}

var errExtraction = errors.New("extraction failed")

func failureCode(err error) string {
	switch {
	case errors.Is(err, errExtraction):
		return documents.ErrorCodeExtraction
	case errors.Is(err, context.DeadlineExceeded):
		return documents.ErrorCodeTimeout
	default:
		return documents.ErrorCodeGeneration
	}
}

func (s *Service) startJob(ctx context.Context, documentID string) (Job, error) {
	attempts, err := s.Jobs.CountByDocument(ctx, documentID)
	if err != nil {
		return Job{}, err
	}
	job := Job{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		Status:     JobRunning,
		Attempts:   attempts + 1,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Jobs.Create(ctx, job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// finish applies the document's single status transition and closes the
// job record. The guarded update means a duplicate queue delivery can
// never flip a terminal status.
func (s *Service) finish(ctx context.Context, documentID, jobID, status, errorCode, errorMessage string) {
	publicMessage := ""
	if status == documents.StatusFailed {
		publicMessage = publicFailureMessage(errorCode)
	}
	applied, err := s.Docs.UpdateStatus(ctx, documentID, status, errorCode, publicMessage, time.Now().UTC())
	if err != nil {
		telemetry.Error("pipeline.status_update_failed", map[string]any{
			"documentId": documentID,
			"error":      err.Error(),
		})
	} else if !applied {
		telemetry.Warn("pipeline.status_already_terminal", map[string]any{
			"documentId": documentID,
			"status":     status,
		})
	}

	jobStatus := JobCompleted
	if status == documents.StatusFailed {
		jobStatus = JobFailed
	}
	if err := s.Jobs.Finish(ctx, jobID, jobStatus, errorCode, errorMessage); err != nil {
		telemetry.Error("pipeline.job_update_failed", map[string]any{
			"jobId": jobID,
			"error": err.Error(),
		})
	}
}

// publicFailureMessage maps failure codes to static, user-safe text.
// Raw error detail stays in the job record and logs.
func publicFailureMessage(code string) string {
	switch code {
	case documents.ErrorCodeExtraction:
		return "we could not read any text from this document"
	case documents.ErrorCodeTimeout:
		return "processing took too long and was stopped"
	default:
		return "generation failed, please try again"
	}
}

// ReapOrphans marks documents stuck in processing as failed. Called at
// startup: anything still in processing at that point was interrupted
// by a crash or deploy.
func (s *Service) ReapOrphans(ctx context.Context) error {
	docs, err := s.Docs.ListProcessing(ctx)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		applied, err := s.Docs.UpdateStatus(ctx, doc.ID, documents.StatusFailed,
			documents.ErrorCodeInternal, "processing was interrupted, please re-upload", time.Now().UTC())
		if err != nil {
			return err
		}
		if applied {
			telemetry.Warn("pipeline.reaped_orphan", map[string]any{"documentId": doc.ID})
		}
	}
	return nil
}
