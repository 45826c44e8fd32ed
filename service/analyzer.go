package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/yyonggg2/MechMentorApp/model"
	"github.com/yyonggg2/MechMentorApp/pkg/logger"
)

// AnalysisTask is one unit of background work: a created job id plus the
// raw uploads that belong to it.
type AnalysisTask struct {
	JobID       string
	Document    []byte
	Diagram     []byte
	DiagramType string // content type declared by the uploader
}

// Analyzer runs analysis tasks on a small worker pool. The HTTP handler
// enqueues a task after creating the pending job; a worker picks it up,
// talks to the model gateway and writes exactly one terminal state to the
// job store. Ordering across jobs is not guaranteed. Failures never
// propagate past the worker; they become a failed job.
type Analyzer struct {
	store   *JobStore
	gateway ModelGateway
	tasks   chan AnalysisTask
	workers int
	wg      sync.WaitGroup
}

// NewAnalyzer creates an analyzer. gateway may be nil when no API
// credential is configured; submitted jobs then fail with a clear message
// instead of the process refusing to start.
func NewAnalyzer(store *JobStore, gateway ModelGateway, workers, queueSize int) *Analyzer {
	if workers < 1 {
		workers = 1
	}
	return &Analyzer{
		store:   store,
		gateway: gateway,
		tasks:   make(chan AnalysisTask, queueSize),
		workers: workers,
	}
}

// Start launches the worker pool.
func (a *Analyzer) Start() {
	for i := 0; i < a.workers; i++ {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			for task := range a.tasks {
				a.process(task)
			}
		}()
	}
}

// Stop closes the queue and waits for in-flight tasks to finish. Submitted
// work is always driven to a terminal state before Stop returns.
func (a *Analyzer) Stop() {
	close(a.tasks)
	a.wg.Wait()
}

// Submit enqueues a task. Blocks only when the queue is saturated.
func (a *Analyzer) Submit(task AnalysisTask) {
	a.tasks <- task
}

// process guards the task body: nothing may escape a worker.
func (a *Analyzer) process(task AnalysisTask) {
	defer func() {
		if r := recover(); r != nil {
			a.store.Fail(task.JobID, fmt.Sprintf("An unexpected error occurred: %v", r))
		}
	}()
	a.run(task)
}

func (a *Analyzer) run(task AnalysisTask) {
	ctx := context.WithValue(context.Background(), logger.JobIDKey, task.JobID)
	logger.Info(ctx, "starting analysis")

	if a.gateway == nil {
		logger.Error(ctx, "AI model not available, failing job")
		a.store.Fail(task.JobID, "AI model not initialized.")
		return
	}

	var (
		keyTerms     []string
		labels       []model.DiagramLabel
		originalText string
	)

	if len(task.Document) > 0 {
		// Lossy by intent: invalid byte sequences are replaced, never fatal.
		originalText = strings.ToValidUTF8(string(task.Document), "�")

		raw, err := a.gateway.Generate(ctx, termExtractionPrompt(originalText), nil)
		if err != nil {
			a.fail(ctx, task.JobID, err)
			return
		}

		var parsed struct {
			Terms []string `json:"terms"`
		}
		if err := DecodeModelJSON(raw, &parsed); err != nil {
			a.fail(ctx, task.JobID, err)
			return
		}
		keyTerms = parsed.Terms
		logger.Info(ctx, "document analysis complete", "terms", len(keyTerms))
	}

	if len(task.Diagram) > 0 {
		jpegData, err := NormalizeImage(task.Diagram)
		if err != nil {
			a.fail(ctx, task.JobID, err)
			return
		}

		raw, err := a.gateway.Generate(ctx, diagramLabelingPrompt, &ImagePart{
			MIMEType: "image/jpeg",
			Data:     jpegData,
		})
		if err != nil {
			a.fail(ctx, task.JobID, err)
			return
		}

		var parsed struct {
			Labels []model.DiagramLabel `json:"labels"`
		}
		if err := DecodeModelJSON(raw, &parsed); err != nil {
			a.fail(ctx, task.JobID, err)
			return
		}
		labels = parsed.Labels
		logger.Info(ctx, "diagram analysis complete", "labels", len(labels))

		for _, l := range labels {
			keyTerms = append(keyTerms, l.Label)
		}
	}

	result := &model.AnalysisResult{
		KeyTerms:      dedupeTerms(keyTerms),
		DiagramLabels: labels,
		OriginalText:  originalText,
	}
	if result.DiagramLabels == nil {
		result.DiagramLabels = []model.DiagramLabel{}
	}

	a.store.Complete(task.JobID, result)
	logger.Info(ctx, "analysis complete")
}

func (a *Analyzer) fail(ctx context.Context, jobID string, err error) {
	logger.Error(ctx, "analysis failed", "error", err)
	a.store.Fail(jobID, fmt.Sprintf("An unexpected error occurred: %v", err))
}

// dedupeTerms removes duplicate strings, keeping first occurrences in order.
func dedupeTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}
