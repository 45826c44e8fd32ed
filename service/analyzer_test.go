package service

import (
	"context"
	"errors"
	"image"
	"reflect"
	"testing"
	"time"

	"github.com/yyonggg2/MechMentorApp/model"
)

// fakeGateway serves canned responses: one for text-only calls, one for
// calls carrying an image part.
type fakeGateway struct {
	textResp  string
	textErr   error
	imageResp string
	imageErr  error
	images    []*ImagePart
}

func (f *fakeGateway) Generate(ctx context.Context, prompt string, img *ImagePart) (string, error) {
	if img == nil {
		return f.textResp, f.textErr
	}
	f.images = append(f.images, img)
	return f.imageResp, f.imageErr
}

func (f *fakeGateway) GenerateFast(ctx context.Context, prompt string) (string, error) {
	return f.textResp, f.textErr
}

func newTestAnalyzer(store *JobStore, gateway ModelGateway) *Analyzer {
	return NewAnalyzer(store, gateway, 1, 4)
}

func TestAnalyzerDocumentOnly(t *testing.T) {
	store := NewJobStore()
	gateway := &fakeGateway{textResp: "```json\n{\"terms\":[\"servo motor\",\"chassis\"]}\n```"}
	a := newTestAnalyzer(store, gateway)

	job := store.Create()
	a.process(AnalysisTask{JobID: job.ID, Document: []byte("build notes")})

	got, _ := store.Get(job.ID)
	if got.Status != model.StatusComplete {
		t.Fatalf("Expected complete, got %s (error: %s)", got.Status, got.Error)
	}
	if !reflect.DeepEqual(got.Result.KeyTerms, []string{"servo motor", "chassis"}) {
		t.Errorf("Unexpected key terms: %v", got.Result.KeyTerms)
	}
	if got.Result.OriginalText != "build notes" {
		t.Errorf("Expected original text to be kept, got %q", got.Result.OriginalText)
	}
	if len(got.Result.DiagramLabels) != 0 {
		t.Errorf("Expected no diagram labels, got %v", got.Result.DiagramLabels)
	}
}

func TestAnalyzerDocumentLossyDecode(t *testing.T) {
	store := NewJobStore()
	gateway := &fakeGateway{textResp: `{"terms":[]}`}
	a := newTestAnalyzer(store, gateway)

	job := store.Create()
	// 0xff 0xfe is not valid UTF-8; the decode replaces instead of failing
	a.process(AnalysisTask{JobID: job.ID, Document: []byte{'o', 'k', 0xff, 0xfe}})

	got, _ := store.Get(job.ID)
	if got.Status != model.StatusComplete {
		t.Fatalf("Expected complete, got %s (error: %s)", got.Status, got.Error)
	}
	if got.Result.OriginalText != "ok�" && got.Result.OriginalText != "ok��" {
		t.Errorf("Expected invalid bytes replaced, got %q", got.Result.OriginalText)
	}
}

func TestAnalyzerDiagramOnly(t *testing.T) {
	store := NewJobStore()
	gateway := &fakeGateway{
		imageResp: `{"labels":[
			{"label":"Sun Gear","description":"Central gear.","box":[0.4,0.4,0.6,0.6]},
			{"label":"Planet Gear","description":"Orbiting gear.","box":[0.2,0.2,0.8,0.8]}
		]}`,
	}
	a := newTestAnalyzer(store, gateway)

	job := store.Create()
	diagram := encodeTestPNG(t, image.NewRGBA(image.Rect(0, 0, 4, 4)))
	a.process(AnalysisTask{JobID: job.ID, Diagram: diagram, DiagramType: "image/png"})

	got, _ := store.Get(job.ID)
	if got.Status != model.StatusComplete {
		t.Fatalf("Expected complete, got %s (error: %s)", got.Status, got.Error)
	}
	if !reflect.DeepEqual(got.Result.KeyTerms, []string{"Sun Gear", "Planet Gear"}) {
		t.Errorf("Expected key terms from labels, got %v", got.Result.KeyTerms)
	}
	if len(got.Result.DiagramLabels) != 2 {
		t.Fatalf("Expected 2 labels, got %d", len(got.Result.DiagramLabels))
	}
	if got.Result.DiagramLabels[0].Label != "Sun Gear" {
		t.Errorf("Expected model order preserved, got %v", got.Result.DiagramLabels)
	}
	if got.Result.OriginalText != "" {
		t.Errorf("Expected empty original text, got %q", got.Result.OriginalText)
	}

	// The gateway must receive the normalized JPEG, not the raw upload
	if len(gateway.images) != 1 || gateway.images[0].MIMEType != "image/jpeg" {
		t.Errorf("Expected one image/jpeg part, got %v", gateway.images)
	}
}

func TestAnalyzerMergeDeduplicates(t *testing.T) {
	store := NewJobStore()
	gateway := &fakeGateway{
		textResp:  `{"terms":["gusset","spur gear"]}`,
		imageResp: `{"labels":[{"label":"spur gear","description":"d","box":[0,0,1,1]},{"label":"motor mount","description":"d","box":[0,0,1,1]}]}`,
	}
	a := newTestAnalyzer(store, gateway)

	job := store.Create()
	diagram := encodeTestPNG(t, image.NewRGBA(image.Rect(0, 0, 4, 4)))
	a.process(AnalysisTask{JobID: job.ID, Document: []byte("text"), Diagram: diagram})

	got, _ := store.Get(job.ID)
	if got.Status != model.StatusComplete {
		t.Fatalf("Expected complete, got %s (error: %s)", got.Status, got.Error)
	}
	want := []string{"gusset", "spur gear", "motor mount"}
	if !reflect.DeepEqual(got.Result.KeyTerms, want) {
		t.Errorf("Expected deduplicated union %v, got %v", want, got.Result.KeyTerms)
	}
}

func TestAnalyzerFailures(t *testing.T) {
	diagram := func(t *testing.T) []byte {
		return encodeTestPNG(t, image.NewRGBA(image.Rect(0, 0, 2, 2)))
	}

	tests := []struct {
		name    string
		gateway ModelGateway
		task    func(t *testing.T, jobID string) AnalysisTask
	}{
		{
			"gateway error",
			&fakeGateway{textErr: errors.New("model unavailable")},
			func(t *testing.T, jobID string) AnalysisTask {
				return AnalysisTask{JobID: jobID, Document: []byte("text")}
			},
		},
		{
			"parse error",
			&fakeGateway{textResp: "I am not JSON"},
			func(t *testing.T, jobID string) AnalysisTask {
				return AnalysisTask{JobID: jobID, Document: []byte("text")}
			},
		},
		{
			"image decode error",
			&fakeGateway{},
			func(t *testing.T, jobID string) AnalysisTask {
				return AnalysisTask{JobID: jobID, Diagram: []byte("not an image")}
			},
		},
		{
			"image gateway error",
			&fakeGateway{imageErr: errors.New("network down")},
			func(t *testing.T, jobID string) AnalysisTask {
				return AnalysisTask{JobID: jobID, Diagram: diagram(t)}
			},
		},
		{
			"nil gateway",
			nil,
			func(t *testing.T, jobID string) AnalysisTask {
				return AnalysisTask{JobID: jobID, Document: []byte("text")}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewJobStore()
			a := newTestAnalyzer(store, tt.gateway)

			job := store.Create()
			a.process(tt.task(t, job.ID))

			got, _ := store.Get(job.ID)
			if got.Status != model.StatusFailed {
				t.Fatalf("Expected failed, got %s", got.Status)
			}
			if got.Error == "" {
				t.Error("Expected a failure message")
			}
		})
	}
}

func TestAnalyzerWorkerPool(t *testing.T) {
	store := NewJobStore()
	gateway := &fakeGateway{textResp: `{"terms":["bearing"]}`}
	a := NewAnalyzer(store, gateway, 2, 8)
	a.Start()

	jobs := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		job := store.Create()
		a.Submit(AnalysisTask{JobID: job.ID, Document: []byte("text")})
		jobs = append(jobs, job.ID)
	}
	a.Stop()

	for _, id := range jobs {
		got, ok := store.Get(id)
		if !ok {
			t.Fatalf("Job %s disappeared", id)
		}
		if got.Status != model.StatusComplete {
			t.Errorf("Expected job %s complete after Stop, got %s", id, got.Status)
		}
	}
}

func TestAnalyzerRecoversFromPanic(t *testing.T) {
	store := NewJobStore()
	a := newTestAnalyzer(store, panicGateway{})

	job := store.Create()
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.process(AnalysisTask{JobID: job.ID, Document: []byte("text")})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("process did not return")
	}

	got, _ := store.Get(job.ID)
	if got.Status != model.StatusFailed {
		t.Errorf("Expected panic converted to failed job, got %s", got.Status)
	}
}

type panicGateway struct{}

func (panicGateway) Generate(ctx context.Context, prompt string, img *ImagePart) (string, error) {
	panic("boom")
}

func (panicGateway) GenerateFast(ctx context.Context, prompt string) (string, error) {
	panic("boom")
}
