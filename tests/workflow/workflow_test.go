package workflow_test

import (
	"errors"
	"testing"
	"time"

	"github.com/JaimeStill/quill/workflow"
)

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request workflow.Request
		wantErr bool
	}{
		{
			name: "valid",
			request: workflow.Request{
				RequestText:  "write about cloud migration",
				ContentTypes: []workflow.ContentType{workflow.ContentArticle},
			},
			wantErr: false,
		},
		{
			name: "missing request text",
			request: workflow.Request{
				ContentTypes: []workflow.ContentType{workflow.ContentArticle},
			},
			wantErr: true,
		},
		{
			name: "missing content types",
			request: workflow.Request{
				RequestText: "write about cloud migration",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, workflow.ErrInvalidRequest) {
					t.Errorf("error %v is not ErrInvalidRequest", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRequestDeadline(t *testing.T) {
	now := time.Now()

	req := workflow.Request{}
	if req.HasDeadline() {
		t.Error("request without deadline reports HasDeadline")
	}
	if req.PastDeadline(now) {
		t.Error("request without deadline reports PastDeadline")
	}

	past := now.Add(-time.Hour)
	req.Deadline = &past
	if !req.HasDeadline() {
		t.Error("request with deadline reports no deadline")
	}
	if !req.PastDeadline(now) {
		t.Error("elapsed deadline not detected")
	}

	future := now.Add(time.Hour)
	req.Deadline = &future
	if req.PastDeadline(now) {
		t.Error("future deadline reported as elapsed")
	}
}

func TestArtifactPayload(t *testing.T) {
	artifact := workflow.NewArtifact(workflow.ArtifactDraft, "draft-article", "body text")

	if artifact.Kind != workflow.ArtifactDraft {
		t.Errorf("kind: got %s, want %s", artifact.Kind, workflow.ArtifactDraft)
	}
	if artifact.StepID != "draft-article" {
		t.Errorf("step id: got %s, want draft-article", artifact.StepID)
	}
	if artifact.CreatedAt.IsZero() {
		t.Error("created_at not stamped")
	}

	text, ok := workflow.Payload[string](artifact)
	if !ok {
		t.Fatal("payload extraction failed")
	}
	if text != "body text" {
		t.Errorf("payload: got %s, want body text", text)
	}

	if _, ok := workflow.Payload[int](artifact); ok {
		t.Error("payload extraction succeeded for wrong type")
	}
}

func TestBundle(t *testing.T) {
	members := map[string]workflow.Artifact{
		"draft-article": workflow.NewArtifact(workflow.ArtifactDraft, "draft-article", "a"),
		"draft-email":   workflow.NewArtifact(workflow.ArtifactDraft, "draft-email", "b"),
	}

	bundle := workflow.Bundle("fan-in", members)
	if bundle.Kind != workflow.ArtifactBundle {
		t.Errorf("kind: got %s, want %s", bundle.Kind, workflow.ArtifactBundle)
	}

	got, ok := workflow.Payload[map[string]workflow.Artifact](bundle)
	if !ok {
		t.Fatal("bundle payload extraction failed")
	}
	if len(got) != 2 {
		t.Errorf("bundle members: got %d, want 2", len(got))
	}
}

func TestGateResultBlocked(t *testing.T) {
	tests := []struct {
		name   string
		result workflow.GateResult
		want   bool
	}{
		{
			name:   "clean pass",
			result: workflow.GateResult{Score: 0.9, Threshold: 0.7},
			want:   false,
		},
		{
			name:   "score below threshold",
			result: workflow.GateResult{Score: 0.5, Threshold: 0.7},
			want:   true,
		},
		{
			name:   "blocking issue despite score",
			result: workflow.GateResult{Score: 0.9, Threshold: 0.7, Issues: []string{"missing citation"}},
			want:   true,
		},
		{
			name:   "advisory pass still reports blocked",
			result: workflow.GateResult{Passed: true, Advisory: true, Score: 0.4, Threshold: 0.7},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Blocked(); got != tt.want {
				t.Errorf("Blocked() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStepStatusTerminal(t *testing.T) {
	terminal := []workflow.StepStatus{
		workflow.StatusSucceeded,
		workflow.StatusFailed,
		workflow.StatusSkipped,
	}
	for _, status := range terminal {
		if !status.Terminal() {
			t.Errorf("%s should be terminal", status)
		}
	}

	active := []workflow.StepStatus{workflow.StatusPending, workflow.StatusRunning}
	for _, status := range active {
		if status.Terminal() {
			t.Errorf("%s should not be terminal", status)
		}
	}
}

func TestExecutionResultAccessors(t *testing.T) {
	result := workflow.ExecutionResult{
		Steps: []workflow.StepResult{
			{StepID: "research", Status: workflow.StatusSucceeded},
			{
				StepID: "draft",
				Status: workflow.StatusFailed,
				Gate:   &workflow.GateResult{Issues: []string{"word count below minimum"}},
			},
			{StepID: "render", Status: workflow.StatusSkipped},
		},
	}

	failure := result.FirstFailure()
	if failure == nil || failure.StepID != "draft" {
		t.Fatalf("first failure: got %+v, want draft", failure)
	}

	issues := result.Issues()
	if len(issues) != 1 || issues[0] != "word count below minimum" {
		t.Errorf("issues: got %v", issues)
	}

	if step := result.Step("render"); step == nil || step.Status != workflow.StatusSkipped {
		t.Errorf("step lookup: got %+v", step)
	}
	if step := result.Step("missing"); step != nil {
		t.Errorf("lookup of unknown step returned %+v", step)
	}
}

func TestExecutionResultNoFailure(t *testing.T) {
	result := workflow.ExecutionResult{
		Success: true,
		Steps: []workflow.StepResult{
			{StepID: "research", Status: workflow.StatusSucceeded},
		},
	}

	if result.FirstFailure() != nil {
		t.Error("FirstFailure returned a step for a successful execution")
	}
	if result.Issues() != nil {
		t.Error("Issues returned values for a successful execution")
	}
}
