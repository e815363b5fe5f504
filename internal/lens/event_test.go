package lens

import (
	"reflect"
	"testing"
)

func TestCommitPushExtraction(t *testing.T) {
	ev := Event{
		Kind: EventCommitPush,
		ID:   "push-1",
		CommitPush: &CommitPushEvent{
			Commits: []Commit{
				{Message: "fix: resolve crash", Author: "ana"},
				{Message: "test: add regression coverage", Author: "bo"},
				{Message: "docs: update changelog", Author: "ana"},
			},
			Pusher: "ci-bot",
		},
	}

	wantContent := "fix: resolve crash\ntest: add regression coverage\ndocs: update changelog"
	if got := ev.Content(); got != wantContent {
		t.Errorf("content = %q, want %q", got, wantContent)
	}

	wantContributors := []string{"ana", "bo", "ci-bot"}
	if got := ev.Contributors(); !reflect.DeepEqual(got, wantContributors) {
		t.Errorf("contributors = %v, want %v", got, wantContributors)
	}

	if got := ev.CommitCount(); got != 3 {
		t.Errorf("commit count = %d, want 3", got)
	}
}

func TestIssueExtraction(t *testing.T) {
	ev := Event{
		Kind:  EventIssue,
		ID:    "issue-9",
		Issue: &IssueEvent{Title: "Login broken", Body: "Crash on submit", Author: "cara"},
	}

	if got := ev.Content(); got != "Login broken\nCrash on submit" {
		t.Errorf("content = %q", got)
	}
	if got := ev.Contributors(); !reflect.DeepEqual(got, []string{"cara"}) {
		t.Errorf("contributors = %v", got)
	}
	if got := ev.CommitCount(); got != 0 {
		t.Errorf("commit count = %d, want 0", got)
	}
}

func TestPullRequestExtraction(t *testing.T) {
	ev := Event{
		Kind: EventPullRequest,
		ID:   "pr-4",
		PullRequest: &PullRequestEvent{
			Title:     "Add retry logic",
			Body:      "",
			Author:    "dee",
			Reviewers: []string{"ana", "dee"},
		},
	}

	if got := ev.Content(); got != "Add retry logic" {
		t.Errorf("content = %q", got)
	}
	// Author deduplicated against reviewers.
	if got := ev.Contributors(); !reflect.DeepEqual(got, []string{"dee", "ana"}) {
		t.Errorf("contributors = %v", got)
	}
}

func TestEmptyPayloadYieldsDefaults(t *testing.T) {
	// A kind tag with a nil payload still classifies, via the defaults.
	ev := Event{Kind: EventComment}
	if got := ev.Content(); got != "" {
		t.Errorf("content = %q, want empty", got)
	}
	if got := ev.Contributors(); got != nil {
		t.Errorf("contributors = %v, want nil", got)
	}

	p := ClassifyCeremony(ev.Content(), ev.Contributors())
	if p.Category != CeremonyDefaultCategory {
		t.Errorf("category = %q, want default", p.Category)
	}
}
