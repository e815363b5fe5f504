package lens

import "strings"

// EventKind tags the closed set of event shapes the classifiers accept.
type EventKind string

const (
	EventCommitPush  EventKind = "commit_push"
	EventIssue       EventKind = "issue"
	EventPullRequest EventKind = "pull_request"
	EventComment     EventKind = "comment"
)

// Commit is one commit inside a push event.
type Commit struct {
	Message string `json:"message"`
	Author  string `json:"author"`
}

// CommitPushEvent is a push of one or more commits.
type CommitPushEvent struct {
	Commits []Commit `json:"commits"`
	Pusher  string   `json:"pusher"`
}

// IssueEvent is an opened or edited issue.
type IssueEvent struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Author string `json:"author"`
}

// PullRequestEvent is an opened or edited pull request.
type PullRequestEvent struct {
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Author    string   `json:"author"`
	Reviewers []string `json:"reviewers"`
}

// CommentEvent is a comment on an issue or pull request.
type CommentEvent struct {
	Body   string `json:"body"`
	Author string `json:"author"`
}

// Event is the envelope handed to the classifiers. Kind selects which
// payload field is populated; the rest are nil. Extraction is one explicit
// function per shape, never payload shape-sniffing.
type Event struct {
	Kind        EventKind         `json:"kind"`
	ID          string            `json:"id"`
	CommitPush  *CommitPushEvent  `json:"commit_push,omitempty"`
	Issue       *IssueEvent       `json:"issue,omitempty"`
	PullRequest *PullRequestEvent `json:"pull_request,omitempty"`
	Comment     *CommentEvent     `json:"comment,omitempty"`
}

// Content extracts the classifiable text for the event's kind. Unknown or
// empty payloads yield "", which classifiers treat as a default-category
// input rather than an error.
func (e Event) Content() string {
	switch e.Kind {
	case EventCommitPush:
		return commitPushContent(e.CommitPush)
	case EventIssue:
		return issueContent(e.Issue)
	case EventPullRequest:
		return pullRequestContent(e.PullRequest)
	case EventComment:
		return commentContent(e.Comment)
	}
	return ""
}

// Contributors extracts the distinct contributor identities for the event's
// kind, preserving first-seen order.
func (e Event) Contributors() []string {
	switch e.Kind {
	case EventCommitPush:
		return commitPushContributors(e.CommitPush)
	case EventIssue:
		if e.Issue != nil && e.Issue.Author != "" {
			return []string{e.Issue.Author}
		}
	case EventPullRequest:
		return pullRequestContributors(e.PullRequest)
	case EventComment:
		if e.Comment != nil && e.Comment.Author != "" {
			return []string{e.Comment.Author}
		}
	}
	return nil
}

// CommitCount reports the number of commits carried by the event, zero for
// non-push shapes.
func (e Event) CommitCount() int {
	if e.Kind == EventCommitPush && e.CommitPush != nil {
		return len(e.CommitPush.Commits)
	}
	return 0
}

func commitPushContent(p *CommitPushEvent) string {
	if p == nil {
		return ""
	}
	messages := make([]string, 0, len(p.Commits))
	for _, c := range p.Commits {
		if c.Message != "" {
			messages = append(messages, c.Message)
		}
	}
	return strings.Join(messages, "\n")
}

func issueContent(i *IssueEvent) string {
	if i == nil {
		return ""
	}
	return joinNonEmpty(i.Title, i.Body)
}

func pullRequestContent(pr *PullRequestEvent) string {
	if pr == nil {
		return ""
	}
	return joinNonEmpty(pr.Title, pr.Body)
}

func commentContent(c *CommentEvent) string {
	if c == nil {
		return ""
	}
	return c.Body
}

func commitPushContributors(p *CommitPushEvent) []string {
	if p == nil {
		return nil
	}
	seen := make(map[string]bool)
	var contributors []string
	for _, c := range p.Commits {
		if c.Author != "" && !seen[c.Author] {
			seen[c.Author] = true
			contributors = append(contributors, c.Author)
		}
	}
	if p.Pusher != "" && !seen[p.Pusher] {
		contributors = append(contributors, p.Pusher)
	}
	return contributors
}

func pullRequestContributors(pr *PullRequestEvent) []string {
	if pr == nil {
		return nil
	}
	seen := make(map[string]bool)
	var contributors []string
	if pr.Author != "" {
		seen[pr.Author] = true
		contributors = append(contributors, pr.Author)
	}
	for _, r := range pr.Reviewers {
		if r != "" && !seen[r] {
			seen[r] = true
			contributors = append(contributors, r)
		}
	}
	return contributors
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
