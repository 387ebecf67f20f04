package workflow

import (
	"fmt"
	"time"
)

// ContentType identifies a kind of deliverable content.
type ContentType string

// Supported content types.
const (
	ContentArticle      ContentType = "article"
	ContentBlogPost     ContentType = "blog_post"
	ContentSocialPost   ContentType = "social_post"
	ContentPresentation ContentType = "presentation"
	ContentEmail        ContentType = "email"
	ContentNewsletter   ContentType = "newsletter"
	ContentWhitepaper   ContentType = "whitepaper"
	ContentCaseStudy    ContentType = "case_study"
)

// Tone identifies the target voice for produced content.
type Tone string

// Supported tones.
const (
	ToneProfessional   Tone = "professional"
	ToneConversational Tone = "conversational"
	ToneTechnical      Tone = "technical"
	TonePersuasive     Tone = "persuasive"
	ToneEducational    Tone = "educational"
	ToneInspirational  Tone = "inspirational"
)

// Priority orders competing requests.
type Priority string

// Request priorities.
const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Request is the immutable input to a workflow execution, created once
// per submission. AdditionalContext passes through to collaborators
// unmodified.
type Request struct {
	RequestText       string         `json:"request_text"`
	ContentTypes      []ContentType  `json:"content_types"`
	Priority          Priority       `json:"priority"`
	Deadline          *time.Time     `json:"deadline,omitempty"`
	Audience          string         `json:"audience,omitempty"`
	Tone              Tone           `json:"tone,omitempty"`
	AdditionalContext map[string]any `json:"additional_context,omitempty"`

	// AdvisoryOverride forces every gate in this execution to advisory
	// mode, recording issues without blocking. Per-step gate modes apply
	// when false.
	AdvisoryOverride bool `json:"advisory_override,omitempty"`
}

// Validate checks that the request carries enough information to select
// and execute a workflow.
func (r *Request) Validate() error {
	if r.RequestText == "" {
		return fmt.Errorf("%w: request_text required", ErrInvalidRequest)
	}
	if len(r.ContentTypes) == 0 {
		return fmt.Errorf("%w: at least one content type required", ErrInvalidRequest)
	}
	return nil
}

// HasDeadline reports whether the request carries a deadline.
func (r *Request) HasDeadline() bool {
	return r.Deadline != nil && !r.Deadline.IsZero()
}

// PastDeadline reports whether the request deadline has elapsed at the
// given instant.
func (r *Request) PastDeadline(now time.Time) bool {
	return r.HasDeadline() && now.After(*r.Deadline)
}
