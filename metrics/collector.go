// Package metrics provides per-run counters for a seeding run.
//
// The Collector accumulates counters during a single run and is a leaf
// package with no internal dependencies. The pipeline is sequential, but the
// collector stays mutex-guarded so a signal handler can snapshot it safely.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of the run counters.
type Snapshot struct {
	// Input
	RecordsLoaded int64 `json:"records_loaded"`
	RecordsMapped int64 `json:"records_mapped"`
	// RecordsDropped counts activities rejected for a disallowed negative cost.
	RecordsDropped         int64 `json:"records_dropped"`
	DescriptionTruncations int64 `json:"description_truncations"`
	SourceTruncations      int64 `json:"source_truncations"`

	// Activity batches
	ChunksSubmitted    int64 `json:"chunks_submitted"`
	ChunksFailed       int64 `json:"chunks_failed"`
	ActivitiesUploaded int64 `json:"activities_uploaded"`
	ImagesAttached     int64 `json:"images_attached"`

	// Reactions and questions
	ReactionsUploaded int64 `json:"reactions_uploaded"`
	ReactionsFailed   int64 `json:"reactions_failed"`
	QuestionsCreated  int64 `json:"questions_created"`
	QuestionsFailed   int64 `json:"questions_failed"`

	// Transport (per call)
	RequestsSent   int64 `json:"requests_sent"`
	RequestsFailed int64 `json:"requests_failed"`

	// Dimensions (informational, set at construction)
	Command        string `json:"command"`
	ContentBackend string `json:"content_backend"`
	RunID          string `json:"run_id"`
}

// Collector accumulates metrics during a single run.
// All increment methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex
	s  Snapshot
}

// NewCollector creates a Collector with dimension labels.
func NewCollector(command, contentBackend, runID string) *Collector {
	return &Collector{s: Snapshot{
		Command:        command,
		ContentBackend: contentBackend,
		RunID:          runID,
	}}
}

func (c *Collector) add(fn func(s *Snapshot)) {
	if c == nil {
		return
	}
	c.mu.Lock()
	fn(&c.s)
	c.mu.Unlock()
}

// --- Input ---

// AddRecordsLoaded records parsed input records.
func (c *Collector) AddRecordsLoaded(n int) {
	c.add(func(s *Snapshot) { s.RecordsLoaded += int64(n) })
}

// IncRecordMapped records a record that survived validation.
func (c *Collector) IncRecordMapped() {
	c.add(func(s *Snapshot) { s.RecordsMapped++ })
}

// IncRecordDropped records a record removed by validation.
func (c *Collector) IncRecordDropped() {
	c.add(func(s *Snapshot) { s.RecordsDropped++ })
}

// IncDescriptionTruncated records a truncated description.
func (c *Collector) IncDescriptionTruncated() {
	c.add(func(s *Snapshot) { s.DescriptionTruncations++ })
}

// IncSourceTruncated records a truncated source.
func (c *Collector) IncSourceTruncated() {
	c.add(func(s *Snapshot) { s.SourceTruncations++ })
}

// --- Activity batches ---

// IncChunkSubmitted records an accepted chunk of size activities and images attachments.
func (c *Collector) IncChunkSubmitted(size, images int) {
	c.add(func(s *Snapshot) {
		s.ChunksSubmitted++
		s.ActivitiesUploaded += int64(size)
		s.ImagesAttached += int64(images)
	})
}

// IncChunkFailed records a rejected chunk.
func (c *Collector) IncChunkFailed() {
	c.add(func(s *Snapshot) { s.ChunksFailed++ })
}

// --- Reactions and questions ---

// IncReactionUploaded records an accepted reaction.
func (c *Collector) IncReactionUploaded() {
	c.add(func(s *Snapshot) { s.ReactionsUploaded++ })
}

// IncReactionFailed records a rejected reaction.
func (c *Collector) IncReactionFailed() {
	c.add(func(s *Snapshot) { s.ReactionsFailed++ })
}

// IncQuestionCreated records a created question.
func (c *Collector) IncQuestionCreated() {
	c.add(func(s *Snapshot) { s.QuestionsCreated++ })
}

// IncQuestionFailed records a rejected question.
func (c *Collector) IncQuestionFailed() {
	c.add(func(s *Snapshot) { s.QuestionsFailed++ })
}

// --- Transport ---
// Transport counters are per call. A chunk of 20 activities is one request.

// IncRequestSent records a request that received an HTTP response.
func (c *Collector) IncRequestSent() {
	c.add(func(s *Snapshot) { s.RequestsSent++ })
}

// IncRequestFailed records a request that failed at the network level.
func (c *Collector) IncRequestFailed() {
	c.add(func(s *Snapshot) { s.RequestsFailed++ })
}

// --- Snapshot ---

// Snapshot returns a copy of the current counters.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s
}
