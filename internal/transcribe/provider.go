package transcribe

import "context"

// JobStatus is the provider-reported processing state of one transcription job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusError      JobStatus = "error"
)

// Word is one recognized token with timing, when the provider supplies it.
type Word struct {
	Text       string  `json:"text"`
	StartMS    int     `json:"start"`
	EndMS      int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Job is one provider job snapshot returned by a status poll.
type Job struct {
	ID           string
	Status       JobStatus
	Text         string
	Language     string
	Confidence   float64
	Words        []Word
	ErrorMessage string
}

// JobOptions are the recognition hints sent when a job is started.
type JobOptions struct {
	LanguageDetection bool
	Punctuate         bool
	FormatText        bool
}

// Provider is the speech-to-text collaborator behind the upload pipeline.
// Upload stores raw audio and returns an opaque handle; StartJob submits the
// handle for processing; Job fetches one status snapshot.
type Provider interface {
	Upload(ctx context.Context, audio []byte) (handle string, err error)
	StartJob(ctx context.Context, handle string, opts JobOptions) (jobID string, err error)
	Job(ctx context.Context, jobID string) (Job, error)
}
