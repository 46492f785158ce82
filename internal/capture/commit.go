package capture

import "context"

// Committer receives recognized text once an upload settles successfully.
// The chat relay hangs off this hook.
type Committer interface {
	Commit(context.Context, string) error
}

// CommitFunc adapts a function to the Committer interface.
type CommitFunc func(context.Context, string) error

func (f CommitFunc) Commit(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Uploader hands a finalized artifact to the transcription pipeline and
// returns recognized text.
type Uploader interface {
	Submit(context.Context, Artifact) (string, error)
}

// UploadFunc adapts a function to the Uploader interface.
type UploadFunc func(context.Context, Artifact) (string, error)

func (f UploadFunc) Submit(ctx context.Context, artifact Artifact) (string, error) {
	return f(ctx, artifact)
}
