package activity

import "context"

type Repository interface {
	AppendLog(ctx context.Context, log Log) error
	ListLogs(ctx context.Context) ([]Log, error)
}

// Recorder is the write side of the audit trail, as other domains see it.
type Recorder interface {
	Record(ctx context.Context, entry Entry) (Log, error)
}
