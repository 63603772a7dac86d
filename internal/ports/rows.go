package ports

import "context"

// RowSource fetches the delimited-text row resource
type RowSource interface {
	FetchRows(ctx context.Context) (string, error)
}

// RowSink persists the full serialized row set, replacing whatever was stored
type RowSink interface {
	SaveRows(ctx context.Context, csv string) error
}
