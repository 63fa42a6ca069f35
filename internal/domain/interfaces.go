package domain

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mocks/domain_mocks.go -package=mocks

// Cloner populates a destination with a version control checkout
type Cloner interface {
	Clone(ctx context.Context, url, dest string, opts CloneOptions) error
}

// Downloader fetches an archive and, optionally, extracts it into a destination
type Downloader interface {
	Download(ctx context.Context, url, dest string, opts DownloadOptions) error
}

// Remover recursively deletes a path
type Remover interface {
	RemoveAll(path string) error
}
