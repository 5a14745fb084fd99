package httpapi

import "errors"

var (
	// ErrRepositoryRequired is returned when no item repository is provided.
	ErrRepositoryRequired = errors.New("item repository is required")

	// ErrPipelineRequired is returned when no reranking pipeline is provided.
	ErrPipelineRequired = errors.New("reranking pipeline is required")
)
