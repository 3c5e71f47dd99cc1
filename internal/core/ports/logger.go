package ports

// Logger defines the interface for logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Info reports progress.
	Info(msg string)
	// Warn reports an advisory that does not stop the run.
	Warn(msg string)
	// Debug reports detail shown only in verbose mode.
	Debug(msg string)
	// Error reports a failure, including its cause chain.
	Error(err error)
}
