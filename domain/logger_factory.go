package domain

// LoggerFactory creates component-scoped loggers.
type LoggerFactory interface {
	CreateLogger(component string) Logger
}
