package interfaces

import "time"

// ICommandMetrics records façade outcomes. result is "ok" or the error code.
type ICommandMetrics interface {
	ObserveCommand(command, result string, elapsed time.Duration)
	IncConflictRetry(command string)
	IncPayment(kind, result string)
}
