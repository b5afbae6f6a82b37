package domain

type RunStatus string

const (
	RunReceived         RunStatus = "RECEIVED"
	RunClassified       RunStatus = "CLASSIFIED"
	RunIdentified       RunStatus = "IDENTIFIED"
	RunSaved            RunStatus = "SAVED"
	RunSucceeded        RunStatus = "SUCCEEDED"
	RunNotificationSent RunStatus = "NOTIFICATION_SENT"
	// RunPartialFailure marks the one state where "failed" does not mean
	// "no side effect occurred": the record was persisted but the
	// negative-sentiment notification was lost.
	RunPartialFailure RunStatus = "PARTIAL_FAILURE"
	RunFailed         RunStatus = "FAILED"
)
