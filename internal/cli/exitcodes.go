package cli

// Semantic process exit codes, returned by main after Execute.
const (
	ExitSuccess           = 0
	ExitWorkflowFailure   = 1
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
	ExitInternalError     = 4
)
