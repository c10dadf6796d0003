package notebook

// Outcome is what a reconciliation did.
type Outcome int

const (
	OutcomeNoop Outcome = iota
	OutcomeSilentReload
	OutcomeOverwrite
	OutcomeReload
	OutcomeIgnored
	OutcomeRestored
	OutcomeRestoreDeclined
	OutcomeRebuilt
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoop:
		return "noop"
	case OutcomeSilentReload:
		return "silent_reload"
	case OutcomeOverwrite:
		return "overwrite"
	case OutcomeReload:
		return "reload"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeRestored:
		return "restored"
	case OutcomeRestoreDeclined:
		return "restore_declined"
	case OutcomeRebuilt:
		return "rebuilt"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is published to subscribers after every reconciliation.
type Result struct {
	FileName string
	Outcome  Outcome
	Err      error
}

// Subscribe registers fn to receive every reconciliation result. fn runs
// on the controller loop and must not block.
func (c *Controller) Subscribe(fn func(Result)) {
	c.subscribers = append(c.subscribers, fn)
}

func (c *Controller) publish(r Result) Result {
	for _, fn := range c.subscribers {
		fn(r)
	}

	return r
}
