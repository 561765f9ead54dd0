package invoices

type OutcomeKind int

const (
	// Completed means the action is done and the caller stays where it is.
	Completed OutcomeKind = iota
	// Redirect means the caller should navigate to Location.
	Redirect
)

func (k OutcomeKind) String() string {
	switch k {
	case Completed:
		return "completed"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

type Outcome struct {
	Kind     OutcomeKind
	Location string
}

func completed() Outcome {
	return Outcome{Kind: Completed}
}

func redirectTo(path string) Outcome {
	return Outcome{Kind: Redirect, Location: path}
}
