package systemprompt

import "time"

// ContextProvider is an interface that defines the title and info of a context provider
type ContextProvider interface {
	Title() string
	Info() string
}

// CurrentDate provides today's date so the model can reason about recency
type CurrentDate struct {
	// Now overrides the clock, used in tests
	Now func() time.Time
}

func (p CurrentDate) Title() string {
	return "Current date"
}

func (p CurrentDate) Info() string {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return "Today is " + now().Format("Monday, January 2, 2006") + "."
}
