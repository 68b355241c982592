package tracing

import "fmt"

// Context identifies a single inbound request across logs.
type Context struct {
	RequestID     string
	RequestSource string
}

func (c Context) String() string {
	return fmt.Sprintf("[%s/%s]", c.RequestSource, c.RequestID)
}
