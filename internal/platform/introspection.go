package platform

import (
	"github.com/aretw0/introspection"
)

// ClientState is the state tree printed by `jot status`.
type ClientState struct {
	APIURL     string `json:"api_url"`
	Session    any    `json:"session"`
	Collection any    `json:"collection"`
	Staging    any    `json:"staging"`
	Store      any    `json:"store,omitempty"`
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	st := ClientState{
		APIURL:     c.apiURL,
		Session:    c.Sessions.State(),
		Collection: c.Notes.State(),
		Staging:    c.Staging.State(),
	}
	if in, ok := c.store.(introspection.Introspectable); ok {
		st.Store = in.State()
	}
	return st
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "client"
}

var _ introspection.Introspectable = (*Client)(nil)
var _ introspection.Component = (*Client)(nil)
