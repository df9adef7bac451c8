// Package jot is the composition root of the jot notes client.
//
// It wires the session, notes and staging managers of pkg/core to the HTTP
// API adapter and a credential store backend, following a hexagonal layout:
// the managers only see ports (core.AuthService, core.NotesService,
// core.CredentialStore), and adapters are picked here through functional
// options.
//
// Usage:
//
//	c, err := jot.Open(ctx, "https://notes.example.com",
//		jot.WithBackend("sqlite"),
//		jot.WithLogger(logger),
//	)
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	if _, err := c.Sessions.SignIn(ctx, "alice", "secret"); err != nil {
//		return err
//	}
//	if err := c.Notes.Refresh(ctx); err != nil {
//		return err
//	}
//	for _, n := range c.Notes.Notes() {
//		fmt.Println(n.Title)
//	}
//
// A Client holds at most one session. Signing out, or signing in as someone
// else, empties the notes cache and clears the staged note.
package jot
