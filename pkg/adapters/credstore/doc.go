// Package credstore provides the credential store backends: an on-disk
// directory of JSON records (File), an SQLite table (SQLite) and an
// in-process map (Memory).
//
// All backends implement core.CredentialStore. Only File implements
// core.Watchable.
package credstore
