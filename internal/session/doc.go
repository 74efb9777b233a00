// Package session tracks transient per-user flow state: the fact that the
// next message of a certain kind from a user continues a multi-step
// interaction started earlier (picking a new cover for a video, naming a
// just-uploaded cover).
//
// State lives in process memory only. It does not survive a restart, and a
// pending interaction set by one instance is invisible to another. That
// trade-off is intentional for a single-instance deployment; the Store
// surface is small enough to back with the database if that ever changes.
package session
