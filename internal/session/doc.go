// Package session tracks browser and CLI sessions across requests.
//
// Every request gets a session: the manager resolves an existing one from
// the X-Auth-Token header or the session cookie, and creates a fresh one
// when neither names a live session. Sessions start anonymous; the login
// handler attaches an auth token to mark a session authenticated. Each
// resolved session has its idle deadline pushed forward, so sessions
// expire only after a quiet period, not on a fixed schedule.
//
// Persistence is SQLite through the Repository interface, with expired
// rows reaped by a background loop (Manager.Run).
package session
