// Package hypr is a client for the Hyprland compositor's IPC sockets.
//
// A Connection is bound to one compositor instance. Commands and queries go
// over the control socket, one connection per request. Events arrive on the
// event socket and are either fanned out to any number of Subscriptions by a
// background listener or read one at a time with an EventReader.
package hypr
