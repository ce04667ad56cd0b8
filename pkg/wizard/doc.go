// Package wizard holds the navigation core shared by every front-end: the
// clamped step State, the Controller that gates forward moves on validation,
// and the Progress mapping. Controllers are cheap and explicitly owned; the
// HTTP front-end builds one per request from the step carried in the form,
// the terminal front-end keeps one for the whole session.
package wizard
