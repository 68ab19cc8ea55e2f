package toolapi

// Package toolapi talks to the local tool controller over HTTP. Responses are decoded
// loosely and validated record by record, so one malformed tool never hides the rest.
