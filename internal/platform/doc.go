package platform

// Package platform contains OS integration glue: the state directory, directory
// creation and opening tool pages in the system browser.
