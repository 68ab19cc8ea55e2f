package dashboard

// Package dashboard is the headless layout engine behind the tool grid. It owns the
// card registry, the live order, the drag and resize gesture machines, the overlay menu
// state and the status polling loop. It never touches a widget toolkit: geometry comes
// in through Surface, notifications go out through View, and animation frames are
// requested from a FrameScheduler.
//
// All state lives on a Dashboard behind one mutex. View notifications are collected
// while the lock is held and delivered after it is released, so a View may call back
// into the Dashboard from inside a notification.
