// Package toast provides the notification center behind dashboard toasts.
//
// A Center owns a single overlay that hosts every visible notification.
// The overlay is created lazily by the first Notify call and destroyed as
// soon as the last notification has been removed, so it never exists empty.
//
// # Lifecycle
//
// Each notification moves through four states:
//
//	Created → Visible → Dismissing → Removed
//
// Notify returns once the notification is Visible. A notification leaves
// Visible on whichever comes first: its timer, Dismiss, Activate or eviction.
// Later triggers are no-ops. After Config.ExitDelay the node is detached and
// the notification is Removed for good.
//
// All state lives on one goroutine owned by the Center. Calls from other
// goroutines and timer callbacks are serialized through it.
//
// # Usage
//
//	center := toast.New(toast.DefaultConfig())
//	defer center.Close()
//
//	center.Success("Project deleted")
//	h := center.Warning("Check input", toast.WithTitle("Form"), toast.Persistent())
//	center.Dismiss(h)
//
// Applications that want a process-wide instance can use the package-level
// helpers instead:
//
//	toast.Init(toast.DefaultConfig())
//	defer toast.Teardown()
//
//	toast.Error("Network failed")
//
// # Observers
//
// Renderers, metrics and archives subscribe to the event stream with
// Subscribe or WithObserver. Events are delivered in order on the Center's
// goroutine; observers must return quickly and must not call back into the
// Center synchronously.
package toast
