package toast

import "sync"

var (
	defaultMu     sync.Mutex
	defaultCenter *Center
)

// Init installs the process-wide center, closing any previous one.
func Init(config Config, opts ...CenterOption) *Center {
	c := New(config, opts...)

	defaultMu.Lock()
	prev := defaultCenter
	defaultCenter = c
	defaultMu.Unlock()

	if prev != nil {
		prev.Close()
	}
	return c
}

// Default returns the process-wide center, creating one with
// DefaultConfig if Init was never called.
func Default() *Center {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultCenter == nil {
		defaultCenter = New(DefaultConfig())
	}
	return defaultCenter
}

// Teardown closes the process-wide center. A later call to Default or a
// package-level helper starts a fresh one.
func Teardown() {
	defaultMu.Lock()
	c := defaultCenter
	defaultCenter = nil
	defaultMu.Unlock()

	if c != nil {
		c.Close()
	}
}

// Notify shows a notification on the process-wide center.
func Notify(kind Kind, message string, opts ...Option) Handle {
	return Default().Notify(kind, message, opts...)
}

// Success shows a success toast.
//
//	toast.Success("Changes saved!")
func Success(message string, opts ...Option) Handle {
	return Default().Success(message, opts...)
}

// Error shows an error toast.
//
//	toast.Error("Failed to delete item")
func Error(message string, opts ...Option) Handle {
	return Default().Error(message, opts...)
}

// Warning shows a warning toast.
//
//	toast.Warning("This action cannot be undone")
func Warning(message string, opts ...Option) Handle {
	return Default().Warning(message, opts...)
}

// Info shows an info toast.
//
//	toast.Info("New features available")
func Info(message string, opts ...Option) Handle {
	return Default().Info(message, opts...)
}

// Dismiss dismisses h on the process-wide center.
func Dismiss(h Handle) bool {
	return Default().Dismiss(h)
}
