// Package plugin is the host-side instance of the image toolkit plugin.
//
// A Plugin owns the live settings record and everything around it: the
// store the record is loaded from and saved to, the background persister,
// the change notifier, the last-known-good cache shared by settings panels,
// and the feature state that decides where image viewing is attached.
//
// # Lifecycle
//
//	p := plugin.New(path, plugin.WithViewer(v), plugin.WithLogger(log))
//	if err := p.Activate(ctx); err != nil {
//	    return err
//	}
//	defer p.Deactivate(ctx)
//
//	tab := p.SettingsTab(translator.Func())
//	tab.Display(surface)
//
// # Threading
//
// The record is edited in place by settings panels and must only be touched
// from the host's UI goroutine. File change reloads are handed to the
// dispatcher set with WithDispatcher; without one they run on the watcher
// goroutine, which is only safe for hosts that do not edit concurrently.
package plugin
