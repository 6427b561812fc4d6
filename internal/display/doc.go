// Package display draws toasts and the confirmation dialog with GTK4 and
// libadwaita. Toasts are Wayland layer-shell surfaces anchored to one of the
// seven screen positions; the dialog is a layer-shell surface on the overlay
// layer that takes the keyboard. Intents from the notification core are
// marshalled onto the GTK main loop, and user input is reported back to a
// render.EventSink.
package display
