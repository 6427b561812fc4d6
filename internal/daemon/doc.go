// Package daemon glues the toastd pieces together. It tracks which toast
// belongs to which D-Bus notification, posts toastd's own status messages
// as toasts, and hot-reloads the configuration file.
package daemon
