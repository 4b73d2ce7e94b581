// Package settings declares the preference namespaces used by the host app.
//
// Each namespace is a schema of rxprefs keys plus a thin typed wrapper.
// Wrappers do not own their namespace: the host opens namespaces once at
// startup (see OpenAll) and hands the wrappers to whoever needs them.
package settings
