// Package connectors provides access to the places a Parasol corpus lives.
// The filesystem connector is the only one: it implements the corpus
// read and write ports over the OS filesystem and watches for changes.
package connectors
