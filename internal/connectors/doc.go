// Package connectors provides implementations of the Connector interface.
// A connector knows how to fetch raw documents from a corpus location;
// the filesystem connector walks a local directory tree and can watch
// it for changes.
package connectors
