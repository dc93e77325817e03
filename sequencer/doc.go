/*
Package sequencer is a reference host executor for the claim registry.

A single goroutine (Run) owns the registry. Calls submitted from any number of
goroutines are queued and applied strictly one at a time: each call is assigned the
next sequence number, validated and applied by the claims package and, on success,
its event is handed to the configured sink before the next call starts.
*/
package sequencer
