/*
Package claims implements the proof-of-existence claim registry state transitions.

A claim binds a content fingerprint (typically a hash of a document) to the identity
that registered it and to the host sequence number at which ownership was last set.
Three operations change the registry: Register creates a claim for an unclaimed
fingerprint, Transfer hands an existing claim to another identity and Revoke removes it.
Revoke and Transfer may only be issued by the current owner.

The operations are synchronous and never spawn goroutines. They assume the caller
(a host executor, see the sequencer package) presents them one at a time and supplies
an already authenticated caller identity together with a monotonic sequence number.
A successful operation returns the event describing the transition; a failed one
returns one of the errors of this package and leaves the registry untouched.
*/
package claims
