// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package cosim provides a naive step based hardware simulator, using Go as a
hardware description language, together with the tools needed to compose
basic components (logic gates, adders, flip-flops, etc.) into more complex
ones.

A circuit is evaluated one step at a time: on each step, every component reads
the wire states of the previous step and sets the states of the next one. A
component therefore adds one step of propagation delay. There is no built-in
clock: clock signals are inputs driven by the caller, usually a tb.Clock.

The API is designed to mimmic a real hardware description language. As a
result, it relies heavily on closures and can feel a bit awkward when
implementing custom components. See MakePart for a struct based alternative.

*/
package cosim
