// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command accelsim runs the DummyAccel test suite.
//
//	accelsim run --model behavioral --a 3 --b 4
//	accelsim list
//
package main

func main() {
	Execute()
}
