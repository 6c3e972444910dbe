// Ticksim runs demo workloads on the tick-based discrete-event engine and
// exposes the recording and monitoring side-cars from the command line.
package main

func main() {
	Execute()
}
