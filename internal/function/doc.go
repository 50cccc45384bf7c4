// Package function compiles graph outputs and shared value updates into a
// callable.
//
// A Function evaluates its graph on every Call, reading shared values from
// their containers, and then writes each update's value back into its
// target. Together with the update pairs recorded by a random stream
// manager this is what makes successive calls draw fresh numbers.
package function
