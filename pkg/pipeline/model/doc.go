// Package model provides the data structures shared by the pipeline package and its options.
// It defines the information exposed about each queue entry and the hooks a pipeline option
// can implement to observe a run.
package model
