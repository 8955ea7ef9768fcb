package model

import "time"

// PipelineOption defines the interface for pipeline options.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error

	pipelineEntryOption
	pipelineJobOption

	// Finish runs once after every job of the pipeline is finished.
	Finish() error
}

// pipelineEntryOption defines the interface for entry options at the pipeline level.
type pipelineEntryOption interface {
	// PrepareEntry runs once per entry when the queue is sealed.
	PrepareEntry(parent, entry *EntryInfo) error
	// OnEntryOutput runs everytime an entry returns a handle.
	OnEntryOutput(job string, entry *EntryInfo, computationDuration time.Duration) error
}

// pipelineJobOption defines the interface for job options at the pipeline level.
type pipelineJobOption interface {
	// AfterJob runs after a job went through the whole queue, failed or not.
	AfterJob(job string, totalDuration time.Duration, err error) error
}
