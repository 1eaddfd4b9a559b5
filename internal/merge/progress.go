package merge

// Stage describes a phase of a merge run.
type Stage string

const (
	// StageLoad is reading the input tree.
	StageLoad Stage = "load"
	// StageClassify is include classification.
	StageClassify Stage = "classify"
	// StageExpand is root header expansion.
	StageExpand Stage = "expand"
	// StageEmit is body file emission.
	StageEmit Stage = "emit"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to be processed.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is in progress.
	StatusWorking Status = "working"
	// StatusDone indicates the file or stage is done.
	StatusDone Status = "done"
	// StatusSkipped marks a header that was never reached from the root.
	StatusSkipped Status = "skipped"
	// StatusError indicates the file or stage failed.
	StatusError Status = "error"
)

// Event is a progress notification. File is empty for stage-wide events.
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

// ProgressSink receives progress events. Implementations must be safe to call
// from the goroutine running the merge.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

type nopSink struct{}

func (nopSink) OnEvent(Event) {}
