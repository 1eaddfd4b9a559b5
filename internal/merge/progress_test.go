package merge

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type recordingSink struct{ events []Event }

func (s *recordingSink) OnEvent(evt Event) { s.events = append(s.events, evt) }

func TestProgressEvents(t *testing.T) {
	fx := cyclicTree()
	fx["duk_orphan.h"] = "int orphan;\n"
	sink := &recordingSink{}
	if _, err := Merge(context.Background(), fx.fileSet(), Options{Progress: sink}); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := []Event{
		{Stage: StageClassify, Status: StatusWorking},
		{Stage: StageClassify, Status: StatusDone},
		{File: "duk_internal.h", Stage: StageExpand, Status: StatusDone},
		{File: "duk_a.h", Stage: StageExpand, Status: StatusDone},
		{File: "duk_b.h", Stage: StageExpand, Status: StatusDone},
		{File: "duk_c.h", Stage: StageExpand, Status: StatusDone},
		{File: "duk_orphan.h", Stage: StageExpand, Status: StatusSkipped},
		{File: "duk_x.c", Stage: StageEmit, Status: StatusDone},
		{Stage: StageEmit, Status: StatusDone},
	}
	if diff := cmp.Diff(want, sink.events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestProgressReportsFailingFile(t *testing.T) {
	fx := fixture{"duk_internal.h": "#include \"duk_missing.h\"\n"}
	sink := &recordingSink{}
	if _, err := Merge(context.Background(), fx.fileSet(), Options{Progress: sink}); err == nil {
		t.Fatal("expected resolution error")
	}
	last := sink.events[len(sink.events)-1]
	if last != (Event{File: "duk_internal.h", Stage: StageExpand, Status: StatusError}) {
		t.Fatalf("last event = %+v", last)
	}
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{File: "a.c", Stage: StageEmit, Status: StatusDone})
	if got := <-ch; got.File != "a.c" {
		t.Fatalf("got %+v", got)
	}
	ChannelSink{}.OnEvent(Event{})
}
