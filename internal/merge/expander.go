package merge

import (
	"context"
	"fmt"

	"amalgam/internal/diag"
	"amalgam/internal/emit"
	"amalgam/internal/include"
	"amalgam/internal/source"
	"amalgam/internal/trace"
)

// Expander flattens internal headers into a sink, each at most once.
//
// The processed set lives in the Expander, so it exists only for one merge:
// create a new Expander per run.
type Expander struct {
	files      *source.FileSet
	classifier *include.Classifier
	keep       map[string]struct{}
	sink       emit.Sink
	reporter   diag.Reporter
	progress   ProgressSink
	tracer     trace.Tracer
	parent     uint64

	processed map[string]bool // header base name -> уже развёрнут
	flattened []string        // порядок первого включения
}

// NewExpander prepares an expander. keep lists headers whose include
// directives are emitted verbatim instead of being flattened.
func NewExpander(files *source.FileSet, classifier *include.Classifier, keep []string, sink emit.Sink, reporter diag.Reporter) *Expander {
	keepSet := make(map[string]struct{}, len(keep))
	for _, name := range keep {
		keepSet[name] = struct{}{}
	}
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Expander{
		files:      files,
		classifier: classifier,
		keep:       keepSet,
		sink:       sink,
		reporter:   reporter,
		progress:   nopSink{},
		tracer:     trace.Nop,
		processed:  make(map[string]bool),
	}
}

// withTrace attaches the tracer from ctx; events are parented to parent.
func (x *Expander) withTrace(ctx context.Context, parent uint64) *Expander {
	x.tracer = trace.FromContext(ctx)
	x.parent = parent
	return x
}

// Seed marks names as processed before expansion starts.
func (x *Expander) Seed(names ...string) {
	for _, name := range names {
		x.processed[name] = true
	}
}

// Processed reports whether the named file has been flattened or marked.
func (x *Expander) Processed(name string) bool {
	return x.processed[name]
}

// Flattened returns headers in the order they were first expanded,
// starting with the root.
func (x *Expander) Flattened() []string {
	return x.flattened
}

// Expand flattens root and everything reachable from it.
// The root is marked processed first, so a header including the root again
// gets a placeholder instead of a second copy.
func (x *Expander) Expand(root *source.File) error {
	if x.processed[root.Name] {
		x.sink.EmitText(alreadyIncluded(root.Name))
		return nil
	}
	x.mark(root.Name)
	return x.expand(root)
}

func (x *Expander) mark(name string) {
	x.processed[name] = true
	x.flattened = append(x.flattened, name)
	trace.Point(x.tracer, trace.ScopeFile, "header:"+name, "flattened", x.parent)
	x.progress.OnEvent(Event{File: name, Stage: StageExpand, Status: StatusDone})
}

func (x *Expander) expand(f *source.File) error {
	for _, line := range f.Lines {
		name, ok := x.classifier.Internal(line)
		if !ok {
			x.sink.EmitLine(line)
			continue
		}

		if _, keep := x.keep[name]; keep {
			x.sink.EmitLine(line)
			x.reporter.Report(diag.IncKeptAsDirective, diag.SevInfo, line.Pos(),
				fmt.Sprintf("%q kept as include directive", name))
			continue
		}

		inc, found := x.files.Lookup(name)
		if !found {
			return &ResolutionError{Pos: line.Pos(), Name: name}
		}

		// проверка до рекурсии: циклы A -> B -> A заканчиваются здесь
		if x.processed[inc.Name] {
			x.sink.EmitText(alreadyIncluded(inc.Name))
			x.reporter.Report(diag.IncAlreadyIncluded, diag.SevInfo, line.Pos(),
				fmt.Sprintf("%q already included", inc.Name))
			continue
		}
		x.mark(inc.Name)

		if err := x.expand(inc); err != nil {
			return err
		}
	}
	return nil
}

// MarkHeaders force-marks every header as processed and returns the headers
// that were neither flattened nor kept as directives.
func (x *Expander) MarkHeaders() []string {
	var unreached []string
	for _, name := range x.files.Headers() {
		if x.processed[name] {
			continue
		}
		x.processed[name] = true
		if _, keep := x.keep[name]; !keep {
			unreached = append(unreached, name)
		}
	}
	return unreached
}

func alreadyIncluded(name string) string {
	return fmt.Sprintf("/* already included: %s */", name)
}

func includeRemoved(name string) string {
	return fmt.Sprintf("/* include removed: %s */", name)
}
