package merge

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"amalgam/internal/diag"
	"amalgam/internal/emit"
	"amalgam/internal/incgraph"
	"amalgam/internal/include"
	"amalgam/internal/linkage"
	"amalgam/internal/observ"
	"amalgam/internal/order"
	"amalgam/internal/source"
	"amalgam/internal/trace"
)

// Defaults used when the corresponding Options field is empty.
var (
	DefaultRoot = "duk_internal.h"
	DefaultKeep = []string{"duktape.h", "duk_custom.h"}
)

// Options configures one merge run.
type Options struct {
	Dir        string   // source directory
	Extensions []string // file kinds to load, source.DefaultExtensions if empty
	Root       string   // root header base name
	Keep       []string // headers whose include directives stay in the output
	Prefix     string   // internal include prefix, include.DefaultPrefix if empty
	Priority   []string // body files emitted first, in this order

	// Banner lines are written verbatim before the merged content.
	Banner []string

	// Localize turns on the linkage pass; Exported names keep external linkage.
	Localize bool
	Exported []string

	Normalize bool // strip BOM and convert CRLF on load
	Jobs      int  // concurrent file reads, 1 if < 1

	Reporter diag.Reporter
	Timer    *observ.Timer
	Progress ProgressSink
}

func (o *Options) withDefaults() {
	if len(o.Extensions) == 0 {
		o.Extensions = source.DefaultExtensions
	}
	if o.Root == "" {
		o.Root = DefaultRoot
	}
	if o.Keep == nil {
		o.Keep = DefaultKeep
	}
	if o.Prefix == "" {
		o.Prefix = include.DefaultPrefix
	}
	if o.Jobs < 1 {
		o.Jobs = 1
	}
	if o.Reporter == nil {
		o.Reporter = diag.NopReporter{}
	}
	if o.Progress == nil {
		o.Progress = nopSink{}
	}
}

// Result is the outcome of a successful merge.
type Result struct {
	Output   []byte
	Lines    []string
	Origins  []source.Pos // origin of every output line, zero for synthetic ones
	Includes *include.Set
	Graph    *incgraph.Analysis
	Order    []string // body files in emission order
	Headers  []string // headers in the order they were flattened
	Files    int      // number of files loaded
	Stats    emit.Stats
}

// Run lists opts.Dir, loads the matching files and merges them.
func Run(ctx context.Context, opts Options) (*Result, error) {
	opts.withDefaults()
	tracer := trace.FromContext(ctx)

	idx := opts.Timer.Begin("load")
	span := trace.Begin(tracer, trace.ScopePass, "load", 0)
	paths, err := source.ListDir(opts.Dir, opts.Extensions)
	if err != nil {
		span.End("error")
		opts.Timer.End(idx, "")
		return nil, err
	}
	opts.Progress.OnEvent(Event{Stage: StageLoad, Status: StatusWorking})
	fs := source.NewFileSet()
	fs.SetNormalize(opts.Normalize)
	if err := fs.LoadAll(ctx, paths, opts.Jobs); err != nil {
		opts.Progress.OnEvent(Event{Stage: StageLoad, Status: StatusError})
		span.End("error")
		opts.Timer.End(idx, "")
		return nil, err
	}
	for _, f := range fs.Files() {
		opts.Progress.OnEvent(Event{File: f.Name, Stage: StageLoad, Status: StatusDone})
	}
	span.WithExtra("files", strconv.Itoa(fs.Len())).End("")
	opts.Timer.End(idx, fmt.Sprintf("%d files", fs.Len()))

	return Merge(ctx, fs, opts)
}

// Merge combines the files already loaded into fs.
// Nothing is written anywhere: the caller decides what to do with Result.
func Merge(ctx context.Context, fs *source.FileSet, opts Options) (*Result, error) {
	opts.withDefaults()
	tracer := trace.FromContext(ctx)
	run := trace.Begin(tracer, trace.ScopeDriver, "merge", 0)

	res, err := merge(ctx, fs, &opts, run.ID())
	if err != nil {
		run.End("error: " + err.Error())
		return nil, err
	}
	run.WithExtra("lines", strconv.Itoa(len(res.Lines))).
		WithExtra("markers", strconv.Itoa(res.Stats.Markers)).
		End("")
	return res, nil
}

func merge(ctx context.Context, fs *source.FileSet, opts *Options, runID uint64) (*Result, error) {
	tracer := trace.FromContext(ctx)
	reportLoaded(fs, opts.Reporter)

	root, ok := fs.Lookup(opts.Root)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, opts.Root)
	}

	if opts.Localize {
		idx := opts.Timer.Begin("linkage")
		span := trace.Begin(tracer, trace.ScopePass, "linkage", runID)
		rw := linkage.New(opts.Exported, opts.Reporter)
		changed := 0
		for _, f := range fs.Files() {
			if nf := rw.RewriteFile(f); nf != f {
				fs.Replace(nf)
				changed++
			}
		}
		span.WithExtra("changed", strconv.Itoa(changed)).End("")
		opts.Timer.End(idx, fmt.Sprintf("%d files changed", changed))
		// root мог быть заменён
		root, _ = fs.Lookup(opts.Root)
	}

	classifier := include.NewClassifier(opts.Prefix)

	idx := opts.Timer.Begin("classify")
	span := trace.Begin(tracer, trace.ScopePass, "classify", runID)
	opts.Progress.OnEvent(Event{Stage: StageClassify, Status: StatusWorking})
	includes, err := include.Collect(classifier, fs.Files())
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			opts.Progress.OnEvent(Event{File: pe.Pos.File, Stage: StageClassify, Status: StatusError})
		}
		span.End("error")
		opts.Timer.End(idx, "")
		return nil, err
	}
	graph := incgraph.Analyze(includes, opts.Reporter)
	span.WithExtra("external", strconv.Itoa(len(includes.External))).
		WithExtra("internal", strconv.Itoa(len(includes.Internal))).
		WithExtra("cycles", strconv.Itoa(len(graph.Topo.Cycles))).
		End("")
	opts.Timer.End(idx, "")
	opts.Progress.OnEvent(Event{Stage: StageClassify, Status: StatusDone})

	bodies, err := order.Apply(fs.Bodies(), opts.Priority)
	if err != nil {
		return nil, err
	}

	em := emit.New()
	em.EmitTexts(opts.Banner...)

	idx = opts.Timer.Begin("expand")
	span = trace.Begin(tracer, trace.ScopePass, "expand", runID)
	x := NewExpander(fs, classifier, opts.Keep, em, opts.Reporter).withTrace(ctx, span.ID())
	x.progress = opts.Progress
	if err := x.Expand(root); err != nil {
		var re *ResolutionError
		if errors.As(err, &re) {
			opts.Progress.OnEvent(Event{File: re.Pos.File, Stage: StageExpand, Status: StatusError})
		}
		span.End("error")
		opts.Timer.End(idx, "")
		return nil, err
	}
	for _, name := range fs.Headers() {
		if !x.Processed(name) {
			opts.Progress.OnEvent(Event{File: name, Stage: StageExpand, Status: StatusSkipped})
		}
	}
	for _, name := range x.MarkHeaders() {
		opts.Reporter.Report(diag.IncUnreachedHeader, diag.SevWarning, source.Pos{File: name},
			fmt.Sprintf("%q is not reachable from %s and was not emitted", name, root.Name))
	}
	span.WithExtra("headers", strconv.Itoa(len(x.Flattened()))).End("")
	opts.Timer.End(idx, fmt.Sprintf("%d headers", len(x.Flattened())))

	idx = opts.Timer.Begin("bodies")
	span = trace.Begin(tracer, trace.ScopePass, "bodies", runID)
	for _, name := range bodies {
		if x.Processed(name) {
			continue
		}
		f, _ := fs.Lookup(name)
		trace.Point(tracer, trace.ScopeFile, "body:"+name, "", span.ID())
		emitBody(f, classifier, em, opts.Reporter)
		opts.Progress.OnEvent(Event{File: name, Stage: StageEmit, Status: StatusDone})
	}
	span.End("")
	opts.Progress.OnEvent(Event{Stage: StageEmit, Status: StatusDone})
	opts.Timer.End(idx, fmt.Sprintf("%d files", len(bodies)))

	return &Result{
		Output:   em.Bytes(),
		Lines:    em.Lines(),
		Origins:  em.Origins(),
		Includes: includes,
		Graph:    graph,
		Order:    bodies,
		Headers:  x.Flattened(),
		Files:    fs.Len(),
		Stats:    em.Stats(),
	}, nil
}

// emitBody copies a body file, dropping internal includes that survived
// because the body was not reached through the root header.
func emitBody(f *source.File, classifier *include.Classifier, sink emit.Sink, r diag.Reporter) {
	for _, line := range f.Lines {
		name, ok := classifier.Internal(line)
		if !ok {
			sink.EmitLine(line)
			continue
		}
		sink.EmitText(includeRemoved(name))
		r.Report(diag.IncStrayInternal, diag.SevWarning, line.Pos(),
			fmt.Sprintf("internal include of %q in body file removed", name))
	}
}

func reportLoaded(fs *source.FileSet, r diag.Reporter) {
	for _, f := range fs.Files() {
		if len(f.Lines) == 0 {
			r.Report(diag.IOEmptyFile, diag.SevInfo, source.Pos{File: f.Name}, "file is empty")
		}
		if f.Flags&(source.FileHadBOM|source.FileNormalizedCRLF) != 0 {
			r.Report(diag.IONormalizedText, diag.SevInfo, source.Pos{File: f.Name}, "byte order mark or CRLF line endings normalized")
		}
	}
}
