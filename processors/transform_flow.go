package processors

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fjlanasa/gtfs-feeds/records"
	"github.com/reugn/go-streams"
)

// TransformFlow runs a Transformer over every record that reaches In and
// emits a records.Result per record.
type TransformFlow struct {
	transformer Transformer
	in          chan any
	out         chan any
}

func NewTransformFlow(ctx context.Context, t Transformer) *TransformFlow {
	flow := &TransformFlow{transformer: t, in: make(chan any), out: make(chan any)}
	go flow.doStream(ctx)
	return flow
}

func (f *TransformFlow) doStream(ctx context.Context) {
	defer close(f.out)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-f.in:
			if !ok {
				return
			}

			var record records.Record
			switch v := event.(type) {
			case records.Record:
				record = v
			case *records.Record:
				record = *v
			case []byte:
				record = records.NewRecord(v, nil)
			default:
				slog.WarnContext(ctx, "transform flow: unsupported input", "type", fmt.Sprintf("%T", v))
				continue
			}

			result := f.transformer.Transform(ctx, record)
			select {
			case f.out <- result:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (f *TransformFlow) In() chan<- any {
	return f.in
}

func (f *TransformFlow) Out() <-chan any {
	return f.out
}

func (f *TransformFlow) Via(flow streams.Flow) streams.Flow {
	go f.transmit(flow)
	return flow
}

func (f *TransformFlow) To(sink streams.Sink) {
	go f.transmit(sink)
}

func (f *TransformFlow) transmit(inlet streams.Inlet) {
	for element := range f.Out() {
		inlet.In() <- element
	}
	close(inlet.In())
}
