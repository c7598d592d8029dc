package batch

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeGateway converts by uppercasing the payload and renaming the file to
// the requested format. Names listed in failOn fail instead.
type fakeGateway struct {
	failOn map[string]bool
	calls  []string
}

func (g *fakeGateway) Convert(_ context.Context, req Request) (Result, error) {
	g.calls = append(g.calls, req.Filename)

	if g.failOn[req.Filename] {
		return Result{}, fmt.Errorf("conversion failed for %s", req.Filename)
	}

	stem := strings.TrimSuffix(req.Filename, ".src")
	return Result{
		OutputName: stem + "." + req.Format,
		Data:       []byte(strings.ToUpper(string(req.Payload))),
	}, nil
}

// renamingGateway always returns the same output name, regardless of input.
type renamingGateway struct{}

func (renamingGateway) Convert(_ context.Context, req Request) (Result, error) {
	return Result{OutputName: "image.png", Data: req.Payload}, nil
}

type recordingObserver struct {
	statuses []string
	progress []string
}

func (o *recordingObserver) ItemStatusChanged(index int, status Status) {
	o.statuses = append(o.statuses, fmt.Sprintf("%d:%s", index, status))
}

func (o *recordingObserver) Progress(completed, total int) {
	o.progress = append(o.progress, fmt.Sprintf("%d/%d", completed, total))
}

func inputs(names ...string) []Input {
	result := make([]Input, len(names))
	for i, name := range names {
		result[i] = Input{Name: name, Payload: []byte("payload of " + name)}
	}
	return result
}

func TestOrchestrator_AllSucceed(t *testing.T) {
	gw := &fakeGateway{}
	o := NewOrchestrator(zap.NewNop(), gw)

	run, err := o.Run(t.Context(), inputs("a.src", "b.src", "c.src"), Params{Format: "png", Quality: 85})
	require.NoError(t, err)

	require.Len(t, run.Results, 3)
	assert.Equal(t, []string{"a.src", "b.src", "c.src"}, gw.calls)
	assert.Equal(t, "a.png", run.Results[0].OutputName)
	assert.Equal(t, "b.png", run.Results[1].OutputName)
	assert.Equal(t, "c.png", run.Results[2].OutputName)
	assert.Equal(t, []byte("PAYLOAD OF A.SRC"), run.Results[0].Data)

	assert.Equal(t, 0, run.FailedCount())
	assert.Equal(t, 3, run.SucceededCount())
	for _, item := range run.Items {
		assert.Equal(t, StatusDone, item.Status)
	}
}

func TestOrchestrator_FailureIsolation(t *testing.T) {
	gw := &fakeGateway{failOn: map[string]bool{"b.src": true}}
	o := NewOrchestrator(zap.NewNop(), gw)

	run, err := o.Run(t.Context(), inputs("a.src", "b.src", "c.src"), Params{Format: "png"})
	require.NoError(t, err)

	// The failed item must not stop the batch; the other two come out in
	// input order.
	require.Len(t, run.Results, 2)
	assert.Equal(t, "a.png", run.Results[0].OutputName)
	assert.Equal(t, "c.png", run.Results[1].OutputName)

	assert.Equal(t, StatusDone, run.Items[0].Status)
	assert.Equal(t, StatusFailed, run.Items[1].Status)
	assert.Equal(t, StatusDone, run.Items[2].Status)
	require.Error(t, run.Items[1].Err)
	assert.Contains(t, run.Items[1].Err.Error(), "b.src")

	assert.Equal(t, len(run.Results)+run.FailedCount(), len(run.Items))
}

func TestOrchestrator_AllFail(t *testing.T) {
	gw := &fakeGateway{failOn: map[string]bool{"a.src": true, "b.src": true}}
	o := NewOrchestrator(zap.NewNop(), gw)

	run, err := o.Run(t.Context(), inputs("a.src", "b.src"), Params{Format: "png"})
	require.NoError(t, err)

	assert.Empty(t, run.Results)
	assert.Equal(t, 2, run.FailedCount())
	for _, item := range run.Items {
		assert.True(t, item.Status.Terminal())
	}
}

func TestOrchestrator_NoInputs(t *testing.T) {
	o := NewOrchestrator(zap.NewNop(), &fakeGateway{})

	_, err := o.Run(t.Context(), nil, Params{Format: "png"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no inputs")
}

func TestOrchestrator_Notifications(t *testing.T) {
	gw := &fakeGateway{failOn: map[string]bool{"b.src": true}}
	observer := &recordingObserver{}
	o := NewOrchestrator(zap.NewNop(), gw, WithObserver(observer))

	_, err := o.Run(t.Context(), inputs("a.src", "b.src"), Params{Format: "png"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"0:converting", "0:done",
		"1:converting", "1:failed",
	}, observer.statuses)
	assert.Equal(t, []string{"1/2", "2/2"}, observer.progress)
}

func TestOrchestrator_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())

	// Cancel during the second item's conversion; the third item must stay
	// pending and no further gateway calls happen.
	var calls int
	gw := gatewayFunc(func(_ context.Context, req Request) (Result, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return Result{OutputName: req.Filename, Data: req.Payload}, nil
	})

	o := NewOrchestrator(zap.NewNop(), gw)
	run, err := o.Run(ctx, inputs("a.src", "b.src", "c.src"), Params{Format: "png"})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, calls)

	require.NotNil(t, run)
	assert.Equal(t, StatusDone, run.Items[0].Status)
	assert.Equal(t, StatusDone, run.Items[1].Status)
	assert.Equal(t, StatusPending, run.Items[2].Status)
	assert.Len(t, run.Results, 2)
}

func TestOrchestrator_CollisionDisambiguation(t *testing.T) {
	o := NewOrchestrator(zap.NewNop(), renamingGateway{})

	run, err := o.Run(t.Context(), inputs("a.src", "b.src", "c.src"), Params{Format: "png"})
	require.NoError(t, err)

	require.Len(t, run.Results, 3)
	assert.Equal(t, "image.png", run.Results[0].OutputName)
	assert.Equal(t, "image_1.png", run.Results[1].OutputName)
	assert.Equal(t, "image_2.png", run.Results[2].OutputName)
}

// gatewayFunc adapts a function to the Gateway interface.
type gatewayFunc func(ctx context.Context, req Request) (Result, error)

func (f gatewayFunc) Convert(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}

func TestUniqueName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		seen     []string
		expected string
	}{
		{
			name:     "no collision",
			input:    "photo.png",
			expected: "photo.png",
		},
		{
			name:     "single collision",
			input:    "photo.png",
			seen:     []string{"photo.png"},
			expected: "photo_1.png",
		},
		{
			name:     "suffix already taken",
			input:    "photo.png",
			seen:     []string{"photo.png", "photo_1.png"},
			expected: "photo_2.png",
		},
		{
			name:     "no extension",
			input:    "photo",
			seen:     []string{"photo"},
			expected: "photo_1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make(map[string]struct{}, len(tt.seen))
			for _, s := range tt.seen {
				seen[s] = struct{}{}
			}
			assert.Equal(t, tt.expected, uniqueName(tt.input, seen))
		})
	}
}
