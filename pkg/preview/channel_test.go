package preview

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"
)

func TestChannel_FIFO(t *testing.T) {
	c := NewChannel()

	c.Push(StopMessage{})
	c.Push(GeometryUpdatedMessage{})
	c.Push(ExitMessage{})

	if c.Len() != 3 {
		t.Errorf("Expected 3 queued messages, got %d", c.Len())
	}

	expected := []Message{StopMessage{}, GeometryUpdatedMessage{}, ExitMessage{}}
	for i, want := range expected {
		got, ok := c.TryPop()
		if !ok {
			t.Fatalf("Message %d: expected a message", i)
		}
		if typeName(got) != typeName(want) {
			t.Errorf("Message %d: expected %s, got %s", i, typeName(want), typeName(got))
		}
	}

	if _, ok := c.TryPop(); ok {
		t.Error("Expected empty channel")
	}
}

func typeName(m Message) string {
	switch m.(type) {
	case StopMessage:
		return "stop"
	case ExitMessage:
		return "exit"
	case GeometryUpdatedMessage:
		return "geometry"
	case BuffersUpdatedMessage:
		return "buffers"
	case LightsUpdatedMessage:
		return "lights"
	case FrameReadyMessage:
		return "frame"
	default:
		return "unknown"
	}
}

func TestChannel_PopBlocksUntilPush(t *testing.T) {
	c := NewChannel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		time.Sleep(10 * time.Millisecond)
		c.Push(ExitMessage{})
	}()

	msg, err := c.Pop(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := msg.(ExitMessage); !ok {
		t.Errorf("Expected exit message, got %T", msg)
	}
}

func TestChannel_PopCancelled(t *testing.T) {
	c := NewChannel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := c.Pop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestChannel_ConcurrentPush(t *testing.T) {
	c := NewChannel()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Push(StopMessage{})
			}
		}()
	}
	wg.Wait()

	if c.Len() != 1000 {
		t.Errorf("Expected 1000 messages, got %d", c.Len())
	}
}

func TestHost_FrameFiltering(t *testing.T) {
	host := NewHost(DefaultConfig(), nil)
	host.SendBuffers(NewSceneBuffers(4, 4))
	generation := host.SendBuffers(NewSceneBuffers(4, 4))

	frame := func(size int, gen int64, tag int64) FrameReadyMessage {
		return FrameReadyMessage{
			Image:                  image.NewRGBA(image.Rect(0, 0, size, size)),
			Generation:             gen,
			ContributionGeneration: tag,
		}
	}

	tests := []struct {
		name     string
		frames   []FrameReadyMessage
		expected int64 // ContributionGeneration of the accepted frame, 0 if none
	}{
		{"Current frame accepted", []FrameReadyMessage{frame(4, generation, 7)}, 7},
		{"Stale generation dropped", []FrameReadyMessage{frame(4, generation-1, 7)}, 0},
		{"Degenerate size dropped", []FrameReadyMessage{frame(1, generation, 7)}, 0},
		{"Nil image dropped", []FrameReadyMessage{{Generation: generation}}, 0},
		{"Newest kept", []FrameReadyMessage{frame(4, generation, 1), frame(4, generation, 2), frame(4, generation-1, 3)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, f := range tt.frames {
				host.Pipe().ToHost.Push(f)
			}

			got, ok := host.PollFrame()
			if tt.expected == 0 {
				if ok {
					t.Errorf("Expected no frame, got generation %d", got.ContributionGeneration)
				}
				return
			}
			if !ok {
				t.Fatal("Expected a frame")
			}
			if got.ContributionGeneration != tt.expected {
				t.Errorf("Expected frame %d, got %d", tt.expected, got.ContributionGeneration)
			}
		})
	}
}

func TestHost_SendBuffersAssignsGeneration(t *testing.T) {
	host := NewHost(DefaultConfig(), nil)

	first := NewSceneBuffers(2, 2)
	second := NewSceneBuffers(2, 2)
	if g := host.SendBuffers(first); g != 1 || first.Generation != 1 {
		t.Errorf("Expected generation 1, got %d", g)
	}
	if g := host.SendBuffers(second); g != 2 || second.Generation != 2 {
		t.Errorf("Expected generation 2, got %d", g)
	}
	if n := host.Pipe().ToWorker.Len(); n != 2 {
		t.Errorf("Expected 2 queued messages, got %d", n)
	}
}

func TestHost_WaitWithoutStart(t *testing.T) {
	host := NewHost(DefaultConfig(), nil)
	if err := host.Wait(); !errors.Is(err, ErrWorkerNotStarted) {
		t.Errorf("Expected ErrWorkerNotStarted, got %v", err)
	}
}
