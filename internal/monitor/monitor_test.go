package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	apperrors "github.com/agbru/resmon/internal/errors"
	"github.com/agbru/resmon/internal/metrics"
	"github.com/agbru/resmon/internal/sensor"
	"github.com/agbru/resmon/internal/sensor/mocks"
)

// stubSensor replays a fixed sequence of readings, repeating the last one.
type stubSensor struct {
	metric sensor.Metric
	values []float64
	err    error

	mu  sync.Mutex
	idx int
}

func (s *stubSensor) Metric() sensor.Metric { return s.metric }

func (s *stubSensor) Sample(context.Context) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.idx]
	if s.idx < len(s.values)-1 {
		s.idx++
	}
	return v, nil
}

func TestAccessors_EmptyBeforeFirstTick(t *testing.T) {
	m := New(60, []sensor.Sensor{&stubSensor{metric: sensor.CPU, values: []float64{50}}})

	for _, metric := range sensor.All() {
		if got := m.Current(metric); got != 0 {
			t.Errorf("Current(%s) before first tick = %d, want 0", metric, got)
		}
		if got := m.History(metric, 60); len(got) != 0 {
			t.Errorf("History(%s, 60) before first tick = %v, want empty", metric, got)
		}
	}
}

func TestTick_PublishesRoundedValues(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cpu := mocks.NewMockSensor(ctrl)
	cpu.EXPECT().Metric().Return(sensor.CPU).AnyTimes()
	cpu.EXPECT().Sample(gomock.Any()).Return(33.4, nil)

	memory := mocks.NewMockSensor(ctrl)
	memory.EXPECT().Metric().Return(sensor.Memory).AnyTimes()
	memory.EXPECT().Sample(gomock.Any()).Return(66.5, nil)

	m := New(60, []sensor.Sensor{cpu, memory})
	m.tick(context.Background())

	if got := m.Current(sensor.CPU); got != 33 {
		t.Errorf("Current(cpu) = %d, want 33", got)
	}
	// Half rounds away from zero.
	if got := m.Current(sensor.Memory); got != 67 {
		t.Errorf("Current(memory) = %d, want 67", got)
	}
	if got := m.Ticks(); got != 1 {
		t.Errorf("Ticks() = %d, want 1", got)
	}
}

func TestHistory_UnderfilledReturnsOnlyHeld(t *testing.T) {
	cpu := &stubSensor{metric: sensor.CPU, values: []float64{10, 20, 30}}
	m := New(60, []sensor.Sensor{cpu})

	for range 3 {
		m.tick(context.Background())
	}

	got := m.History(sensor.CPU, 60)
	want := []int{30, 20, 10}
	if len(got) != len(want) {
		t.Fatalf("History() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("History() = %v, want %v", got, want)
			break
		}
	}
}

func TestHistory_EvictsOldestAtCapacity(t *testing.T) {
	cpu := &stubSensor{metric: sensor.CPU, values: []float64{10, 20, 30, 40}}
	m := New(3, []sensor.Sensor{cpu})

	for range 4 {
		m.tick(context.Background())
	}

	full := m.History(sensor.CPU, 60)
	wantFull := []int{40, 30, 20}
	if len(full) != len(wantFull) {
		t.Fatalf("History(60) = %v, want %v", full, wantFull)
	}
	for i := range wantFull {
		if full[i] != wantFull[i] {
			t.Errorf("History(60) = %v, want %v", full, wantFull)
			break
		}
	}

	lastTwo := m.History(sensor.CPU, 2)
	if len(lastTwo) != 2 || lastTwo[0] != 40 || lastTwo[1] != 30 {
		t.Errorf("History(2) = %v, want [40 30]", lastTwo)
	}
}

func TestAccessors_IdempotentWithoutTick(t *testing.T) {
	cpu := &stubSensor{metric: sensor.CPU, values: []float64{55}}
	m := New(60, []sensor.Sensor{cpu})
	m.tick(context.Background())

	for range 5 {
		if got := m.Current(sensor.CPU); got != 55 {
			t.Fatalf("Current() = %d, want 55 on every read", got)
		}
		h := m.History(sensor.CPU, 10)
		if len(h) != 1 || h[0] != 55 {
			t.Fatalf("History() = %v, want [55] on every read", h)
		}
	}
}

func TestTick_GPUUnavailableYieldsZeroWithoutAbort(t *testing.T) {
	cpu := &stubSensor{metric: sensor.CPU, values: []float64{40}}
	memory := &stubSensor{metric: sensor.Memory, values: []float64{60}}
	gpu := &stubSensor{
		metric: sensor.GPU,
		err:    apperrors.SensorUnavailableError{Metric: "gpu", Reason: "no devices found"},
	}

	m := New(60, []sensor.Sensor{cpu, memory, gpu})
	m.tick(context.Background())

	if got := m.Current(sensor.GPU); got != 0 {
		t.Errorf("Current(gpu) = %d, want neutral 0", got)
	}
	if h := m.History(sensor.GPU, 60); len(h) != 1 || h[0] != 0 {
		t.Errorf("History(gpu) = %v, want [0]", h)
	}
	// CPU and Memory updates must not be aborted by the GPU condition.
	if got := m.Current(sensor.CPU); got != 40 {
		t.Errorf("Current(cpu) = %d, want 40", got)
	}
	if got := m.Current(sensor.Memory); got != 60 {
		t.Errorf("Current(memory) = %d, want 60", got)
	}
}

func TestTick_ReadFailureKeepsPreviousValue(t *testing.T) {
	inst := metrics.NewInstruments()
	cpu := &stubSensor{metric: sensor.CPU, values: []float64{40}}
	memory := &stubSensor{metric: sensor.Memory, values: []float64{60, 70}}
	m := New(60, []sensor.Sensor{cpu, memory}, WithInstruments(inst))

	m.tick(context.Background())

	// Second tick: CPU probe fails, memory keeps working.
	cpu.err = apperrors.SensorReadError{Metric: "cpu", Cause: errors.New("counters stale")}
	m.tick(context.Background())

	if got := m.Current(sensor.CPU); got != 40 {
		t.Errorf("Current(cpu) after failed read = %d, want previous 40", got)
	}
	if h := m.History(sensor.CPU, 60); len(h) != 1 {
		t.Errorf("failed read must not push history, got %v", h)
	}
	if got := m.Current(sensor.Memory); got != 70 {
		t.Errorf("Current(memory) = %d, want 70", got)
	}
	if got := m.Ticks(); got != 2 {
		t.Errorf("Ticks() = %d, want 2 (loop must not abort)", got)
	}
}

func TestTick_SkippedWhenGuardHeld(t *testing.T) {
	cpu := &stubSensor{metric: sensor.CPU, values: []float64{40}}
	m := New(60, []sensor.Sensor{cpu})

	m.hostMu.Lock()
	m.tick(context.Background())
	m.hostMu.Unlock()

	if got := m.Ticks(); got != 0 {
		t.Errorf("Ticks() = %d, want 0 after skipped tick", got)
	}
	if got := m.Current(sensor.CPU); got != 0 {
		t.Errorf("Current(cpu) = %d, want 0 after skipped tick", got)
	}

	// Next tick acquires the guard fresh and samples normally.
	m.tick(context.Background())
	if got := m.Current(sensor.CPU); got != 40 {
		t.Errorf("Current(cpu) = %d, want 40 on the next tick", got)
	}
}

func TestHistory_UnknownSecondsAndMetric(t *testing.T) {
	cpu := &stubSensor{metric: sensor.CPU, values: []float64{10}}
	m := New(60, []sensor.Sensor{cpu})
	m.tick(context.Background())

	if got := m.History(sensor.CPU, 0); got != nil {
		t.Errorf("History(cpu, 0) = %v, want nil", got)
	}
	if got := m.History(sensor.CPU, -3); got != nil {
		t.Errorf("History(cpu, -3) = %v, want nil", got)
	}
	if got := m.History(sensor.Metric(99), 10); got != nil {
		t.Errorf("History(unknown) = %v, want nil", got)
	}
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	cpu := &stubSensor{metric: sensor.CPU, values: []float64{42}}
	m := New(60, []sensor.Sensor{cpu}, WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	// Starting twice is a documented no-op.
	m.Start(ctx)

	// Let at least one tick complete.
	deadline := time.After(2 * time.Second)
	for m.Ticks() == 0 {
		select {
		case <-deadline:
			t.Fatal("no tick completed before deadline")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-m.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("sampler did not stop after context cancellation")
	}

	if got := m.Current(sensor.CPU); got != 42 {
		t.Errorf("Current(cpu) = %d, want 42", got)
	}
}

func TestConcurrentReadersNeverObserveTornState(t *testing.T) {
	cpu := &stubSensor{metric: sensor.CPU, values: []float64{10, 20, 30, 40, 50}}
	memory := &stubSensor{metric: sensor.Memory, values: []float64{60}}
	m := New(60, []sensor.Sensor{cpu, memory}, WithInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)

	valid := map[int]bool{0: true, 10: true, 20: true, 30: true, 40: true, 50: true}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				if v := m.Current(sensor.CPU); !valid[v] {
					t.Errorf("Current(cpu) observed torn value %d", v)
					return
				}
				for _, v := range m.History(sensor.CPU, 60) {
					if !valid[v] {
						t.Errorf("History(cpu) observed torn value %d", v)
						return
					}
				}
			}
		}()
	}
	wg.Wait()

	cancel()
	<-m.Done()
}
