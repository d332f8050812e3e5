// Package sim provides a simulated four-axis positioning stage implementing
// ports.Device. It exists for demo runs without hardware and for tests that
// need deterministic device behavior, including injected per-axis failures.
package sim

import (
	"fmt"
	"strings"
	"sync"

	"github.com/stagelab/stagestream/internal/domain"
)

type axisState struct {
	connected     bool
	outputEnabled bool
	moving        bool
	failReads     bool

	position    int32
	target      int32
	amplitudeMv int32
	frequencyMh int32
}

// Device is a deterministic in-memory stage. When an axis is moving, each
// Position call steps it a tenth of the remaining distance toward the
// target, so motion settles over a handful of reads regardless of the
// sample rate.
type Device struct {
	mu   sync.Mutex
	axes [domain.NumAxes]axisState
}

// New creates a device with all four axes connected and typical drive
// settings.
func New() *Device {
	d := &Device{}
	for i := range d.axes {
		d.axes[i] = axisState{
			connected:   true,
			amplitudeMv: 45000,
			frequencyMh: 1000000,
		}
	}
	return d
}

// AxisConnected reports whether the axis has a connected actor.
func (d *Device) AxisConnected(axis domain.Axis) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.axes[axis].connected
}

// Position returns the current axis position, advancing any active motion.
func (d *Device) Position(axis domain.Axis) (int32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	st := &d.axes[axis]
	if !st.connected {
		return 0, fmt.Errorf("sim: axis %s not connected", axis.Name())
	}
	if st.failReads {
		return 0, fmt.Errorf("sim: axis %s read failure", axis.Name())
	}

	if st.moving {
		diff := st.target - st.position
		switch {
		case diff == 0:
			st.moving = false
		case diff > 10 || diff < -10:
			st.position += diff / 10
		default:
			st.position = st.target
			st.moving = false
		}
	}
	return st.position, nil
}

// Amplitude returns the drive amplitude in millivolts.
func (d *Device) Amplitude(axis domain.Axis) (int32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.axes[axis].connected {
		return 0, fmt.Errorf("sim: axis %s not connected", axis.Name())
	}
	return d.axes[axis].amplitudeMv, nil
}

// SetAmplitude sets the drive amplitude in millivolts.
func (d *Device) SetAmplitude(axis domain.Axis, millivolts int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.axes[axis].connected {
		return fmt.Errorf("sim: axis %s not connected", axis.Name())
	}
	d.axes[axis].amplitudeMv = millivolts
	return nil
}

// Frequency returns the drive frequency in millihertz.
func (d *Device) Frequency(axis domain.Axis) (int32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.axes[axis].connected {
		return 0, fmt.Errorf("sim: axis %s not connected", axis.Name())
	}
	return d.axes[axis].frequencyMh, nil
}

// SetFrequency sets the drive frequency in millihertz.
func (d *Device) SetFrequency(axis domain.Axis, millihertz int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.axes[axis].connected {
		return fmt.Errorf("sim: axis %s not connected", axis.Name())
	}
	d.axes[axis].frequencyMh = millihertz
	return nil
}

// SetTarget sets the closed-loop target position.
func (d *Device) SetTarget(axis domain.Axis, position int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.axes[axis].connected {
		return fmt.Errorf("sim: axis %s not connected", axis.Name())
	}
	d.axes[axis].target = position
	return nil
}

// SetMoveEnabled starts or stops motion toward the target.
func (d *Device) SetMoveEnabled(axis domain.Axis, enabled bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.axes[axis].connected {
		return fmt.Errorf("sim: axis %s not connected", axis.Name())
	}
	d.axes[axis].moving = enabled
	return nil
}

// SetOutputEnabled arms or disarms the axis output stage.
func (d *Device) SetOutputEnabled(axis domain.Axis, enabled bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.axes[axis].connected {
		return fmt.Errorf("sim: axis %s not connected", axis.Name())
	}
	d.axes[axis].outputEnabled = enabled
	return nil
}

// StatusReport returns a per-axis status snapshot.
func (d *Device) StatusReport() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var b strings.Builder
	b.WriteString("simulated stage\n")
	for _, a := range domain.Axes() {
		st := d.axes[a]
		if !st.connected {
			fmt.Fprintf(&b, "axis %s: disconnected\n", a.Name())
			continue
		}
		fmt.Fprintf(&b, "axis %s: position %d, target %d, amplitude %d mV, frequency %d mHz, moving %v\n",
			a.Name(), st.position, st.target, st.amplitudeMv, st.frequencyMh, st.moving)
	}
	return b.String(), nil
}

// Close is a no-op for the simulated stage.
func (d *Device) Close() error { return nil }

// Disconnect marks an axis as disconnected. Test hook.
func (d *Device) Disconnect(axis domain.Axis) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.axes[axis].connected = false
}

// FailReads makes Position return errors for the axis. Test hook.
func (d *Device) FailReads(axis domain.Axis, fail bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.axes[axis].failReads = fail
}
