package ports

import "github.com/stagelab/stagestream/internal/domain"

// Device is the control surface of the positioning stage consumed by the
// agent. All operations are synchronous and fail independently per axis.
//
// The sampler calls Position on its hot path; implementations must not
// block beyond the driver call itself. There is no timeout on individual
// device calls: a hung call stalls its calling worker, which is an accepted
// limitation of the core contract.
type Device interface {
	// AxisConnected reports whether the axis has a connected actor.
	AxisConnected(axis domain.Axis) bool

	// Position reads the current position of the axis. A failed read only
	// invalidates this axis in the current sample.
	Position(axis domain.Axis) (int32, error)

	// Amplitude reads the drive amplitude of the axis in millivolts.
	Amplitude(axis domain.Axis) (int32, error)

	// SetAmplitude sets the drive amplitude of the axis in millivolts.
	SetAmplitude(axis domain.Axis, millivolts int32) error

	// Frequency reads the drive frequency of the axis in millihertz.
	Frequency(axis domain.Axis) (int32, error)

	// SetFrequency sets the drive frequency of the axis in millihertz.
	SetFrequency(axis domain.Axis, millihertz int32) error

	// SetTarget sets the closed-loop target position of the axis.
	SetTarget(axis domain.Axis, position int32) error

	// SetMoveEnabled starts (true) or stops (false) closed-loop motion
	// toward the target position.
	SetMoveEnabled(axis domain.Axis, enabled bool) error

	// SetOutputEnabled enables or disables the axis output stage.
	SetOutputEnabled(axis domain.Axis, enabled bool) error

	// StatusReport returns a human-readable device status snapshot. Field
	// enumeration is the device's concern, not the agent's.
	StatusReport() (string, error)

	// Close releases the device handles. Called after all workers join.
	Close() error
}
