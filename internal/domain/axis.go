package domain

// Axis identifies one controllable degree of freedom of the positioning
// stage. The set is fixed per deployment: three linear axes on the first
// controller and a rotator on the second.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisR

	// NumAxes is the number of axes carried in every Sample.
	NumAxes = 4
)

var axisNames = [NumAxes]string{"X", "Y", "Z", "R"}

// axisUnits maps each axis to the (controller, channel) pair the device
// driver addresses. X/Y/Z live on controller 0, R on controller 1.
var axisUnits = [NumAxes][2]int{
	AxisX: {0, 0},
	AxisY: {0, 1},
	AxisZ: {0, 2},
	AxisR: {1, 0},
}

// Name returns the symbolic axis name used on the wire.
func (a Axis) Name() string {
	if a < 0 || a >= NumAxes {
		return "UNKNOWN"
	}
	return axisNames[a]
}

// Controller returns the controller index the axis is attached to.
func (a Axis) Controller() int { return axisUnits[a][0] }

// Channel returns the axis index within its controller.
func (a Axis) Channel() int { return axisUnits[a][1] }

// Bit returns the validity-mask bit for the axis.
func (a Axis) Bit() uint8 { return 1 << uint(a) }

// ParseAxis maps a symbolic axis name to an Axis.
// The lookup is case-sensitive, matching the command grammar.
func ParseAxis(name string) (Axis, bool) {
	for i, n := range axisNames {
		if n == name {
			return Axis(i), true
		}
	}
	return 0, false
}

// Axes returns all axes in wire order. The returned slice must not be
// modified.
func Axes() []Axis {
	return []Axis{AxisX, AxisY, AxisZ, AxisR}
}
