package vm

// Device handles memory-mapped access dispatched through the snd
// opcode: a command and an argument word, returning a result word.
type Device interface {
	Handle(command, argument uint32) (uint32, error)
}

// DeviceRegistry maps a 32-bit device ID to its handler.
type DeviceRegistry struct {
	devices map[uint32]Device
}

// NewDeviceRegistry returns an empty registry.
func NewDeviceRegistry() *DeviceRegistry {
	return &DeviceRegistry{devices: make(map[uint32]Device)}
}

// Register installs dev under id, replacing any existing handler.
func (r *DeviceRegistry) Register(id uint32, dev Device) {
	r.devices[id] = dev
}

// Dispatch routes a device access to its handler. An unknown device ID
// is a device_error runtime error.
func (r *DeviceRegistry) Dispatch(id, command, argument uint32) (uint32, error) {
	dev, ok := r.devices[id]
	if !ok {
		return 0, &RuntimeError{Kind: DeviceError, Message: "no device registered for id"}
	}
	v, err := dev.Handle(command, argument)
	if err != nil {
		return 0, &RuntimeError{Kind: DeviceError, Message: err.Error()}
	}
	return v, nil
}

const (
	consolePutchar = 0
	consoleClear   = 2
)

// ConsoleDevice accumulates bytes written to it via putchar and can be
// cleared; a typical guest uses it as a terminal.
type ConsoleDevice struct {
	output []byte
}

// NewConsoleDevice returns an empty console.
func NewConsoleDevice() *ConsoleDevice {
	return &ConsoleDevice{}
}

// Output returns the accumulated bytes written so far.
func (c *ConsoleDevice) Output() []byte { return c.output }

// Handle implements Device: command 0 appends the low byte of argument
// and returns 1; command 2 clears the buffer and returns 1; any other
// command returns 0.
func (c *ConsoleDevice) Handle(command, argument uint32) (uint32, error) {
	switch command {
	case consolePutchar:
		c.output = append(c.output, byte(argument))
		return 1, nil
	case consoleClear:
		c.output = c.output[:0]
		return 1, nil
	default:
		return 0, nil
	}
}

// NullDevice answers every command with 0, used as a harmless default or
// placeholder in tests.
type NullDevice struct{}

// Handle implements Device.
func (NullDevice) Handle(uint32, uint32) (uint32, error) { return 0, nil }
