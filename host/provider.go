package host

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

var (
	// ErrNilProvider is returned when NewProgramsFromProvider gets nil.
	ErrNilProvider = errors.New("host: device provider is nil")

	// ErrUnsupportedDevice is returned when a provider's device exposes no
	// HAL device.
	ErrUnsupportedDevice = errors.New("host: provider device has no HAL access")
)

// DefaultFormat is the color target format used when the provider has no
// surface attached.
const DefaultFormat = gputypes.TextureFormatBGRA8Unorm

// halAccess is implemented by *wgpu.Device.
type halAccess interface {
	HalDevice() hal.Device
	HalQueue() hal.Queue
}

// NewProgramsFromProvider creates the render programs on the device a host
// application shares through provider. The color target format is the
// provider's surface format, or DefaultFormat when headless.
//
// The provider's Device may be a *wgpu.Device or a hal.Device; in the
// latter case Queue must be a hal.Queue.
func NewProgramsFromProvider(provider gpucontext.DeviceProvider) (*Programs, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	device, queue, err := halHandles(provider)
	if err != nil {
		return nil, err
	}

	format := provider.SurfaceFormat()
	if format == gputypes.TextureFormatUndefined {
		format = DefaultFormat
	}
	return NewPrograms(device, queue, format)
}

func halHandles(provider gpucontext.DeviceProvider) (hal.Device, hal.Queue, error) {
	switch dev := provider.Device().(type) {
	case nil:
		return nil, nil, ErrNilDevice
	case halAccess:
		return dev.HalDevice(), dev.HalQueue(), nil
	case hal.Device:
		queue, ok := provider.Queue().(hal.Queue)
		if !ok || queue == nil {
			return nil, nil, ErrNilQueue
		}
		return dev, queue, nil
	default:
		return nil, nil, fmt.Errorf("%w: %T", ErrUnsupportedDevice, dev)
	}
}
