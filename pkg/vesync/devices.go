package vesync

import (
	"context"
	"fmt"
	"slices"
)

// Outlet

type OutletCapabilities struct {
	// EnergyHistory is set for metered plugs that report voltage and
	// weekly/monthly/yearly energy totals.
	EnergyHistory bool
}

type OutletState struct {
	DeviceStatus  string
	Power         *float64
	Voltage       *float64
	EnergyToday   *float64
	WeeklyEnergy  *float64
	MonthlyEnergy *float64
	YearlyEnergy  *float64
}

type Outlet struct {
	DeviceMeta
	Caps  OutletCapabilities
	State OutletState

	d Dispatcher
}

func NewOutlet(meta DeviceMeta, caps OutletCapabilities, d Dispatcher) *Outlet {
	return &Outlet{DeviceMeta: meta, Caps: caps, d: d}
}

func (o *Outlet) Meta() DeviceMeta     { return o.DeviceMeta }
func (o *Outlet) Product() ProductType { return ProductOutlet }

func (o *Outlet) TurnOn(ctx context.Context) error {
	if err := o.d.Command(ctx, o.DeviceMeta, "turnOn", nil); err != nil {
		return err
	}
	o.State.DeviceStatus = StatusOn
	return nil
}

func (o *Outlet) TurnOff(ctx context.Context) error {
	if err := o.d.Command(ctx, o.DeviceMeta, "turnOff", nil); err != nil {
		return err
	}
	o.State.DeviceStatus = StatusOff
	return nil
}

// WallSwitch

type WallSwitchCapabilities struct {
	Dimmable bool
}

type WallSwitchState struct {
	DeviceStatus string
	Brightness   *int
}

type WallSwitch struct {
	DeviceMeta
	Caps  WallSwitchCapabilities
	State WallSwitchState

	d Dispatcher
}

func NewWallSwitch(meta DeviceMeta, caps WallSwitchCapabilities, d Dispatcher) *WallSwitch {
	return &WallSwitch{DeviceMeta: meta, Caps: caps, d: d}
}

func (s *WallSwitch) Meta() DeviceMeta     { return s.DeviceMeta }
func (s *WallSwitch) Product() ProductType { return ProductSwitch }

func (s *WallSwitch) TurnOn(ctx context.Context) error {
	if err := s.d.Command(ctx, s.DeviceMeta, "turnOn", nil); err != nil {
		return err
	}
	s.State.DeviceStatus = StatusOn
	return nil
}

func (s *WallSwitch) TurnOff(ctx context.Context) error {
	if err := s.d.Command(ctx, s.DeviceMeta, "turnOff", nil); err != nil {
		return err
	}
	s.State.DeviceStatus = StatusOff
	return nil
}

// SetBrightness accepts a percentage in [1,100]. The cloud command implies
// power-on.
func (s *WallSwitch) SetBrightness(ctx context.Context, pct int) error {
	if !s.Caps.Dimmable {
		return fmt.Errorf("%s: %w", s.DeviceName, ErrUnsupported)
	}
	if pct < 1 || pct > 100 {
		return fmt.Errorf("brightness %d: %w", pct, ErrOutOfRange)
	}
	if err := s.d.Command(ctx, s.DeviceMeta, "setBrightness", map[string]any{"brightness": pct}); err != nil {
		return err
	}
	s.State.DeviceStatus = StatusOn
	s.State.Brightness = IntPtr(pct)
	return nil
}

// Bulb

type BulbCapabilities struct {
	Dimmable  bool
	ColorTemp bool
}

type BulbState struct {
	DeviceStatus string
	Brightness   *int
	// ColorTempPct is the white temperature as a 0-100 percentage,
	// 0 = warmest, 100 = coldest.
	ColorTempPct *int
}

type Bulb struct {
	DeviceMeta
	Caps  BulbCapabilities
	State BulbState

	d Dispatcher
}

func NewBulb(meta DeviceMeta, caps BulbCapabilities, d Dispatcher) *Bulb {
	return &Bulb{DeviceMeta: meta, Caps: caps, d: d}
}

func (b *Bulb) Meta() DeviceMeta     { return b.DeviceMeta }
func (b *Bulb) Product() ProductType { return ProductBulb }

func (b *Bulb) TurnOn(ctx context.Context) error {
	if err := b.d.Command(ctx, b.DeviceMeta, "turnOn", nil); err != nil {
		return err
	}
	b.State.DeviceStatus = StatusOn
	return nil
}

func (b *Bulb) TurnOff(ctx context.Context) error {
	if err := b.d.Command(ctx, b.DeviceMeta, "turnOff", nil); err != nil {
		return err
	}
	b.State.DeviceStatus = StatusOff
	return nil
}

func (b *Bulb) SetBrightness(ctx context.Context, pct int) error {
	if pct < 1 || pct > 100 {
		return fmt.Errorf("brightness %d: %w", pct, ErrOutOfRange)
	}
	if err := b.d.Command(ctx, b.DeviceMeta, "setBrightness", map[string]any{"brightness": pct}); err != nil {
		return err
	}
	b.State.DeviceStatus = StatusOn
	b.State.Brightness = IntPtr(pct)
	return nil
}

func (b *Bulb) SetColorTemp(ctx context.Context, pct int) error {
	if !b.Caps.ColorTemp {
		return fmt.Errorf("%s: %w", b.DeviceName, ErrUnsupported)
	}
	if pct < 0 || pct > 100 {
		return fmt.Errorf("color temperature %d: %w", pct, ErrOutOfRange)
	}
	if err := b.d.Command(ctx, b.DeviceMeta, "setColorTemperature", map[string]any{"colorTemp": pct}); err != nil {
		return err
	}
	b.State.DeviceStatus = StatusOn
	b.State.ColorTempPct = IntPtr(pct)
	return nil
}

// Fan covers both tower fans and air purifiers; the two families share the
// same command vocabulary and differ only in reported detail fields.

type FanCapabilities struct {
	FanLevels     []int
	Modes         []string
	ChildLock     bool
	DisplayToggle bool
	// NightLight marks the fan-family tri-state night light ("on", "dim",
	// "off").
	NightLight bool
}

type FanState struct {
	DeviceStatus string
	Mode         string
	FanLevel     int
	Humidity     *int
	// AirQuality is the 1-4 index reported by purifiers.
	AirQuality      *int
	AirQualityValue *int
	PM1             *int
	PM10            *int
	AQPercent       *int
	FilterLife      *int
	FilterOpenState *bool
	RotateAngle     *int
	ChildLock       *bool
	Display         *bool
	NightLight      *string
}

type Fan struct {
	DeviceMeta
	Caps  FanCapabilities
	State FanState

	product ProductType
	d       Dispatcher
}

func NewFan(meta DeviceMeta, product ProductType, caps FanCapabilities, d Dispatcher) *Fan {
	return &Fan{DeviceMeta: meta, product: product, Caps: caps, d: d}
}

func (f *Fan) Meta() DeviceMeta     { return f.DeviceMeta }
func (f *Fan) Product() ProductType { return f.product }

func (f *Fan) IsOn() bool {
	return f.State.DeviceStatus == StatusOn
}

func (f *Fan) TurnOn(ctx context.Context) error {
	if err := f.d.Command(ctx, f.DeviceMeta, "turnOn", nil); err != nil {
		return err
	}
	f.State.DeviceStatus = StatusOn
	return nil
}

func (f *Fan) TurnOff(ctx context.Context) error {
	if err := f.d.Command(ctx, f.DeviceMeta, "turnOff", nil); err != nil {
		return err
	}
	f.State.DeviceStatus = StatusOff
	return nil
}

func (f *Fan) SetFanSpeed(ctx context.Context, level int) error {
	if len(f.Caps.FanLevels) > 0 && !slices.Contains(f.Caps.FanLevels, level) {
		return fmt.Errorf("fan level %d: %w", level, ErrOutOfRange)
	}
	if err := f.d.Command(ctx, f.DeviceMeta, "setLevel", map[string]any{"level": level}); err != nil {
		return err
	}
	f.State.FanLevel = level
	f.State.Mode = ModeManual
	return nil
}

// SetMode switches the working mode. The mode must be one the device
// declares.
func (f *Fan) SetMode(ctx context.Context, mode string) error {
	if !slices.Contains(f.Caps.Modes, mode) {
		return fmt.Errorf("mode %q: %w", mode, ErrOutOfRange)
	}
	if err := f.d.Command(ctx, f.DeviceMeta, "setPurifierMode", map[string]any{"mode": mode}); err != nil {
		return err
	}
	f.State.Mode = mode
	return nil
}

func (f *Fan) SetChildLock(ctx context.Context, on bool) error {
	if !f.Caps.ChildLock {
		return fmt.Errorf("%s: %w", f.DeviceName, ErrUnsupported)
	}
	if err := f.d.Command(ctx, f.DeviceMeta, "setChildLock", map[string]any{"child_lock": on}); err != nil {
		return err
	}
	f.State.ChildLock = BoolPtr(on)
	return nil
}

func (f *Fan) SetDisplay(ctx context.Context, on bool) error {
	if !f.Caps.DisplayToggle {
		return fmt.Errorf("%s: %w", f.DeviceName, ErrUnsupported)
	}
	if err := f.d.Command(ctx, f.DeviceMeta, "setDisplay", map[string]any{"state": on}); err != nil {
		return err
	}
	f.State.Display = BoolPtr(on)
	return nil
}

// SetNightLight accepts "on", "dim" or "off".
func (f *Fan) SetNightLight(ctx context.Context, mode string) error {
	if !f.Caps.NightLight {
		return fmt.Errorf("%s: %w", f.DeviceName, ErrUnsupported)
	}
	if mode != "on" && mode != "dim" && mode != "off" {
		return fmt.Errorf("night light mode %q: %w", mode, ErrOutOfRange)
	}
	if err := f.d.Command(ctx, f.DeviceMeta, "setNightLight", map[string]any{"night_light": mode}); err != nil {
		return err
	}
	f.State.NightLight = StringPtr(mode)
	return nil
}

// Humidifier

type HumidifierCapabilities struct {
	MistLevels     []int
	WarmMistLevels []int
	Modes          []string
	ChildLock      bool
	DisplayToggle  bool
	AutomaticStop  bool
	// NightLightBrightness marks the humidifier-family numeric night light
	// where 0 means off.
	NightLightBrightness bool
}

type HumidifierState struct {
	DeviceStatus         string
	Mode                 string
	Humidity             *int
	TargetHumidity       int
	MistLevel            int
	MistVirtualLevel     int
	WarmMistLevel        *int
	AutomaticStop        *bool
	Display              *bool
	ChildLock            *bool
	WaterLacks           *bool
	WaterTankLifted      *bool
	NightLightBrightness *int
}

type Humidifier struct {
	DeviceMeta
	Caps  HumidifierCapabilities
	State HumidifierState

	d Dispatcher
}

func NewHumidifier(meta DeviceMeta, caps HumidifierCapabilities, d Dispatcher) *Humidifier {
	return &Humidifier{DeviceMeta: meta, Caps: caps, d: d}
}

func (h *Humidifier) Meta() DeviceMeta     { return h.DeviceMeta }
func (h *Humidifier) Product() ProductType { return ProductHumidifier }

func (h *Humidifier) IsOn() bool {
	return h.State.DeviceStatus == StatusOn
}

func (h *Humidifier) TurnOn(ctx context.Context) error {
	if err := h.d.Command(ctx, h.DeviceMeta, "turnOn", nil); err != nil {
		return err
	}
	h.State.DeviceStatus = StatusOn
	return nil
}

func (h *Humidifier) TurnOff(ctx context.Context) error {
	if err := h.d.Command(ctx, h.DeviceMeta, "turnOff", nil); err != nil {
		return err
	}
	h.State.DeviceStatus = StatusOff
	return nil
}

func (h *Humidifier) SetMode(ctx context.Context, mode string) error {
	if !slices.Contains(h.Caps.Modes, mode) {
		return fmt.Errorf("mode %q: %w", mode, ErrOutOfRange)
	}
	if err := h.d.Command(ctx, h.DeviceMeta, "setHumidityMode", map[string]any{"mode": mode}); err != nil {
		return err
	}
	h.State.Mode = mode
	return nil
}

func (h *Humidifier) SetHumidity(ctx context.Context, target int) error {
	if target < 30 || target > 80 {
		return fmt.Errorf("target humidity %d: %w", target, ErrOutOfRange)
	}
	if err := h.d.Command(ctx, h.DeviceMeta, "setTargetHumidity", map[string]any{"target_humidity": target}); err != nil {
		return err
	}
	h.State.TargetHumidity = target
	return nil
}

func (h *Humidifier) SetMistLevel(ctx context.Context, level int) error {
	if len(h.Caps.MistLevels) > 0 && !slices.Contains(h.Caps.MistLevels, level) {
		return fmt.Errorf("mist level %d: %w", level, ErrOutOfRange)
	}
	if err := h.d.Command(ctx, h.DeviceMeta, "setVirtualLevel", map[string]any{"level": level}); err != nil {
		return err
	}
	h.State.MistVirtualLevel = level
	h.State.Mode = ModeManual
	return nil
}

func (h *Humidifier) SetWarmLevel(ctx context.Context, level int) error {
	if len(h.Caps.WarmMistLevels) == 0 {
		return fmt.Errorf("%s: %w", h.DeviceName, ErrUnsupported)
	}
	if !slices.Contains(h.Caps.WarmMistLevels, level) {
		return fmt.Errorf("warm mist level %d: %w", level, ErrOutOfRange)
	}
	if err := h.d.Command(ctx, h.DeviceMeta, "setLevel", map[string]any{"type": "warm", "level": level}); err != nil {
		return err
	}
	h.State.WarmMistLevel = IntPtr(level)
	return nil
}

func (h *Humidifier) SetAutomaticStop(ctx context.Context, on bool) error {
	if !h.Caps.AutomaticStop {
		return fmt.Errorf("%s: %w", h.DeviceName, ErrUnsupported)
	}
	if err := h.d.Command(ctx, h.DeviceMeta, "setAutomaticStop", map[string]any{"enabled": on}); err != nil {
		return err
	}
	h.State.AutomaticStop = BoolPtr(on)
	return nil
}

func (h *Humidifier) SetDisplay(ctx context.Context, on bool) error {
	if !h.Caps.DisplayToggle {
		return fmt.Errorf("%s: %w", h.DeviceName, ErrUnsupported)
	}
	if err := h.d.Command(ctx, h.DeviceMeta, "setDisplay", map[string]any{"state": on}); err != nil {
		return err
	}
	h.State.Display = BoolPtr(on)
	return nil
}

func (h *Humidifier) SetChildLock(ctx context.Context, on bool) error {
	if !h.Caps.ChildLock {
		return fmt.Errorf("%s: %w", h.DeviceName, ErrUnsupported)
	}
	if err := h.d.Command(ctx, h.DeviceMeta, "setChildLock", map[string]any{"child_lock": on}); err != nil {
		return err
	}
	h.State.ChildLock = BoolPtr(on)
	return nil
}

// SetNightLightBrightness accepts 0-100, 0 meaning off.
func (h *Humidifier) SetNightLightBrightness(ctx context.Context, pct int) error {
	if !h.Caps.NightLightBrightness {
		return fmt.Errorf("%s: %w", h.DeviceName, ErrUnsupported)
	}
	if pct < 0 || pct > 100 {
		return fmt.Errorf("night light brightness %d: %w", pct, ErrOutOfRange)
	}
	if err := h.d.Command(ctx, h.DeviceMeta, "setNightLightBrightness", map[string]any{"night_light_brightness": pct}); err != nil {
		return err
	}
	h.State.NightLightBrightness = IntPtr(pct)
	return nil
}

// AirFryer

type AirFryerState struct {
	CookStatus      string
	CurrentTemp     *int
	CookSetTemp     *int
	CookLastTime    *int
	PreheatLastTime *int
	IsHeating       bool
	IsCooking       bool
	IsRunning       bool
}

type AirFryer struct {
	DeviceMeta
	State AirFryerState

	d Dispatcher
}

func NewAirFryer(meta DeviceMeta, d Dispatcher) *AirFryer {
	return &AirFryer{DeviceMeta: meta, d: d}
}

func (a *AirFryer) Meta() DeviceMeta     { return a.DeviceMeta }
func (a *AirFryer) Product() ProductType { return ProductAirFryer }

// End stops the running cook program.
func (a *AirFryer) End(ctx context.Context) error {
	return a.d.Command(ctx, a.DeviceMeta, "endCook", nil)
}
