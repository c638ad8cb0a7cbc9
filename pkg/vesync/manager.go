package vesync

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CloudManager is the live Manager implementation backed by the VeSync
// cloud API.
type CloudManager struct {
	client  *Client
	logger  *zap.Logger
	devices *DeviceCollection
}

func NewCloudManager(username, password, timeZone string, timeout time.Duration, logger *zap.Logger) *CloudManager {
	return &CloudManager{
		client:  NewClient(username, password, timeZone, timeout, logger),
		logger:  logger.With(zap.String("component", "vesync_manager")),
		devices: &DeviceCollection{},
	}
}

func (m *CloudManager) Login(ctx context.Context) error {
	return m.client.Login(ctx)
}

func (m *CloudManager) Devices() *DeviceCollection {
	return m.devices
}

func (m *CloudManager) Rescan(ctx context.Context) error {
	records, err := m.client.FetchDevices(ctx)
	if err != nil {
		return err
	}
	col := &DeviceCollection{
		Outlets:      []*Outlet{},
		Switches:     []*WallSwitch{},
		Bulbs:        []*Bulb{},
		Fans:         []*Fan{},
		AirPurifiers: []*Fan{},
		Humidifiers:  []*Humidifier{},
		AirFryers:    []*AirFryer{},
	}
	for _, rec := range records {
		meta := rec.meta()
		switch classifyModel(rec.DeviceType) {
		case ProductOutlet:
			col.Outlets = append(col.Outlets, NewOutlet(meta, outletCaps(rec.DeviceType), m.client))
		case ProductSwitch:
			col.Switches = append(col.Switches, NewWallSwitch(meta, wallSwitchCaps(rec.DeviceType), m.client))
		case ProductBulb:
			col.Bulbs = append(col.Bulbs, NewBulb(meta, bulbCaps(rec.DeviceType), m.client))
		case ProductFan:
			col.Fans = append(col.Fans, NewFan(meta, ProductFan, fanCaps(rec.DeviceType), m.client))
		case ProductPurifier:
			col.AirPurifiers = append(col.AirPurifiers, NewFan(meta, ProductPurifier, purifierCaps(rec.DeviceType), m.client))
		case ProductHumidifier:
			col.Humidifiers = append(col.Humidifiers, NewHumidifier(meta, humidifierCaps(rec.DeviceType), m.client))
		case ProductAirFryer:
			col.AirFryers = append(col.AirFryers, NewAirFryer(meta, m.client))
		default:
			m.logger.Warn("unknown device type, skipping",
				zap.String("device_type", rec.DeviceType),
				zap.String("device_name", rec.DeviceName))
		}
	}
	m.devices = col
	return nil
}

func (m *CloudManager) Update(ctx context.Context) error {
	for _, o := range m.devices.Outlets {
		if err := m.updateOutlet(ctx, o); err != nil {
			return err
		}
	}
	for _, s := range m.devices.Switches {
		if err := m.updateWallSwitch(ctx, s); err != nil {
			return err
		}
	}
	for _, b := range m.devices.Bulbs {
		if err := m.updateBulb(ctx, b); err != nil {
			return err
		}
	}
	for _, f := range m.devices.Fans {
		if err := m.updateFan(ctx, f); err != nil {
			return err
		}
	}
	for _, f := range m.devices.AirPurifiers {
		if err := m.updateFan(ctx, f); err != nil {
			return err
		}
	}
	for _, h := range m.devices.Humidifiers {
		if err := m.updateHumidifier(ctx, h); err != nil {
			return err
		}
	}
	for _, a := range m.devices.AirFryers {
		if err := m.updateAirFryer(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (m *CloudManager) updateOutlet(ctx context.Context, o *Outlet) error {
	details, err := m.client.FetchDetails(ctx, o.DeviceMeta, "getOutletStatus")
	if err != nil {
		return err
	}
	o.State.DeviceStatus = strField(details, "deviceStatus")
	o.ConnectionStatus = connectionOrDefault(details)
	o.State.Power = numField(details, "power")
	o.State.Voltage = numField(details, "voltage")
	o.State.EnergyToday = numField(details, "energy")
	if o.Caps.EnergyHistory {
		// Metered plugs report history through a dedicated call.
		history, err := m.client.FetchDetails(ctx, o.DeviceMeta, "getEnergyHistory")
		if err != nil {
			return err
		}
		o.State.WeeklyEnergy = numField(history, "totalEnergyWeek")
		o.State.MonthlyEnergy = numField(history, "totalEnergyMonth")
		o.State.YearlyEnergy = numField(history, "totalEnergyYear")
	}
	return nil
}

func (m *CloudManager) updateWallSwitch(ctx context.Context, s *WallSwitch) error {
	details, err := m.client.FetchDetails(ctx, s.DeviceMeta, "getSwitchStatus")
	if err != nil {
		return err
	}
	s.State.DeviceStatus = strField(details, "deviceStatus")
	s.ConnectionStatus = connectionOrDefault(details)
	if s.Caps.Dimmable {
		s.State.Brightness = intField(details, "brightness")
	}
	return nil
}

func (m *CloudManager) updateBulb(ctx context.Context, b *Bulb) error {
	details, err := m.client.FetchDetails(ctx, b.DeviceMeta, "getLightStatus")
	if err != nil {
		return err
	}
	b.State.DeviceStatus = strField(details, "deviceStatus")
	b.ConnectionStatus = connectionOrDefault(details)
	b.State.Brightness = intField(details, "brightness")
	if b.Caps.ColorTemp {
		b.State.ColorTempPct = intField(details, "colorTemp")
	}
	return nil
}

func (m *CloudManager) updateFan(ctx context.Context, f *Fan) error {
	details, err := m.client.FetchDetails(ctx, f.DeviceMeta, "getPurifierStatus")
	if err != nil {
		return err
	}
	f.State.DeviceStatus = strField(details, "deviceStatus")
	f.ConnectionStatus = connectionOrDefault(details)
	f.State.Mode = strField(details, "mode")
	if lvl := intField(details, "level"); lvl != nil {
		f.State.FanLevel = *lvl
	}
	f.State.Humidity = intField(details, "humidity")
	f.State.AirQuality = intField(details, "air_quality")
	f.State.AirQualityValue = intField(details, "air_quality_value")
	f.State.PM1 = intField(details, "pm1")
	f.State.PM10 = intField(details, "pm10")
	f.State.AQPercent = intField(details, "aq_percent")
	f.State.FilterLife = intField(details, "filter_life")
	f.State.FilterOpenState = boolField(details, "filter_open_state")
	f.State.RotateAngle = intField(details, "fan_rotate_angle")
	f.State.ChildLock = boolField(details, "child_lock")
	f.State.Display = boolField(details, "display")
	if nl := strField(details, "night_light"); nl != "" {
		f.State.NightLight = StringPtr(nl)
	}
	return nil
}

func (m *CloudManager) updateHumidifier(ctx context.Context, h *Humidifier) error {
	details, err := m.client.FetchDetails(ctx, h.DeviceMeta, "getHumidifierStatus")
	if err != nil {
		return err
	}
	h.State.DeviceStatus = strField(details, "deviceStatus")
	h.ConnectionStatus = connectionOrDefault(details)
	h.State.Mode = strField(details, "mode")
	h.State.Humidity = intField(details, "humidity")
	if v := intField(details, "target_humidity"); v != nil {
		h.State.TargetHumidity = *v
	}
	if v := intField(details, "mist_level"); v != nil {
		h.State.MistLevel = *v
	}
	if v := intField(details, "mist_virtual_level"); v != nil {
		h.State.MistVirtualLevel = *v
	}
	h.State.WarmMistLevel = intField(details, "warm_mist_level")
	h.State.AutomaticStop = boolField(details, "automatic_stop")
	h.State.Display = boolField(details, "display")
	h.State.ChildLock = boolField(details, "child_lock")
	h.State.WaterLacks = boolField(details, "water_lacks")
	h.State.WaterTankLifted = boolField(details, "water_tank_lifted")
	h.State.NightLightBrightness = intField(details, "night_light_brightness")
	return nil
}

func (m *CloudManager) updateAirFryer(ctx context.Context, a *AirFryer) error {
	details, err := m.client.FetchDetails(ctx, a.DeviceMeta, "getAirFryerStatus")
	if err != nil {
		return err
	}
	a.ConnectionStatus = connectionOrDefault(details)
	a.State.CookStatus = strField(details, "cookStatus")
	a.State.CurrentTemp = intField(details, "currentTemp")
	a.State.CookSetTemp = intField(details, "cookSetTemp")
	a.State.CookLastTime = intField(details, "cookLastTime")
	a.State.PreheatLastTime = intField(details, "preheatLastTime")
	a.State.IsHeating = a.State.CookStatus == "heating" || a.State.CookStatus == "preheat"
	a.State.IsCooking = a.State.CookStatus == "cooking"
	a.State.IsRunning = a.State.IsHeating || a.State.IsCooking
	return nil
}

// Model classification. The cloud reports a model string; family membership
// and capability flags are fixed per model line and computed once here.

func classifyModel(deviceType string) ProductType {
	model := strings.ToUpper(deviceType)
	switch {
	case strings.HasPrefix(model, "ESW") && !strings.HasPrefix(model, "ESWL") && !strings.HasPrefix(model, "ESWD"),
		strings.HasPrefix(model, "WIFI-SWITCH"),
		strings.HasPrefix(model, "ESO"):
		return ProductOutlet
	case strings.HasPrefix(model, "ESWL"), strings.HasPrefix(model, "ESWD"):
		return ProductSwitch
	case strings.HasPrefix(model, "ESL"), strings.HasPrefix(model, "XYD"):
		return ProductBulb
	case strings.HasPrefix(model, "LTF"), strings.HasPrefix(model, "LSF"):
		return ProductFan
	case strings.HasPrefix(model, "LV-PUR"), strings.HasPrefix(model, "LAP"),
		strings.HasPrefix(model, "CORE"), strings.HasPrefix(model, "LV-RH"),
		strings.HasPrefix(model, "EL-"), strings.HasPrefix(model, "EVERESTAIR"):
		return ProductPurifier
	case strings.HasPrefix(model, "LUH"), strings.HasPrefix(model, "LEH"),
		strings.HasPrefix(model, "CLASSIC"), strings.HasPrefix(model, "DUAL"),
		strings.HasPrefix(model, "OASIS"), strings.HasPrefix(model, "LV600S"):
		return ProductHumidifier
	case strings.HasPrefix(model, "CS"):
		return ProductAirFryer
	default:
		return ""
	}
}

func outletCaps(deviceType string) OutletCapabilities {
	model := strings.ToUpper(deviceType)
	return OutletCapabilities{
		// 15A and round plugs meter energy, the 10A European models do not.
		EnergyHistory: strings.HasPrefix(model, "ESW15") || strings.HasPrefix(model, "ESW03") ||
			strings.HasPrefix(model, "WIFI-SWITCH"),
	}
}

func wallSwitchCaps(deviceType string) WallSwitchCapabilities {
	return WallSwitchCapabilities{
		Dimmable: strings.HasPrefix(strings.ToUpper(deviceType), "ESWD"),
	}
}

func bulbCaps(deviceType string) BulbCapabilities {
	model := strings.ToUpper(deviceType)
	return BulbCapabilities{
		Dimmable:  true,
		ColorTemp: strings.HasPrefix(model, "ESL100CW") || strings.HasPrefix(model, "ESL100MC") || strings.HasPrefix(model, "XYD"),
	}
}

func fanCaps(deviceType string) FanCapabilities {
	return FanCapabilities{
		FanLevels:     []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		Modes:         []string{ModeAuto, ModeManual, ModeSleep, ModeTurbo},
		ChildLock:     true,
		DisplayToggle: true,
	}
}

func purifierCaps(deviceType string) FanCapabilities {
	model := strings.ToUpper(deviceType)
	caps := FanCapabilities{
		FanLevels:     []int{1, 2, 3},
		Modes:         []string{ModeAuto, ModeManual, ModeSleep},
		ChildLock:     true,
		DisplayToggle: true,
	}
	if strings.HasPrefix(model, "CORE") || strings.HasPrefix(model, "LAP") {
		caps.NightLight = strings.HasPrefix(model, "CORE200S") || strings.HasPrefix(model, "LAP-C")
	}
	if strings.HasPrefix(model, "LV-PUR131S") {
		// Legacy model reports no level list; the platform layer falls back
		// to its known 1-3 range.
		caps.FanLevels = nil
		caps.NightLight = false
	}
	return caps
}

func humidifierCaps(deviceType string) HumidifierCapabilities {
	model := strings.ToUpper(deviceType)
	caps := HumidifierCapabilities{
		MistLevels:    []int{1, 2, 3, 4, 5, 6, 7, 8, 9},
		Modes:         []string{ModeAuto, ModeManual, ModeSleep},
		ChildLock:     true,
		DisplayToggle: true,
		AutomaticStop: true,
	}
	if strings.HasPrefix(model, "LUH-D301S") {
		caps.NightLightBrightness = true
	}
	if strings.HasPrefix(model, "LUH-A602S") || strings.HasPrefix(model, "OASIS") {
		// Warm-mist models.
		caps.WarmMistLevels = []int{0, 1, 2, 3}
		caps.Modes = []string{ModeAuto, ModeHumidity, ModeManual, ModeSleep}
	}
	return caps
}

// Detail payload helpers. The cloud mixes numeric types and occasionally
// reports strings where numbers are expected; non-numeric values read as
// absent.

func numField(details map[string]any, key string) *float64 {
	switch v := details[key].(type) {
	case float64:
		return Float64Ptr(v)
	case int:
		return Float64Ptr(float64(v))
	default:
		return nil
	}
}

func intField(details map[string]any, key string) *int {
	if f := numField(details, key); f != nil {
		return IntPtr(int(*f))
	}
	return nil
}

func boolField(details map[string]any, key string) *bool {
	switch v := details[key].(type) {
	case bool:
		return BoolPtr(v)
	case float64:
		return BoolPtr(v != 0)
	default:
		return nil
	}
}

func strField(details map[string]any, key string) string {
	if s, ok := details[key].(string); ok {
		return s
	}
	return ""
}

func connectionOrDefault(details map[string]any) string {
	if s := strField(details, "connectionStatus"); s != "" {
		return s
	}
	return ConnectionOnline
}
