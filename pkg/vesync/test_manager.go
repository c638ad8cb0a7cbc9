package vesync

import (
	"context"
	"sync"
)

// TestDispatcher records dispatched commands instead of calling the cloud.
type TestDispatcher struct {
	mu       sync.Mutex
	Err      error
	Commands []RecordedCommand
}

type RecordedCommand struct {
	BaseID string
	Method string
	Params map[string]any
}

func (d *TestDispatcher) Command(_ context.Context, meta DeviceMeta, method string, params map[string]any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.Commands = append(d.Commands, RecordedCommand{BaseID: meta.BaseID(), Method: method, Params: params})
	return nil
}

func (d *TestDispatcher) Recorded() []RecordedCommand {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]RecordedCommand, len(d.Commands))
	copy(out, d.Commands)
	return out
}

// TestManager is an in-memory Manager with one canned device per family.
type TestManager struct {
	Dispatcher *TestDispatcher
	Collection *DeviceCollection

	LoginErr  error
	RescanErr error
	UpdateErr error
}

func CreateTestManager() *TestManager {
	d := &TestDispatcher{}
	return &TestManager{
		Dispatcher: d,
		Collection: &DeviceCollection{
			Outlets:      []*Outlet{CreateTestOutlet(d)},
			Switches:     []*WallSwitch{CreateTestWallSwitch(d)},
			Bulbs:        []*Bulb{CreateTestBulb(d)},
			Fans:         []*Fan{CreateTestTowerFan(d)},
			AirPurifiers: []*Fan{CreateTestPurifier(d)},
			Humidifiers:  []*Humidifier{CreateTestHumidifier(d)},
			AirFryers:    []*AirFryer{CreateTestAirFryer(d)},
		},
	}
}

func (m *TestManager) Login(_ context.Context) error {
	return m.LoginErr
}

func (m *TestManager) Rescan(_ context.Context) error {
	return m.RescanErr
}

func (m *TestManager) Update(_ context.Context) error {
	return m.UpdateErr
}

func (m *TestManager) Devices() *DeviceCollection {
	return m.Collection
}

func testMeta(cid, name, deviceType string) DeviceMeta {
	return DeviceMeta{
		CID:              cid,
		UUID:             cid + "-uuid",
		MacID:            "52:54:00:ab:cd:ef",
		ConfigModule:     "configModule-" + deviceType,
		DeviceName:       name,
		DeviceType:       deviceType,
		FirmwareVersion:  "1.0.10",
		ConnectionStatus: ConnectionOnline,
	}
}

func CreateTestOutlet(d Dispatcher) *Outlet {
	o := NewOutlet(testMeta("outlet-cid", "Test Outlet", "ESW15-USA"), OutletCapabilities{EnergyHistory: true}, d)
	o.State = OutletState{
		DeviceStatus:  StatusOn,
		Power:         Float64Ptr(15.5),
		Voltage:       Float64Ptr(120),
		EnergyToday:   Float64Ptr(1.2),
		WeeklyEnergy:  Float64Ptr(8.4),
		MonthlyEnergy: Float64Ptr(36),
		YearlyEnergy:  Float64Ptr(432),
	}
	return o
}

func CreateTestWallSwitch(d Dispatcher) *WallSwitch {
	s := NewWallSwitch(testMeta("dimmer-cid", "Test Dimmer", "ESWD16"), WallSwitchCapabilities{Dimmable: true}, d)
	s.State = WallSwitchState{DeviceStatus: StatusOn, Brightness: IntPtr(50)}
	return s
}

func CreateTestBulb(d Dispatcher) *Bulb {
	b := NewBulb(testMeta("bulb-cid", "Test Bulb", "ESL100CW"), BulbCapabilities{Dimmable: true, ColorTemp: true}, d)
	b.State = BulbState{DeviceStatus: StatusOn, Brightness: IntPtr(50), ColorTempPct: IntPtr(50)}
	return b
}

func CreateTestTowerFan(d Dispatcher) *Fan {
	f := NewFan(testMeta("fan-cid", "Test Fan", "LTF-F422S-KEU"), ProductFan, FanCapabilities{
		FanLevels:     []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		Modes:         []string{ModeAuto, ModeManual, ModeSleep, ModeTurbo},
		ChildLock:     true,
		DisplayToggle: true,
	}, d)
	f.State = FanState{
		DeviceStatus: StatusOn,
		Mode:         ModeManual,
		FanLevel:     1,
		Humidity:     IntPtr(54),
		ChildLock:    BoolPtr(false),
		Display:      BoolPtr(true),
	}
	return f
}

func CreateTestPurifier(d Dispatcher) *Fan {
	f := NewFan(testMeta("purifier-cid", "Test Purifier", "Core400S"), ProductPurifier, FanCapabilities{
		FanLevels:     []int{1, 2, 3},
		Modes:         []string{ModeAuto, ModeManual, ModeSleep},
		ChildLock:     true,
		DisplayToggle: true,
	}, d)
	f.State = FanState{
		DeviceStatus:    StatusOn,
		Mode:            ModeManual,
		FanLevel:        1,
		AirQuality:      IntPtr(1),
		AirQualityValue: IntPtr(5),
		FilterLife:      IntPtr(99),
		ChildLock:       BoolPtr(false),
		Display:         BoolPtr(true),
	}
	return f
}

func CreateTestHumidifier(d Dispatcher) *Humidifier {
	h := NewHumidifier(testMeta("humidifier-cid", "Test Humidifier", "LUH-A602S-WUS"), HumidifierCapabilities{
		MistLevels:     []int{1, 2, 3, 4, 5, 6, 7, 8, 9},
		WarmMistLevels: []int{0, 1, 2, 3},
		Modes:          []string{ModeAuto, ModeHumidity, ModeManual, ModeSleep},
		ChildLock:      true,
		DisplayToggle:  true,
		AutomaticStop:  true,
	}, d)
	h.State = HumidifierState{
		DeviceStatus:     StatusOn,
		Mode:             ModeManual,
		Humidity:         IntPtr(50),
		TargetHumidity:   55,
		MistLevel:        3,
		MistVirtualLevel: 3,
		WarmMistLevel:    IntPtr(0),
		AutomaticStop:    BoolPtr(true),
		Display:          BoolPtr(true),
		ChildLock:        BoolPtr(false),
		WaterLacks:       BoolPtr(false),
		WaterTankLifted:  BoolPtr(false),
	}
	return h
}

func CreateTestAirFryer(d Dispatcher) *AirFryer {
	a := NewAirFryer(testMeta("airfryer-cid", "Test Air Fryer", "CS158-AF"), d)
	a.State = AirFryerState{
		CookStatus:   "cooking",
		CurrentTemp:  IntPtr(180),
		CookSetTemp:  IntPtr(200),
		CookLastTime: IntPtr(15),
		IsCooking:    true,
		IsRunning:    true,
	}
	return a
}
