// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.

// Package brick models the in-memory state of an EV3 brick: motors,
// sensors, the screen buffer, and the status light.
package brick

import "github.com/pkg/errors"

// MotorPort and SensorPort enumerate the brick's fixed physical ports.
type MotorPort string
type SensorPort string

const (
	PortA MotorPort = "A"
	PortB MotorPort = "B"
	PortC MotorPort = "C"
	PortD MotorPort = "D"
)

const (
	Port1 SensorPort = "1"
	Port2 SensorPort = "2"
	Port3 SensorPort = "3"
	Port4 SensorPort = "4"
)

var (
	ErrUnknownMotorPort   = errors.New("brick: unknown or unpopulated motor port")
	ErrMotorTypeMismatch  = errors.New("brick: motor type mismatch")
	ErrUnknownSensorPort  = errors.New("brick: unknown or unpopulated sensor port")
)

// BrakeMode mirrors the MakeCode brakeMode enum values used by motor
// handlers (coast vs. brake on stop).
type BrakeMode string

const (
	BrakeModeCoast BrakeMode = "coast"
	BrakeModeBrake BrakeMode = "brake"
)

// Motor is the mutable state of one motor, keyed by port in Brick.Motors.
type Motor struct {
	Type      string
	Speed     int
	Angle     int
	Count     int
	BrakeMode BrakeMode
}

// Sensor is the mutable state of one sensor, keyed by port in Brick.Sensors.
type Sensor struct {
	Type string
}

// StatusLightPattern enumerates the brick's status light states.
type StatusLightPattern string

const (
	StatusLightOff               StatusLightPattern = "off"
	StatusLightGreen             StatusLightPattern = "green"
	StatusLightRed               StatusLightPattern = "red"
	StatusLightOrange            StatusLightPattern = "orange"
	StatusLightGreenFlash        StatusLightPattern = "greenFlash"
	StatusLightRedFlash          StatusLightPattern = "redFlash"
	StatusLightOrangeFlash       StatusLightPattern = "orangeFlash"
	StatusLightGreenPulse        StatusLightPattern = "greenPulse"
	StatusLightRedPulse          StatusLightPattern = "redPulse"
	StatusLightOrangePulse       StatusLightPattern = "orangePulse"
)

const (
	ScreenWidth  = 178
	ScreenHeight = 128
)

// Brick is the full in-memory model of the robot controller.
type Brick struct {
	Motors  map[MotorPort]*Motor
	Sensors map[SensorPort]*Sensor
	Screen  [ScreenHeight][ScreenWidth]bool
	Status  StatusLightPattern
}

// New returns an empty Brick with no motors or sensors populated.
func New() *Brick {
	return &Brick{
		Motors:  make(map[MotorPort]*Motor),
		Sensors: make(map[SensorPort]*Sensor),
		Status:  StatusLightOff,
	}
}

// PopulateMotor attaches a motor of the given type to port, overwriting any
// prior occupant.
func (b *Brick) PopulateMotor(port MotorPort, motorType string) {
	b.Motors[port] = &Motor{Type: motorType, BrakeMode: BrakeModeCoast}
}

// PopulateSensor attaches a sensor of the given type to port.
func (b *Brick) PopulateSensor(port SensorPort, sensorType string) {
	b.Sensors[port] = &Sensor{Type: sensorType}
}

// Motor looks up a populated motor, checking its declared type. Returns
// ErrUnknownMotorPort if the port is unknown or empty, ErrMotorTypeMismatch
// if the motor there disagrees with wantType.
func (b *Brick) Motor(port MotorPort, wantType string) (*Motor, error) {
	m, ok := b.Motors[port]
	if !ok || m == nil {
		return nil, errors.Wrapf(ErrUnknownMotorPort, "port %s", port)
	}
	if m.Type != wantType {
		return nil, errors.Wrapf(ErrMotorTypeMismatch, "port %s: have %s, want %s", port, m.Type, wantType)
	}
	return m, nil
}

// ClearScreen sets every pixel to off.
func (b *Brick) ClearScreen() {
	b.Screen = [ScreenHeight][ScreenWidth]bool{}
}

// SetPixel sets one screen pixel, ignoring out-of-bounds coordinates (the
// MakeCode screen API silently clips).
func (b *Brick) SetPixel(x, y int, on bool) {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return
	}
	b.Screen[y][x] = on
}
