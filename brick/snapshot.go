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

package brick

// MotorSnapshot is the wire shape of one motor port's state, or nil for an
// unpopulated port.
type MotorSnapshot struct {
	Type  string `json:"type"`
	Speed int    `json:"speed"`
	Angle int    `json:"angle"`
	Count int    `json:"count"`
}

// SensorSnapshot is the wire shape of one sensor port. The driver
// protocol only needs presence, so it is an empty object when populated.
type SensorSnapshot struct{}

// Snapshot is the plain-dictionary shape returned by the driver protocol's
// "step" command.
type Snapshot struct {
	StatusLightPattern string                            `json:"statusLightPattern"`
	Motors             map[string]*MotorSnapshot          `json:"motors"`
	Sensors            map[string]*SensorSnapshot         `json:"sensors"`
}

// Snapshot serializes the Brick into transport-ready form.
func (b *Brick) Snapshot() *Snapshot {
	s := &Snapshot{
		StatusLightPattern: string(b.Status),
		Motors:             make(map[string]*MotorSnapshot),
		Sensors:            make(map[string]*SensorSnapshot),
	}

	for _, port := range []MotorPort{PortA, PortB, PortC, PortD} {
		m, ok := b.Motors[port]
		if !ok || m == nil {
			s.Motors[string(port)] = nil
			continue
		}
		s.Motors[string(port)] = &MotorSnapshot{
			Type:  m.Type,
			Speed: m.Speed,
			Angle: m.Angle,
			Count: m.Count,
		}
	}

	for _, port := range []SensorPort{Port1, Port2, Port3, Port4} {
		if _, ok := b.Sensors[port]; !ok {
			s.Sensors[string(port)] = nil
			continue
		}
		s.Sensors[string(port)] = &SensorSnapshot{}
	}

	return s
}
