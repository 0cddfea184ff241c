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

package handlers

import (
	"fmt"
	"regexp"

	"github.com/gmofishsauce/ev3sim/brick"
	"github.com/pkg/errors"
)

var ErrMotorLabelMalformed = errors.New("handlers: malformed motor label")

var motorLabelPattern = regexp.MustCompile(`^motors?\.([a-z]+)([A-D]+)$`)

// MotorTarget is one (port, declared type) pair parsed out of a motor
// label, e.g. "motors.largeAC" yields two targets, one for port A and one
// for port C, both of declared type "large".
type MotorTarget struct {
	Port brick.MotorPort
	Type string
}

// ParseMotorLabel decodes a label of the form "motors.<type><PORTS>" or
// "motor.<type><PORTS>", yielding one MotorTarget per uppercase port
// letter in PORTS.
func ParseMotorLabel(label string) ([]MotorTarget, error) {
	m := motorLabelPattern.FindStringSubmatch(label)
	if m == nil {
		return nil, errors.Wrapf(ErrMotorLabelMalformed, "%q", label)
	}

	motorType, ports := m[1], m[2]
	targets := make([]MotorTarget, 0, len(ports))
	for _, p := range ports {
		targets = append(targets, MotorTarget{Port: brick.MotorPort(p), Type: motorType})
	}
	return targets, nil
}

// FormatMotorLabel renders the canonical single-port label for (port,
// motorType), e.g. ("A", "large") -> "motors.largeA". This is the inverse
// of ParseMotorLabel for single-port labels.
func FormatMotorLabel(port brick.MotorPort, motorType string) string {
	return fmt.Sprintf("motors.%s%s", motorType, string(port))
}
