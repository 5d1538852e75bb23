// Copyright 2021 Rigetti Computing
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package quil

import (
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
)

// Program is a parsed Quil program: the executable instruction body plus
// registries of definitions, keyed and rendered in deterministic name order.
type Program struct {
	Instructions []Instruction
	Calibrations *treemap.Map // calibration name -> Calibration
	Frames       *treemap.Map // frame identifier text -> FrameDefinition
	Waveforms    *treemap.Map // waveform name -> WaveformDefinition
	Memory       *treemap.Map // region name -> Declaration
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{
		Calibrations: treemap.NewWithStringComparator(),
		Frames:       treemap.NewWithStringComparator(),
		Waveforms:    treemap.NewWithStringComparator(),
		Memory:       treemap.NewWithStringComparator(),
	}
}

// AddInstruction adds an instruction to the program. Definitions are routed
// into their registry, replacing any previous definition of the same name;
// all other instructions append to the body in order.
func (p *Program) AddInstruction(instruction Instruction) {
	switch inst := instruction.(type) {
	case Calibration:
		p.Calibrations.Put(inst.Name, inst)
	case FrameDefinition:
		p.Frames.Put(inst.Identifier.String(), inst)
	case WaveformDefinition:
		p.Waveforms.Put(inst.Name, inst)
	case Declaration:
		p.Memory.Put(inst.Name, inst)
	default:
		p.Instructions = append(p.Instructions, instruction)
	}
}

// Len returns the total number of instructions and definitions.
func (p *Program) Len() int {
	return len(p.Instructions) + p.Calibrations.Size() + p.Frames.Size() +
		p.Waveforms.Size() + p.Memory.Size()
}

// String renders the program in canonical order: memory declarations, frame
// definitions, waveform definitions, calibrations, then the body.
func (p *Program) String() string {
	var b strings.Builder
	writeEach := func(m *treemap.Map) {
		m.Each(func(_ interface{}, value interface{}) {
			b.WriteString(value.(Instruction).String())
			b.WriteString("\n")
		})
	}
	writeEach(p.Memory)
	writeEach(p.Frames)
	writeEach(p.Waveforms)
	writeEach(p.Calibrations)
	for _, inst := range p.Instructions {
		b.WriteString(inst.String())
		b.WriteString("\n")
	}
	return b.String()
}
