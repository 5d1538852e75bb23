package parser

import (
	"errors"
	"reflect"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	quil "github.com/jselig-rigetti/quil-rs"
)

// parseAll is a test helper running the full lex + parse pipeline.
func parseAll(t *testing.T, text string) []quil.Instruction {
	t.Helper()
	tokens, err := Lex(text)
	if err != nil {
		t.Fatalf("lexing %q failed: %v", text, err)
	}
	instructions, err := ParseInstructions(tokens)
	if err != nil {
		t.Fatalf("parsing %q failed: %v", text, err)
	}
	return instructions
}

func renderings(instructions []quil.Instruction) []string {
	rendered := make([]string, len(instructions))
	for i, instruction := range instructions {
		rendered[i] = instruction.String()
	}
	return rendered
}

func TestSemicolonsAreNewlines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	instructions := parseAll(t, "X 0; Y 1\nZ 2")
	want := []quil.Instruction{
		quil.Gate{Name: "X", Qubits: []quil.Qubit{quil.FixedQubit(0)}},
		quil.Gate{Name: "Y", Qubits: []quil.Qubit{quil.FixedQubit(1)}},
		quil.Gate{Name: "Z", Qubits: []quil.Qubit{quil.FixedQubit(2)}},
	}
	if !reflect.DeepEqual(instructions, want) {
		t.Errorf("parsed %v, want %v", instructions, want)
	}
}

func TestParseGates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	for i, pair := range []struct {
		input  string
		result quil.Instruction
	}{
		{
			"RX(pi) 10",
			quil.Gate{
				Name:       "RX",
				Parameters: []quil.Expression{quil.PiConstant{}},
				Qubits:     []quil.Qubit{quil.FixedQubit(10)},
			},
		},
		{
			"CNOT 0 1",
			quil.Gate{Name: "CNOT", Qubits: []quil.Qubit{quil.FixedQubit(0), quil.FixedQubit(1)}},
		},
		{
			"DAGGER CONTROLLED RZ(%theta) 0 1",
			quil.Gate{
				Name:       "RZ",
				Parameters: []quil.Expression{quil.Variable{Name: "theta"}},
				Qubits:     []quil.Qubit{quil.FixedQubit(0), quil.FixedQubit(1)},
				Modifiers:  []quil.GateModifier{quil.Dagger, quil.Controlled},
			},
		},
	} {
		instructions := parseAll(t, pair.input)
		if len(instructions) != 1 {
			t.Fatalf("test %d: parsed %d instructions", i, len(instructions))
		}
		if !reflect.DeepEqual(instructions[0], pair.result) {
			t.Errorf("test %d: parsed %v, want %v", i, instructions[0], pair.result)
		}
	}
}

func TestParseArithmetic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	instructions := parseAll(t, "ADD ro 2\nMUL ro 1.0\nSUB ro[1] -3\nDIV ro[1] -1.0\nADD ro[1] ro[2]")
	want := []quil.Instruction{
		quil.Arithmetic{
			Operator:    quil.Add,
			Destination: quil.MemoryReference{Name: "ro"},
			Source:      quil.LiteralInteger(2),
		},
		quil.Arithmetic{
			Operator:    quil.Multiply,
			Destination: quil.MemoryReference{Name: "ro"},
			Source:      quil.LiteralReal(1.0),
		},
		quil.Arithmetic{
			Operator:    quil.Subtract,
			Destination: quil.MemoryReference{Name: "ro", Index: 1},
			Source:      quil.LiteralInteger(-3),
		},
		quil.Arithmetic{
			Operator:    quil.Divide,
			Destination: quil.MemoryReference{Name: "ro", Index: 1},
			Source:      quil.LiteralReal(-1.0),
		},
		quil.Arithmetic{
			Operator:    quil.Add,
			Destination: quil.MemoryReference{Name: "ro", Index: 1},
			Source:      quil.MemoryReference{Name: "ro", Index: 2},
		},
	}
	if !reflect.DeepEqual(instructions, want) {
		t.Errorf("parsed %v, want %v", instructions, want)
	}
}

func TestParseMoveExchange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	instructions := parseAll(t, "MOVE a 1.0\nEXCHANGE a b")
	want := []quil.Instruction{
		quil.Move{
			Destination: quil.MemoryReference{Name: "a"},
			Source:      quil.LiteralReal(1.0),
		},
		quil.Exchange{
			Left:  quil.MemoryReference{Name: "a"},
			Right: quil.MemoryReference{Name: "b"},
		},
	}
	if !reflect.DeepEqual(instructions, want) {
		t.Errorf("parsed %v, want %v", instructions, want)
	}
}

func TestParseLoadStore(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	instructions := parseAll(t, "LOAD dest source offset\nSTORE dest offset 7")
	want := []quil.Instruction{
		quil.Load{
			Destination: quil.MemoryReference{Name: "dest"},
			Source:      "source",
			Offset:      quil.MemoryReference{Name: "offset"},
		},
		quil.Store{
			Destination: "dest",
			Offset:      quil.MemoryReference{Name: "offset"},
			Source:      quil.LiteralInteger(7),
		},
	}
	if !reflect.DeepEqual(instructions, want) {
		t.Errorf("parsed %v, want %v", instructions, want)
	}
}

func TestParseControlFlow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	instructions := parseAll(t, "LABEL @hello\nJUMP @hello\nJUMP-WHEN @hello ro\nJUMP-UNLESS @hello ro[1]\nHALT")
	want := []quil.Instruction{
		quil.Label{Name: "hello"},
		quil.Jump{Target: "hello"},
		quil.JumpWhen{Target: "hello", Condition: quil.MemoryReference{Name: "ro"}},
		quil.JumpUnless{Target: "hello", Condition: quil.MemoryReference{Name: "ro", Index: 1}},
		quil.Halt{},
	}
	if !reflect.DeepEqual(instructions, want) {
		t.Errorf("parsed %v, want %v", instructions, want)
	}
}

func TestParseDeclare(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	instructions := parseAll(t, "DECLARE ro BIT\nDECLARE mem OCTET[32]\nDECLARE theta REAL[8] SHARING mem")
	want := []quil.Instruction{
		quil.Declaration{Name: "ro", Size: quil.Vector{DataType: quil.Bit, Length: 1}},
		quil.Declaration{Name: "mem", Size: quil.Vector{DataType: quil.Octet, Length: 32}},
		quil.Declaration{
			Name:    "theta",
			Size:    quil.Vector{DataType: quil.RealType, Length: 8},
			Sharing: "mem",
		},
	}
	if !reflect.DeepEqual(instructions, want) {
		t.Errorf("parsed %v, want %v", instructions, want)
	}
}

func TestParseMeasurement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	instructions := parseAll(t, "MEASURE 0\nMEASURE 1 ro[3]")
	if len(instructions) != 2 {
		t.Fatalf("parsed %d instructions", len(instructions))
	}
	first, ok := instructions[0].(quil.Measurement)
	if !ok || first.Qubit != quil.FixedQubit(0) || first.Target != nil {
		t.Errorf("first measurement is %v", instructions[0])
	}
	second, ok := instructions[1].(quil.Measurement)
	if !ok || second.Target == nil || *second.Target != (quil.MemoryReference{Name: "ro", Index: 3}) {
		t.Errorf("second measurement is %v", instructions[1])
	}
}

func TestParsePulse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	instructions := parseAll(t, "PULSE 0 \"xy\" custom\nNONBLOCKING PULSE 0 \"xy\" custom(t: 1e-8)")
	if len(instructions) != 2 {
		t.Fatalf("parsed %d instructions", len(instructions))
	}
	first, ok := instructions[0].(quil.Pulse)
	if !ok || !first.Blocking {
		t.Errorf("first pulse is %v", instructions[0])
	}
	second, ok := instructions[1].(quil.Pulse)
	if !ok || second.Blocking {
		t.Errorf("second pulse is %v", instructions[1])
	}
	want := []string{
		"PULSE 0 \"xy\" custom",
		"NONBLOCKING PULSE 0 \"xy\" custom(t: 0.00000001)",
	}
	if got := renderings(instructions); !reflect.DeepEqual(got, want) {
		t.Errorf("rendered %v, want %v", got, want)
	}
}

func TestParseCapture(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	instructions := parseAll(t, "CAPTURE 0 \"rx\" my_custom_waveform ro\nRAW-CAPTURE 0 1 \"rx\" 0.000001 ro")
	want := []string{
		"CAPTURE 0 \"rx\" my_custom_waveform ro[0]",
		"RAW-CAPTURE 0 1 \"rx\" 0.000001 ro[0]",
	}
	if got := renderings(instructions); !reflect.DeepEqual(got, want) {
		t.Errorf("rendered %v, want %v", got, want)
	}
	capture, ok := instructions[0].(quil.Capture)
	if !ok {
		t.Fatalf("first instruction is %T", instructions[0])
	}
	if len(capture.Frame.Qubits) != 1 || capture.Frame.Name != "rx" {
		t.Errorf("capture frame is %v", capture.Frame)
	}
	raw, ok := instructions[1].(quil.RawCapture)
	if !ok {
		t.Fatalf("second instruction is %T", instructions[1])
	}
	if len(raw.Frame.Qubits) != 2 {
		t.Errorf("raw capture frame is %v", raw.Frame)
	}
}

func TestParseDelayAndPragma(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	instructions := parseAll(t, "DELAY 0 1 0.5\nPRAGMA INITIAL_REWIRING \"GREEDY\"\nPRAGMA READOUT-POVM 0 \"(0.9 0.2 0.1 0.8)\"")
	want := []string{
		"DELAY 0 1 0.5",
		"PRAGMA INITIAL_REWIRING \"GREEDY\"",
		"PRAGMA READOUT-POVM 0 \"(0.9 0.2 0.1 0.8)\"",
	}
	if got := renderings(instructions); !reflect.DeepEqual(got, want) {
		t.Errorf("rendered %v, want %v", got, want)
	}
}

func TestParseComments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	if instructions := parseAll(t, "# Questions:\n\n\n"); len(instructions) != 0 {
		t.Errorf("expected no instructions, got %v", instructions)
	}
	instructions := parseAll(t, "# comment\nX 0 # inline\n# trailing")
	want := []quil.Instruction{
		quil.Gate{Name: "X", Qubits: []quil.Qubit{quil.FixedQubit(0)}},
	}
	if !reflect.DeepEqual(instructions, want) {
		t.Errorf("parsed %v, want %v", instructions, want)
	}
}

func TestParseCalibrationBlock(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	instructions := parseAll(t, "DEFCAL X 0:\n\tY 0\n\tZ 0\nX 1")
	if len(instructions) != 2 {
		t.Fatalf("parsed %d instructions: %v", len(instructions), instructions)
	}
	calibration, ok := instructions[0].(quil.Calibration)
	if !ok {
		t.Fatalf("first instruction is %T", instructions[0])
	}
	if calibration.Name != "X" || len(calibration.Qubits) != 1 {
		t.Errorf("calibration header is %v", calibration)
	}
	body := renderings(calibration.Instructions)
	if !reflect.DeepEqual(body, []string{"Y 0", "Z 0"}) {
		t.Errorf("calibration body is %v", body)
	}
	if instructions[1].String() != "X 1" {
		t.Errorf("trailing instruction is %v", instructions[1])
	}
}

func TestParseParametricCalibration(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	instructions := parseAll(t, "DEFCAL RX(%theta) %qubit:\n\tPULSE 1 \"xy\" custom_waveform(a: 1)")
	if len(instructions) != 1 {
		t.Fatalf("parsed %d instructions", len(instructions))
	}
	calibration, ok := instructions[0].(quil.Calibration)
	if !ok {
		t.Fatalf("instruction is %T", instructions[0])
	}
	if calibration.Name != "RX" {
		t.Errorf("calibration name is %q", calibration.Name)
	}
	wantParameters := []quil.Expression{quil.Variable{Name: "theta"}}
	if !reflect.DeepEqual(calibration.Parameters, wantParameters) {
		t.Errorf("calibration parameters are %v", calibration.Parameters)
	}
	wantQubits := []quil.Qubit{quil.VariableQubit("qubit")}
	if !reflect.DeepEqual(calibration.Qubits, wantQubits) {
		t.Errorf("calibration qubits are %v", calibration.Qubits)
	}
	body := renderings(calibration.Instructions)
	if !reflect.DeepEqual(body, []string{"PULSE 1 \"xy\" custom_waveform(a: 1)"}) {
		t.Errorf("calibration body is %v", body)
	}
}

func TestParseCircuitDefinition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	instructions := parseAll(t, "DEFCIRCUIT BELL a b:\n\tH %a\n\tCNOT %a %b")
	if len(instructions) != 1 {
		t.Fatalf("parsed %d instructions", len(instructions))
	}
	circuit, ok := instructions[0].(quil.CircuitDefinition)
	if !ok {
		t.Fatalf("instruction is %T", instructions[0])
	}
	if circuit.Name != "BELL" || len(circuit.Qubits) != 2 {
		t.Errorf("circuit header is %v", circuit)
	}
	if circuit.String() != "DEFCIRCUIT BELL a b:\n\tH %a\n\tCNOT %a %b" {
		t.Errorf("circuit rendered as %q", circuit.String())
	}
}

func TestParseFrameDefinition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	instructions := parseAll(t, "DEFFRAME 0 \"rx\":\n\tINITIAL-FREQUENCY: 2e9\n\tDIRECTION: \"tx\"")
	if len(instructions) != 1 {
		t.Fatalf("parsed %d instructions", len(instructions))
	}
	frame, ok := instructions[0].(quil.FrameDefinition)
	if !ok {
		t.Fatalf("instruction is %T", instructions[0])
	}
	frequency, found := frame.Attributes.Get("INITIAL-FREQUENCY")
	if !found {
		t.Fatal("INITIAL-FREQUENCY attribute missing")
	}
	if expression, ok := frequency.(quil.AttributeExpression); !ok ||
		!quil.Equal(expression.Expression, quil.Real(2e9)) {
		t.Errorf("INITIAL-FREQUENCY is %v", frequency)
	}
	direction, found := frame.Attributes.Get("DIRECTION")
	if !found || direction != quil.AttributeString("tx") {
		t.Errorf("DIRECTION is %v", direction)
	}
	if frame.String() != "DEFFRAME 0 \"rx\":\n\tDIRECTION: \"tx\"\n\tINITIAL-FREQUENCY: 2000000000" {
		t.Errorf("frame rendered as %q", frame.String())
	}
}

func TestParseCommentAfterBlock(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	instructions := parseAll(t, "DEFFRAME 0 \"ro_rx\":\n\tDIRECTION: \"rx\"\n\n# And some more comments\n")
	if len(instructions) != 1 {
		t.Fatalf("parsed %d instructions: %v", len(instructions), instructions)
	}
	if instructions[0].String() != "DEFFRAME 0 \"ro_rx\":\n\tDIRECTION: \"rx\"" {
		t.Errorf("frame rendered as %q", instructions[0].String())
	}
}

func TestParseWaveformDefinition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	instructions := parseAll(t, "DEFWAVEFORM my_wave(%a):\n\t1, 2i, %a")
	if len(instructions) != 1 {
		t.Fatalf("parsed %d instructions", len(instructions))
	}
	waveform, ok := instructions[0].(quil.WaveformDefinition)
	if !ok {
		t.Fatalf("instruction is %T", instructions[0])
	}
	if waveform.Name != "my_wave" || len(waveform.Entries) != 3 {
		t.Errorf("waveform is %v", waveform)
	}
	if waveform.String() != "DEFWAVEFORM my_wave(%a):\n\t1, 2i, %a" {
		t.Errorf("waveform rendered as %q", waveform.String())
	}
}

func TestParseInstructionRemainder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	tokens, err := Lex("X 0\nY 1")
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	remainder, instruction, err := ParseInstruction(tokens)
	if err != nil {
		t.Fatalf("parsing failed: %v", err)
	}
	if instruction.String() != "X 0" {
		t.Errorf("parsed %v", instruction)
	}
	if len(remainder) != 3 {
		t.Errorf("remainder is %v", remainder)
	}
}

func TestUnsupportedInstruction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	tokens, err := Lex("DEFGATE CUSTOM:\n\t1, 0\n\t0, 1")
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	_, _, err = ParseInstruction(tokens)
	if err == nil {
		t.Fatal("expected an error for DEFGATE")
	}
	var parseErr *Error
	if !errors.As(err, &parseErr) {
		t.Fatalf("error is %T", err)
	}
	if parseErr.Kind != UnsupportedInstruction || parseErr.Command != DefGate {
		t.Errorf("error is %v", parseErr)
	}
	if !isCommitted(err) {
		t.Error("an unsupported keyword must be a committed failure")
	}
}

func TestInvalidCommandIsCommitted(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	tokens, err := Lex("JUMP 5")
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	_, _, err = ParseInstruction(tokens)
	if err == nil {
		t.Fatal("expected an error for a malformed JUMP")
	}
	var parseErr *Error
	if !errors.As(err, &parseErr) {
		t.Fatalf("error is %T", err)
	}
	if parseErr.Kind != InvalidCommand || parseErr.Command != Jump {
		t.Errorf("error is %v", parseErr)
	}
	if !isCommitted(err) {
		t.Error("a malformed command must be a committed failure")
	}
}

func TestEmptyInputIsRecoverable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	_, _, err := ParseInstruction(nil)
	if err == nil {
		t.Fatal("expected an error for empty input")
	}
	if isCommitted(err) {
		t.Error("end of input must stay recoverable")
	}
}

func TestLeftoverInputFailsWholeParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	tokens, err := Lex("X 0\n]")
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	if _, err = ParseInstructions(tokens); err == nil {
		t.Fatal("expected an error for leftover input")
	}
	// A gate grammar fails recoverably, so the dangling tokens surface as
	// leftover input invalidating the whole parse.
	tokens, err = Lex("X 0\nY )")
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	_, err = ParseInstructions(tokens)
	if err == nil {
		t.Fatal("expected an error for leftover input")
	}
	var parseErr *Error
	if !errors.As(err, &parseErr) {
		t.Fatalf("error is %T", err)
	}
	if parseErr.Kind != LeftoverInput {
		t.Errorf("error is %v", parseErr)
	}
}

func TestMalformedBlockLineIsCommitted(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	tokens, err := Lex("DEFFRAME 0 \"rx\":\n\tDIRECTION: \"rx\"\n\t123: 4")
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	_, err = ParseInstructions(tokens)
	if err == nil {
		t.Fatal("expected an error for a malformed attribute line")
	}
	if !isCommitted(err) {
		t.Error("a malformed line behind indentation must be a committed failure")
	}
}

func TestParseProgram(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "quil.parser")
	defer teardown()
	//
	program, err := ParseProgram("DECLARE ro BIT[2]\nDEFFRAME 0 \"rx\":\n\tDIRECTION: \"tx\"\nX 0\nMEASURE 0 ro[0]")
	if err != nil {
		t.Fatalf("parsing failed: %v", err)
	}
	if program.Len() != 4 {
		t.Errorf("program holds %d instructions, want 4", program.Len())
	}
	if len(program.Instructions) != 2 {
		t.Errorf("program body has %d instructions", len(program.Instructions))
	}
	if program.Memory.Size() != 1 || program.Frames.Size() != 1 {
		t.Errorf("registries hold %d memory regions and %d frames",
			program.Memory.Size(), program.Frames.Size())
	}
	want := "DECLARE ro BIT[2]\nDEFFRAME 0 \"rx\":\n\tDIRECTION: \"tx\"\nX 0\nMEASURE 0 ro[0]\n"
	if program.String() != want {
		t.Errorf("program rendered as %q, want %q", program.String(), want)
	}
}
