// Package trace parses the plain-text instruction trace format consumed by
// the simulator and reconstructs Instruction records from it.
package trace

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ArpitPrd/fpsim/internal/fpsim"
)

// ParseFile reads and parses a trace file: one instruction per non-blank
// line, whitespace separated, of the form
// "<arrival_cycle> <opcode>.<S|D> R<dst> R<src1> R<src2>". For the FMOV
// family a trailing R<src2> token is ignored without being read or
// validated, and Src2 is set to NoSource. A missing file, a malformed line, or an
// opcode without a precision suffix is a fatal parse error.
func ParseFile(path string) ([]fpsim.Instruction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	defer f.Close()

	var instrs []fpsim.Instruction
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		instr, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("trace: line %d: %w", lineNo, err)
		}
		instrs = append(instrs, instr)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}

	return instrs, nil
}

// parseLine parses one non-blank trace line into an Instruction.
func parseLine(line string) (fpsim.Instruction, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return fpsim.Instruction{}, fmt.Errorf("expected at least 4 fields, got %d", len(fields))
	}

	cycle, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return fpsim.Instruction{}, fmt.Errorf("invalid arrival cycle %q: %w", fields[0], err)
	}

	opcodeFull := fields[1]
	dotPos := strings.IndexByte(opcodeFull, '.')
	if dotPos < 0 {
		return fpsim.Instruction{}, fmt.Errorf("invalid opcode %q: missing precision suffix", opcodeFull)
	}
	isDouble := opcodeFull[dotPos+1:] == "D"

	dst, err := parseRegister(fields[2])
	if err != nil {
		return fpsim.Instruction{}, err
	}
	src1, err := parseRegister(fields[3])
	if err != nil {
		return fpsim.Instruction{}, err
	}

	src2 := fpsim.NoSource
	isFMOV := opcodeFull == "FMOV.S" || opcodeFull == "FMOV.D"
	if !isFMOV {
		if len(fields) < 5 {
			return fpsim.Instruction{}, fmt.Errorf("opcode %q requires a second source register", opcodeFull)
		}
		src2, err = parseRegister(fields[4])
		if err != nil {
			return fpsim.Instruction{}, err
		}
	}

	return fpsim.Instruction{
		ArrivalCycle: cycle,
		Op:           opcodeFull,
		IsDouble:     isDouble,
		Dst:          dst,
		Src1:         src1,
		Src2:         src2,
	}, nil
}

// parseRegister strips the leading 'R' from a register token and parses the
// remainder as a 0-31 register index.
func parseRegister(tok string) (int, error) {
	if len(tok) < 2 || (tok[0] != 'R' && tok[0] != 'r') {
		return 0, fmt.Errorf("invalid register token %q", tok)
	}
	idx, err := strconv.Atoi(tok[1:])
	if err != nil {
		return 0, fmt.Errorf("invalid register token %q: %w", tok, err)
	}
	if idx < 0 || idx >= fpsim.NumRegisters {
		return 0, fmt.Errorf("register index %d out of range [0,%d)", idx, fpsim.NumRegisters)
	}
	return idx, nil
}
