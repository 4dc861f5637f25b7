package trace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ArpitPrd/fpsim/internal/fpsim"
)

func writeTrace(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write trace: %v", err)
	}
	return path
}

func TestParseFile(t *testing.T) {
	path := writeTrace(t, "0 FADD.S R1 R2 R3\n\n0 FMOV.D R4 R5\n")

	instrs, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(instrs) != 2 {
		t.Fatalf("got %d instructions, want 2", len(instrs))
	}

	want0 := fpsim.Instruction{ArrivalCycle: 0, Op: "FADD.S", IsDouble: false, Dst: 1, Src1: 2, Src2: 3}
	if instrs[0] != want0 {
		t.Errorf("instrs[0] = %+v, want %+v", instrs[0], want0)
	}

	want1 := fpsim.Instruction{ArrivalCycle: 0, Op: "FMOV.D", IsDouble: true, Dst: 4, Src1: 5, Src2: fpsim.NoSource}
	if instrs[1] != want1 {
		t.Errorf("instrs[1] = %+v, want %+v", instrs[1], want1)
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseFileMalformedOpcode(t *testing.T) {
	path := writeTrace(t, "0 FADD R1 R2 R3\n")
	if _, err := ParseFile(path); err == nil {
		t.Fatal("expected error for opcode missing precision suffix")
	}
}

func TestParseFileFMOVIgnoresExtraSrc2Token(t *testing.T) {
	path := writeTrace(t, "0 FMOV.S R1 R2 R9\n")
	instrs, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if instrs[0].Src2 != fpsim.NoSource {
		t.Errorf("Src2 = %d, want %d (discarded for FMOV)", instrs[0].Src2, fpsim.NoSource)
	}
}

func TestParseFileBadRegisterToken(t *testing.T) {
	path := writeTrace(t, "0 FADD.S X1 R2 R3\n")
	if _, err := ParseFile(path); err == nil {
		t.Fatal("expected error for malformed register token")
	}
}
