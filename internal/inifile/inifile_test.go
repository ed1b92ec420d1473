package inifile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.ini")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func readBack(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(data)
}

func TestReadValue(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "[MemoryCards]\nSlot1_Filename=old.ps2\nSlot2_Filename = second.ps2\n")

	if v, ok := ReadValue(path, "MemoryCards", "Slot1_Filename"); !ok || v != "old.ps2" {
		t.Fatalf("ReadValue = %q, %v; want old.ps2, true", v, ok)
	}
	// Whitespace around key and value is trimmed.
	if v, ok := ReadValue(path, "MemoryCards", "Slot2_Filename"); !ok || v != "second.ps2" {
		t.Fatalf("ReadValue = %q, %v; want second.ps2, true", v, ok)
	}
	// Section and key lookups are case-insensitive.
	if v, ok := ReadValue(path, "memorycards", "SLOT1_FILENAME"); !ok || v != "old.ps2" {
		t.Fatalf("case-insensitive ReadValue = %q, %v; want old.ps2, true", v, ok)
	}
	if _, ok := ReadValue(path, "MemoryCards", "Missing"); ok {
		t.Fatalf("ReadValue found a missing key")
	}
	if _, ok := ReadValue(path, "NoSuchSection", "Slot1_Filename"); ok {
		t.Fatalf("ReadValue found a key in a missing section")
	}
	if _, ok := ReadValue(filepath.Join(t.TempDir(), "gone.ini"), "MemoryCards", "Slot1_Filename"); ok {
		t.Fatalf("ReadValue found a key in a missing file")
	}
}

func TestReadValueScopedToSection(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "[UI]\nTheme=dark\n[MemoryCards]\nSlot1_Filename=a.ps2\n[Audio]\nSlot1_Filename=wrong\n")

	if v, ok := ReadValue(path, "MemoryCards", "Slot1_Filename"); !ok || v != "a.ps2" {
		t.Fatalf("ReadValue = %q, %v; want a.ps2, true", v, ok)
	}
	if _, ok := ReadValue(path, "UI", "Slot1_Filename"); ok {
		t.Fatalf("ReadValue leaked a key from a later section")
	}
}

func TestReadValueSkipsCommentsAndMalformedLines(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "[MemoryCards]\n; Slot1_Filename=commented.ps2\n# Slot1_Filename=also.ps2\n=nokey\nnotanentry\nSlot1_Filename=real.ps2\n")

	if v, ok := ReadValue(path, "MemoryCards", "Slot1_Filename"); !ok || v != "real.ps2" {
		t.Fatalf("ReadValue = %q, %v; want real.ps2, true", v, ok)
	}
}

func TestFindCandidateKeyPrefersWhatExists(t *testing.T) {
	t.Parallel()

	// Only the second-listed candidate is on disk; it wins anyway.
	path := writeFixture(t, "[MemoryCards]\nMcd001=x.ps2\n")

	key, ok := FindCandidateKey(path, "MemoryCards", []string{"Slot1_Filename", "Mcd001"})
	if !ok || key != "Mcd001" {
		t.Fatalf("FindCandidateKey = %q, %v; want Mcd001, true", key, ok)
	}
}

func TestFindCandidateKeyReportsOnDiskSpelling(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "[MemoryCards]\nslot1_filename=x.ps2\n")

	key, ok := FindCandidateKey(path, "MemoryCards", []string{"Slot1_Filename"})
	if !ok || key != "slot1_filename" {
		t.Fatalf("FindCandidateKey = %q, %v; want on-disk spelling slot1_filename", key, ok)
	}
}

func TestFindCandidateKeyNotFound(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "[MemoryCards]\nOther=1\n")

	if _, ok := FindCandidateKey(path, "MemoryCards", []string{"Slot1_Filename", "Mcd001"}); ok {
		t.Fatalf("FindCandidateKey matched a section with no candidate")
	}
	if _, ok := FindCandidateKey(path, "Missing", []string{"Slot1_Filename"}); ok {
		t.Fatalf("FindCandidateKey matched a missing section")
	}
	if _, ok := FindCandidateKey(filepath.Join(t.TempDir(), "gone.ini"), "MemoryCards", []string{"Slot1_Filename"}); ok {
		t.Fatalf("FindCandidateKey matched a missing file")
	}
}

func TestWriteValueMissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gone.ini")
	if err := WriteValue(path, "MemoryCards", "Slot1_Filename", "new.ps2"); err == nil {
		t.Fatalf("WriteValue created a missing file")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("WriteValue left a file behind: %v", err)
	}
}

func TestWriteValueReplacesInPlace(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "; emulator settings\n[UI]\nTheme=dark\n\n[MemoryCards]\nSlot1_Filename=old.ps2\nSlot2_Filename=keep.ps2\n\n[Audio]\nVolume=90\n")

	if err := WriteValue(path, "MemoryCards", "Slot1_Filename", "new.ps2"); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}
	want := "; emulator settings\n[UI]\nTheme=dark\n\n[MemoryCards]\nSlot1_Filename=new.ps2\nSlot2_Filename=keep.ps2\n\n[Audio]\nVolume=90\n"
	if got := readBack(t, path); got != want {
		t.Fatalf("document mismatch:\nwant: %q\ngot:  %q", want, got)
	}
}

func TestWriteValueReplacesFirstMatchOnly(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "[MemoryCards]\nSlot1_Filename=first.ps2\nSlot1_Filename=second.ps2\n")

	if err := WriteValue(path, "MemoryCards", "Slot1_Filename", "new.ps2"); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}
	want := "[MemoryCards]\nSlot1_Filename=new.ps2\nSlot1_Filename=second.ps2\n"
	if got := readBack(t, path); got != want {
		t.Fatalf("document mismatch:\nwant: %q\ngot:  %q", want, got)
	}
}

func TestWriteValueInsertsBeforeNextSection(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "[MemoryCards]\nMcd001=x.ps2\n[Audio]\nVolume=90\n")

	if err := WriteValue(path, "MemoryCards", "Slot1_Filename", "new.ps2"); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}
	want := "[MemoryCards]\nMcd001=x.ps2\nSlot1_Filename=new.ps2\n[Audio]\nVolume=90\n"
	if got := readBack(t, path); got != want {
		t.Fatalf("document mismatch:\nwant: %q\ngot:  %q", want, got)
	}
}

func TestWriteValueInsertsAtEOFForLastSection(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "[MemoryCards]\nMcd001=x.ps2\n")

	if err := WriteValue(path, "MemoryCards", "Slot1_Filename", "new.ps2"); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}
	want := "[MemoryCards]\nMcd001=x.ps2\nSlot1_Filename=new.ps2\n"
	if got := readBack(t, path); got != want {
		t.Fatalf("document mismatch:\nwant: %q\ngot:  %q", want, got)
	}
}

func TestWriteValueAppendsMissingSection(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "[UI]\nTheme=dark\n")

	if err := WriteValue(path, "MemoryCards", "Slot1_Filename", "new.ps2"); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}
	want := "[UI]\nTheme=dark\n\n[MemoryCards]\nSlot1_Filename=new.ps2\n"
	if got := readBack(t, path); got != want {
		t.Fatalf("document mismatch:\nwant: %q\ngot:  %q", want, got)
	}
	if v, ok := ReadValue(path, "MemoryCards", "Slot1_Filename"); !ok || v != "new.ps2" {
		t.Fatalf("ReadValue after section append = %q, %v; want new.ps2, true", v, ok)
	}
}

func TestWriteValueAppendsSectionToEmptyFile(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "")

	if err := WriteValue(path, "MemoryCards", "Slot1_Filename", "new.ps2"); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}
	want := "[MemoryCards]\nSlot1_Filename=new.ps2\n"
	if got := readBack(t, path); got != want {
		t.Fatalf("document mismatch:\nwant: %q\ngot:  %q", want, got)
	}
}

func TestWriteValueNoSeparatorAfterBlankTail(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "[UI]\nTheme=dark\n\n")

	if err := WriteValue(path, "MemoryCards", "Slot1_Filename", "new.ps2"); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}
	want := "[UI]\nTheme=dark\n\n[MemoryCards]\nSlot1_Filename=new.ps2\n"
	if got := readBack(t, path); got != want {
		t.Fatalf("document mismatch:\nwant: %q\ngot:  %q", want, got)
	}
}

func TestWriteValuePreservesCRLF(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "[MemoryCards]\r\nSlot1_Filename=old.ps2\r\nSlot2_Filename=keep.ps2\r\n")

	if err := WriteValue(path, "MemoryCards", "Slot1_Filename", "new.ps2"); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}
	want := "[MemoryCards]\r\nSlot1_Filename=new.ps2\r\nSlot2_Filename=keep.ps2\r\n"
	if got := readBack(t, path); got != want {
		t.Fatalf("document mismatch:\nwant: %q\ngot:  %q", want, got)
	}
}

func TestWriteValuePreservesUnrelatedTextVerbatim(t *testing.T) {
	t.Parallel()

	// Odd spacing, comments and casing outside the touched line must survive
	// byte for byte.
	path := writeFixture(t, "  ; leading comment\n[MemoryCards]\n  Mcd001 = x.ps2  \n#tail\n[audio]\n  Volume=90\n")

	if err := WriteValue(path, "MemoryCards", "Mcd001", "y.ps2"); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}
	want := "  ; leading comment\n[MemoryCards]\nMcd001=y.ps2\n#tail\n[audio]\n  Volume=90\n"
	if got := readBack(t, path); got != want {
		t.Fatalf("document mismatch:\nwant: %q\ngot:  %q", want, got)
	}
}

func TestWriteValueMissingFinalNewline(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "[UI]\nTheme=dark")

	if err := WriteValue(path, "UI", "Theme", "light"); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}
	if got := readBack(t, path); got != "[UI]\nTheme=light" {
		t.Fatalf("document mismatch: %q", got)
	}
}
