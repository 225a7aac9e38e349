package evds

import "testing"

func TestStringToRealPassesThroughSIUnits(t *testing.T) {
	got, err := StringToReal("12.5 m")
	if err != nil {
		t.Fatalf("StringToReal: %v", err)
	}
	if !floatsClose(got, 12.5) {
		t.Fatalf("got %v, want 12.5", got)
	}
}

func TestStringToRealUnitlessNumber(t *testing.T) {
	got, err := StringToReal("42")
	if err != nil {
		t.Fatalf("StringToReal: %v", err)
	}
	if !floatsClose(got, 42) {
		t.Fatalf("got %v, want 42", got)
	}
}

func TestStringToRealConvertsFeetToMeters(t *testing.T) {
	got, err := StringToReal("6378.145 ft")
	if err != nil {
		t.Fatalf("StringToReal: %v", err)
	}
	want := 6378.145 * 0.3048
	if !floatsClose(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestStringToRealConvertsCelsiusToKelvin(t *testing.T) {
	got, err := StringToReal("100 C")
	if err != nil {
		t.Fatalf("StringToReal: %v", err)
	}
	if !floatsClose(got, 373.15) {
		t.Fatalf("got %v, want 373.15", got)
	}
}

func TestStringToRealRejectsUnrecognizedUnit(t *testing.T) {
	_, err := StringToReal("10 furlongs")
	if err == nil {
		t.Fatal("expected error for unrecognized unit")
	}
	e, ok := err.(*Error)
	if !ok || e.Code() != Syntax {
		t.Fatalf("expected Syntax error, got %v", err)
	}
}

func TestStringToRealTrailingNudge(t *testing.T) {
	plus, err := StringToReal("5+")
	if err != nil {
		t.Fatalf("StringToReal +: %v", err)
	}
	if plus <= 5 {
		t.Fatalf("expected '+' suffix to nudge above 5, got %v", plus)
	}

	minus, err := StringToReal("5-")
	if err != nil {
		t.Fatalf("StringToReal -: %v", err)
	}
	if minus >= 5 {
		t.Fatalf("expected '-' suffix to nudge below 5, got %v", minus)
	}
}

func TestStringToRealCompoundUnit(t *testing.T) {
	got, err := StringToReal("1 lb/ft3")
	if err != nil {
		t.Fatalf("StringToReal: %v", err)
	}
	if !floatsClose(got, 16.01846337396) {
		t.Fatalf("got %v, want 16.01846337396", got)
	}
}

func TestStringToRealRejectsEmptyInput(t *testing.T) {
	_, err := StringToReal("   ")
	if err == nil {
		t.Fatal("expected error for empty input")
	}
}
