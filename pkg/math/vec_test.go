package math

import (
	"math"
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 0.6, 4}.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec3Mix(t *testing.T) {
	got := Vec3{1, 1, 1}.Mix(Vec3{}, 0.8)
	if abs(got.X-0.2) > 1e-6 || abs(got.Y-0.2) > 1e-6 || abs(got.Z-0.2) > 1e-6 {
		t.Errorf("Vec3.Mix() = %v, want (0.2, 0.2, 0.2)", got)
	}
}

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		x, want float32
	}{
		{0.0, 0},
		{0.1, 0},
		{0.35, 0.5},
		{0.6, 1},
		{0.9, 1},
	}

	for _, tt := range tests {
		got := Smoothstep(0.1, 0.6, tt.x)
		if abs(got-tt.want) > 1e-6 {
			t.Errorf("Smoothstep(0.1, 0.6, %v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestSmoothstepMonotonic(t *testing.T) {
	prev := float32(-1)
	for i := 0; i <= 100; i++ {
		v := Smoothstep(0.2, 0.8, float32(i)/100)
		if v < prev {
			t.Fatalf("Smoothstep decreased at step %d: %v < %v", i, v, prev)
		}
		prev = v
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{TwoPi + 1, 1},
		{-1, TwoPi - 1},
		{5 * TwoPi, 0},
	}

	for _, tt := range tests {
		got := WrapAngle(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("WrapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-1, 0, 1) != 0 || Clamp(2, 0, 1) != 1 || Clamp(0.5, 0, 1) != 0.5 {
		t.Error("Clamp returned out-of-range value")
	}
}

func TestRGBFromHex(t *testing.T) {
	tests := []struct {
		hex  uint32
		want [3]float32
	}{
		{0xffffff, [3]float32{1, 1, 1}},
		{0x000000, [3]float32{0, 0, 0}},
		{0xff0000, [3]float32{1, 0, 0}},
		{0x444444, [3]float32{0x44 / 255.0, 0x44 / 255.0, 0x44 / 255.0}},
	}
	for _, tt := range tests {
		if got := RGBFromHex(tt.hex); got != tt.want {
			t.Errorf("RGBFromHex(%#06x) = %v, want %v", tt.hex, got, tt.want)
		}
	}
}
