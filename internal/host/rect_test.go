package host

import "testing"

func TestRectExtents(t *testing.T) {
	r := NewRect(10, 20, 110, 70)
	if r.Width() != 100 {
		t.Errorf("Width = %v, want 100", r.Width())
	}
	if r.Height() != 50 {
		t.Errorf("Height = %v, want 50", r.Height())
	}
	if !r.IsValid() {
		t.Error("expected rect to be valid")
	}
}

func TestRectOffsetAndInset(t *testing.T) {
	r := NewRect(0, 0, 10, 10)

	moved := r.OffsetBy(5, -5)
	if moved != NewRect(5, -5, 15, 5) {
		t.Errorf("OffsetBy = %+v", moved)
	}

	placed := r.OffsetTo(Point{100, 200})
	if placed != NewRect(100, 200, 110, 210) {
		t.Errorf("OffsetTo = %+v", placed)
	}

	shrunk := r.InsetBy(2, 3)
	if shrunk != NewRect(2, 3, 8, 7) {
		t.Errorf("InsetBy = %+v", shrunk)
	}
}

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{
			name: "overlapping",
			a:    NewRect(0, 0, 10, 10),
			b:    NewRect(5, 5, 15, 15),
			want: true,
		},
		{
			name: "touching edge",
			a:    NewRect(0, 0, 10, 10),
			b:    NewRect(10, 0, 20, 10),
			want: true,
		},
		{
			name: "disjoint horizontally",
			a:    NewRect(0, 0, 10, 10),
			b:    NewRect(11, 0, 20, 10),
			want: false,
		},
		{
			name: "disjoint vertically",
			a:    NewRect(0, 0, 10, 10),
			b:    NewRect(0, 20, 10, 30),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectUnionContains(t *testing.T) {
	u := NewRect(0, 0, 10, 10).Union(NewRect(5, -5, 20, 8))
	if u != NewRect(0, -5, 20, 10) {
		t.Errorf("Union = %+v", u)
	}

	if !u.Contains(Point{10, 5}) {
		t.Error("expected point inside union")
	}
	if u.Contains(Point{25, 5}) {
		t.Error("expected point outside union")
	}
}
