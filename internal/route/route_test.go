package route

import "testing"

func TestRoute_Path(t *testing.T) {
	tests := []struct {
		route Route
		want  string
	}{
		{ToHome(), "/"},
		{ToProducts(), "/products"},
		{ToProduct("red-shirt"), "/products/red-shirt"},
		{ToProduct("a b/c"), "/products/a%20b%2Fc"},
		{ToCategory("shoes"), "/category/shoes"},
		{ToSearch("green tea"), "/products?search=green+tea"},
		{ToSearch("a&b"), "/products?search=a%26b"},
		{ToCart(), "/cart"},
		{ToProfile(), "/profile"},
	}
	for _, tt := range tests {
		if got := tt.route.Path(); got != tt.want {
			t.Errorf("%v.Path() = %q, want %q", tt.route.Kind, got, tt.want)
		}
	}
}

func TestKey_PrefersSlug(t *testing.T) {
	if got := Key("red-shirt", "p1"); got != "red-shirt" {
		t.Fatalf("Key = %q, want slug", got)
	}
	if got := Key("", "p1"); got != "p1" {
		t.Fatalf("Key = %q, want id fallback", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Route
		wantErr bool
	}{
		{"/", ToHome(), false},
		{"/products", ToProducts(), false},
		{"/products/", ToProducts(), false},
		{"/products/red-shirt", ToProduct("red-shirt"), false},
		{"/products?search=green+tea", ToSearch("green tea"), false},
		{"/products?category=shoes", ToCategory("shoes"), false},
		{"/category/shoes", ToCategory("shoes"), false},
		{"https://shop.example/cart", ToCart(), false},
		{"/profile", ToProfile(), false},
		{"", Route{}, true},
		{"/checkout", Route{}, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q) error = nil, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParse_RoundTripsPath(t *testing.T) {
	for _, r := range []Route{ToProducts(), ToProduct("x"), ToCategory("y"), ToSearch("tea cups"), ToCart(), ToProfile()} {
		got, err := Parse(r.Path())
		if err != nil {
			t.Fatalf("Parse(%q): %v", r.Path(), err)
		}
		if got != r {
			t.Fatalf("Parse(%q) = %+v, want %+v", r.Path(), got, r)
		}
	}
}

func TestHistory(t *testing.T) {
	var h History
	if h.Current() != ToHome() {
		t.Fatalf("zero History current = %v, want home", h.Current())
	}
	if _, ok := h.Back(); ok {
		t.Fatal("Back at root reported true")
	}

	h.Push(ToHome())
	if h.Depth() != 0 {
		t.Fatalf("pushing home at root changed depth to %d", h.Depth())
	}

	h.Push(ToProducts())
	h.Push(ToProduct("x"))
	h.Push(ToProduct("x"))
	if h.Depth() != 2 {
		t.Fatalf("Depth = %d, want 2", h.Depth())
	}

	r, ok := h.Back()
	if !ok || r != ToProducts() {
		t.Fatalf("Back = %v, %v; want products, true", r, ok)
	}
	r, ok = h.Back()
	if !ok || r != ToHome() {
		t.Fatalf("Back = %v, %v; want home, true", r, ok)
	}
}
