package theme

import (
	"context"
	"testing"

	"vidbrief/config"
	"vidbrief/store"
)

func always(dark bool) Detector { return func() bool { return dark } }

func TestNewManagerResolution(t *testing.T) {
	cases := []struct {
		name   string
		stored string
		has    bool
		osDark bool
		want   Theme
	}{
		{"stored dark", "dark", true, false, Dark},
		{"stored light", "light", true, true, Light},
		{"stored garbage reads as light", "purple", true, true, Light},
		{"nothing stored, os dark", "", false, true, Dark},
		{"nothing stored, os light", "", false, false, Light},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := context.Background()
			kv := store.NewMemory()
			if c.has {
				_ = kv.Set(ctx, config.ThemeKey, []byte(c.stored))
			}

			m := NewManager(ctx, kv, always(c.osDark))
			if m.Current() != c.want {
				t.Fatalf("Current() = %s; want %s", m.Current(), c.want)
			}

			raw, err := kv.Get(ctx, config.ThemeKey)
			if err != nil || Theme(raw) != c.want {
				t.Fatalf("persisted %q, %v; want %s", raw, err, c.want)
			}
		})
	}
}

func TestToggleIsAnInvolution(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	m := NewManager(ctx, kv, always(true))

	start := m.Current()
	m.Toggle(ctx)
	if m.Current() == start {
		t.Fatalf("toggle did not change theme")
	}
	m.Toggle(ctx)
	if m.Current() != start {
		t.Fatalf("double toggle = %s; want %s", m.Current(), start)
	}

	raw, _ := kv.Get(ctx, config.ThemeKey)
	if Theme(raw) != start {
		t.Fatalf("persisted %s after double toggle; want %s", raw, start)
	}
}

func TestListenersAndClass(t *testing.T) {
	ctx := context.Background()
	m := NewManager(ctx, store.NewMemory(), always(false))

	var seen []Theme
	m.Subscribe(func(th Theme) { seen = append(seen, th) })
	m.Toggle(ctx)
	m.Set(ctx, Light)

	want := []Theme{Light, Dark, Light}
	if len(seen) != len(want) {
		t.Fatalf("listener saw %v; want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("listener saw %v; want %v", seen, want)
		}
	}

	if Dark.Class() != "dark-theme" || Light.Class() != "light-theme" {
		t.Fatalf("unexpected classes %s/%s", Dark.Class(), Light.Class())
	}
}

func TestPalette(t *testing.T) {
	dark := PaletteFor(Dark)
	light := PaletteFor(Light)

	checks := []struct {
		name      string
		got, want string
	}{
		{"dark grid", string(dark.Grid), "#334155"},
		{"light grid", string(light.Grid), "#e2e8f0"},
		{"dark ticks", string(dark.Ticks), "#f1f5f9"},
		{"light ticks", string(light.Ticks), "#1e293b"},
		{"dark bar", string(dark.Bar), "#60a5fa"},
		{"light bar", string(light.Bar), "#2563eb"},
		{"dark border", string(dark.BarBorder), "#3b82f6"},
		{"light border", string(light.BarBorder), "#1e40af"},
		{"dark button", string(dark.ExpandButton), "#fff"},
		{"light button", string(light.ExpandButton), "#000"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %s; want %s", c.name, c.got, c.want)
		}
	}
}
