package recording

import (
	"strings"
	"sync"
	"testing"
)

// resetRegistry clears all registered backends for test isolation.
func resetRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends = make(map[string]BackendFactory)
}

func TestRegisterAndNewBackend(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	Register("test", func() Backend { return &logBackend{} })

	b, err := NewBackend("test")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	if _, ok := b.(*logBackend); !ok {
		t.Errorf("NewBackend returned %T", b)
	}
	if other, _ := NewBackend("test"); other == b {
		t.Error("NewBackend reused an instance")
	}
}

func TestNewBackendUnknown(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	tests := []struct {
		name       string
		registered []string
		want       string
	}{
		{"empty registry", nil, "forgotten import"},
		{"lists known", []string{"svg", "ascii"}, "(have ascii, svg)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetRegistry()
			for _, name := range tt.registered {
				Register(name, func() Backend { return &logBackend{} })
			}
			_, err := NewBackend("pdf")
			if err == nil {
				t.Fatal("expected an error for an unknown backend")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestRegisterPanics(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	tests := []struct {
		name string
		run  func()
	}{
		{"nil factory", func() { Register("nil", nil) }},
		{"duplicate", func() {
			Register("dup", func() Backend { return &logBackend{} })
			Register("dup", func() Backend { return &logBackend{} })
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected a panic")
				}
			}()
			tt.run()
		})
	}
}

func TestBackendsSorted(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	for _, name := range []string{"svg", "ascii", "pdf"} {
		Register(name, func() Backend { return &logBackend{} })
	}
	got := Backends()
	want := []string{"ascii", "pdf", "svg"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Backends() = %v, want %v", got, want)
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	Register("test", func() Backend { return &logBackend{} })

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := NewBackend("test"); err != nil {
				t.Error(err)
			}
			_ = Backends()
		}()
	}
	wg.Wait()
}
