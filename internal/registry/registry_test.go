package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-connect4/internal/core"
)

type stubGame struct{ id string }

func (g stubGame) ID() string { return g.id }
func (g stubGame) Title() string { return "Stub " + g.id }
func (g stubGame) Reset(core.RuntimeConfig) {}
func (g stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g stubGame) Render(*core.Screen) {}
func (g stubGame) State() core.Status { return core.Status{} }

func TestRegisterCreateList(t *testing.T) {
	Register("zz_stub", func() Game { return stubGame{id: "zz_stub"} })

	if !Exists("zz_stub") {
		t.Fatal("registered game should exist")
	}
	g, err := Create("zz_stub")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.ID() != "zz_stub" {
		t.Errorf("ID() = %q", g.ID())
	}

	found := false
	for _, info := range List() {
		if info.ID == "zz_stub" {
			found = info.Title == "Stub zz_stub"
		}
	}
	if !found {
		t.Error("List() should include the stub with its title")
	}
}

func TestCreateUnknown(t *testing.T) {
	_, err := Create("no_such_game")
	if !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Create error = %v, want ErrUnknownGame", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz_dup", func() Game { return stubGame{id: "zz_dup"} })
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("zz_dup", func() Game { return stubGame{id: "zz_dup"} })
}
