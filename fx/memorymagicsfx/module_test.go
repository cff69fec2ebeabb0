package memorymagicsfx_test

import (
	"testing"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/discochess/magics"
	"github.com/discochess/magics/fx/memorymagicsfx"
	"github.com/discochess/magics/internal/artifact"
	"github.com/discochess/magics/internal/magictest"
	"github.com/discochess/magics/internal/store/memstore"
)

func TestModule(t *testing.T) {
	set := artifact.FromDescriptors(artifact.Manifest{
		Version: artifact.FormatVersion,
		RunID:   "fx",
		BuiltAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}, magictest.Descriptors())

	var (
		table *magics.Table
		st    *memstore.Store
	)
	app := fxtest.New(t,
		fx.Supply(zap.NewNop(), set),
		memorymagicsfx.Module,
		fx.Populate(&table, &st),
	)
	app.RequireStart()

	if table == nil {
		t.Fatal("table not provided")
	}
	if got := table.Manifest().RunID; got != "fx" {
		t.Errorf("Manifest().RunID = %q, want %q", got, "fx")
	}
	if n := st.Keys(); n != 2 {
		t.Errorf("store keys = %d, want 2 (set and manifest)", n)
	}

	e4, _ := magics.ParseSquare("e4")
	if got := table.QueenAttacks(e4, 0).PopCount(); got != 27 {
		t.Errorf("QueenAttacks(e4, 0) = %d squares, want 27", got)
	}

	app.RequireStop()
	if err := table.Close(); err == nil {
		t.Error("Close() after stop succeeded, want already closed")
	}
}
